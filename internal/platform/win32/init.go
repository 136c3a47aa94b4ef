//go:build windows

package win32

import "github.com/mj1618/novelclick/internal/platform"

var (
	_ platform.WindowSystem = (*System)(nil)
	_ platform.Grabber      = (*System)(nil)
)

func init() {
	platform.NewProviderFunc = func() (*platform.Provider, error) {
		sys := NewSystem()
		return &platform.Provider{
			Windows: sys,
			Grabber: sys,
		}, nil
	}
}
