//go:build linux

package x11

import "github.com/mj1618/novelclick/internal/platform"

var (
	_ platform.WindowSystem = (*Connection)(nil)
	_ platform.Grabber      = (*Connection)(nil)
)

func init() {
	platform.NewProviderFunc = func() (*platform.Provider, error) {
		conn, err := NewConnection()
		if err != nil {
			return nil, err
		}
		return &platform.Provider{
			Windows: conn,
			Grabber: conn,
		}, nil
	}
}
