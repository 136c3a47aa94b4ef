//go:build windows

package win32

import (
	"fmt"
	"strings"
	"sync"
	"syscall"
	"unsafe"

	"github.com/mj1618/novelclick/internal/model"
	"github.com/mj1618/novelclick/internal/platform"
	"golang.org/x/sys/windows"
)

// System implements platform.WindowSystem and platform.Grabber.
type System struct{}

// NewSystem marks the process DPI aware so window rectangles and cursor
// positions share the physical pixel space of captures.
func NewSystem() *System {
	if err := procSetProcessDPIAware.Find(); err == nil {
		procSetProcessDPIAware.Call()
	}
	return &System{}
}

type topLevel struct {
	hwnd    windows.HWND
	title   string
	visible bool
}

// Callbacks created by NewCallback are never freed, so a single one is shared
// and guarded by enumMu.
var (
	enumMu       sync.Mutex
	enumResult   []topLevel
	enumCallback = windows.NewCallback(func(hwnd, _ uintptr) uintptr {
		visible, _, _ := procIsWindowVisible.Call(hwnd)
		enumResult = append(enumResult, topLevel{
			hwnd:    windows.HWND(hwnd),
			title:   windowText(windows.HWND(hwnd)),
			visible: visible != 0,
		})
		return 1
	})
)

// enumTopLevel returns every top-level window in Z order.
func enumTopLevel() ([]topLevel, error) {
	enumMu.Lock()
	defer enumMu.Unlock()

	enumResult = nil
	ret, _, err := procEnumWindows.Call(enumCallback, 0)
	if ret == 0 {
		return nil, fmt.Errorf("EnumWindows: %v", errnoOrNil(err))
	}
	out := enumResult
	enumResult = nil
	return out, nil
}

func windowText(hwnd windows.HWND) string {
	n, _, _ := procGetWindowTextLengthW.Call(uintptr(hwnd))
	if n == 0 {
		return ""
	}
	buf := make([]uint16, n+1)
	procGetWindowTextW.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return windows.UTF16ToString(buf)
}

// FindByTitle returns the first visible top-level window whose title
// contains partial (case-sensitive).
func (s *System) FindByTitle(partial string) (model.WindowInfo, error) {
	wins, err := enumTopLevel()
	if err != nil {
		return model.WindowInfo{}, err
	}
	for _, w := range wins {
		if w.visible && strings.Contains(w.title, partial) {
			return model.WindowInfo{Handle: uintptr(w.hwnd), Title: w.title}, nil
		}
	}
	return model.WindowInfo{}, fmt.Errorf("%w: no window title contains %q", platform.ErrWindowNotFound, partial)
}

// BringToForeground restores a minimized window and asks for foreground.
// Windows may refuse foreground activation; that is not an error.
func (s *System) BringToForeground(w model.WindowInfo) error {
	if ok, _, _ := procIsWindow.Call(w.Handle); ok == 0 {
		return fmt.Errorf("%w: handle 0x%x is no longer valid", platform.ErrWindowNotFound, w.Handle)
	}
	procShowWindow.Call(w.Handle, swRestore)
	procSetForegroundWindow.Call(w.Handle)
	return nil
}

// GetRect fills in the window rectangle in screen coordinates.
func (s *System) GetRect(w model.WindowInfo) (model.WindowInfo, error) {
	var r rect
	ret, _, err := procGetWindowRect.Call(w.Handle, uintptr(unsafe.Pointer(&r)))
	if ret == 0 {
		return w, fmt.Errorf("%w: GetWindowRect: %v", platform.ErrWindowNotFound, err)
	}
	w.Left, w.Top, w.Right, w.Bottom = int(r.Left), int(r.Top), int(r.Right), int(r.Bottom)
	return w, nil
}

// ListWindows lists titled top-level windows.
func (s *System) ListWindows(opts platform.ListOptions) ([]model.Window, error) {
	wins, err := enumTopLevel()
	if err != nil {
		return nil, err
	}
	var out []model.Window
	for _, w := range wins {
		if w.title == "" || (!w.visible && !opts.All) || !opts.MatchesTitle(w.title) {
			continue
		}
		info, err := s.GetRect(model.WindowInfo{Handle: uintptr(w.hwnd), Title: w.title})
		if err != nil {
			continue
		}
		out = append(out, model.Window{
			Handle:  info.Handle,
			Title:   w.title,
			Bounds:  [4]int{info.Left, info.Top, info.Right, info.Bottom},
			Visible: w.visible,
		})
	}
	return out, nil
}

// errnoOrNil drops the "operation completed successfully" errno that
// LazyProc.Call returns alongside a success value.
func errnoOrNil(err error) error {
	if errno, ok := err.(syscall.Errno); ok && errno == 0 {
		return nil
	}
	return err
}
