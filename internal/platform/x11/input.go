//go:build linux

package x11

import (
	"fmt"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgb/xtest"
	"github.com/mj1618/novelclick/internal/platform"
)

// xButton maps a MouseButton to the X11 core button number.
func xButton(b platform.MouseButton) byte {
	switch b {
	case platform.MouseMiddle:
		return 2
	case platform.MouseRight:
		return 3
	default:
		return 1
	}
}

// ClickAt warps the pointer and sends press/release through XTEST.
func (c *Connection) ClickAt(x, y int, button platform.MouseButton) error {
	conn := c.XUtil.Conn()
	if err := xproto.WarpPointerChecked(conn, 0, c.Root, 0, 0, 0, 0, int16(x), int16(y)).Check(); err != nil {
		return fmt.Errorf("failed to move pointer: %w", err)
	}

	detail := xButton(button)
	if err := xtest.FakeInputChecked(conn, xproto.ButtonPress, detail, 0, c.Root, 0, 0, 0).Check(); err != nil {
		return fmt.Errorf("failed to press %s button: %w", button, err)
	}
	time.Sleep(platform.ClickHoldDelay)
	if err := xtest.FakeInputChecked(conn, xproto.ButtonRelease, detail, 0, c.Root, 0, 0, 0).Check(); err != nil {
		return fmt.Errorf("failed to release %s button: %w", button, err)
	}
	return nil
}
