//go:build windows

package win32

import (
	"fmt"
	"time"

	"github.com/mj1618/novelclick/internal/platform"
)

func buttonFlags(b platform.MouseButton) (down, up uintptr) {
	switch b {
	case platform.MouseRight:
		return mouseeventfRightDown, mouseeventfRightUp
	case platform.MouseMiddle:
		return mouseeventfMiddleDown, mouseeventfMiddleUp
	default:
		return mouseeventfLeftDown, mouseeventfLeftUp
	}
}

// ClickAt moves the cursor and sends button down, a short hold, then up.
func (s *System) ClickAt(x, y int, button platform.MouseButton) error {
	if ret, _, err := procSetCursorPos.Call(uintptr(int32(x)), uintptr(int32(y))); ret == 0 {
		return fmt.Errorf("SetCursorPos(%d,%d): %v", x, y, errnoOrNil(err))
	}
	down, up := buttonFlags(button)
	procMouseEvent.Call(down, 0, 0, 0, 0)
	time.Sleep(platform.ClickHoldDelay)
	procMouseEvent.Call(up, 0, 0, 0, 0)
	return nil
}
