//go:build linux

package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/mj1618/novelclick/internal/model"
	"github.com/mj1618/novelclick/internal/platform"
)

// FindByTitle returns the first visible EWMH client whose title contains
// partial (case-sensitive).
func (c *Connection) FindByTitle(partial string) (model.WindowInfo, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return model.WindowInfo{}, fmt.Errorf("failed to get client list: %w", err)
	}
	for _, win := range clients {
		if !c.isVisible(win) {
			continue
		}
		title := c.windowTitle(win)
		if strings.Contains(title, partial) {
			return model.WindowInfo{Handle: uintptr(win), Title: title}, nil
		}
	}
	return model.WindowInfo{}, fmt.Errorf("%w: no window title contains %q", platform.ErrWindowNotFound, partial)
}

// BringToForeground activates the window with _NET_ACTIVE_WINDOW and raises
// it to the top of the stack.
func (c *Connection) BringToForeground(w model.WindowInfo) error {
	win := xproto.Window(w.Handle)
	atom, err := c.internAtom("_NET_ACTIVE_WINDOW")
	if err != nil {
		return err
	}

	const sourceIndication = 2 // pager/direct action
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{sourceIndication, 0, 0, 0, 0}),
	}
	if err := xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check(); err != nil {
		return fmt.Errorf("failed to activate window: %w", err)
	}

	return xproto.ConfigureWindowChecked(
		c.XUtil.Conn(),
		win,
		xproto.ConfigWindowStackMode,
		[]uint32{xproto.StackModeAbove},
	).Check()
}

// GetRect fills in the window's rectangle in root coordinates.
func (c *Connection) GetRect(w model.WindowInfo) (model.WindowInfo, error) {
	win := xproto.Window(w.Handle)
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(win)).Reply()
	if err != nil {
		return w, fmt.Errorf("%w: geometry of window 0x%x: %v", platform.ErrWindowNotFound, w.Handle, err)
	}
	translate, err := xproto.TranslateCoordinates(c.XUtil.Conn(), win, c.Root, 0, 0).Reply()
	if err != nil {
		return w, fmt.Errorf("%w: position of window 0x%x: %v", platform.ErrWindowNotFound, w.Handle, err)
	}
	w.Left = int(translate.DstX)
	w.Top = int(translate.DstY)
	w.Right = w.Left + int(geom.Width)
	w.Bottom = w.Top + int(geom.Height)
	return w, nil
}

// ListWindows lists EWMH clients.
func (c *Connection) ListWindows(opts platform.ListOptions) ([]model.Window, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to get client list: %w", err)
	}
	var out []model.Window
	for _, win := range clients {
		visible := c.isVisible(win)
		if !visible && !opts.All {
			continue
		}
		title := c.windowTitle(win)
		if !opts.MatchesTitle(title) {
			continue
		}
		info, err := c.GetRect(model.WindowInfo{Handle: uintptr(win), Title: title})
		if err != nil {
			continue
		}
		out = append(out, model.Window{
			Handle:  info.Handle,
			Title:   title,
			Bounds:  [4]int{info.Left, info.Top, info.Right, info.Bottom},
			Visible: visible,
		})
	}
	return out, nil
}

// isVisible reports whether the window is mapped and not hidden by the WM.
func (c *Connection) isVisible(win xproto.Window) bool {
	attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), win).Reply()
	if err != nil || attrs.MapState != xproto.MapStateViewable {
		return false
	}
	states, err := ewmh.WmStateGet(c.XUtil, win)
	if err != nil {
		return true
	}
	for _, s := range states {
		if s == "_NET_WM_STATE_HIDDEN" {
			return false
		}
	}
	return true
}

func (c *Connection) windowTitle(win xproto.Window) string {
	if title, err := ewmh.WmNameGet(c.XUtil, win); err == nil && strings.TrimSpace(title) != "" {
		return title
	}
	if title, err := icccm.WmNameGet(c.XUtil, win); err == nil {
		return title
	}
	return ""
}
