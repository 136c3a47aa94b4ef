package platform

import (
	"errors"
	"image"
	"time"

	"github.com/mj1618/novelclick/internal/model"
)

// ClickHoldDelay is the pause between button down and button up.
const ClickHoldDelay = 30 * time.Millisecond

// ErrWindowNotFound is returned when no visible window title contains the
// requested text, or its rectangle cannot be read.
var ErrWindowNotFound = errors.New("window not found")

// WindowSystem locates top-level windows and sends synthetic input.
type WindowSystem interface {
	// FindByTitle returns the first visible top-level window whose title
	// contains partial. Rect fields are not filled; see GetRect.
	FindByTitle(partial string) (model.WindowInfo, error)

	// BringToForeground restores and raises the window. Best effort.
	BringToForeground(w model.WindowInfo) error

	// GetRect returns w with its current screen rectangle.
	GetRect(w model.WindowInfo) (model.WindowInfo, error)

	// ClickAt moves the pointer to the absolute screen point and clicks,
	// holding the button for ClickHoldDelay.
	ClickAt(x, y int, button MouseButton) error

	// ListWindows returns top-level windows, optionally filtered.
	ListWindows(opts ListOptions) ([]model.Window, error)
}

// Grabber captures a rectangle of the screen.
type Grabber interface {
	// Grab returns the pixels of rect in absolute screen coordinates.
	// The returned image's bounds start at (0,0).
	Grab(rect image.Rectangle) (*image.RGBA, error)
}
