package model

import "image"

// Window is a top-level window as reported by the window listing.
type Window struct {
	Handle  uintptr `yaml:"handle"            json:"handle"`
	Title   string  `yaml:"title"             json:"title"`
	Bounds  [4]int  `yaml:"bounds"            json:"bounds"` // [left, top, right, bottom]
	Visible bool    `yaml:"visible,omitempty" json:"visible,omitempty"`
}

// WindowInfo identifies a located window and its rectangle in absolute
// screen coordinates. It is resolved again on every automation iteration.
type WindowInfo struct {
	Handle uintptr
	Title  string
	Left   int
	Top    int
	Right  int
	Bottom int
}

// Width returns max(0, Right-Left).
func (w WindowInfo) Width() int {
	return max(0, w.Right-w.Left)
}

// Height returns max(0, Bottom-Top).
func (w WindowInfo) Height() int {
	return max(0, w.Bottom-w.Top)
}

// ToScreen translates a point in the window's captured image to absolute
// screen coordinates.
func (w WindowInfo) ToScreen(x, y int) (int, int) {
	return w.Left + x, w.Top + y
}

// Rect returns the window rectangle in screen coordinates.
func (w WindowInfo) Rect() image.Rectangle {
	return image.Rect(w.Left, w.Top, w.Left+w.Width(), w.Top+w.Height())
}
