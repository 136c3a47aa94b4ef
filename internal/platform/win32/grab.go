//go:build windows

package win32

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/go-vgo/robotgo"
)

// Grab captures rect with robotgo and copies it into an RGBA image.
func (s *System) Grab(rect image.Rectangle) (*image.RGBA, error) {
	if rect.Empty() {
		return nil, fmt.Errorf("capture region is empty")
	}
	bitmap := robotgo.CaptureScreen(rect.Min.X, rect.Min.Y, rect.Dx(), rect.Dy())
	if bitmap == nil {
		return nil, fmt.Errorf("screen capture failed for %v", rect)
	}
	defer robotgo.FreeBitmap(bitmap)

	src := robotgo.ToImage(bitmap)
	if src == nil {
		return nil, fmt.Errorf("screen capture returned no image for %v", rect)
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst, nil
}
