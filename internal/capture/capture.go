// Package capture grabs window regions to PNG files and provides the
// image helpers used around OCR: change detection and box annotation.
package capture

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mj1618/novelclick/internal/model"
	"github.com/mj1618/novelclick/internal/platform"
)

// Shot is one saved capture.
type Shot struct {
	Path  string
	Image *image.RGBA
	// Region is the captured screen rectangle.
	Region image.Rectangle
}

// Capturer grabs screen regions and writes them under Dir.
type Capturer struct {
	Grabber platform.Grabber
	Dir     string
	// KeepHeight, when > 0, keeps only the top KeepHeight pixels.
	KeepHeight int
	Now        func() time.Time
}

// New returns a Capturer writing to baseDir/capture.
func New(g platform.Grabber, baseDir string, keepHeight int) *Capturer {
	return &Capturer{
		Grabber:    g,
		Dir:        filepath.Join(baseDir, "capture"),
		KeepHeight: keepHeight,
		Now:        time.Now,
	}
}

// KeepRegion returns rect limited to its top keep pixels. The result is at
// least one pixel tall; keep <= 0 leaves rect unchanged.
func KeepRegion(rect image.Rectangle, keep int) image.Rectangle {
	if keep <= 0 {
		return rect
	}
	h := max(1, min(rect.Dy(), keep))
	rect.Max.Y = rect.Min.Y + h
	return rect
}

// Capture grabs rect (after the keep-height cut) and saves it as
// <Dir>/YYYYMMDD-HHMMSS.png.
func (c *Capturer) Capture(rect image.Rectangle) (*Shot, error) {
	region := KeepRegion(rect, c.KeepHeight)
	if region.Dx() <= 0 || region.Dy() <= 0 {
		return nil, fmt.Errorf("window has an empty rectangle %v", rect)
	}
	img, err := c.Grabber.Grab(region)
	if err != nil {
		return nil, fmt.Errorf("grabbing %v: %w", region, err)
	}

	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating capture dir: %w", err)
	}
	path := filepath.Join(c.Dir, model.FileTimestamp(now())+".png")
	if err := SavePNG(path, img); err != nil {
		return nil, err
	}
	return &Shot{Path: path, Image: img, Region: region}, nil
}

// SavePNG encodes img to path.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}

// AnnotatedPath returns the sibling path used for the annotated copy of a
// capture: foo.png -> foo-annotated.png.
func AnnotatedPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "-annotated" + ext
}
