package capture

import (
	"fmt"
	"image"

	"github.com/corona10/goimagehash"
)

const (
	// HashSize is the width and height of the difference-hash grid. A 16x16
	// grid still sees a single button label on a 1280x720 window.
	HashSize = 16

	// DefaultChangeThreshold is the largest hash distance still treated as
	// the same screen.
	DefaultChangeThreshold = 0

	// DefaultMaxSkips is how many captures in a row may skip OCR before one
	// is sent regardless of the hash.
	DefaultMaxSkips = 5
)

// ChangeDetector remembers the perceptual hash of the last capture that
// produced no match, so an unchanged screen can skip OCR.
type ChangeDetector struct {
	Threshold int
	// MaxSkips bounds consecutive skips; 0 means unbounded.
	MaxSkips int

	last  *goimagehash.ExtImageHash
	skips int
}

// NewChangeDetector returns a detector with the default threshold and skip cap.
func NewChangeDetector() *ChangeDetector {
	return &ChangeDetector{Threshold: DefaultChangeThreshold, MaxSkips: DefaultMaxSkips}
}

// Hash computes the HashSize x HashSize difference hash of img.
func (d *ChangeDetector) Hash(img image.Image) (*goimagehash.ExtImageHash, error) {
	h, err := goimagehash.ExtDifferenceHash(img, HashSize, HashSize)
	if err != nil {
		return nil, fmt.Errorf("hashing capture: %w", err)
	}
	return h, nil
}

// Unchanged reports whether h is within Threshold of the remembered hash.
func (d *ChangeDetector) Unchanged(h *goimagehash.ExtImageHash) bool {
	if d.last == nil || h == nil {
		return false
	}
	dist, err := d.last.Distance(h)
	if err != nil {
		return false
	}
	return dist <= d.Threshold
}

// ShouldSkip is Unchanged with the MaxSkips cap applied. It counts the skips
// it grants and resets the count whenever it lets a capture through.
func (d *ChangeDetector) ShouldSkip(h *goimagehash.ExtImageHash) bool {
	if !d.Unchanged(h) || (d.MaxSkips > 0 && d.skips >= d.MaxSkips) {
		d.skips = 0
		return false
	}
	d.skips++
	return true
}

// Remember stores h as the reference for later captures.
func (d *ChangeDetector) Remember(h *goimagehash.ExtImageHash) {
	d.last = h
}

// Reset forgets the reference hash.
func (d *ChangeDetector) Reset() {
	d.last = nil
	d.skips = 0
}
