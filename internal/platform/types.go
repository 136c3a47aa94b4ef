package platform

import (
	"fmt"
	"image"
	"strconv"
	"strings"
)

// MouseButton represents a mouse button.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
)

func (b MouseButton) String() string {
	switch b {
	case MouseRight:
		return "right"
	case MouseMiddle:
		return "middle"
	default:
		return "left"
	}
}

// ParseMouseButton converts a string flag value to MouseButton.
func ParseMouseButton(s string) (MouseButton, error) {
	switch strings.ToLower(s) {
	case "left", "":
		return MouseLeft, nil
	case "right":
		return MouseRight, nil
	case "middle":
		return MouseMiddle, nil
	default:
		return MouseLeft, fmt.Errorf("unknown mouse button: %q (expected left, right, or middle)", s)
	}
}

// ParseRegion parses a "x,y,w,h" string into a screen rectangle.
func ParseRegion(s string) (image.Rectangle, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return image.Rectangle{}, fmt.Errorf("invalid region %q: expected x,y,w,h", s)
	}
	vals := make([]int, 4)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return image.Rectangle{}, fmt.Errorf("invalid region %q: %w", s, err)
		}
		vals[i] = v
	}
	if vals[2] <= 0 || vals[3] <= 0 {
		return image.Rectangle{}, fmt.Errorf("invalid region %q: width and height must be positive", s)
	}
	return image.Rect(vals[0], vals[1], vals[0]+vals[2], vals[1]+vals[3]), nil
}

// ListOptions controls window listing.
type ListOptions struct {
	Title string // Filter by title substring
	All   bool   // Include hidden windows
}

// MatchesTitle reports whether title passes the listing filter.
func (o ListOptions) MatchesTitle(title string) bool {
	return o.Title == "" || strings.Contains(title, o.Title)
}
