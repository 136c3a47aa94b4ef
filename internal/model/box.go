package model

import "fmt"

// Box is an axis-aligned rectangle in the captured image's pixel space,
// origin at the capture's top-left corner.
// Coordinates are non-negative and X1<=X2, Y1<=Y2.
type Box struct {
	X1 int `yaml:"x1" json:"x1"`
	Y1 int `yaml:"y1" json:"y1"`
	X2 int `yaml:"x2" json:"x2"`
	Y2 int `yaml:"y2" json:"y2"`
}

// NewBox builds a Box from two opposite corners in any order, clamping
// negative coordinates to zero.
func NewBox(x1, y1, x2, y2 int) Box {
	return Box{
		X1: max(0, min(x1, x2)),
		Y1: max(0, min(y1, y2)),
		X2: max(0, max(x1, x2)),
		Y2: max(0, max(y1, y2)),
	}
}

// Center returns the integer midpoint of the box.
func (b Box) Center() (int, int) {
	return (b.X1 + b.X2) / 2, (b.Y1 + b.Y2) / 2
}

// Width returns X2-X1.
func (b Box) Width() int { return b.X2 - b.X1 }

// Height returns Y2-Y1.
func (b Box) Height() int { return b.Y2 - b.Y1 }

func (b Box) String() string {
	return fmt.Sprintf("(%d,%d,%d,%d)", b.X1, b.Y1, b.X2, b.Y2)
}
