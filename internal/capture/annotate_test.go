package capture

import (
	"image"
	"image/color"
	"testing"

	"github.com/mj1618/novelclick/internal/model"
)

func TestAnnotate_DrawsBoxes(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 200, 100))
	cands := []model.Candidate{
		{Text: "はじめる", Box: model.NewBox(10, 10, 90, 40)},
		{Text: "続ける", Box: model.NewBox(100, 50, 190, 90)},
	}

	out := Annotate(src, cands, 1)

	if got := out.RGBAAt(10, 10); got != boxColor {
		t.Errorf("corner of first box: got %v, want %v", got, boxColor)
	}
	if got := out.RGBAAt(190, 90); got != matchColor {
		t.Errorf("corner of matched box: got %v, want %v", got, matchColor)
	}
	if got := src.RGBAAt(10, 10); got != (color.RGBA{}) {
		t.Errorf("source image was modified: %v", got)
	}
}

func TestAnnotate_ClipsOutOfBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 20, 20))
	cands := []model.Candidate{{Text: "x", Box: model.NewBox(5, 5, 500, 500)}}
	out := Annotate(src, cands, -1)
	if out.Bounds() != src.Bounds() {
		t.Errorf("bounds changed: %v", out.Bounds())
	}
	if got := out.RGBAAt(19, 19); got != boxColor {
		t.Errorf("clipped corner: got %v, want %v", got, boxColor)
	}
}

func TestLabelPoint(t *testing.T) {
	tests := []struct {
		name  string
		box   model.Box
		wantX int
		wantY int
	}{
		{"tall box centers label", model.NewBox(10, 10, 90, 40), 50, 25},
		{"short box puts label above", model.NewBox(20, 100, 60, 108), 40, 92},
		{"short box at top puts label below", model.NewBox(0, 2, 30, 8), 15, 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := labelPoint(tt.box)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("labelPoint(%v) = (%d,%d), want (%d,%d)", tt.box, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}
