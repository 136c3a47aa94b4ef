package capture

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/mj1618/novelclick/internal/model"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	boxColor     = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	matchColor   = color.RGBA{R: 0, G: 200, B: 0, A: 255}
	textColor    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	outlineColor = color.RGBA{R: 0, G: 0, B: 0, A: 200}
)

// Annotate draws every candidate box on a copy of img with its index as
// "[i]". The box at index matched (if >= 0) is drawn in green.
// basicfont has no CJK glyphs, so labels carry the index only; the index
// lines up with the candidate list printed next to the image.
func Annotate(img image.Image, candidates []model.Candidate, matched int) *image.RGBA {
	rgba := ToRGBA(img)
	origin := rgba.Bounds().Min
	for i, c := range candidates {
		col := boxColor
		if i == matched {
			col = matchColor
		}
		b := c.Box
		drawRectangle(rgba, origin.X+b.X1, origin.Y+b.Y1, origin.X+b.X2, origin.Y+b.Y2, col)
		lx, ly := labelPoint(b)
		drawTextWithOutline(rgba, fmt.Sprintf("[%d]", i), origin.X+lx, origin.Y+ly, textColor, outlineColor)
	}
	return rgba
}

// labelPoint is where a box's index label is centered: inside the box when
// the box is tall enough, otherwise just above it (or below it at the top
// edge of the image).
func labelPoint(b model.Box) (int, int) {
	x := b.X1 + b.Width()/2
	if b.Height() >= glyphHeight+2 {
		return x, b.Y1 + b.Height()/2
	}
	if above := b.Y1 - glyphHeight/2 - 2; above >= glyphHeight/2 {
		return x, above
	}
	return x, b.Y2 + glyphHeight/2 + 2
}

// basicfont.Face7x13 cell size.
const (
	glyphWidth  = 7
	glyphHeight = 13
)

// ToRGBA copies img into a new *image.RGBA.
func ToRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)
	return rgba
}

// drawRectangle draws a 1px outline, clipped to the image.
func drawRectangle(img *image.RGBA, x1, y1, x2, y2 int, c color.Color) {
	r := image.Rect(x1, y1, x2+1, y2+1).Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		img.Set(x, r.Min.Y, c)
		img.Set(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.Set(r.Min.X, y, c)
		img.Set(r.Max.X-1, y, c)
	}
}

// drawTextWithOutline draws text centered on (x, y) with a dark outline.
func drawTextWithOutline(img *image.RGBA, text string, x, y int, fg, outline color.Color) {
	offsetX := x - len(text)*glyphWidth/2
	baseline := y + glyphHeight/2

	drawAt := func(dx, dy int, c color.Color) {
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(c),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(offsetX+dx, baseline+dy),
		}
		d.DrawString(text)
	}
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx != 0 || dy != 0 {
				drawAt(dx, dy, outline)
			}
		}
	}
	drawAt(0, 0, fg)
}
