//go:build linux

package x11

import (
	"fmt"
	"image"

	"github.com/BurntSushi/xgb/xproto"
)

// Grab reads rect from the root window with GetImage (ZPixmap). The server
// returns 32 bits per pixel in BGRX order for 24 and 32 bit visuals.
//
// The result always covers all of rect. Parts of rect outside the screen stay
// transparent black, so image (0,0) is screen rect.Min even for windows
// partly off screen.
func (c *Connection) Grab(rect image.Rectangle) (*image.RGBA, error) {
	screen := c.XUtil.Screen()
	clipped := rect.Intersect(image.Rect(0, 0, int(screen.WidthInPixels), int(screen.HeightInPixels)))
	if clipped.Empty() {
		return nil, fmt.Errorf("capture region is off screen")
	}

	reply, err := xproto.GetImage(
		c.XUtil.Conn(),
		xproto.ImageFormatZPixmap,
		xproto.Drawable(c.Root),
		int16(clipped.Min.X), int16(clipped.Min.Y),
		uint16(clipped.Dx()), uint16(clipped.Dy()),
		0xffffffff,
	).Reply()
	if err != nil {
		return nil, fmt.Errorf("GetImage: %w", err)
	}
	if reply.Depth != 24 && reply.Depth != 32 {
		return nil, fmt.Errorf("unsupported screen depth %d", reply.Depth)
	}
	if len(reply.Data) < clipped.Dx()*clipped.Dy()*4 {
		return nil, fmt.Errorf("short image data: got %d bytes for %dx%d", len(reply.Data), clipped.Dx(), clipped.Dy())
	}

	img := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	blitBGRX(img, clipped.Min.Sub(rect.Min), reply.Data, clipped.Dx(), clipped.Dy())
	return img, nil
}

// blitBGRX converts a w x h BGRX block into dst with its top-left at off.
func blitBGRX(dst *image.RGBA, off image.Point, src []byte, w, h int) {
	for y := 0; y < h; y++ {
		row := src[y*w*4 : (y+1)*w*4]
		i := dst.PixOffset(off.X, off.Y+y)
		bgrxToRGBA(dst.Pix[i:i+w*4], row)
	}
}

func bgrxToRGBA(dst, src []byte) {
	for i := 0; i+3 < len(src); i += 4 {
		dst[i] = src[i+2]
		dst[i+1] = src[i+1]
		dst[i+2] = src[i]
		dst[i+3] = 0xff
	}
}
