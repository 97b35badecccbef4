package thermcam

import (
	"image"

	"github.com/flavioheleno/thermcam/rgb565"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Canvas draws filled cells and text labels onto an RGB565 image.
type Canvas struct {
	img  *rgb565.Image
	face font.Face
}

// NewCanvas returns a Canvas drawing onto img with a 7x13 bitmap font.
func NewCanvas(img *rgb565.Image) *Canvas {
	return &Canvas{img: img, face: basicfont.Face7x13}
}

// FillCell fills the w×h rectangle whose top-left corner is (x, y).
func (c *Canvas) FillCell(x, y, w, h int, col rgb565.Color) {
	c.img.Fill(image.Rect(x, y, x+w, y+h), col)
}

// TextSize returns the width and height in pixels of s.
func (c *Canvas) TextSize(s string) (w, h int) {
	return font.MeasureString(c.face, s).Ceil(), c.face.Metrics().Height.Ceil()
}

// DrawText draws s with its top-left corner at (x, y), over a box of bg.
func (c *Canvas) DrawText(x, y int, s string, fg, bg rgb565.Color) {
	w, h := c.TextSize(s)
	c.img.Fill(image.Rect(x, y, x+w, y+h), bg)

	d := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(fg),
		Face: c.face,
		Dot:  fixed.P(x, y+c.face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}
