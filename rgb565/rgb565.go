package rgb565

import (
	"image"
	"image/color"
)

// Color is a packed 16-bit color: red in bits 15-11, green in bits 10-5 and
// blue in bits 4-0.
type Color uint16

// Pack builds a Color from channel values already reduced to their bit depth.
// Bits above each channel's width are discarded.
func Pack(r, g, b uint8) Color {
	return Color(uint16(r&0x1F)<<11 | uint16(g&0x3F)<<5 | uint16(b&0x1F))
}

// R returns the 5-bit red channel.
func (c Color) R() uint8 { return uint8(c>>11) & 0x1F }

// G returns the 6-bit green channel.
func (c Color) G() uint8 { return uint8(c>>5) & 0x3F }

// B returns the 5-bit blue channel.
func (c Color) B() uint8 { return uint8(c) & 0x1F }

// RGBA converts the Color to standard RGBA.
// Each channel is widened to 8 bits by replicating its high bits into the
// low bits, then scaled to 16 bits.
func (c Color) RGBA() (r, g, b, a uint32) {
	r8 := uint32(c.R())<<3 | uint32(c.R())>>2
	g8 := uint32(c.G())<<2 | uint32(c.G())>>4
	b8 := uint32(c.B())<<3 | uint32(c.B())>>2
	return r8 * 0x101, g8 * 0x101, b8 * 0x101, 0xFFFF
}

// toRGB565 converts any color.Color to Color.
func toRGB565(c color.Color) color.Color {
	if p, ok := c.(Color); ok {
		return p
	}
	r, g, b, _ := c.RGBA()
	// RGBA returns 16-bit values, keep the top bits of each channel
	return Pack(uint8(r>>11), uint8(g>>10), uint8(b>>11))
}

// Model converts colors to Color.
var Model = color.ModelFunc(toRGB565)

// Image is an RGB565 image stored in controller byte order.
// Each pixel takes 2 bytes: high byte first, then low byte.
type Image struct {
	Pix    []byte          // Pixel data (2 bytes per pixel)
	Stride int             // Bytes per row
	Rect   image.Rectangle // Image bounds
}

// NewImage creates a new Image with the specified bounds.
func NewImage(r image.Rectangle) *Image {
	w, h := r.Dx(), r.Dy()
	if w < 0 || h < 0 {
		return &Image{Rect: r}
	}
	stride := w * 2
	return &Image{
		Pix:    make([]byte, stride*h),
		Stride: stride,
		Rect:   r,
	}
}

// ColorModel returns the color model of the image.
func (p *Image) ColorModel() color.Model {
	return Model
}

// Bounds returns the image bounds.
func (p *Image) Bounds() image.Rectangle {
	return p.Rect
}

// At returns the color of the pixel at (x, y).
// It implements the image.Image interface.
func (p *Image) At(x, y int) color.Color {
	return p.RGB565At(x, y)
}

// RGB565At returns the Color of the pixel at (x, y).
func (p *Image) RGB565At(x, y int) Color {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return 0
	}
	i := p.PixOffset(x, y)
	return Color(uint16(p.Pix[i])<<8 | uint16(p.Pix[i+1]))
}

// Set sets the color of the pixel at (x, y).
func (p *Image) Set(x, y int, c color.Color) {
	p.SetRGB565(x, y, Model.Convert(c).(Color))
}

// SetRGB565 sets the Color of the pixel at (x, y).
// This is faster than Set() as it doesn't require color conversion.
func (p *Image) SetRGB565(x, y int, c Color) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	i := p.PixOffset(x, y)
	p.Pix[i] = byte(c >> 8)
	p.Pix[i+1] = byte(c)
}

// Fill sets every pixel of r, clipped to the image bounds, to c.
func (p *Image) Fill(r image.Rectangle, c Color) {
	r = r.Intersect(p.Rect)
	if r.Empty() {
		return
	}
	hi, lo := byte(c>>8), byte(c)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := p.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			p.Pix[i] = hi
			p.Pix[i+1] = lo
			i += 2
		}
	}
}

// PixOffset returns the index of the first byte of the pixel at (x, y).
func (p *Image) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*2
}
