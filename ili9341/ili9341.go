// Package ili9341 controls an ILI9341 family TFT display via SPI.
//
// The ILI9341 and ILI9342C are 18-bit color controllers driven here in 16-bit
// RGB565 mode. Common panels are 240x320 (ILI9341) and 320x240 (ILI9342C, as
// found on the M5Stack Core).
//
// See the examples for how to use this package.
package ili9341

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"github.com/flavioheleno/thermcam/rgb565"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// Command set.
const (
	cmdSWRESET = 0x01
	cmdSLPIN   = 0x10
	cmdSLPOUT  = 0x11
	cmdINVOFF  = 0x20
	cmdINVON   = 0x21
	cmdDISPOFF = 0x28
	cmdDISPON  = 0x29
	cmdCASET   = 0x2A
	cmdRASET   = 0x2B
	cmdRAMWR   = 0x2C
	cmdMADCTL  = 0x36
	cmdCOLMOD  = 0x3A
)

// MADCTL bits.
const (
	madctlMY  = 0x80
	madctlMX  = 0x40
	madctlBGR = 0x08
)

// defaultMaxTx is used when the SPI connection does not report its limit.
const defaultMaxTx = 4096

var (
	errHalted     = errors.New("ili9341: halted")
	errBufferSize = errors.New("ili9341: invalid buffer size")
)

// Opts is the configuration for the ILI9341 display.
type Opts struct {
	// Display dimensions in pixels
	W int // Width (default: 320, must be ≤320)
	H int // Height (default: 240, must be ≤320)

	Rotated bool // 180° rotation
	BGR     bool // Panel wired with blue and red swapped
	Invert  bool // Panel needs inverted colors (ILI9342C on M5Stack)

	// Optional hardware reset pin
	RST gpio.PinIO // Reset pin (optional, nil if not used)
}

// Dev is the device handle for the ILI9341 display.
type Dev struct {
	// Communication
	c     conn.Conn   // SPI connection
	dc    gpio.PinOut // Data/Command pin
	rst   gpio.PinIO  // Reset pin (optional)
	maxTx int         // Largest single transfer

	rect image.Rectangle

	// Pixel buffers
	buffer []byte        // Frame currently on the panel
	next   *rgb565.Image // For lazy double buffering

	halted bool
}

// NewSPI creates a new ILI9341 device connected via SPI.
//
// The SPI port is configured for 40MHz, Mode0, 8-bit transfers.
// The dc (Data/Command) GPIO pin must be provided and configured as an output.
//
// opts can be nil to use defaults (320x240 display).
func NewSPI(p spi.Port, dc gpio.PinOut, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &Opts{W: 320, H: 240}
	}
	if opts.W <= 0 || opts.W > 320 {
		return nil, errors.New("ili9341: width must be between 1 and 320")
	}
	if opts.H <= 0 || opts.H > 320 {
		return nil, errors.New("ili9341: height must be between 1 and 320")
	}

	c, err := p.Connect(40*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, err
	}

	d := &Dev{
		c:      c,
		dc:     dc,
		rst:    opts.RST,
		maxTx:  defaultMaxTx,
		rect:   image.Rect(0, 0, opts.W, opts.H),
		buffer: make([]byte, opts.W*opts.H*2),
	}
	if l, ok := c.(conn.Limits); ok && l.MaxTxSize() > 0 {
		d.maxTx = l.MaxTxSize()
	}

	if err := d.init(opts); err != nil {
		return nil, err
	}
	return d, nil
}

// init sends the initialization sequence to the display.
func (d *Dev) init(opts *Opts) error {
	if d.rst != nil {
		if err := d.rst.Out(gpio.Low); err != nil {
			return fmt.Errorf("ili9341: failed to pull RST low: %w", err)
		}
		time.Sleep(10 * time.Millisecond)

		if err := d.rst.Out(gpio.High); err != nil {
			return fmt.Errorf("ili9341: failed to pull RST high: %w", err)
		}
		time.Sleep(120 * time.Millisecond)
	}

	madctl := byte(0)
	if opts.Rotated {
		madctl |= madctlMX | madctlMY
	}
	if opts.BGR {
		madctl |= madctlBGR
	}
	inversion := byte(cmdINVOFF)
	if opts.Invert {
		inversion = cmdINVON
	}

	seq := []struct {
		cmd    byte
		params []byte
		wait   time.Duration
	}{
		{cmdSWRESET, nil, 5 * time.Millisecond},
		{cmdSLPOUT, nil, 120 * time.Millisecond},
		{cmdCOLMOD, []byte{0x55}, 0}, // 16 bits per pixel
		{cmdMADCTL, []byte{madctl}, 0},
		{inversion, nil, 0},
	}
	for _, s := range seq {
		if err := d.sendCommand(s.cmd, s.params...); err != nil {
			return err
		}
		if s.wait > 0 {
			time.Sleep(s.wait)
		}
	}

	// Clear display RAM
	if err := d.writeRect(d.rect, d.buffer); err != nil {
		return err
	}

	return d.sendCommand(cmdDISPON)
}

// sendCommand sends a command byte followed by its parameters.
func (d *Dev) sendCommand(cmd byte, params ...byte) error {
	if err := d.dc.Out(gpio.Low); err != nil {
		return err
	}
	if err := d.c.Tx([]byte{cmd}, nil); err != nil {
		return err
	}
	if len(params) == 0 {
		return nil
	}
	return d.sendData(params)
}

// sendData sends data bytes, split to the connection's transfer limit.
func (d *Dev) sendData(data []byte) error {
	if err := d.dc.Out(gpio.High); err != nil {
		return err
	}
	for len(data) > 0 {
		n := len(data)
		if n > d.maxTx {
			n = d.maxTx
		}
		if err := d.c.Tx(data[:n], nil); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// writeRect writes pixel data to a rectangular region of the display.
func (d *Dev) writeRect(r image.Rectangle, pixels []byte) error {
	x0, x1 := r.Min.X, r.Max.X-1
	y0, y1 := r.Min.Y, r.Max.Y-1

	if err := d.sendCommand(cmdCASET, byte(x0>>8), byte(x0), byte(x1>>8), byte(x1)); err != nil {
		return err
	}
	if err := d.sendCommand(cmdRASET, byte(y0>>8), byte(y0), byte(y1>>8), byte(y1)); err != nil {
		return err
	}
	if err := d.sendCommand(cmdRAMWR); err != nil {
		return err
	}
	return d.sendData(pixels)
}

// ColorModel returns the color model of the display.
func (d *Dev) ColorModel() color.Model {
	return rgb565.Model
}

// Bounds returns the image bounds of the display.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Write writes raw RGB565 pixel data, high byte first, to the whole display.
// The data must be exactly d.rect.Dx() * d.rect.Dy() * 2 bytes.
func (d *Dev) Write(pixels []byte) (int, error) {
	if d.halted {
		return 0, errHalted
	}
	if len(pixels) != len(d.buffer) {
		return 0, errBufferSize
	}
	if err := d.writeRect(d.rect, pixels); err != nil {
		return 0, err
	}
	copy(d.buffer, pixels)
	if d.next != nil {
		copy(d.next.Pix, pixels)
	}
	return len(pixels), nil
}

// Draw draws an image onto the display with differential update optimization.
// The dst rectangle specifies the destination region on the display.
// The src image is positioned at src point sp within the destination.
func (d *Dev) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	if d.halted {
		return errHalted
	}

	dst = dst.Intersect(d.rect)
	if dst.Empty() {
		return nil
	}

	// Fast path: source is already a full-size RGB565 frame
	if img, ok := src.(*rgb565.Image); ok {
		if dst == d.rect && sp == (image.Point{}) && img.Rect == d.rect {
			_, err := d.Write(img.Pix)
			return err
		}
	}

	if d.next == nil {
		d.next = rgb565.NewImage(d.rect)
		copy(d.next.Pix, d.buffer)
	}

	draw.Draw(d.next, dst, src, sp, draw.Src)

	changed := d.calculateDiff()
	if changed.Empty() {
		return nil
	}

	if err := d.writeRect(changed, d.extractRegion(changed)); err != nil {
		return err
	}
	copy(d.buffer, d.next.Pix)
	return nil
}

// calculateDiff compares the displayed and next buffers and returns the
// smallest rectangle holding every changed pixel, or an empty rectangle.
func (d *Dev) calculateDiff() image.Rectangle {
	width := d.rect.Dx()
	height := d.rect.Dy()
	stride := width * 2

	minCol, maxCol := width, -1
	minRow, maxRow := height, -1

	for y := 0; y < height; y++ {
		row := y * stride
		for x := 0; x < width; x++ {
			i := row + x*2
			if d.buffer[i] == d.next.Pix[i] && d.buffer[i+1] == d.next.Pix[i+1] {
				continue
			}
			if x < minCol {
				minCol = x
			}
			if x > maxCol {
				maxCol = x
			}
			if y < minRow {
				minRow = y
			}
			maxRow = y
		}
	}

	if maxCol < 0 {
		return image.Rectangle{}
	}
	return image.Rect(minCol, minRow, maxCol+1, maxRow+1)
}

// extractRegion extracts the pixel data for a rectangular region.
func (d *Dev) extractRegion(r image.Rectangle) []byte {
	stride := d.rect.Dx() * 2
	rowBytes := r.Dx() * 2

	result := make([]byte, 0, rowBytes*r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		start := y*stride + r.Min.X*2
		result = append(result, d.next.Pix[start:start+rowBytes]...)
	}
	return result
}

// Invert inverts the display colors.
func (d *Dev) Invert(invert bool) error {
	if d.halted {
		return errHalted
	}
	cmd := byte(cmdINVOFF)
	if invert {
		cmd = cmdINVON
	}
	return d.sendCommand(cmd)
}

// Halt turns the display off and puts the controller to sleep.
// After calling Halt, the display will not respond to further commands
// until the device is re-initialized.
func (d *Dev) Halt() error {
	d.halted = true
	if err := d.sendCommand(cmdDISPOFF); err != nil {
		return err
	}
	return d.sendCommand(cmdSLPIN)
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("ili9341.Dev{%dx%d}", d.rect.Dx(), d.rect.Dy())
}
