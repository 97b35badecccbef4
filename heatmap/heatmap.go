// Package heatmap maps temperatures to false colors for thermal images.
//
// Colors come from a sigmoid model: red rises and blue falls around the
// middle of the range, while green is a band-pass that peaks in the middle
// and fades at both extremes. This yields a smooth cold (blue), neutral
// (green) and hot (red) palette instead of a linear gradient.
package heatmap

import (
	"math"

	"github.com/flavioheleno/thermcam/rgb565"
)

// Model holds the parameters of the sigmoid color model.
type Model struct {
	Gain        float64 // Steepness of every channel curve
	OffsetX     float64 // Shift of the red and blue curves
	OffsetGreen float64 // Half width of the green band
}

// Default is the palette used by the viewer.
var Default = Model{Gain: 10, OffsetX: 0.2, OffsetGreen: 0.6}

// Sigmoid returns a tanh-based logistic curve of v, in the open interval (0, 1).
func Sigmoid(v, gain, offset float64) float64 {
	return (math.Tanh((v+offset)*gain/2) + 1) / 2
}

// Colorize converts x, expected in [0, 1], to a packed RGB565 color.
// x is not clamped; callers normalize it upstream.
func (m Model) Colorize(x float64) rgb565.Color {
	// Move to [-1, 1)
	x = x*2 - 1

	r := Sigmoid(x, m.Gain, -m.OffsetX)
	b := 1 - Sigmoid(x, m.Gain, m.OffsetX)
	g := Sigmoid(x, m.Gain, m.OffsetGreen) + (1 - Sigmoid(x, m.Gain, -m.OffsetGreen)) - 1

	return rgb565.Pack(quantize(r, 5), quantize(g, 6), quantize(b, 5))
}

// Colorize converts x using the Default model.
func Colorize(x float64) rgb565.Color {
	return Default.Colorize(x)
}

// quantize scales a channel to 8 bits, truncating, and keeps the top bits.
func quantize(v float64, bits uint) uint8 {
	i := int(v * 255)
	if i < 0 {
		i = 0
	}
	return uint8(i >> (8 - bits))
}
