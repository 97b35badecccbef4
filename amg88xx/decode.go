package amg88xx

import "errors"

// Sensor geometry.
const (
	Width     = 8
	Height    = 8
	Pixels    = Width * Height
	FrameSize = Pixels * 2 // Raw bytes per frame
)

// ErrShortFrame is returned when a raw frame does not hold exactly FrameSize bytes.
var ErrShortFrame = errors.New("amg88xx: raw frame must be 128 bytes")

// Frame holds one reading per sensing element, in °C, in sensor order.
type Frame [Pixels]float64

// MinMax returns the lowest and highest temperature in the frame.
func (f *Frame) MinMax() (lo, hi float64) {
	lo, hi = f[0], f[0]
	for _, t := range f[1:] {
		if t < lo {
			lo = t
		}
		if t > hi {
			hi = t
		}
	}
	return lo, hi
}

// DecodeWord converts a raw pixel word to °C at 0.25 °C per LSB.
//
// Words above 0x200 are negative and decode as w-0xFFF; 0x200 itself is
// 128 °C. Every 16-bit input decodes.
func DecodeWord(w uint16) float64 {
	if w > 0x200 {
		return (float64(w) - 0xFFF) * 0.25
	}
	return float64(w) * 0.25
}

// DecodeFrame converts FrameSize raw bytes, two per element with the low byte
// first, into a Frame.
func DecodeFrame(raw []byte) (Frame, error) {
	var f Frame
	if len(raw) != FrameSize {
		return f, ErrShortFrame
	}
	for i := range f {
		f[i] = DecodeWord(uint16(raw[2*i+1])<<8 | uint16(raw[2*i]))
	}
	return f, nil
}
