// Package amg88xx reads a Panasonic AMG88xx (Grid-EYE) 8x8 infrared array sensor via I²C.
//
// See the examples for how to use this package.
package amg88xx

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// Register map.
const (
	regPCTL = 0x00 // Power control
	regFPSC = 0x02 // Frame rate
	regINTC = 0x03 // Interrupt control
	regAVE  = 0x07 // Average
	regAMA  = 0x1F // Moving average unlock
	regTTHL = 0x0E // Thermistor, low byte
	regT01L = 0x80 // First pixel, low byte
)

const (
	pctlNormal = 0x00
	pctlSleep  = 0x10
)

// Addresses selectable with the AD_SELECT pin.
const (
	AddrLow  uint16 = 0x68
	AddrHigh uint16 = 0x69
)

// FrameRate selects how often the sensor refreshes its pixel registers.
type FrameRate byte

const (
	FPS10 FrameRate = 0x00
	FPS1  FrameRate = 0x01
)

// Opts is the configuration for the AMG88xx sensor.
type Opts struct {
	Addr          uint16    // I²C address (AddrLow or AddrHigh)
	FrameRate     FrameRate // Sensor refresh rate
	MovingAverage bool      // Enable the on-chip twice moving average
}

// DefaultOpts matches the M5Stack thermal camera unit.
var DefaultOpts = Opts{Addr: AddrHigh, FrameRate: FPS10, MovingAverage: true}

var errHalted = errors.New("amg88xx: halted")

// Dev is the device handle for the AMG88xx sensor.
type Dev struct {
	d      i2c.Dev
	halted bool
}

// NewI2C creates a new AMG88xx device on the I²C bus and brings it up.
//
// opts can be nil to use DefaultOpts.
func NewI2C(b i2c.Bus, opts *Opts) (*Dev, error) {
	if opts == nil {
		o := DefaultOpts
		opts = &o
	}
	if opts.Addr != AddrLow && opts.Addr != AddrHigh {
		return nil, fmt.Errorf("amg88xx: invalid address %#x", opts.Addr)
	}
	if opts.FrameRate != FPS10 && opts.FrameRate != FPS1 {
		return nil, errors.New("amg88xx: invalid frame rate")
	}

	d := &Dev{d: i2c.Dev{Bus: b, Addr: opts.Addr}}
	if err := d.init(opts); err != nil {
		return nil, err
	}
	return d, nil
}

// init sends the bring-up register sequence.
func (d *Dev) init(opts *Opts) error {
	regs := [][2]byte{
		{regPCTL, pctlNormal},
		{regFPSC, byte(opts.FrameRate)},
		{regINTC, 0x00}, // INT output disabled
	}
	if opts.MovingAverage {
		regs = append(regs,
			[2]byte{regAMA, 0x50},
			[2]byte{regAMA, 0x45},
			[2]byte{regAMA, 0x57},
			[2]byte{regAVE, 0x20},
			[2]byte{regAMA, 0x00},
		)
	}
	for _, r := range regs {
		if err := d.write8(r[0], r[1]); err != nil {
			return fmt.Errorf("amg88xx: failed to write register %#02x: %w", r[0], err)
		}
	}
	return nil
}

// write8 writes a single register.
func (d *Dev) write8(reg, v byte) error {
	return d.d.Tx([]byte{reg, v}, nil)
}

// ReadRaw reads len(buf) bytes starting at the first pixel register.
func (d *Dev) ReadRaw(buf []byte) error {
	if d.halted {
		return errHalted
	}
	if err := d.d.Tx([]byte{regT01L}, buf); err != nil {
		return fmt.Errorf("amg88xx: failed to read pixels: %w", err)
	}
	return nil
}

// Sense reads one frame of pixel temperatures into f.
func (d *Dev) Sense(f *Frame) error {
	var raw [FrameSize]byte
	if err := d.ReadRaw(raw[:]); err != nil {
		return err
	}
	frame, err := DecodeFrame(raw[:])
	if err != nil {
		return err
	}
	*f = frame
	return nil
}

// Thermistor returns the temperature of the on-chip thermistor.
func (d *Dev) Thermistor() (physic.Temperature, error) {
	if d.halted {
		return 0, errHalted
	}
	var raw [2]byte
	if err := d.d.Tx([]byte{regTTHL}, raw[:]); err != nil {
		return 0, fmt.Errorf("amg88xx: failed to read thermistor: %w", err)
	}
	c := decodeThermistor(uint16(raw[1])<<8 | uint16(raw[0]))
	return physic.ZeroCelsius + physic.Temperature(c*float64(physic.Kelvin)), nil
}

// decodeThermistor converts the 12-bit sign-magnitude thermistor word,
// 0.0625 °C per LSB.
func decodeThermistor(w uint16) float64 {
	t := float64(w&0x7FF) * 0.0625
	if w&0x800 != 0 {
		t = -t
	}
	return t
}

// Halt puts the sensor to sleep.
// After calling Halt, reads fail until the device is re-initialized.
func (d *Dev) Halt() error {
	d.halted = true
	return d.write8(regPCTL, pctlSleep)
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("amg88xx.Dev{%#x}", d.d.Addr)
}
