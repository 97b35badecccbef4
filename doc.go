// Package thermcam shows an infrared thermal sensor as a live false-color heat-map.
//
// A Viewer reads an 8×8 frame from an AMG88xx sensor, maps each element to a
// color with a sigmoid palette and draws it as one cell of a grid on any
// periph.io display.Drawer, labeled with its temperature. It then waits a
// fixed interval and starts over.
//
// # Hardware Connection
//
// The reference build is an M5Stack Core: the AMG8833 unit on the Grove I²C
// port (address 0x69) and the built-in ILI9342C 320×240 panel on SPI.
//
//	Sensor Pin  → System Pin
//	GND         → GND
//	VCC         → 3.3V
//	SDA         → I²C SDA
//	SCL         → I²C SCL
//
// # Basic Usage
//
//	package main
//
//	import (
//		"context"
//		"log"
//
//		"github.com/flavioheleno/thermcam"
//		"github.com/flavioheleno/thermcam/amg88xx"
//		"github.com/flavioheleno/thermcam/ili9341"
//		"periph.io/x/conn/v3/gpio/gpioreg"
//		"periph.io/x/conn/v3/i2c/i2creg"
//		"periph.io/x/conn/v3/spi/spireg"
//		"periph.io/x/host/v3"
//	)
//
//	func main() {
//		host.Init()
//
//		bus, _ := i2creg.Open("")
//		sensor, _ := amg88xx.NewI2C(bus, nil)
//
//		port, _ := spireg.Open("")
//		lcd, _ := ili9341.NewSPI(port, gpioreg.ByName("GPIO25"), nil)
//
//		v, _ := thermcam.NewViewer(sensor, lcd, nil)
//		log.Fatal(v.Run(context.Background()))
//	}
//
// # Rendering
//
// Each frame goes through the same pipeline:
//
// - amg88xx.DecodeFrame turns 128 raw bytes into 64 temperatures
// - the grid is mirrored on both axes (see SourceIndex)
// - heatmap.Range.Normalize truncates, clamps to 0-60 °C and rescales to [0, 1]
// - heatmap.Model.Colorize maps that position to an RGB565 color
//
// When the sensor read fails the cycle is logged and skipped, leaving the
// previous image on screen.
//
// # Logging
//
// The LOG_LEVEL environment variable selects DEBUG, INFO (default), WARNING
// or ERROR output on stderr.
package thermcam
