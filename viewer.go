package thermcam

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/flavioheleno/thermcam/amg88xx"
	"github.com/flavioheleno/thermcam/heatmap"
	"github.com/flavioheleno/thermcam/rgb565"
	"periph.io/x/conn/v3/display"
)

// Sensor supplies decoded frames.
type Sensor interface {
	Sense(f *amg88xx.Frame) error
}

// Publisher exports frames after they are rendered.
type Publisher interface {
	Publish(f *amg88xx.Frame) error
}

// Opts is the configuration for a Viewer.
type Opts struct {
	Model     heatmap.Model // Color model
	Range     heatmap.Range // Temperatures spanned by the palette
	Interval  time.Duration // Pause between refreshes
	Publisher Publisher     // Optional frame export
}

// DefaultOpts refreshes twice a second over 0-60 °C.
var DefaultOpts = Opts{
	Model:    heatmap.Default,
	Range:    heatmap.DefaultRange,
	Interval: 500 * time.Millisecond,
}

// Black is the label color.
const Black rgb565.Color = 0x0000

// Viewer renders sensor frames as a heat-map on a display.
type Viewer struct {
	s    Sensor
	d    display.Drawer
	opts Opts
}

// NewViewer creates a Viewer reading s and drawing on d.
//
// opts can be nil to use DefaultOpts.
func NewViewer(s Sensor, d display.Drawer, opts *Opts) (*Viewer, error) {
	if s == nil || d == nil {
		return nil, errors.New("thermcam: sensor and display are required")
	}
	if opts == nil {
		o := DefaultOpts
		opts = &o
	}
	if opts.Interval <= 0 {
		return nil, errors.New("thermcam: interval must be positive")
	}
	if opts.Range.Max <= opts.Range.Min {
		return nil, errors.New("thermcam: range max must be above min")
	}
	if opts.Model.Gain <= 0 {
		return nil, errors.New("thermcam: model gain must be positive")
	}
	b := d.Bounds()
	if b.Dx() < amg88xx.Width || b.Dy() < amg88xx.Height {
		return nil, fmt.Errorf("thermcam: display %v too small for %dx%d cells", b, amg88xx.Width, amg88xx.Height)
	}
	return &Viewer{s: s, d: d, opts: *opts}, nil
}

// Render draws f as a grid of colored cells, each labeled with its whole
// temperature, on an image the size of the display.
func (v *Viewer) Render(f *amg88xx.Frame) *rgb565.Image {
	b := v.d.Bounds()
	img := rgb565.NewImage(b)
	c := NewCanvas(img)

	cw, ch := b.Dx()/amg88xx.Width, b.Dy()/amg88xx.Height
	for y := 0; y < amg88xx.Height; y++ {
		for x := 0; x < amg88xx.Width; x++ {
			t := f[SourceIndex(x, y)]
			col := v.opts.Model.Colorize(v.opts.Range.Normalize(t))

			px, py := b.Min.X+x*cw, b.Min.Y+y*ch
			c.FillCell(px, py, cw, ch, col)
			c.DrawText(px+cw/2, py+ch/2, strconv.Itoa(int(t)), Black, col)
		}
	}
	return img
}

// Cycle acquires one frame, renders it and draws it.
// When acquisition fails nothing is drawn.
func (v *Viewer) Cycle() error {
	var f amg88xx.Frame
	if err := v.s.Sense(&f); err != nil {
		return fmt.Errorf("thermcam: acquisition failed: %w", err)
	}

	img := v.Render(&f)
	if err := v.d.Draw(img.Bounds(), img, img.Bounds().Min); err != nil {
		return fmt.Errorf("thermcam: draw failed: %w", err)
	}

	if v.opts.Publisher != nil {
		if err := v.opts.Publisher.Publish(&f); err != nil {
			WarningLog.Printf("publish failed: %v", err)
		}
	}
	lo, hi := f.MinMax()
	DebugLog.Printf("frame min %.2f max %.2f", lo, hi)
	return nil
}

// Run calls Cycle, then waits Interval, until ctx is cancelled.
// Failed cycles are logged and skipped.
func (v *Viewer) Run(ctx context.Context) error {
	InfoLog.Printf("refreshing %v every %v", v.d, v.opts.Interval)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := v.Cycle(); err != nil {
			ErrorLog.Printf("cycle skipped: %v", err)
		}

		t := time.NewTimer(v.opts.Interval)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}
