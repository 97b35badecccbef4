package thermcam

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/flavioheleno/thermcam/amg88xx"
	"github.com/flavioheleno/thermcam/heatmap"
	"github.com/flavioheleno/thermcam/rgb565"
)

type fakeSensor struct {
	frame   amg88xx.Frame
	err     error
	calls   int
	onSense func(calls int)
}

func (s *fakeSensor) Sense(f *amg88xx.Frame) error {
	s.calls++
	if s.onSense != nil {
		s.onSense(s.calls)
	}
	if s.err != nil {
		return s.err
	}
	*f = s.frame
	return nil
}

type fakeDisplay struct {
	rect  image.Rectangle
	err   error
	draws int
	last  *rgb565.Image
}

func (d *fakeDisplay) String() string { return "fake" }

func (d *fakeDisplay) Halt() error { return nil }

func (d *fakeDisplay) ColorModel() color.Model { return rgb565.Model }

func (d *fakeDisplay) Bounds() image.Rectangle { return d.rect }

func (d *fakeDisplay) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	if d.err != nil {
		return d.err
	}
	d.draws++
	d.last = src.(*rgb565.Image)
	return nil
}

type fakePublisher struct {
	frames []amg88xx.Frame
	err    error
}

func (p *fakePublisher) Publish(f *amg88xx.Frame) error {
	p.frames = append(p.frames, *f)
	return p.err
}

func newDisplay() *fakeDisplay {
	return &fakeDisplay{rect: image.Rect(0, 0, 320, 240)}
}

func TestNewViewerValidation(t *testing.T) {
	s := &fakeSensor{}
	d := newDisplay()

	tests := []struct {
		name string
		s    Sensor
		d    *fakeDisplay
		opts *Opts
	}{
		{"nil sensor", nil, d, nil},
		{"zero interval", s, d, &Opts{Model: heatmap.Default, Range: heatmap.DefaultRange}},
		{"empty range", s, d, &Opts{Model: heatmap.Default, Range: heatmap.Range{Min: 5, Max: 5}, Interval: time.Second}},
		{"zero gain", s, d, &Opts{Range: heatmap.DefaultRange, Interval: time.Second}},
		{"display too small", s, &fakeDisplay{rect: image.Rect(0, 0, 4, 4)}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewViewer(tt.s, tt.d, tt.opts); err == nil {
				t.Error("expected error but didn't get one")
			}
		})
	}

	if _, err := NewViewer(s, nil, nil); err == nil {
		t.Error("nil display: expected error but didn't get one")
	}
	if _, err := NewViewer(s, d, nil); err != nil {
		t.Errorf("defaults: NewViewer() error = %v", err)
	}
}

func TestRenderAllZeros(t *testing.T) {
	v, err := NewViewer(&fakeSensor{}, newDisplay(), nil)
	if err != nil {
		t.Fatalf("NewViewer() error = %v", err)
	}

	var f amg88xx.Frame
	img := v.Render(&f)
	want := heatmap.Colorize(0)

	for y := 0; y < amg88xx.Height; y++ {
		for x := 0; x < amg88xx.Width; x++ {
			// Cell corners are never covered by the label
			if got := img.RGB565At(x*40, y*30); got != want {
				t.Errorf("cell (%d, %d) = 0x%04X, want 0x%04X", x, y, got, want)
			}
		}
	}
}

func TestRenderOrientation(t *testing.T) {
	v, err := NewViewer(&fakeSensor{}, newDisplay(), nil)
	if err != nil {
		t.Fatalf("NewViewer() error = %v", err)
	}

	var f amg88xx.Frame
	f[amg88xx.Pixels-1] = 60
	f[0] = 30
	img := v.Render(&f)

	if got, want := img.RGB565At(0, 0), heatmap.Colorize(1); got != want {
		t.Errorf("cell (0, 0) = 0x%04X, want 0x%04X", got, want)
	}
	if got, want := img.RGB565At(7*40, 7*30), heatmap.Colorize(0.5); got != want {
		t.Errorf("cell (7, 7) = 0x%04X, want 0x%04X", got, want)
	}
	if got, want := img.RGB565At(40, 0), heatmap.Colorize(0); got != want {
		t.Errorf("cell (1, 0) = 0x%04X, want 0x%04X", got, want)
	}
}

func TestRenderLabel(t *testing.T) {
	v, err := NewViewer(&fakeSensor{}, newDisplay(), nil)
	if err != nil {
		t.Fatalf("NewViewer() error = %v", err)
	}

	var f amg88xx.Frame
	img := v.Render(&f)

	// The label of cell (0, 0) starts at the cell center
	black := 0
	for y := 15; y < 28; y++ {
		for x := 20; x < 27; x++ {
			if img.RGB565At(x, y) == Black {
				black++
			}
		}
	}
	if black == 0 {
		t.Error("cell (0, 0) has no label pixels")
	}
}

func TestRenderCustomModel(t *testing.T) {
	m := heatmap.Model{Gain: 10, OffsetX: 0, OffsetGreen: 0.6}
	v, err := NewViewer(&fakeSensor{}, newDisplay(), &Opts{Model: m, Range: heatmap.DefaultRange, Interval: time.Second})
	if err != nil {
		t.Fatalf("NewViewer() error = %v", err)
	}

	var f amg88xx.Frame
	for i := range f {
		f[i] = 30
	}
	if got, want := v.Render(&f).RGB565At(0, 0), m.Colorize(0.5); got != want {
		t.Errorf("cell (0, 0) = 0x%04X, want 0x%04X", got, want)
	}
}

func TestCycle(t *testing.T) {
	s := &fakeSensor{}
	s.frame[5] = 21.75
	d := newDisplay()
	p := &fakePublisher{}

	v, err := NewViewer(s, d, &Opts{Model: heatmap.Default, Range: heatmap.DefaultRange, Interval: time.Second, Publisher: p})
	if err != nil {
		t.Fatalf("NewViewer() error = %v", err)
	}

	if err := v.Cycle(); err != nil {
		t.Fatalf("Cycle() error = %v", err)
	}
	if d.draws != 1 {
		t.Errorf("draws = %d, want 1", d.draws)
	}
	if d.last.Bounds() != d.rect {
		t.Errorf("drawn bounds = %v, want %v", d.last.Bounds(), d.rect)
	}
	if len(p.frames) != 1 || p.frames[0][5] != 21.75 {
		t.Errorf("published %v, want one frame with element 5 = 21.75", p.frames)
	}
}

func TestCycleSkipsOnSensorError(t *testing.T) {
	s := &fakeSensor{err: amg88xx.ErrShortFrame}
	d := newDisplay()
	p := &fakePublisher{}

	v, err := NewViewer(s, d, &Opts{Model: heatmap.Default, Range: heatmap.DefaultRange, Interval: time.Second, Publisher: p})
	if err != nil {
		t.Fatalf("NewViewer() error = %v", err)
	}

	if err := v.Cycle(); !errors.Is(err, amg88xx.ErrShortFrame) {
		t.Errorf("Cycle() error = %v, want ErrShortFrame", err)
	}
	if d.draws != 0 {
		t.Errorf("draws = %d, want 0", d.draws)
	}
	if len(p.frames) != 0 {
		t.Errorf("published %d frames, want 0", len(p.frames))
	}
}

func TestCycleDrawError(t *testing.T) {
	d := newDisplay()
	d.err = errors.New("panel gone")

	v, err := NewViewer(&fakeSensor{}, d, nil)
	if err != nil {
		t.Fatalf("NewViewer() error = %v", err)
	}
	if err := v.Cycle(); !errors.Is(err, d.err) {
		t.Errorf("Cycle() error = %v, want %v", err, d.err)
	}
}

func TestCyclePublishErrorIgnored(t *testing.T) {
	p := &fakePublisher{err: errors.New("broker down")}
	v, err := NewViewer(&fakeSensor{}, newDisplay(), &Opts{Model: heatmap.Default, Range: heatmap.DefaultRange, Interval: time.Second, Publisher: p})
	if err != nil {
		t.Fatalf("NewViewer() error = %v", err)
	}
	if err := v.Cycle(); err != nil {
		t.Errorf("Cycle() error = %v, want nil", err)
	}
}

func TestRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := &fakeSensor{onSense: func(calls int) {
		if calls == 3 {
			cancel()
		}
	}}
	d := newDisplay()

	v, err := NewViewer(s, d, &Opts{Model: heatmap.Default, Range: heatmap.DefaultRange, Interval: time.Millisecond})
	if err != nil {
		t.Fatalf("NewViewer() error = %v", err)
	}

	if err := v.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if s.calls != 3 {
		t.Errorf("sensor calls = %d, want 3", s.calls)
	}
	if d.draws != 3 {
		t.Errorf("draws = %d, want 3", d.draws)
	}
}

func TestRunKeepsGoingAfterErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := &fakeSensor{err: errors.New("nack"), onSense: func(calls int) {
		if calls == 2 {
			cancel()
		}
	}}
	d := newDisplay()

	v, err := NewViewer(s, d, &Opts{Model: heatmap.Default, Range: heatmap.DefaultRange, Interval: time.Millisecond})
	if err != nil {
		t.Fatalf("NewViewer() error = %v", err)
	}

	if err := v.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if s.calls != 2 || d.draws != 0 {
		t.Errorf("calls = %d, draws = %d, want 2 and 0", s.calls, d.draws)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &fakeSensor{}
	v, err := NewViewer(s, newDisplay(), nil)
	if err != nil {
		t.Fatalf("NewViewer() error = %v", err)
	}
	if err := v.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if s.calls != 0 {
		t.Errorf("sensor calls = %d, want 0", s.calls)
	}
}
