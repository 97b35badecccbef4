package heatmap

import "testing"

func TestRangeNormalize(t *testing.T) {
	tests := []struct {
		name string
		t    float64
		want float64
	}{
		{"zero", 0, 0},
		{"below range", -5, 0},
		{"negative fraction truncates to zero", -0.75, 0},
		{"quarter", 15, 0.25},
		{"half", 30, 0.5},
		{"fraction truncated", 30.9, 0.5},
		{"whole percent", 10, 0.16},
		{"near top", 59.9, 0.98},
		{"top", 60, 1},
		{"above range", 128, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultRange.Normalize(tt.t); got != tt.want {
				t.Errorf("Normalize(%v) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}
}

func TestRangeNormalizeOffset(t *testing.T) {
	r := Range{Min: 20, Max: 40}
	if got := r.Normalize(30); got != 0.5 {
		t.Errorf("Normalize(30) = %v, want 0.5", got)
	}
	if got := r.Normalize(0); got != 0 {
		t.Errorf("Normalize(0) = %v, want 0", got)
	}
}

func TestRangeNormalizeDegenerate(t *testing.T) {
	r := Range{Min: 10, Max: 10}
	if got := r.Normalize(50); got != 0 {
		t.Errorf("Normalize(50) = %v, want 0", got)
	}
}

func TestNormalizeZeroMatchesColorize(t *testing.T) {
	if got, want := Colorize(DefaultRange.Normalize(0)), Colorize(0); got != want {
		t.Errorf("Colorize(Normalize(0)) = 0x%04X, want 0x%04X", got, want)
	}
}
