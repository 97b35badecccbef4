package heatmap

// Range is the span of whole degrees mapped onto the palette.
type Range struct {
	Min, Max int
}

// DefaultRange covers 0 to 60 °C.
var DefaultRange = Range{Min: 0, Max: 60}

// Normalize converts a temperature to a palette position in [0, 1].
//
// The temperature is truncated to whole degrees and clamped to the range,
// then mapped to a whole percentage. A degenerate range maps everything to 0.
func (r Range) Normalize(t float64) float64 {
	if r.Max <= r.Min {
		return 0
	}
	v := int(t)
	if v < r.Min {
		v = r.Min
	} else if v > r.Max {
		v = r.Max
	}
	pct := (v - r.Min) * 100 / (r.Max - r.Min)
	return float64(pct) / 100
}
