package protocol

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Gain range. The ceiling is fixed at 5x.
const (
	MinGain   = 0.0
	MaxGain   = 5.0
	UnityGain = 1.0
)

// Clamp limits v to [lo, hi].
func Clamp[E constraints.Float](v, lo, hi E) E {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampGain limits v to the gain range.
// NaN is not a gain and reports false.
func ClampGain(v float64) (float64, bool) {
	if math.IsNaN(v) {
		return 0, false
	}
	return Clamp(v, MinGain, MaxGain), true
}

// Percent converts a gain to a rounded percentage.
func Percent(gain float64) int {
	return int(math.Round(gain * 100))
}
