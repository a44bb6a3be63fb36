// Package mixer combines per-note loop buffers into the master output
// buffer and peak-limits the result for the external encoder.
package mixer

import (
	"errors"
	"fmt"

	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/floats"
)

// ErrMix indicates an internal invariant violation: a note buffer whose
// length does not match the configured duration. It signals a defect in the
// pipeline rather than bad input.
var ErrMix = errors.New("mix failed")

// Mix scales each note buffer by its amplitude and accumulates them into a
// fresh master buffer of the given duration, then applies the master
// amplitude. Accumulation follows the slice order exactly: floating-point
// summation is not associative, so the chord's declared order is pinned for
// reproducibility.
func Mix(buffers [][]float64, amplitudes []float64, master float64, duration int) ([]float64, error) {
	if len(buffers) != len(amplitudes) {
		return nil, fmt.Errorf("%w: %d buffers but %d amplitudes", ErrMix, len(buffers), len(amplitudes))
	}
	for i, buf := range buffers {
		if len(buf) != duration {
			return nil, fmt.Errorf("%w: note %d buffer has %d samples, want %d", ErrMix, i, len(buf), duration)
		}
	}

	out := make([]float64, duration)
	for i, buf := range buffers {
		floats.AddScaled(out, amplitudes[i], buf)
	}
	f64.Scale(out, out, master)
	return out, nil
}
