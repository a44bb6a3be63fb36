// Package testutil provides reusable test helper functions for the
// resynthesis pipeline tests.
package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Default tolerances for various test scenarios.
const (
	DefaultTolerance = 1e-10
	SeamTolerance    = 1e-6
	EnergyTolerance  = 1e-6
)

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf(t *testing.T, s []float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if math.IsNaN(v) {
			return assert.Fail(t, "found NaN", "s[%d] is NaN", i)
		}
		if math.IsInf(v, 0) {
			return assert.Fail(t, "found Inf", "s[%d] is Inf", i)
		}
	}
	return true
}

// AssertSeamlessLoop verifies that the buffer tiles without a discontinuity:
// treating the buffer as periodic, the step from the last sample back to the
// first must not exceed the largest step between adjacent interior samples
// by more than tolerance. Bin-aligned synthesis guarantees this; free-form
// resampling or time-domain edits break it.
func AssertSeamlessLoop(t *testing.T, s []float64, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	n := len(s)
	if n < 2 {
		return assert.Fail(t, "buffer too short for loop check", "len=%d", n)
	}
	var maxStep float64
	for i := 1; i < n; i++ {
		step := math.Abs(s[i] - s[i-1])
		if step > maxStep {
			maxStep = step
		}
	}
	seam := math.Abs(s[0] - s[n-1])
	if seam > maxStep+tolerance {
		return assert.Fail(t, "loop seam discontinuity",
			"seam step %e exceeds max interior step %e + %e", seam, maxStep, tolerance)
	}
	return true
}

// AssertAllZero verifies that every element of the slice is exactly zero.
func AssertAllZero(t *testing.T, s []float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if v != 0 {
			return assert.Fail(t, "nonzero sample", "s[%d]=%g", i, v)
		}
	}
	return true
}

// PeakAbs returns the peak absolute value of the buffer.
func PeakAbs(s []float64) float64 {
	var peak float64
	for _, v := range s {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	return peak
}

// SpectralPeakBin returns the index of the frequency bin with the most
// energy in a naive DFT of the buffer, searched over bins [1, maxBin].
// Intended for short test buffers only.
func SpectralPeakBin(s []float64, maxBin int) int {
	n := len(s)
	best, bestPower := 0, 0.0
	for k := 1; k <= maxBin && k < n/2; k++ {
		var re, im float64
		for i, v := range s {
			phase := 2 * math.Pi * float64(k) * float64(i) / float64(n)
			re += v * math.Cos(phase)
			im -= v * math.Sin(phase)
		}
		power := re*re + im*im
		if power > bestPower {
			best, bestPower = k, power
		}
	}
	return best
}

// SineWave generates a sine of the given frequency, amplitude one.
func SineWave(numSamples int, freq, sampleRate float64) []float64 {
	buf := make([]float64, numSamples)
	for i := range buf {
		buf[i] = math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
	}
	return buf
}

// HarmonicTone generates a sum of harmonics of the fundamental, one
// amplitude per harmonic starting at harmonic 1.
func HarmonicTone(numSamples int, fundamental, sampleRate float64, amplitudes []float64) []float64 {
	buf := make([]float64, numSamples)
	for i := range buf {
		t := float64(i) / sampleRate
		var v float64
		for h, a := range amplitudes {
			v += a * math.Sin(2*math.Pi*fundamental*float64(h+1)*t)
		}
		buf[i] = v
	}
	return buf
}
