// Package mathutil provides the scalar math shared by the analysis and
// synthesis stages: pitch and volume unit conversions, the Gaussian kernel
// used for harmonic bands, and power measures over sample buffers.
package mathutil

import "math"

// MidiToFreq converts a MIDI note number to its equal temperament
// frequency in Hz (A4 = MIDI 69 = 440 Hz).
func MidiToFreq(note int) float64 {
	return A4Frequency * math.Pow(2, float64(note-A4MidiNote)/SemitonesPerOctave)
}

// CentsToRatio converts a detune amount in cents to a frequency multiplier.
func CentsToRatio(cents float64) float64 {
	return math.Pow(2, cents/CentsPerOctave)
}

// DbToAmplitude converts a level in decibels to an amplitude ratio.
// The decibel value is interpreted as a power level, so the amplitude
// is the square root of the corresponding power ratio.
func DbToAmplitude(db float64) float64 {
	return math.Sqrt(math.Pow(10, db/dbPowerDivisor))
}

// Gaussian evaluates the unnormalized Gaussian kernel exp(-((x-loc)/scale)²/2).
// The peak value at x = loc is 1 regardless of scale.
func Gaussian(x, loc, scale float64) float64 {
	rel := (x - loc) / scale
	return math.Exp(-rel * rel / 2)
}

// RMS returns the root mean square of the buffer, or 0 for an empty buffer.
func RMS(buf []float64) float64 {
	if len(buf) == 0 {
		return 0
	}
	var sum float64
	for _, v := range buf {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(buf)))
}

// RootSumPower returns the square root of the total power of a run of
// complex FFT bins. Summing power rather than amplitude keeps the result
// independent of how energy is split across neighboring bins.
func RootSumPower(bins []complex128) float64 {
	var sum float64
	for _, c := range bins {
		re, im := real(c), imag(c)
		sum += re*re + im*im
	}
	return math.Sqrt(sum)
}
