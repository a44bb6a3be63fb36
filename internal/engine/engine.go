// Package engine renders seamless-loop buffers from a harmonic profile
// using the PADsynth algorithm: Gaussian band energy is accumulated into a
// frequency-domain array, every bin gets an independent random phase, and an
// inverse real FFT produces the time-domain loop. Because every band center
// sits on the grid of integer multiples of sampleRate/duration, the output
// tiles with zero discontinuity at the loop boundary.
package engine

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/tphakala/go-padsynth/internal/mathutil"
	"github.com/tphakala/go-padsynth/internal/profile"
)

// ErrSynthesis indicates a NaN or infinite magnitude produced during
// resynthesis. It is fatal for the run; no partial audio is emitted.
var ErrSynthesis = errors.New("synthesis failed")

const (
	// maxStdevSpan is how many standard deviations away from a band's
	// center frequency energy is generated. Beyond ±3σ the Gaussian
	// contribution is negligible.
	maxStdevSpan = 3.0

	// ReferenceRMS is the canonical power level each rendered note is
	// normalized to (−20 dBFS), making downstream volume scaling
	// predictable regardless of the source's spectral energy.
	ReferenceRMS = 0.1

	twoPi = 2 * math.Pi
)

// Params configures the rendering of one chord note.
type Params struct {
	// SampleRate is the output sample rate in Hz.
	SampleRate int

	// Duration is the output loop length in samples.
	Duration int

	// Frequency is the note's fundamental in Hz. Band frequencies scale
	// by Frequency / profile.RefFrequency.
	Frequency float64
}

// RenderNote renders one seamless-loop buffer for a chord note. The random
// source must be the note's own substream, derived from the run seed and the
// note index, so notes never share randomness and chord order cannot perturb
// other notes.
func RenderNote(prof *profile.Profile, p Params, src rand.Source) ([]float64, error) {
	energy := accumulateBands(prof, p)

	spectrum, err := randomPhaseSpectrum(energy, p.Duration, src)
	if err != nil {
		return nil, err
	}

	fft := fourier.NewFFT(p.Duration)
	out := fft.Sequence(make([]float64, p.Duration), spectrum)
	// gonum's inverse transform does not normalize.
	f64.Scale(out, out, 1/float64(p.Duration))

	normalizeReference(out)
	return out, nil
}

// accumulateBands sums every band's energy (not amplitude) into the output
// bins. Summing power avoids destructive interference between overlapping
// bands and conserves total power regardless of band overlap. Each band's
// envelope is normalized so its total deposited power equals Magnitude².
func accumulateBands(prof *profile.Profile, p Params) []float64 {
	numBins := p.Duration/2 + 1
	binHz := float64(p.SampleRate) / float64(p.Duration)
	ratio := p.Frequency / prof.RefFrequency

	energy := make([]float64, numBins)
	for _, b := range prof.Bands {
		center := b.Frequency * ratio / binHz
		stdev := b.Bandwidth * ratio / binHz
		if center <= 0 {
			continue
		}

		deviation := stdev * maxStdevSpan
		if deviation > center {
			deviation = center
		}

		minBin := int(math.Ceil(center - deviation))
		if minBin < 0 {
			minBin = 0
		}
		if minBin >= numBins {
			// Bands are ascending; everything higher is above Nyquist too.
			break
		}
		maxBin := int(math.Ceil(center + deviation))
		if maxBin > numBins {
			maxBin = numBins
		}

		var sumSq float64
		envelope := make([]float64, maxBin-minBin)
		for bin := minBin; bin < maxBin; bin++ {
			g := mathutil.Gaussian(float64(bin), center, stdev)
			envelope[bin-minBin] = g
			sumSq += g * g
		}
		power := b.Magnitude * b.Magnitude
		if sumSq == 0 {
			// The band is so narrow that the Gaussian underflows on every
			// bin in the window; deposit the whole band on the nearest bin
			// so no power is lost.
			if nearest := int(math.Round(center)); nearest < numBins {
				energy[nearest] += power
			}
			continue
		}
		scale := power / sumSq
		for i, g := range envelope {
			energy[minBin+i] += g * g * scale
		}
	}
	return energy
}

// randomPhaseSpectrum converts accumulated bin energy to a complex spectrum:
// magnitude is the square root of the energy, phase is an independent
// uniform draw from the note's substream, one per bin in ascending order.
func randomPhaseSpectrum(energy []float64, duration int, src rand.Source) ([]complex128, error) {
	phase := distuv.Uniform{Min: 0, Max: twoPi, Src: src}

	spectrum := make([]complex128, len(energy))
	for bin, e := range energy {
		magnitude := math.Sqrt(e)
		if math.IsNaN(magnitude) || math.IsInf(magnitude, 0) {
			return nil, fmt.Errorf("%w: bin %d magnitude is not finite", ErrSynthesis, bin)
		}
		ph := phase.Rand()
		spectrum[bin] = complex(magnitude*math.Cos(ph), magnitude*math.Sin(ph))
	}

	// The DC bin has no phase, and for even lengths the Nyquist bin of a
	// real signal must be real as well.
	spectrum[0] = complex(math.Sqrt(energy[0]), 0)
	if duration%2 == 0 {
		last := len(spectrum) - 1
		spectrum[last] = complex(math.Sqrt(energy[last]), 0)
	}
	return spectrum, nil
}

// normalizeReference rescales the buffer to the canonical reference power.
// A silent render (every band above Nyquist) is passed through untouched.
func normalizeReference(buf []float64) {
	rms := mathutil.RMS(buf)
	if rms == 0 {
		return
	}
	f64.Scale(buf, buf, ReferenceRMS/rms)
}
