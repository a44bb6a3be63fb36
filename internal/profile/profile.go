// Package profile converts a discrete harmonic spectrum into the continuous
// Gaussian band description consumed by the resynthesis engine. Replacing
// each spectral spike with a smoothed band is the defining PADsynth step: it
// is what removes the audible discontinuity at the loop boundary.
package profile

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/tphakala/go-padsynth/internal/analyzer"
)

// Band is one Gaussian energy band of the profile.
type Band struct {
	// Number is the 1-based harmonic number the band was built from.
	Number int

	// Frequency is the band center in Hz at the reference fundamental.
	Frequency float64

	// Magnitude is the band's equivalent amplitude. The band's total
	// power in the output spectrum is Magnitude².
	Magnitude float64

	// Bandwidth is the Gaussian standard deviation in Hz. It is
	// proportional to the center frequency, so higher harmonics spread
	// wider, modeling ensembles whose per-instrument detune scales with
	// pitch.
	Bandwidth float64
}

// Profile is the immutable band description shared read-only by all chord
// notes during resynthesis.
type Profile struct {
	// Bands is strictly ascending by frequency.
	Bands []Band

	// RefFrequency is the analyzed reference fundamental in Hz.
	RefFrequency float64
}

// Params configures profile generation.
type Params struct {
	// Stdev is the relative bandwidth: band stdev = Stdev · frequency.
	Stdev float64

	// RandomAmplitudes multiplies each harmonic's magnitude by an
	// independent uniform [0,1) factor from the stream, adding inharmonic
	// texture. One factor is drawn per harmonic and shared by every chord
	// note, since the profile is built once before the per-note fan-out.
	RandomAmplitudes bool

	// Nyquist is the target resynthesis Nyquist frequency in Hz.
	// Harmonics at or above it are excluded from the profile.
	Nyquist float64
}

// Build generates the harmonic profile from an analyzed spectrum.
// The stream is only consumed when RandomAmplitudes is set.
func Build(spec *analyzer.Spectrum, p Params, src rand.Source) *Profile {
	uniform := distuv.Uniform{Min: 0, Max: 1, Src: src}

	bands := make([]Band, 0, len(spec.Harmonics))
	for _, h := range spec.Harmonics {
		if h.Frequency >= p.Nyquist {
			continue
		}
		magnitude := h.Magnitude
		if p.RandomAmplitudes {
			magnitude *= uniform.Rand()
		}
		bands = append(bands, Band{
			Number:    h.Number,
			Frequency: h.Frequency,
			Magnitude: magnitude,
			Bandwidth: p.Stdev * h.Frequency,
		})
	}

	return &Profile{
		Bands:        bands,
		RefFrequency: spec.Fundamental,
	}
}
