// Package analyzer extracts a harmonic spectrum from one looped region of a
// source waveform. The looped region is windowed to a whole number of pitch
// periods, transformed with a real FFT, and grouped into per-harmonic
// magnitudes; phase is discarded because resynthesis always assigns fresh
// randomized phase.
package analyzer

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/tphakala/go-padsynth/internal/mathutil"
)

// ErrAnalysis indicates that the loop region or detected pitch is unusable.
var ErrAnalysis = errors.New("analysis failed")

// maxAnalysisPeriods caps the analysis window to bound the FFT size.
// More periods give finer bin resolution, but the per-harmonic grouping
// sums bin power so the harmonic magnitudes converge quickly.
const maxAnalysisPeriods = 64

// Harmonic is one entry of the extracted spectrum.
type Harmonic struct {
	// Number is the 1-based harmonic number.
	Number int

	// Frequency is the harmonic frequency in Hz, detune applied.
	Frequency float64

	// Magnitude is the equivalent amplitude of the harmonic, computed as
	// the root of the summed power of the FFT bins belonging to it.
	Magnitude float64
}

// Spectrum is the ordered harmonic spectrum of the analyzed loop region.
type Spectrum struct {
	// Harmonics is ordered by ascending frequency.
	Harmonics []Harmonic

	// Fundamental is the detuned fundamental frequency in Hz. Resynthesis
	// scales harmonic frequencies by the ratio of each chord note's
	// fundamental to this reference.
	Fundamental float64
}

// Params configures a single analysis pass.
type Params struct {
	// SampleRate is the analysis sample rate in Hz.
	SampleRate float64

	// LoopBegin is the first sample index of the looped region.
	LoopBegin int

	// LoopEnd bounds the looped region (exclusive). Zero means the end of
	// the source.
	LoopEnd int

	// Frequency is the known fundamental in Hz. Zero requests
	// autocorrelation-based pitch detection starting at LoopBegin.
	Frequency float64

	// DetuneCents shifts every extracted harmonic frequency by
	// 2^(cents/1200).
	DetuneCents float64
}

// Analyze extracts the harmonic spectrum of the loop region.
func Analyze(source []float64, p Params) (*Spectrum, error) {
	region, err := loopRegion(source, p)
	if err != nil {
		return nil, err
	}

	freq := p.Frequency
	if freq == 0 {
		period, err := detectPeriod(region, p.SampleRate)
		if err != nil {
			return nil, err
		}
		freq = p.SampleRate / float64(period)
	}
	if freq <= 0 || freq >= p.SampleRate/2 {
		return nil, fmt.Errorf("%w: fundamental %g Hz outside (0, %g)", ErrAnalysis, freq, p.SampleRate/2)
	}

	// Window to a whole number of periods so harmonics land near integer
	// multiples of the window's bin resolution.
	periodSamples := p.SampleRate / freq
	numPeriods := int(float64(len(region)) / periodSamples)
	if numPeriods < 1 {
		return nil, fmt.Errorf("%w: loop region of %d samples is shorter than one period (%g samples)",
			ErrAnalysis, len(region), periodSamples)
	}
	if numPeriods > maxAnalysisPeriods {
		numPeriods = maxAnalysisPeriods
	}
	n := int(math.Floor(float64(numPeriods) * periodSamples))
	if n < 2 {
		return nil, fmt.Errorf("%w: degenerate analysis window of %d samples", ErrAnalysis, n)
	}

	fft := fourier.NewFFT(n)
	spectrum := fft.Coefficients(nil, region[:n])

	// Normalize so magnitudes are independent of the window length.
	scale := complex(1/float64(n), 0)
	for i := range spectrum {
		spectrum[i] *= scale
	}

	detuneRatio := mathutil.CentsToRatio(p.DetuneCents)
	cycPerWindow := freq * float64(n) / p.SampleRate

	// Group bins into harmonics: harmonic h owns the bins in
	// [(h-0.5)·cyc, (h+0.5)·cyc) and its magnitude is their root summed
	// power, so energy smeared by the non-integer window length is not lost.
	var harmonics []Harmonic
	for h := 1; ; h++ {
		bottom := int(math.Ceil((float64(h) - 0.5) * cycPerWindow))
		if bottom >= len(spectrum) {
			break
		}
		top := int(math.Ceil((float64(h) + 0.5) * cycPerWindow))
		if top > len(spectrum) {
			top = len(spectrum)
		}
		harmonics = append(harmonics, Harmonic{
			Number:    h,
			Frequency: float64(h) * freq * detuneRatio,
			Magnitude: mathutil.RootSumPower(spectrum[bottom:top]),
		})
	}

	return &Spectrum{
		Harmonics:   harmonics,
		Fundamental: freq * detuneRatio,
	}, nil
}

// loopRegion validates and slices the looped portion of the source.
func loopRegion(source []float64, p Params) ([]float64, error) {
	if p.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate must be positive, got %g", ErrAnalysis, p.SampleRate)
	}
	if p.LoopBegin < 0 || p.LoopBegin >= len(source) {
		return nil, fmt.Errorf("%w: loop begin %d outside source of %d samples", ErrAnalysis, p.LoopBegin, len(source))
	}
	end := p.LoopEnd
	if end == 0 {
		end = len(source)
	}
	if end > len(source) {
		return nil, fmt.Errorf("%w: loop end %d past source of %d samples", ErrAnalysis, end, len(source))
	}
	if end <= p.LoopBegin {
		return nil, fmt.Errorf("%w: loop end %d must be greater than loop begin %d", ErrAnalysis, end, p.LoopBegin)
	}
	return source[p.LoopBegin:end], nil
}
