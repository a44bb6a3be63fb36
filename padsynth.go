package padsynth

import (
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/go-padsynth/internal/analyzer"
	"github.com/tphakala/go-padsynth/internal/engine"
	"github.com/tphakala/go-padsynth/internal/mathutil"
	"github.com/tphakala/go-padsynth/internal/mixer"
)

// Errors returned by the pipeline. Every failure is surfaced as one of
// these distinct conditions; no component attempts silent recovery or
// partial output.
var (
	// ErrInvalidConfig indicates out-of-range or missing configuration
	// fields, detected eagerly before any numeric work begins.
	ErrInvalidConfig = errors.New("invalid padsynth configuration")

	// ErrAnalysis indicates an out-of-bounds loop region or an
	// undetectable/degenerate pitch period.
	ErrAnalysis = analyzer.ErrAnalysis

	// ErrSynthesis indicates a NaN or infinite value produced during
	// resynthesis. Fatal for the whole run.
	ErrSynthesis = engine.ErrSynthesis

	// ErrMix indicates an internal length-mismatch invariant violation.
	// It signals a defect rather than bad input.
	ErrMix = mixer.ErrMix
)

// Config describes one resynthesis run: how to analyze the source waveform
// and how to render the output.
type Config struct {
	Input  Input
	Output Output
}

// Input configures the analysis of the source waveform.
type Input struct {
	// LoopBegin is the first sample index of the looped region.
	LoopBegin int

	// LoopEnd bounds the looped region (exclusive). Zero means the end
	// of the source.
	LoopEnd int

	// Pitch is the known fundamental of the source. The zero value
	// requests autocorrelation-based pitch detection at LoopBegin.
	Pitch Pitch

	// Transpose adjusts how the analyzed spectrum is interpreted.
	Transpose Transpose
}

// Transpose shifts the analyzed spectrum without reanalyzing.
type Transpose struct {
	// SampleRate overrides the analysis sample rate. Zero uses the
	// source's own rate.
	SampleRate int

	// DetuneCents multiplies every harmonic frequency by 2^(cents/1200).
	DetuneCents float64
}

// Output configures the rendered result.
type Output struct {
	// SampleRate is the output sample rate in Hz.
	SampleRate int

	// Duration is the output loop length.
	Duration Duration

	// Mode selects the harmonic profile model.
	Mode Mode

	// MasterVolume scales the mixed chord. The zero value is Ampl(1).
	MasterVolume Volume

	// RandomAmplitudes randomizes per-harmonic magnitudes for inharmonic
	// texture. The random factor is drawn once per harmonic and shared
	// by every chord note.
	RandomAmplitudes bool

	// Chord is the ordered list of notes to render and mix. Order is
	// significant: it pins the floating-point summation order.
	Chord []ChordNote

	// Seed drives all randomized phases and amplitudes. Identical
	// (source, config, seed) always produce bit-identical output.
	Seed uint64
}

// ChordNote is one note of the output chord.
type ChordNote struct {
	Pitch  Pitch
	Volume Volume
}

type pitchKind int

const (
	pitchUnset pitchKind = iota
	pitchMidi
	pitchHz
)

// Pitch identifies a fundamental frequency, either as a MIDI note number or
// directly in Hz. The zero value is unset.
type Pitch struct {
	kind pitchKind
	midi int
	hz   float64
}

// Midi returns the pitch of a MIDI note number (A4 = 69 = 440 Hz).
func Midi(note int) Pitch {
	return Pitch{kind: pitchMidi, midi: note}
}

// Hz returns an explicit frequency pitch.
func Hz(freq float64) Pitch {
	return Pitch{kind: pitchHz, hz: freq}
}

// IsSet reports whether the pitch was given explicitly.
func (p Pitch) IsSet() bool {
	return p.kind != pitchUnset
}

// Frequency returns the pitch in Hz, or 0 when unset.
func (p Pitch) Frequency() float64 {
	switch p.kind {
	case pitchMidi:
		return mathutil.MidiToFreq(p.midi)
	case pitchHz:
		return p.hz
	default:
		return 0
	}
}

type volumeKind int

const (
	volumeDefault volumeKind = iota
	volumeAmpl
	volumePower
	volumeDb
)

// Volume is a level expressed as an amplitude ratio, a power ratio, or in
// decibels. The zero value is unity gain.
type Volume struct {
	kind  volumeKind
	value float64
}

// Ampl returns a volume that scales amplitude directly by ratio.
func Ampl(ratio float64) Volume {
	return Volume{kind: volumeAmpl, value: ratio}
}

// Power returns a volume that scales power by ratio; the amplitude factor
// is the square root of the ratio.
func Power(ratio float64) Volume {
	return Volume{kind: volumePower, value: ratio}
}

// Db returns a volume expressed as a power level in decibels.
func Db(level float64) Volume {
	return Volume{kind: volumeDb, value: level}
}

// Amplitude returns the linear amplitude factor of the volume.
func (v Volume) Amplitude() float64 {
	switch v.kind {
	case volumeAmpl:
		return v.value
	case volumePower:
		return math.Sqrt(v.value)
	case volumeDb:
		return mathutil.DbToAmplitude(v.value)
	default:
		return 1
	}
}

type durationKind int

const (
	durationUnset durationKind = iota
	durationSamples
	durationSeconds
)

// Duration is an output length in samples or seconds.
type Duration struct {
	kind    durationKind
	samples int
	seconds float64
}

// Samples returns a duration of an exact sample count.
func Samples(n int) Duration {
	return Duration{kind: durationSamples, samples: n}
}

// Seconds returns a duration in seconds, rounded to the nearest sample at
// the output rate.
func Seconds(s float64) Duration {
	return Duration{kind: durationSeconds, seconds: s}
}

// NumSamples returns the duration in samples at the given rate, or 0 when
// unset.
func (d Duration) NumSamples(sampleRate int) int {
	switch d.kind {
	case durationSamples:
		return d.samples
	case durationSeconds:
		return int(math.Round(d.seconds * float64(sampleRate)))
	default:
		return 0
	}
}

type modeKind int

const (
	modeUnset modeKind = iota
	modeHarmonic
)

// Mode selects the harmonic profile model used for resynthesis.
type Mode struct {
	kind  modeKind
	stdev float64
}

// Harmonic resynthesizes evenly spaced harmonics as Gaussian bands whose
// relative width is stdev (band stdev = stdev · frequency).
func Harmonic(stdev float64) Mode {
	return Mode{kind: modeHarmonic, stdev: stdev}
}

// Validate checks the configuration eagerly, before any numeric work.
func (c *Config) Validate() error {
	if c.Output.SampleRate <= 0 {
		return fmt.Errorf("%w: output sample rate must be positive, got %d", ErrInvalidConfig, c.Output.SampleRate)
	}

	duration := c.Output.Duration.NumSamples(c.Output.SampleRate)
	if duration <= 0 {
		return fmt.Errorf("%w: output duration must be positive, got %d samples", ErrInvalidConfig, duration)
	}

	switch c.Output.Mode.kind {
	case modeHarmonic:
		if c.Output.Mode.stdev <= 0 {
			return fmt.Errorf("%w: harmonic mode stdev must be greater than 0, got %g", ErrInvalidConfig, c.Output.Mode.stdev)
		}
	default:
		return fmt.Errorf("%w: output mode must be set", ErrInvalidConfig)
	}

	if err := validVolume(c.Output.MasterVolume); err != nil {
		return fmt.Errorf("%w: master volume: %v", ErrInvalidConfig, err)
	}

	if len(c.Output.Chord) == 0 {
		return fmt.Errorf("%w: chord must contain at least one note", ErrInvalidConfig)
	}
	nyquist := float64(c.Output.SampleRate) / 2
	for i, note := range c.Output.Chord {
		freq := note.Pitch.Frequency()
		if !note.Pitch.IsSet() || freq <= 0 || freq >= nyquist {
			return fmt.Errorf("%w: chord note %d frequency %g Hz outside (0, %g)", ErrInvalidConfig, i, freq, nyquist)
		}
		if err := validVolume(note.Volume); err != nil {
			return fmt.Errorf("%w: chord note %d volume: %v", ErrInvalidConfig, i, err)
		}
	}

	if c.Input.LoopBegin < 0 {
		return fmt.Errorf("%w: loop begin must not be negative, got %d", ErrInvalidConfig, c.Input.LoopBegin)
	}
	if c.Input.LoopEnd != 0 && c.Input.LoopEnd <= c.Input.LoopBegin {
		return fmt.Errorf("%w: loop end %d must be greater than loop begin %d", ErrInvalidConfig, c.Input.LoopEnd, c.Input.LoopBegin)
	}
	if c.Input.Transpose.SampleRate < 0 {
		return fmt.Errorf("%w: analysis sample rate must not be negative, got %d", ErrInvalidConfig, c.Input.Transpose.SampleRate)
	}
	if c.Input.Pitch.IsSet() && c.Input.Pitch.Frequency() <= 0 {
		return fmt.Errorf("%w: input pitch frequency must be positive, got %g Hz", ErrInvalidConfig, c.Input.Pitch.Frequency())
	}

	return nil
}

func validVolume(v Volume) error {
	a := v.Amplitude()
	if math.IsNaN(a) || math.IsInf(a, 0) || a < 0 {
		return fmt.Errorf("amplitude factor %g is not a finite non-negative number", a)
	}
	return nil
}
