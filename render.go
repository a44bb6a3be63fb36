package padsynth

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/tphakala/go-padsynth/internal/analyzer"
	"github.com/tphakala/go-padsynth/internal/engine"
	"github.com/tphakala/go-padsynth/internal/mixer"
	"github.com/tphakala/go-padsynth/internal/profile"
)

// PCG stream selectors. The profile and every chord note consume
// independent, deterministically derived substreams of the run seed, so
// notes never interfere and chord order cannot perturb another note's
// randomness.
const (
	profileStream  uint64 = 0
	noteStreamBase uint64 = 1
)

// Render runs the whole pipeline over an in-memory mono source: analysis,
// profile generation, per-note resynthesis, chord mixing, and peak
// limiting. The returned buffer has exactly the configured duration at the
// configured output rate and is ready for encoding.
//
// Identical (source, cfg, cfg.Output.Seed) always produce a bit-identical
// buffer. Notes render concurrently, but each writes only its own buffer
// from its own random substream, and mixing follows the declared chord
// order.
func Render(source []float64, sourceRate int, cfg *Config) ([]float64, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if sourceRate <= 0 {
		return nil, fmt.Errorf("%w: source sample rate must be positive, got %d", ErrInvalidConfig, sourceRate)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	analysisRate := cfg.Input.Transpose.SampleRate
	if analysisRate == 0 {
		analysisRate = sourceRate
	}

	spectrum, err := analyzer.Analyze(source, analyzer.Params{
		SampleRate:  float64(analysisRate),
		LoopBegin:   cfg.Input.LoopBegin,
		LoopEnd:     cfg.Input.LoopEnd,
		Frequency:   cfg.Input.Pitch.Frequency(),
		DetuneCents: cfg.Input.Transpose.DetuneCents,
	})
	if err != nil {
		return nil, err
	}

	prof := profile.Build(spectrum, profile.Params{
		Stdev:            cfg.Output.Mode.stdev,
		RandomAmplitudes: cfg.Output.RandomAmplitudes,
		Nyquist:          float64(cfg.Output.SampleRate) / 2,
	}, rand.NewPCG(cfg.Output.Seed, profileStream))

	duration := cfg.Output.Duration.NumSamples(cfg.Output.SampleRate)
	buffers, err := renderChord(prof, cfg.Output, duration)
	if err != nil {
		return nil, err
	}

	amplitudes := make([]float64, len(cfg.Output.Chord))
	for i, note := range cfg.Output.Chord {
		amplitudes[i] = note.Volume.Amplitude()
	}
	out, err := mixer.Mix(buffers, amplitudes, cfg.Output.MasterVolume.Amplitude(), duration)
	if err != nil {
		return nil, err
	}

	mixer.Normalize(out, mixer.PeakLimit)
	return out, nil
}

// renderChord fans per-note rendering out across goroutines. Every note
// reads the shared immutable profile and writes only its own slot, so the
// only ordering constraint is the mix that follows.
func renderChord(prof *profile.Profile, out Output, duration int) ([][]float64, error) {
	buffers := make([][]float64, len(out.Chord))

	var wg sync.WaitGroup
	var errMu sync.Mutex
	var renderErr error

	for i, note := range out.Chord {
		wg.Add(1)
		go func(idx int, note ChordNote) {
			defer wg.Done()
			src := rand.NewPCG(out.Seed, noteStreamBase+uint64(idx))
			buf, err := engine.RenderNote(prof, engine.Params{
				SampleRate: out.SampleRate,
				Duration:   duration,
				Frequency:  note.Pitch.Frequency(),
			}, src)
			if err != nil {
				errMu.Lock()
				if renderErr == nil {
					renderErr = fmt.Errorf("chord note %d: %w", idx, err)
				}
				errMu.Unlock()
				return
			}
			buffers[idx] = buf
		}(i, note)
	}
	wg.Wait()

	if renderErr != nil {
		return nil, renderErr
	}
	return buffers, nil
}
