// Package padsynth resynthesizes a short sampled waveform into a smooth,
// seamlessly loopable pad sound using the PADsynth spectral algorithm, then
// mixes multiple pitched copies into one output buffer.
//
// The pipeline analyzes one looped region of the source into a harmonic
// spectrum, smears each harmonic into a Gaussian energy band, renders one
// seamless loop per chord note with randomized per-bin phase, and mixes the
// notes with per-note and master volume laws before peak limiting.
//
// # Quick start
//
//	cfg := &padsynth.Config{
//	    Input: padsynth.Input{
//	        LoopBegin: 0,
//	        Pitch:     padsynth.Midi(60),
//	    },
//	    Output: padsynth.Output{
//	        SampleRate:   44100,
//	        Duration:     padsynth.Seconds(2),
//	        Mode:         padsynth.Harmonic(0.01),
//	        MasterVolume: padsynth.Ampl(1),
//	        Chord: []padsynth.ChordNote{
//	            {Pitch: padsynth.Midi(60), Volume: padsynth.Ampl(1)},
//	            {Pitch: padsynth.Midi(67), Volume: padsynth.Power(0.5)},
//	        },
//	        Seed: 1,
//	    },
//	}
//	out, err := padsynth.Render(source, 44100, cfg)
//
// # Determinism
//
// Identical (source, config, seed) always produce a bit-identical buffer.
// Per-note rendering runs concurrently, but every note draws phases from
// its own substream derived from (seed, note index), and the mix sums
// buffers strictly in chord order.
//
// # Loop seamlessness
//
// Every synthesized component lies on an exact integer multiple of the bin
// resolution sampleRate/duration, so the rendered buffer tiles with zero
// discontinuity at the loop boundary. This bin alignment is why duration
// and sample rate are fixed inputs rather than derived values.
//
// # Errors
//
// Failures surface as one of the sentinel errors [ErrInvalidConfig],
// [ErrAnalysis], [ErrSynthesis], or [ErrMix], wrapped with context; test
// with errors.Is. The pipeline never emits partial audio.
//
// Reading and decoding source audio, parsing configuration text, and
// encoding the result are the responsibility of the caller; see
// cmd/padsynth-wav for a complete WAV-to-WAV front end.
package padsynth
