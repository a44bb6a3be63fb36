package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	padsynth "github.com/tphakala/go-padsynth"
)

// fileConfig mirrors the YAML configuration format. Variant fields (pitch,
// volume, duration, mode) are spelled as single-key mappings, e.g.
// pitch: {midi: 60} or pitch: {hz: 261.6}.
type fileConfig struct {
	Input  fileInput  `yaml:"input"`
	Output fileOutput `yaml:"output"`
}

type fileInput struct {
	LoopBegin int           `yaml:"loop_begin"`
	LoopEnd   int           `yaml:"loop_end"`
	Pitch     *filePitch    `yaml:"pitch"`
	Transpose fileTranspose `yaml:"transpose"`
}

type fileTranspose struct {
	SampleRate  int     `yaml:"sample_rate"`
	DetuneCents float64 `yaml:"detune_cents"`
}

type fileOutput struct {
	SampleRate       int          `yaml:"sample_rate"`
	Duration         fileDuration `yaml:"duration"`
	Mode             fileMode     `yaml:"mode"`
	MasterVolume     *fileVolume  `yaml:"master_volume"`
	RandomAmplitudes bool         `yaml:"random_amplitudes"`
	Chord            []fileNote   `yaml:"chord"`
	Seed             uint64       `yaml:"seed"`
}

type fileNote struct {
	Pitch  *filePitch  `yaml:"pitch"`
	Volume *fileVolume `yaml:"volume"`
}

type filePitch struct {
	Midi *int     `yaml:"midi"`
	Hz   *float64 `yaml:"hz"`
}

type fileVolume struct {
	Ampl  *float64 `yaml:"ampl"`
	Power *float64 `yaml:"power"`
	Db    *float64 `yaml:"db"`
}

type fileDuration struct {
	Smp *int     `yaml:"smp"`
	Sec *float64 `yaml:"sec"`
}

type fileMode struct {
	Harmonic *struct {
		Stdev float64 `yaml:"stdev"`
	} `yaml:"harmonic"`
}

// loadConfig reads and converts a YAML configuration file into a validated
// core configuration.
func loadConfig(path string) (*padsynth.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg, err := fc.toConfig()
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

func (fc *fileConfig) toConfig() (*padsynth.Config, error) {
	cfg := &padsynth.Config{
		Input: padsynth.Input{
			LoopBegin: fc.Input.LoopBegin,
			LoopEnd:   fc.Input.LoopEnd,
			Transpose: padsynth.Transpose{
				SampleRate:  fc.Input.Transpose.SampleRate,
				DetuneCents: fc.Input.Transpose.DetuneCents,
			},
		},
		Output: padsynth.Output{
			SampleRate:       fc.Output.SampleRate,
			RandomAmplitudes: fc.Output.RandomAmplitudes,
			Seed:             fc.Output.Seed,
		},
	}

	if fc.Input.Pitch != nil {
		pitch, err := fc.Input.Pitch.toPitch()
		if err != nil {
			return nil, fmt.Errorf("input pitch: %w", err)
		}
		cfg.Input.Pitch = pitch
	}

	duration, err := fc.Output.Duration.toDuration()
	if err != nil {
		return nil, fmt.Errorf("output duration: %w", err)
	}
	cfg.Output.Duration = duration

	mode, err := fc.Output.Mode.toMode()
	if err != nil {
		return nil, fmt.Errorf("output mode: %w", err)
	}
	cfg.Output.Mode = mode

	if fc.Output.MasterVolume != nil {
		volume, err := fc.Output.MasterVolume.toVolume()
		if err != nil {
			return nil, fmt.Errorf("master volume: %w", err)
		}
		cfg.Output.MasterVolume = volume
	}

	for i, note := range fc.Output.Chord {
		if note.Pitch == nil {
			return nil, fmt.Errorf("chord note %d: pitch is required", i)
		}
		pitch, err := note.Pitch.toPitch()
		if err != nil {
			return nil, fmt.Errorf("chord note %d pitch: %w", i, err)
		}
		chordNote := padsynth.ChordNote{Pitch: pitch}
		if note.Volume != nil {
			volume, err := note.Volume.toVolume()
			if err != nil {
				return nil, fmt.Errorf("chord note %d volume: %w", i, err)
			}
			chordNote.Volume = volume
		}
		cfg.Output.Chord = append(cfg.Output.Chord, chordNote)
	}

	return cfg, nil
}

func (fp *filePitch) toPitch() (padsynth.Pitch, error) {
	switch {
	case fp.Midi != nil && fp.Hz != nil:
		return padsynth.Pitch{}, fmt.Errorf("midi and hz are mutually exclusive")
	case fp.Midi != nil:
		return padsynth.Midi(*fp.Midi), nil
	case fp.Hz != nil:
		return padsynth.Hz(*fp.Hz), nil
	default:
		return padsynth.Pitch{}, fmt.Errorf("one of midi or hz is required")
	}
}

func (fv *fileVolume) toVolume() (padsynth.Volume, error) {
	set := 0
	for _, p := range []*float64{fv.Ampl, fv.Power, fv.Db} {
		if p != nil {
			set++
		}
	}
	switch {
	case set > 1:
		return padsynth.Volume{}, fmt.Errorf("ampl, power and db are mutually exclusive")
	case fv.Ampl != nil:
		return padsynth.Ampl(*fv.Ampl), nil
	case fv.Power != nil:
		return padsynth.Power(*fv.Power), nil
	case fv.Db != nil:
		return padsynth.Db(*fv.Db), nil
	default:
		return padsynth.Volume{}, fmt.Errorf("one of ampl, power or db is required")
	}
}

func (fd *fileDuration) toDuration() (padsynth.Duration, error) {
	switch {
	case fd.Smp != nil && fd.Sec != nil:
		return padsynth.Duration{}, fmt.Errorf("smp and sec are mutually exclusive")
	case fd.Smp != nil:
		return padsynth.Samples(*fd.Smp), nil
	case fd.Sec != nil:
		return padsynth.Seconds(*fd.Sec), nil
	default:
		return padsynth.Duration{}, fmt.Errorf("one of smp or sec is required")
	}
}

func (fm *fileMode) toMode() (padsynth.Mode, error) {
	if fm.Harmonic == nil {
		return padsynth.Mode{}, fmt.Errorf("harmonic mode is required")
	}
	return padsynth.Harmonic(fm.Harmonic.Stdev), nil
}
