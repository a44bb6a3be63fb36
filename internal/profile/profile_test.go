package profile

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-padsynth/internal/analyzer"
)

const (
	testStdev   = 0.01
	testNyquist = 22050.0
	testSeed    = 7
)

func testSpectrum() *analyzer.Spectrum {
	return &analyzer.Spectrum{
		Fundamental: 100,
		Harmonics: []analyzer.Harmonic{
			{Number: 1, Frequency: 100, Magnitude: 0.5},
			{Number: 2, Frequency: 200, Magnitude: 0.25},
			{Number: 3, Frequency: 300, Magnitude: 0.125},
		},
	}
}

func TestBuild_BandShape(t *testing.T) {
	prof := Build(testSpectrum(), Params{Stdev: testStdev, Nyquist: testNyquist}, rand.NewPCG(testSeed, 0))

	require.Len(t, prof.Bands, 3)
	assert.Equal(t, 100.0, prof.RefFrequency)

	for i, b := range prof.Bands {
		assert.Equal(t, i+1, b.Number)
		assert.InDelta(t, testStdev*b.Frequency, b.Bandwidth, 1e-12,
			"bandwidth proportional to center frequency")
		if i > 0 {
			assert.Greater(t, b.Frequency, prof.Bands[i-1].Frequency, "strictly ascending")
		}
	}

	// Magnitudes pass through unmodified without random amplitudes.
	assert.Equal(t, 0.5, prof.Bands[0].Magnitude)
	assert.Equal(t, 0.25, prof.Bands[1].Magnitude)
	assert.Equal(t, 0.125, prof.Bands[2].Magnitude)
}

func TestBuild_NyquistExclusion(t *testing.T) {
	prof := Build(testSpectrum(), Params{Stdev: testStdev, Nyquist: 250}, rand.NewPCG(testSeed, 0))

	require.Len(t, prof.Bands, 2, "harmonics at or above Nyquist are dropped")
	assert.Equal(t, 200.0, prof.Bands[1].Frequency)
}

func TestBuild_RandomAmplitudes(t *testing.T) {
	spec := testSpectrum()
	p := Params{Stdev: testStdev, RandomAmplitudes: true, Nyquist: testNyquist}

	a := Build(spec, p, rand.NewPCG(testSeed, 0))
	b := Build(spec, p, rand.NewPCG(testSeed, 0))
	c := Build(spec, p, rand.NewPCG(testSeed+1, 0))

	for i := range a.Bands {
		assert.Equal(t, a.Bands[i].Magnitude, b.Bands[i].Magnitude,
			"same seed must give identical magnitudes")
		assert.LessOrEqual(t, a.Bands[i].Magnitude, spec.Harmonics[i].Magnitude,
			"uniform [0,1) factor never gains up")
		assert.GreaterOrEqual(t, a.Bands[i].Magnitude, 0.0)
	}

	differs := false
	for i := range a.Bands {
		if a.Bands[i].Magnitude != c.Bands[i].Magnitude {
			differs = true
		}
	}
	assert.True(t, differs, "different seeds must perturb magnitudes")
}
