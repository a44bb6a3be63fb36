package engine

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-padsynth/internal/mathutil"
	"github.com/tphakala/go-padsynth/internal/profile"
	"github.com/tphakala/go-padsynth/internal/testutil"
)

const (
	testSampleRate = 44100
	testDuration   = 8192
	testSeed       = 42

	rmsTolerance    = 1e-9
	energyTolerance = 1e-9
)

func testProfile() *profile.Profile {
	return &profile.Profile{
		RefFrequency: 100,
		Bands: []profile.Band{
			{Number: 1, Frequency: 100, Magnitude: 0.5, Bandwidth: 1.0},
			{Number: 2, Frequency: 200, Magnitude: 0.25, Bandwidth: 2.0},
			{Number: 3, Frequency: 300, Magnitude: 0.125, Bandwidth: 3.0},
		},
	}
}

func testParams() Params {
	return Params{SampleRate: testSampleRate, Duration: testDuration, Frequency: 100}
}

func TestRenderNote_Length(t *testing.T) {
	out, err := RenderNote(testProfile(), testParams(), rand.NewPCG(testSeed, 0))
	require.NoError(t, err)
	assert.Len(t, out, testDuration)
	testutil.AssertNoNaNOrInf(t, out)
}

func TestRenderNote_Deterministic(t *testing.T) {
	a, err := RenderNote(testProfile(), testParams(), rand.NewPCG(testSeed, 0))
	require.NoError(t, err)
	b, err := RenderNote(testProfile(), testParams(), rand.NewPCG(testSeed, 0))
	require.NoError(t, err)

	assert.Equal(t, a, b, "identical substreams must render bit-identical buffers")
}

func TestRenderNote_SubstreamsIndependent(t *testing.T) {
	a, err := RenderNote(testProfile(), testParams(), rand.NewPCG(testSeed, 0))
	require.NoError(t, err)
	b, err := RenderNote(testProfile(), testParams(), rand.NewPCG(testSeed, 1))
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "different substreams must differ")
}

func TestRenderNote_SeamlessLoop(t *testing.T) {
	out, err := RenderNote(testProfile(), testParams(), rand.NewPCG(testSeed, 0))
	require.NoError(t, err)
	testutil.AssertSeamlessLoop(t, out, testutil.SeamTolerance)
}

func TestRenderNote_ReferencePower(t *testing.T) {
	out, err := RenderNote(testProfile(), testParams(), rand.NewPCG(testSeed, 0))
	require.NoError(t, err)
	assert.InDelta(t, ReferenceRMS, mathutil.RMS(out), rmsTolerance,
		"rendered note is normalized to the reference power level")
}

func TestRenderNote_SilentAboveNyquist(t *testing.T) {
	prof := &profile.Profile{
		RefFrequency: 100,
		Bands:        []profile.Band{{Number: 1, Frequency: 100, Magnitude: 1, Bandwidth: 1}},
	}
	p := testParams()
	p.Frequency = 100 * float64(testSampleRate) // every band far above Nyquist

	out, err := RenderNote(prof, p, rand.NewPCG(testSeed, 0))
	require.NoError(t, err)
	testutil.AssertAllZero(t, out, "no representable bands renders silence, not an error")
}

func TestRenderNote_NonFiniteMagnitude(t *testing.T) {
	prof := &profile.Profile{
		RefFrequency: 100,
		Bands:        []profile.Band{{Number: 1, Frequency: 100, Magnitude: math.Inf(1), Bandwidth: 1}},
	}
	_, err := RenderNote(prof, testParams(), rand.NewPCG(testSeed, 0))
	assert.ErrorIs(t, err, ErrSynthesis)
}

func TestAccumulateBands_PowerConservation(t *testing.T) {
	// Band accumulation deposits exactly Magnitude² of power per band,
	// independent of bandwidth, down to vanishing stdev.
	for _, stdevRel := range []float64{0.05, 0.01, 1e-4, 1e-9} {
		prof := testProfile()
		var want float64
		for i := range prof.Bands {
			prof.Bands[i].Bandwidth = stdevRel * prof.Bands[i].Frequency
			want += prof.Bands[i].Magnitude * prof.Bands[i].Magnitude
		}

		energy := accumulateBands(prof, testParams())
		var got float64
		for _, e := range energy {
			got += e
		}
		assert.InDelta(t, want, got, energyTolerance, "stdev_rel=%g", stdevRel)
	}
}

func TestAccumulateBands_BinAlignment(t *testing.T) {
	// With sampleRate == duration the bin resolution is exactly 1 Hz, so a
	// 100 Hz band with a vanishing bandwidth must land on bin 100.
	prof := &profile.Profile{
		RefFrequency: 100,
		Bands:        []profile.Band{{Number: 1, Frequency: 100, Magnitude: 1, Bandwidth: 1e-6}},
	}
	p := Params{SampleRate: 4096, Duration: 4096, Frequency: 100}

	energy := accumulateBands(prof, p)
	maxBin, maxEnergy := 0, 0.0
	for bin, e := range energy {
		if e > maxEnergy {
			maxBin, maxEnergy = bin, e
		}
	}
	assert.Equal(t, 100, maxBin)
}

func TestRenderNote_SpectralPeak(t *testing.T) {
	prof := &profile.Profile{
		RefFrequency: 100,
		Bands:        []profile.Band{{Number: 1, Frequency: 100, Magnitude: 1, Bandwidth: 0.3}},
	}
	p := Params{SampleRate: 4096, Duration: 4096, Frequency: 100}

	out, err := RenderNote(prof, p, rand.NewPCG(testSeed, 0))
	require.NoError(t, err)

	peak := testutil.SpectralPeakBin(out, 200)
	assert.InDelta(t, 100, peak, 1, "energy peaks at the bin-aligned fundamental")
}

func TestRenderNote_PitchScaling(t *testing.T) {
	// Doubling the note frequency moves the band energy up an octave.
	prof := &profile.Profile{
		RefFrequency: 100,
		Bands:        []profile.Band{{Number: 1, Frequency: 100, Magnitude: 1, Bandwidth: 0.3}},
	}
	p := Params{SampleRate: 4096, Duration: 4096, Frequency: 200}

	out, err := RenderNote(prof, p, rand.NewPCG(testSeed, 0))
	require.NoError(t, err)

	peak := testutil.SpectralPeakBin(out, 400)
	assert.InDelta(t, 200, peak, 1)
}
