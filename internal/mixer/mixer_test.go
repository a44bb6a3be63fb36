package mixer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mixTolerance = 1e-12

func TestMix_Superposition(t *testing.T) {
	note := []float64{0.1, -0.2, 0.3, -0.4}

	single, err := Mix([][]float64{note}, []float64{1}, 1, len(note))
	require.NoError(t, err)
	double, err := Mix([][]float64{note, note}, []float64{1, 1}, 1, len(note))
	require.NoError(t, err)

	for i := range note {
		assert.InDelta(t, 2*single[i], double[i], mixTolerance,
			"two unison notes at unit amplitude sum to double")
	}
}

func TestMix_PerNoteAmplitude(t *testing.T) {
	a := []float64{1, 1}
	b := []float64{1, -1}

	out, err := Mix([][]float64{a, b}, []float64{0.5, 0.25}, 1, 2)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, out[0], mixTolerance)
	assert.InDelta(t, 0.25, out[1], mixTolerance)
}

func TestMix_MasterVolume(t *testing.T) {
	note := []float64{1, -1}

	out, err := Mix([][]float64{note}, []float64{1}, 0.5, 2)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, out[0], mixTolerance)
	assert.InDelta(t, -0.5, out[1], mixTolerance)
}

func TestMix_LengthMismatch(t *testing.T) {
	tests := []struct {
		name       string
		buffers    [][]float64
		amplitudes []float64
	}{
		{"short_buffer", [][]float64{{1, 2, 3}}, []float64{1}},
		{"long_buffer", [][]float64{{1, 2, 3, 4, 5}}, []float64{1}},
		{"amplitude_count", [][]float64{{1, 2, 3, 4}}, []float64{1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Mix(tt.buffers, tt.amplitudes, 1, 4)
			assert.ErrorIs(t, err, ErrMix)
		})
	}
}

func TestMix_EmptyChord(t *testing.T) {
	out, err := Mix(nil, nil, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 0}, out)
}

func TestNormalize_DownOnly(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want []float64
	}{
		{"peak_within_range_untouched", []float64{0.5, -0.25}, []float64{0.5, -0.25}},
		{"peak_at_limit_untouched", []float64{1.0, -0.5}, []float64{1.0, -0.5}},
		{"peak_above_limit_halved", []float64{2.0, -1.0}, []float64{1.0, -0.5}},
		{"negative_peak", []float64{0.5, -4.0}, []float64{0.125, -1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]float64, len(tt.in))
			copy(buf, tt.in)
			Normalize(buf, PeakLimit)
			for i := range buf {
				assert.InDelta(t, tt.want[i], buf[i], mixTolerance)
			}
		})
	}
}

func TestNormalize_NeverGainsUp(t *testing.T) {
	buf := []float64{0.01, -0.005}
	Normalize(buf, PeakLimit)
	assert.Equal(t, 0.01, buf[0])
	assert.Equal(t, -0.005, buf[1])
	assert.LessOrEqual(t, math.Abs(buf[0]), PeakLimit)
}
