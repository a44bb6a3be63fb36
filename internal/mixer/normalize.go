package mixer

import (
	"math"

	"github.com/tphakala/simd/f64"
)

// PeakLimit is the largest absolute sample value representable by the
// output encoding.
const PeakLimit = 1.0

// Normalize peak-limits the buffer in place. If the peak absolute amplitude
// exceeds the limit, the whole buffer is rescaled proportionally to avoid
// clipping distortion; otherwise it is left untouched. It never gains up,
// preserving the configured master volume's intent.
func Normalize(buf []float64, limit float64) {
	var peak float64
	for _, v := range buf {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	if peak <= limit {
		return
	}
	f64.Scale(buf, buf, limit/peak)
}
