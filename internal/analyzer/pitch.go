package analyzer

import (
	"fmt"
	"math"
)

// Pitch detection parameters.
const (
	// minDetectFreq and maxDetectFreq bound the autocorrelation lag search.
	minDetectFreq = 20.0
	maxDetectFreq = 5000.0

	// minPeakCorrelation is the smallest normalized autocorrelation peak
	// accepted as periodic. Below this the signal is treated as aperiodic.
	minPeakCorrelation = 0.5

	// firstPeakRatio accepts the shortest lag whose correlation reaches
	// this fraction of the global maximum, guarding against octave errors
	// where a multiple of the true period correlates marginally better.
	firstPeakRatio = 0.9
)

// detectPeriod estimates the pitch period of data in samples using
// normalized autocorrelation over the lag range for 20 Hz to 5 kHz.
func detectPeriod(data []float64, sampleRate float64) (int, error) {
	maxLag := int(sampleRate / minDetectFreq)
	minLag := int(math.Ceil(sampleRate / maxDetectFreq))
	if minLag < 1 {
		minLag = 1
	}
	if maxLag > len(data)/2 {
		maxLag = len(data) / 2
	}
	if maxLag <= minLag {
		return 0, fmt.Errorf("%w: loop region of %d samples too short for pitch detection", ErrAnalysis, len(data))
	}

	// Fixed comparison window so every lag correlates the same span.
	window := len(data) - maxLag

	refEnergy := energy(data[:window])
	if refEnergy == 0 {
		return 0, fmt.Errorf("%w: loop region has no signal energy", ErrAnalysis)
	}

	corr := make([]float64, maxLag+1)
	bestLag, bestCorr := 0, 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		lagEnergy := energy(data[lag : lag+window])
		if lagEnergy == 0 {
			continue
		}
		var dot float64
		for i := 0; i < window; i++ {
			dot += data[i] * data[i+lag]
		}
		c := dot / math.Sqrt(refEnergy*lagEnergy)
		corr[lag] = c
		if c > bestCorr {
			bestLag, bestCorr = lag, c
		}
	}

	if bestCorr < minPeakCorrelation {
		return 0, fmt.Errorf("%w: no periodicity detected (peak correlation %.3f)", ErrAnalysis, bestCorr)
	}

	// Take the first local maximum comparable to the global one.
	threshold := firstPeakRatio * bestCorr
	for lag := minLag + 1; lag < maxLag; lag++ {
		if corr[lag] >= threshold && corr[lag] >= corr[lag-1] && corr[lag] >= corr[lag+1] {
			return lag, nil
		}
	}
	return bestLag, nil
}

func energy(s []float64) float64 {
	var sum float64
	for _, v := range s {
		sum += v * v
	}
	return sum
}
