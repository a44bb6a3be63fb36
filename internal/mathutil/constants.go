package mathutil

// Equal temperament tuning constants.
const (
	// A4Frequency is the reference pitch for MIDI note 69 in Hz.
	A4Frequency = 440.0

	// A4MidiNote is the MIDI note number of the A4 reference pitch.
	A4MidiNote = 69

	// SemitonesPerOctave is the number of equal-tempered semitones in an octave.
	SemitonesPerOctave = 12.0

	// CentsPerOctave is the number of cents in an octave.
	CentsPerOctave = 1200.0
)

// dbPowerDivisor converts decibels to a power ratio exponent (dB = 10·log₁₀ P).
const dbPowerDivisor = 10.0
