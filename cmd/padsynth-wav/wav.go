package main

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	bitsPerSample8  = 8
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32

	maxInt8  = 127.0
	maxInt16 = 32767.0
	maxInt24 = 8388607.0
	maxInt32 = 2147483647.0

	unsignedOffset8 = 128

	outputBitDepth = bitsPerSample16
	outputChannels = 1
)

// decodeWAV reads a whole WAV file into normalized float64 samples in
// [-1, 1]. Multi-channel input is downmixed to mono by averaging.
func decodeWAV(path string) ([]float64, int, error) {
	inputFile, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open input file: %w", err)
	}
	defer inputFile.Close()

	decoder := wav.NewDecoder(inputFile)
	if !decoder.IsValidFile() {
		return nil, 0, fmt.Errorf("invalid WAV file: %s", path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read WAV data from %s: %w", path, err)
	}

	rate := buf.Format.SampleRate
	channels := buf.Format.NumChannels
	bitDepth := int(decoder.BitDepth)
	if channels < 1 {
		return nil, 0, fmt.Errorf("invalid channel count in %s", path)
	}

	maxVal, err := getMaxValue(bitDepth)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", path, err)
	}
	invMaxVal := 1.0 / maxVal

	numFrames := len(buf.Data) / channels
	samples := make([]float64, numFrames)
	invChannels := 1.0 / float64(channels)
	for i := range numFrames {
		sum := 0.0
		for ch := range channels {
			v := buf.Data[i*channels+ch]
			// 8-bit WAV is unsigned, everything wider is signed.
			if bitDepth == bitsPerSample8 {
				v -= unsignedOffset8
			}
			sum += float64(v) * invMaxVal
		}
		samples[i] = sum * invChannels
	}

	return samples, rate, nil
}

// encodeWAV writes normalized samples as a 16-bit mono PCM WAV file.
// Samples outside [-1, 1] are clamped.
func encodeWAV(path string, samples []float64, sampleRate int) error {
	outputFile, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer outputFile.Close()

	encoder := wav.NewEncoder(outputFile, sampleRate, outputBitDepth, outputChannels, 1)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: outputChannels,
			SampleRate:  sampleRate,
		},
		SourceBitDepth: outputBitDepth,
		Data:           make([]int, len(samples)),
	}
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		buf.Data[i] = int(s * maxInt16)
	}

	if err := encoder.Write(buf); err != nil {
		return fmt.Errorf("failed to write WAV data: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to finalize WAV file: %w", err)
	}
	return nil
}

// getMaxValue returns the maximum sample magnitude for the given bit depth.
func getMaxValue(bitDepth int) (float64, error) {
	switch bitDepth {
	case bitsPerSample8:
		return maxInt8, nil
	case bitsPerSample16:
		return maxInt16, nil
	case bitsPerSample24:
		return maxInt24, nil
	case bitsPerSample32:
		return maxInt32, nil
	default:
		return 0, fmt.Errorf("unsupported bit depth: %d", bitDepth)
	}
}
