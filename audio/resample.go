package audio

import (
	"fmt"

	resampling "github.com/tphakala/go-audio-resampling"
)

// Resample converts interleaved samples between sample rates. Equal rates
// return the input unchanged.
func Resample(samples []float32, inputSampleRate, outputSampleRate, channels int) ([]float32, error) {
	if inputSampleRate == outputSampleRate || len(samples) == 0 {
		return samples, nil
	}
	if channels < 1 {
		channels = 1
	}

	r, err := resampling.New(&resampling.Config{
		InputRate:  float64(inputSampleRate),
		OutputRate: float64(outputSampleRate),
		Channels:   channels,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to construct resampler; %w", err)
	}

	input := make([]float64, len(samples))
	for i, s := range samples {
		input[i] = float64(s)
	}

	output, err := r.Process(input)
	if err != nil {
		return nil, fmt.Errorf("failed to resample %d -> %d; %w", inputSampleRate, outputSampleRate, err)
	}

	// the filter holds back its last window until flushed
	tail, err := r.Flush()
	if err != nil {
		return nil, fmt.Errorf("failed to flush resampler; %w", err)
	}
	output = append(output, tail...)

	result := make([]float32, len(output))
	for i, s := range output {
		result[i] = float32(clamp(s))
	}
	return result, nil
}

func clamp(s float64) float64 {
	if s > 1 {
		return 1
	}
	if s < -1 {
		return -1
	}
	return s
}
