package soundgen

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyText         = errors.New("sound generation text is empty")
	ErrUnsupportedFormat = errors.New("unsupported output format")
)

const (
	MinDuration = 0.5
	MaxDuration = 22
)

// SoundGenerationRequest describes the sound effect to generate.
type SoundGenerationRequest struct {
	// Text describes the sound, e.g. "light saber parry".
	Text string `json:"text"`

	// DurationSeconds is between MinDuration and MaxDuration. When nil the
	// model picks a length from the prompt.
	DurationSeconds *float64 `json:"duration_seconds,omitempty"`

	// PromptInfluence in [0, 1]; higher follows the text more literally.
	// The API defaults to 0.3.
	PromptInfluence *float64 `json:"prompt_influence,omitempty"`

	// Loop asks for a sound that repeats seamlessly.
	Loop bool `json:"loop,omitempty"`

	ModelID string `json:"model_id,omitempty"`
}

// NewSoundGenerationRequest builds a request for text with the API defaults.
func NewSoundGenerationRequest(text string) *SoundGenerationRequest {
	return &SoundGenerationRequest{Text: text}
}

// WithDuration sets DurationSeconds and returns r.
func (r *SoundGenerationRequest) WithDuration(seconds float64) *SoundGenerationRequest {
	r.DurationSeconds = &seconds
	return r
}

// WithPromptInfluence sets PromptInfluence and returns r.
func (r *SoundGenerationRequest) WithPromptInfluence(influence float64) *SoundGenerationRequest {
	r.PromptInfluence = &influence
	return r
}

func (r *SoundGenerationRequest) Validate() error {
	if r == nil || strings.TrimSpace(r.Text) == "" {
		return ErrEmptyText
	}
	if d := r.DurationSeconds; d != nil && (*d < MinDuration || *d > MaxDuration) {
		return fmt.Errorf("duration %.2fs outside [%.1f, %.0f]", *d, MinDuration, float64(MaxDuration))
	}
	if p := r.PromptInfluence; p != nil && (*p < 0 || *p > 1) {
		return fmt.Errorf("prompt influence %.2f outside [0, 1]", *p)
	}
	return nil
}

// OutputFormat is the encoding requested from the API. Only raw PCM formats
// can be wrapped in a clip.
type OutputFormat string

const (
	PCM16000 OutputFormat = "pcm_16000"
	PCM22050 OutputFormat = "pcm_22050"
	PCM24000 OutputFormat = "pcm_24000"
	PCM44100 OutputFormat = "pcm_44100"

	DefaultOutputFormat = PCM24000
)

var pcmRates = map[OutputFormat]int{
	PCM16000: 16000,
	PCM22050: 22050,
	PCM24000: 24000,
	PCM44100: 44100,
}

// IsPCM reports whether f is one of the raw PCM formats.
func (f OutputFormat) IsPCM() bool {
	_, ok := pcmRates[f]
	return ok
}

// SampleRate is the rate of a PCM format, or 0 for anything else.
func (f OutputFormat) SampleRate() int {
	return pcmRates[f]
}

// ParseOutputFormat accepts "pcm_24000" or just "24000".
func ParseOutputFormat(s string) (OutputFormat, error) {
	f := OutputFormat(s)
	if !strings.HasPrefix(s, "pcm_") {
		f = OutputFormat("pcm_" + s)
	}
	if !f.IsPCM() {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, s)
	}
	return f, nil
}
