// Package soundgen turns text prompts into sound effects.
package soundgen

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"elevenlabs-sdk/api"
	"elevenlabs-sdk/clip"
)

// ClipStore persists generated audio. storage.ClipCache implements it.
type ClipStore interface {
	Store(ctx context.Context, id, text string, pcm []byte, sampleRate int) (string, error)
}

type Endpoint struct {
	api.Endpoint

	store            ClipStore
	format           OutputFormat
	outputSampleRate int
}

type Option func(*Endpoint)

// WithClipStore writes every generated clip to store.
func WithClipStore(store ClipStore) Option {
	return func(e *Endpoint) {
		e.store = store
	}
}

// WithOutputFormat sets the default PCM format requested from the API.
func WithOutputFormat(format OutputFormat) Option {
	return func(e *Endpoint) {
		e.format = format
	}
}

// WithOutputSampleRate is the rate generated clips decode their samples to.
func WithOutputSampleRate(rate int) Option {
	return func(e *Endpoint) {
		e.outputSampleRate = rate
	}
}

func NewEndpoint(client *api.Client, opts ...Option) *Endpoint {
	e := &Endpoint{
		Endpoint: api.NewEndpoint(client, "v1", "sound-generation"),
		format:   DefaultOutputFormat,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GenerateOption overrides endpoint settings for a single call.
type GenerateOption func(*generateConfig)

type generateConfig struct {
	format OutputFormat
}

// Format requests format instead of the endpoint default.
func Format(format OutputFormat) GenerateOption {
	return func(c *generateConfig) {
		c.format = format
	}
}

// GenerateSound sends one generation request and wraps the returned PCM in
// a clip. The clip id is the API request id, or a random UUID when the
// response carries none. The caller owns the clip and should Close it.
func (e *Endpoint) GenerateSound(ctx context.Context, req *SoundGenerationRequest, opts ...GenerateOption) (*clip.GeneratedClip, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cfg := generateConfig{format: e.format}
	for _, opt := range opts {
		opt(&cfg)
	}
	if !cfg.format.IsPCM() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, cfg.format)
	}

	url := e.URL("", map[string]string{"output_format": string(cfg.format)})
	resp, err := e.Client.Do(ctx, http.MethodPost, url, req)
	if err != nil {
		return nil, fmt.Errorf("failed to generate sound; %w", err)
	}

	id := resp.Header.Get("request-id")
	if id == "" {
		id = uuid.NewString()
	}
	rate := cfg.format.SampleRate()

	log := e.Client.Logger().WithFields(logrus.Fields{
		"id":     id,
		"format": cfg.format,
		"bytes":  len(resp.Body),
	})
	log.Debugln("generated sound")

	clipOpts := []clip.Option{clip.WithOutputSampleRate(e.outputSampleRate)}
	if e.store != nil {
		path, err := e.store.Store(ctx, id, req.Text, resp.Body, rate)
		if err != nil {
			return nil, fmt.Errorf("failed to store generated sound; %w", err)
		}
		log.WithField("path", path).Debugln("stored generated sound")
		clipOpts = append(clipOpts, clip.WithCachedPath(path))
	}

	return clip.New(id, req.Text, resp.Body, rate, clipOpts...), nil
}
