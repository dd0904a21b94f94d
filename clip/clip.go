// Package clip wraps a single generation result. A GeneratedClip moves one
// way through three states, each derived lazily and at most once:
//
//	raw PCM bytes -> decoded samples -> playable *audio.Clip
//
// The byte and sample buffers belong to the clip until Close.
package clip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"elevenlabs-sdk/audio"
)

var (
	ErrNoAudio = errors.New("clip has no audio")
	ErrClosed  = errors.New("clip is closed")
)

// GeneratedClip is one generated audio result with its derived forms.
type GeneratedClip struct {
	id               string
	text             string
	textHash         uuid.UUID
	cachedPath       string
	sampleRate       int
	outputSampleRate int

	mu        sync.Mutex
	buf       *buffers
	audioClip *audio.Clip
	cleanup   runtime.Cleanup
}

// buffers holds the memory owned by a clip. It is kept apart from the clip
// so the cleanup can release it after the clip is unreachable.
type buffers struct {
	data     []byte
	samples  []float32
	released bool
}

func (b *buffers) release() {
	b.data = nil
	b.samples = nil
	b.released = true
}

// Option configures a clip at construction.
type Option func(*GeneratedClip)

// WithCachedPath records where the clip's audio was written on disk.
func WithCachedPath(path string) Option {
	return func(c *GeneratedClip) {
		c.cachedPath = path
	}
}

// WithOutputSampleRate sets the playback rate samples are decoded to.
// Defaults to audio.DefaultOutputSampleRate.
func WithOutputSampleRate(rate int) Option {
	return func(c *GeneratedClip) {
		if rate > 0 {
			c.outputSampleRate = rate
		}
	}
}

// New wraps raw 16-bit mono PCM recorded at sampleRate. data is owned by the
// clip from here on.
func New(id, text string, data []byte, sampleRate int, opts ...Option) *GeneratedClip {
	c := newClip(id, text, sampleRate, opts)
	c.buf.data = data
	return c
}

// FromAudio wraps an already playable clip, e.g. one loaded from the cache.
// A nil ac gives a clip with no audio and a sample rate of 0.
func FromAudio(id, text string, ac *audio.Clip, opts ...Option) *GeneratedClip {
	sampleRate := 0
	if ac != nil {
		sampleRate = ac.SampleRate
	}
	c := newClip(id, text, sampleRate, opts)
	c.audioClip = ac
	return c
}

func newClip(id, text string, sampleRate int, opts []Option) *GeneratedClip {
	c := &GeneratedClip{
		id:               id,
		text:             text,
		textHash:         TextHash(id, text),
		sampleRate:       sampleRate,
		outputSampleRate: audio.DefaultOutputSampleRate,
		buf:              &buffers{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.track()
	return c
}

// track registers the best-effort release for clips that are never closed.
func (c *GeneratedClip) track() {
	id := c.id
	c.cleanup = runtime.AddCleanup(c, func(b *buffers) {
		if !b.released {
			logrus.WithField("id", id).Debugln("generated clip reclaimed without Close")
			b.release()
		}
	}, c.buf)
}

func (c *GeneratedClip) ID() string { return c.id }
func (c *GeneratedClip) Text() string { return c.text }
func (c *GeneratedClip) TextHash() uuid.UUID { return c.textHash }
func (c *GeneratedClip) CachedPath() string { return c.cachedPath }
func (c *GeneratedClip) SampleRate() int { return c.sampleRate }

// OutputSampleRate is the rate of ClipSamples and of the playable clip.
func (c *GeneratedClip) OutputSampleRate() int { return c.outputSampleRate }

// ClipData returns the raw PCM payload, or an empty slice when there is none.
func (c *GeneratedClip) ClipData() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.buf == nil || c.buf.data == nil {
		return []byte{}
	}
	return c.buf.data
}

// ClipSamples decodes the raw bytes once and returns the cached samples on
// later calls. A clip without raw bytes yields an empty buffer.
func (c *GeneratedClip) ClipSamples() ([]float32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.samplesLocked()
}

func (c *GeneratedClip) samplesLocked() ([]float32, error) {
	if c.buf == nil {
		return []float32{}, nil
	}
	if c.buf.released {
		return nil, ErrClosed
	}
	if c.buf.samples != nil {
		return c.buf.samples, nil
	}
	if len(c.buf.data) == 0 {
		return []float32{}, nil
	}

	samples, err := audio.DecodePCM(c.buf.data, c.sampleRate, c.outputSampleRate)
	if err != nil {
		return nil, fmt.Errorf("failed to decode clip %s; %w", c.id, err)
	}
	c.buf.samples = samples
	return samples, nil
}

// AudioClip returns the playable form, building it from the decoded
// samples the first time. The playable clip is not released by Close.
func (c *GeneratedClip) AudioClip() (*audio.Clip, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.audioClip != nil {
		return c.audioClip, nil
	}

	samples, err := c.samplesLocked()
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		logrus.WithField("id", c.id).Errorln("audio clip is empty, try loading it with LoadCachedAudioClip")
		return nil, ErrNoAudio
	}

	c.audioClip = audio.NewClip(c.id, samples, 1, c.outputSampleRate)
	return c.audioClip, nil
}

// Length is the playback duration of the decoded samples, falling back to
// the playable clip when the clip holds no raw bytes.
func (c *GeneratedClip) Length() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	samples, err := c.samplesLocked()
	if err == nil && len(samples) > 0 {
		return time.Duration(float64(len(samples)) / float64(c.outputSampleRate) * float64(time.Second))
	}
	if c.audioClip != nil {
		return c.audioClip.Duration()
	}
	return 0
}

// LoadCachedAudioClip decodes the file at CachedPath. Files that are not
// .ogg, .wav or .mp3 are logged and reported as (nil, nil). The loaded clip
// also becomes the clip's playable form if it has none yet.
func (c *GeneratedClip) LoadCachedAudioClip(ctx context.Context) (*audio.Clip, error) {
	if audio.TypeFromPath(c.cachedPath) == audio.TypeUnknown {
		logrus.WithField("path", c.cachedPath).Warnln("unable to load cached audio clip")
		return nil, nil
	}

	ac, err := audio.DecodeFile(ctx, c.cachedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load cached clip %s; %w", c.id, err)
	}
	ac.Name = c.id

	c.mu.Lock()
	if c.audioClip == nil {
		c.audioClip = ac
	}
	c.mu.Unlock()

	return ac, nil
}

// Close releases the raw bytes and decoded samples. It is safe to call more
// than once.
func (c *GeneratedClip) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.buf == nil || c.buf.released {
		return nil
	}
	c.cleanup.Stop()
	c.buf.release()
	return nil
}

type clipJSON struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	TextHash   string `json:"text_hash"`
	CachedPath string `json:"cached_path,omitempty"`
	SampleRate int    `json:"sample_rate,omitempty"`
}

// MarshalJSON stores the clip's identity and cache location, not its audio.
func (c *GeneratedClip) MarshalJSON() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return json.Marshal(clipJSON{
		ID:         c.id,
		Text:       c.text,
		TextHash:   c.textHash.String(),
		CachedPath: c.cachedPath,
		SampleRate: c.sampleRate,
	})
}

// UnmarshalJSON restores a clip written by MarshalJSON. The audio has to be
// reloaded with LoadCachedAudioClip.
func (c *GeneratedClip) UnmarshalJSON(data []byte) error {
	var v clipJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	hash := TextHash(v.ID, v.Text)
	if v.TextHash != "" {
		parsed, err := uuid.Parse(v.TextHash)
		if err != nil {
			return fmt.Errorf("failed to parse text hash; %w", err)
		}
		hash = parsed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.id = v.ID
	c.text = v.Text
	c.textHash = hash
	c.cachedPath = v.CachedPath
	c.sampleRate = v.SampleRate
	if c.outputSampleRate == 0 {
		c.outputSampleRate = audio.DefaultOutputSampleRate
	}
	if c.buf == nil {
		c.buf = &buffers{}
		c.track()
	}
	return nil
}
