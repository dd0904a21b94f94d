package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/sirupsen/logrus"

	"elevenlabs-sdk/audio"
	"elevenlabs-sdk/clip"
)

var ErrNotCached = errors.New("clip not cached")

const (
	manifestName = "manifest.yaml"

	// DefaultTTL is how long a loaded clip stays in memory after its last use.
	DefaultTTL = 10 * time.Minute
)

// ClipCache keeps generated clips as WAV files named by text hash, indexed
// by a manifest and optionally mirrored to S3. Clips returned by Load are
// held in memory until they expire; the cache closes them on eviction, so
// callers must not Close them.
type ClipCache struct {
	dir              string
	manifest         *Manifest
	s3               *S3
	ttl              time.Duration
	outputSampleRate int
	loaded           *ttlcache.Cache[string, *clip.GeneratedClip]
	closeOnce        sync.Once
}

type CacheOption func(*ClipCache)

// WithS3 mirrors every stored clip to s and falls back to it on local misses.
func WithS3(s *S3) CacheOption {
	return func(c *ClipCache) {
		c.s3 = s
	}
}

// WithTTL sets how long loaded clips stay in memory.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *ClipCache) {
		c.ttl = ttl
	}
}

// WithOutputSampleRate is passed to the clips built by Load.
func WithOutputSampleRate(rate int) CacheOption {
	return func(c *ClipCache) {
		c.outputSampleRate = rate
	}
}

// NewClipCache opens (or creates) a cache rooted at dir.
func NewClipCache(dir string, opts ...CacheOption) (*ClipCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir; %w", err)
	}

	manifest, err := NewManifest(filepath.Join(dir, manifestName))
	if err != nil {
		return nil, fmt.Errorf("failed to open cache manifest; %w", err)
	}

	c := &ClipCache{
		dir:              dir,
		manifest:         manifest,
		ttl:              DefaultTTL,
		outputSampleRate: audio.DefaultOutputSampleRate,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.loaded = ttlcache.New[string, *clip.GeneratedClip](
		ttlcache.WithTTL[string, *clip.GeneratedClip](c.ttl),
	)
	c.loaded.OnEviction(func(_ context.Context, reason ttlcache.EvictionReason, item *ttlcache.Item[string, *clip.GeneratedClip]) {
		logrus.WithFields(logrus.Fields{
			"hash":   item.Key(),
			"reason": reason,
		}).Debugln("evicting cached clip")
		item.Value().Close()
	})
	go c.loaded.Start()

	return c, nil
}

// Store writes pcm as <hash>.wav, records it in the manifest and uploads it
// to S3 when configured. It returns the local path.
func (c *ClipCache) Store(ctx context.Context, id, text string, pcm []byte, sampleRate int) (string, error) {
	hash := clip.TextHash(id, text).String()
	path := c.path(hash)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create cache file; %w", err)
	}
	err = audio.PCMToWav(pcm, sampleRate, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("failed to encode wav file; %w", err)
	}

	err = c.manifest.Put(hash, Entry{
		ID:         id,
		Text:       text,
		Path:       path,
		SampleRate: sampleRate,
	})
	if err != nil {
		return "", fmt.Errorf("failed to update manifest; %w", err)
	}
	// drop the clip decoded from the file we just replaced
	c.loaded.Delete(hash)

	if c.s3 != nil {
		if err := c.upload(ctx, path); err != nil {
			return "", err
		}
	}

	return path, nil
}

// Load returns the cached clip for (id, text), checking memory, then the
// local directory, then S3. ErrNotCached is returned on a full miss.
func (c *ClipCache) Load(ctx context.Context, id, text string) (*clip.GeneratedClip, error) {
	hash := clip.TextHash(id, text).String()

	if item := c.loaded.Get(hash); item != nil {
		return item.Value(), nil
	}

	path := c.path(hash)
	if entry, ok := c.manifest.Get(hash); ok && entry.Path != "" {
		path = entry.Path
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if c.s3 == nil {
			return nil, ErrNotCached
		}
		if err := c.download(ctx, path); err != nil {
			return nil, err
		}
	}

	ac, err := audio.DecodeFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cached clip; %w", err)
	}
	ac.Name = id

	gc := clip.FromAudio(id, text, ac,
		clip.WithCachedPath(path),
		clip.WithOutputSampleRate(c.outputSampleRate),
	)
	c.loaded.Set(hash, gc, ttlcache.DefaultTTL)

	if _, ok := c.manifest.Get(hash); !ok {
		err := c.manifest.Put(hash, Entry{ID: id, Text: text, Path: path, SampleRate: ac.SampleRate})
		if err != nil {
			logrus.WithError(err).Warnln("failed to record downloaded clip")
		}
	}

	return gc, nil
}

// Len is the number of clips recorded in the manifest.
func (c *ClipCache) Len() int {
	return c.manifest.Len()
}

// Close stops expiry and closes every clip still held in memory. It is safe
// to call more than once.
func (c *ClipCache) Close() error {
	c.closeOnce.Do(func() {
		c.loaded.Stop()
		c.loaded.DeleteAll()
	})
	return nil
}

func (c *ClipCache) path(hash string) string {
	return filepath.Join(c.dir, hash+".wav")
}

func (c *ClipCache) upload(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open cache file; %w", err)
	}
	defer f.Close()

	// retry once if 0 data transfers
	err = ErrNoDataTransfered
	for i := 0; errors.Is(err, ErrNoDataTransfered) && i < 2; i++ {
		if _, serr := f.Seek(0, 0); serr != nil {
			return fmt.Errorf("failed to rewind cache file; %w", serr)
		}
		err = c.s3.Upload(ctx, c.s3.Key(filepath.Base(path)), f)
	}
	if err != nil {
		return fmt.Errorf("failed to upload clip to s3; %w", err)
	}
	return nil
}

func (c *ClipCache) download(ctx context.Context, path string) error {
	key := c.s3.Key(filepath.Base(path))

	exists, err := c.s3.KeyExists(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to check s3; %w", err)
	}
	if !exists {
		return ErrNotCached
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create cache file; %w", err)
	}
	_, err = c.s3.Download(ctx, key, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to download clip from s3; %w", err)
	}
	return nil
}
