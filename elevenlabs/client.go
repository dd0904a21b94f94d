// Package elevenlabs bundles every endpoint behind one client.
//
//	client := elevenlabs.NewClient(os.Getenv("ELEVEN_LABS_API_KEY"))
//	info, err := client.User.GetUserInfo(ctx)
package elevenlabs

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"elevenlabs-sdk/api"
	"elevenlabs-sdk/config"
	"elevenlabs-sdk/soundgen"
	"elevenlabs-sdk/storage"
	"elevenlabs-sdk/user"
	"elevenlabs-sdk/voices"
)

type Client struct {
	API             *api.Client
	User            *user.Endpoint
	Voices          *voices.Endpoint
	SoundGeneration *soundgen.Endpoint

	// Cache is set when the client was built with a cache directory.
	Cache *storage.ClipCache
}

// NewClient wires all endpoints to a single transport.
func NewClient(apiKey string, opts ...api.Option) *Client {
	return newClient(api.NewClient(apiKey, opts...), nil)
}

// NewClientFromConfig builds a client from loaded settings. When cfg names
// a cache directory, generated sounds are written there (and to S3 when
// configured).
func NewClientFromConfig(cfg *config.Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := []api.Option{
		api.WithDomain(cfg.Domain),
		api.WithTimeout(cfg.Timeout),
	}
	if cfg.RateLimit > 0 {
		burst := max(cfg.RateBurst, 1)
		opts = append(opts, api.WithRateLimit(rate.Limit(cfg.RateLimit), burst))
	}

	var cache *storage.ClipCache
	if cfg.CacheDir != "" {
		cacheOpts := []storage.CacheOption{storage.WithOutputSampleRate(cfg.OutputSampleRate)}
		if cfg.CacheTTL > 0 {
			cacheOpts = append(cacheOpts, storage.WithTTL(cfg.CacheTTL))
		}
		if cfg.S3 != nil {
			cacheOpts = append(cacheOpts, storage.WithS3(cfg.S3))
		}

		var err error
		cache, err = storage.NewClipCache(cfg.CacheDir, cacheOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to open clip cache; %w", err)
		}
	}

	logrus.WithFields(logrus.Fields{
		"domain": cfg.Domain,
		"cache":  cfg.CacheDir,
		"s3":     cfg.S3 != nil,
	}).Debugln("elevenlabs client")

	c := newClient(api.NewClient(cfg.APIKey, opts...), cache, soundgen.WithOutputSampleRate(cfg.OutputSampleRate))
	return c, nil
}

func newClient(transport *api.Client, cache *storage.ClipCache, soundOpts ...soundgen.Option) *Client {
	if cache != nil {
		soundOpts = append(soundOpts, soundgen.WithClipStore(cache))
	}

	return &Client{
		API:             transport,
		User:            user.NewEndpoint(transport),
		Voices:          voices.NewEndpoint(transport),
		SoundGeneration: soundgen.NewEndpoint(transport, soundOpts...),
		Cache:           cache,
	}
}

// Close releases the clip cache, if any.
func (c *Client) Close() error {
	if c.Cache == nil {
		return nil
	}
	return c.Cache.Close()
}
