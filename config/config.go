// Package config loads client settings from an optional .elevenlabs file
// and the environment. Environment variables win over the file.
//
// The file is YAML (or JSON, which it also accepts):
//
//	apiKey: sk_...
//	domain: api.elevenlabs.io
//	timeout: 45s
//	cacheDir: ~/.cache/elevenlabs
//	s3:
//	  endpoint: https://s3.example.com
//	  bucket: clips
//
// A file holding nothing but the key is accepted too.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"elevenlabs-sdk/api"
	"elevenlabs-sdk/audio"
	"elevenlabs-sdk/storage"
)

var ErrMissingAPIKey = errors.New("missing ElevenLabs API key")

// DefaultPath is the file name searched for when Load is given no path.
const DefaultPath = ".elevenlabs"

type Config struct {
	APIKey           string        `yaml:"apiKey"`
	Domain           string        `yaml:"domain"`
	Timeout          time.Duration `yaml:"timeout"`
	CacheDir         string        `yaml:"cacheDir"`
	CacheTTL         time.Duration `yaml:"cacheTTL"`
	OutputSampleRate int           `yaml:"outputSampleRate"`

	// RateLimit is requests per second; zero disables client-side limiting.
	RateLimit float64 `yaml:"rateLimit"`
	RateBurst int     `yaml:"rateBurst"`

	S3 *storage.S3 `yaml:"s3"`
}

// Default returns the settings used when nothing overrides them.
func Default() *Config {
	return &Config{
		Domain:           api.DefaultDomain,
		Timeout:          api.DefaultTimeout,
		CacheTTL:         storage.DefaultTTL,
		OutputSampleRate: audio.DefaultOutputSampleRate,
		RateBurst:        1,
	}
}

// Load reads path, or the nearest .elevenlabs when path is empty, and then
// applies the environment. A missing file is only an error when path was
// given explicitly.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = findFile(DefaultPath)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := cfg.parse(data); err != nil {
				return nil, fmt.Errorf("failed to parse %s; %w", path, err)
			}
			logrus.WithField("path", path).Debugln("loaded config file")
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		default:
			return nil, fmt.Errorf("failed to read config; %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) parse(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil
	}

	// bare key file
	if !strings.ContainsAny(trimmed, ":{\n") {
		c.APIKey = trimmed
		return nil
	}

	return yaml.Unmarshal(data, c)
}

func (c *Config) applyEnv() error {
	for _, name := range []string{"ELEVEN_LABS_API_KEY", "ELEVENLABS_API_KEY"} {
		if key, exists := os.LookupEnv(name); exists && key != "" {
			c.APIKey = key
			break
		}
	}
	if domain, exists := os.LookupEnv("ELEVEN_LABS_DOMAIN"); exists && domain != "" {
		c.Domain = domain
	}
	if dir, exists := os.LookupEnv("ELEVEN_LABS_CACHE_DIR"); exists {
		c.CacheDir = dir
	}

	if _, exists := os.LookupEnv("S3_HOSTNAME"); exists {
		s3, err := storage.NewS3FromEnv()
		if err != nil {
			return fmt.Errorf("failed to load s3 config; %w", err)
		}
		c.S3 = s3
	}

	c.CacheDir = expandHome(c.CacheDir)
	return nil
}

// Validate checks the settings needed to make authenticated calls.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.S3 != nil && c.CacheDir == "" {
		return fmt.Errorf("s3 mirror configured without cacheDir")
	}
	return nil
}

// findFile looks for name in the working directory and its parents, then in
// the home directory.
func findFile(name string) string {
	if dir, err := os.Getwd(); err == nil {
		for {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		candidate := filepath.Join(home, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
