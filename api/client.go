// Package api is the shared HTTP collaborator used by every ElevenLabs
// endpoint: it owns authentication, URL construction, JSON encoding and the
// translation of non-success responses into *Error values.
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	// DefaultDomain is the public ElevenLabs API host.
	DefaultDomain = "api.elevenlabs.io"

	// DefaultTimeout is used when no http.Client is supplied.
	DefaultTimeout = 30 * time.Second

	apiKeyHeader = "xi-api-key"
	userAgent    = "elevenlabs-sdk-go/1.0"
)

// Client sends authenticated requests to the ElevenLabs API.
type Client struct {
	apiKey  string
	baseURL string
	timeout time.Duration
	http    *http.Client
	limiter *rate.Limiter
	log     logrus.FieldLogger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root, e.g. for a proxy or a test server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithDomain sets the API host; https is assumed.
func WithDomain(domain string) Option {
	return func(c *Client) {
		c.baseURL = "https://" + strings.Trim(domain, "/")
	}
}

// WithHTTPClient sets the underlying http.Client. WithTimeout is ignored
// when this option is used.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.http = client
	}
}

// WithTimeout sets the request timeout of the default http.Client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithRateLimit throttles outgoing requests to r per second with the given
// burst. Requests wait for a token and give up when their context ends.
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(r, burst)
	}
}

// WithLogger replaces the standard logrus logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates a client authenticated with apiKey.
//
//	client := api.NewClient(os.Getenv("ELEVEN_LABS_API_KEY"))
//	client := api.NewClient(key, api.WithTimeout(time.Minute))
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: "https://" + DefaultDomain,
		timeout: DefaultTimeout,
		log:     logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}

	return c
}

// BaseURL returns the API root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HasAPIKey reports whether the client was given credentials.
func (c *Client) HasAPIKey() bool {
	return c.apiKey != ""
}

// Logger is the logger requests are logged to. Endpoints log through it
// too, so WithLogger covers the whole client.
func (c *Client) Logger() logrus.FieldLogger {
	return c.log
}
