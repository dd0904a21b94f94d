package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Response is a successful API response with its body already read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Get sends a GET request and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, url string, out any) error {
	resp, err := c.Do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	return decode(resp, out)
}

// PostJSON sends body as JSON and decodes the JSON response into out. out
// may be nil when the response carries nothing of interest.
func (c *Client) PostJSON(ctx context.Context, url string, body, out any) error {
	resp, err := c.Do(ctx, http.MethodPost, url, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decode(resp, out)
}

// Do performs exactly one request. body, when non-nil, is sent as JSON.
// Statuses outside 2xx are returned as *Error.
func (c *Client) Do(ctx context.Context, method, url string, body any) (*Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body; %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait; %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request; %w", err)
	}

	c.setHeaders(req)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed %s %s; %w", method, req.URL.Path, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body; %w", err)
	}

	c.log.WithFields(logrus.Fields{
		"method":  method,
		"path":    req.URL.Path,
		"status":  res.StatusCode,
		"bytes":   len(data),
		"elapsed": time.Since(start),
	}).Debugln("elevenlabs request")

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, parseError(res.StatusCode, res.Header, data)
	}

	return &Response{
		StatusCode: res.StatusCode,
		Header:     res.Header,
		Body:       data,
	}, nil
}

func (c *Client) setHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}
	req.Header.Set("User-Agent", userAgent)
}

func decode(resp *Response, out any) error {
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("failed to decode response; %w", err)
	}
	return nil
}
