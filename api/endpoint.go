package api

import (
	"elevenlabs-sdk/query"
)

// Endpoint is a fixed base path under a versioned API root, e.g. v1/user.
// Endpoint types embed it and build their request URLs through URL.
type Endpoint struct {
	Client  *Client
	Version string
	Root    string
}

// NewEndpoint returns the endpoint rooted at /version/root.
func NewEndpoint(client *Client, version, root string) Endpoint {
	return Endpoint{
		Client:  client,
		Version: version,
		Root:    root,
	}
}

// URL joins the endpoint root with path and encodes params as the query
// string. path is appended verbatim and should start with "/" when set.
func (e Endpoint) URL(path string, params map[string]string) string {
	u := e.Client.baseURL + "/" + e.Version + "/" + e.Root + path
	if len(params) == 0 {
		return u
	}
	return u + "?" + query.Values(params).Encode()
}
