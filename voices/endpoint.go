// Package voices lists and looks up the voices available to an account.
package voices

import (
	"context"
	"fmt"
	"net/url"

	"elevenlabs-sdk/api"
)

type Endpoint struct {
	list   api.Endpoint
	lookup api.Endpoint
}

// NewEndpoint serves listings from /v2/voices and lookups from /v1/voices.
func NewEndpoint(client *api.Client) *Endpoint {
	return &Endpoint{
		list:   api.NewEndpoint(client, "v2", "voices"),
		lookup: api.NewEndpoint(client, "v1", "voices"),
	}
}

// GetVoices fetches one page of voices matching q. A nil q returns the
// first page with the API defaults. Pagination is left to the caller:
//
//	page, err := ep.GetVoices(ctx, q)
//	for err == nil && page.HasMore {
//	    q = q.WithNextPageToken(page.NextPageToken)
//	    page, err = ep.GetVoices(ctx, q)
//	}
func (e *Endpoint) GetVoices(ctx context.Context, q *VoiceQuery) (*VoiceList, error) {
	params := q.ToQueryParams()
	e.list.Client.Logger().WithField("params", params).Debugln("listing voices")

	var list VoiceList
	if err := e.list.Client.Get(ctx, e.list.URL("", params), &list); err != nil {
		return nil, fmt.Errorf("failed to get voices; %w", err)
	}
	return &list, nil
}

// GetVoice fetches a single voice by id.
func (e *Endpoint) GetVoice(ctx context.Context, voiceID string) (*Voice, error) {
	if voiceID == "" {
		return nil, fmt.Errorf("missing voice id")
	}

	var voice Voice
	if err := e.lookup.Client.Get(ctx, e.lookup.URL("/"+url.PathEscape(voiceID), nil), &voice); err != nil {
		return nil, fmt.Errorf("failed to get voice %s; %w", voiceID, err)
	}
	return &voice, nil
}
