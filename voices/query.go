package voices

import (
	"slices"

	"elevenlabs-sdk/query"
)

// VoiceQuery holds the optional filters and paging of a voice listing.
// Unset fields are left out of the request.
//
//	q := &voices.VoiceQuery{Search: "narrator", PageSize: voices.Int(25)}
type VoiceQuery struct {
	// NextPageToken continues a previous listing.
	NextPageToken string `json:"next_page_token,omitempty"`

	// PageSize is at most 100; the API defaults to 10.
	PageSize *int `json:"page_size,omitempty"`

	// Search matches name, description, labels and category.
	Search string `json:"search,omitempty"`

	// Sort is "created_at_unix" or "name".
	Sort          string        `json:"sort,omitempty"`
	SortDirection SortDirection `json:"sort_direction,omitempty"`

	VoiceType       VoiceType       `json:"voice_type,omitempty"`
	Category        Category        `json:"category,omitempty"`
	FineTuningState FineTuningState `json:"fine_tuning_state,omitempty"`
	CollectionID    string          `json:"collection_id,omitempty"`

	// IncludeTotalCount costs the API extra work; it defaults to true.
	IncludeTotalCount *bool `json:"include_total_count,omitempty"`

	// VoiceIDs looks up at most 100 voices by id.
	VoiceIDs []string `json:"voice_ids,omitempty"`
}

// WithNextPageToken returns a copy of q for the page after token. q is not
// modified.
func (q *VoiceQuery) WithNextPageToken(token string) *VoiceQuery {
	next := &VoiceQuery{}
	if q != nil {
		*next = *q
		next.VoiceIDs = slices.Clone(q.VoiceIDs)
	}
	next.NextPageToken = token
	return next
}

// ToQueryParams flattens q into URL query parameters. A nil query has none.
func (q *VoiceQuery) ToQueryParams() map[string]string {
	if q == nil {
		return nil
	}
	return query.ToParams(q)
}

// Int returns a pointer to v, for PageSize.
func Int(v int) *int {
	return &v
}

// Bool returns a pointer to v, for IncludeTotalCount.
func Bool(v bool) *bool {
	return &v
}
