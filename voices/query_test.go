package voices

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVoiceQueryEmpty(t *testing.T) {
	assert.Empty(t, (&VoiceQuery{}).ToQueryParams())

	var q *VoiceQuery
	assert.Nil(t, q.ToQueryParams())
}

func TestVoiceQueryParams(t *testing.T) {
	q := &VoiceQuery{
		PageSize:          Int(25),
		Search:            "old wizard",
		Sort:              "name",
		SortDirection:     SortDescending,
		VoiceType:         VoiceTypeNonDefault,
		Category:          CategoryProfessional,
		FineTuningState:   FineTuningDone,
		CollectionID:      "col-1",
		IncludeTotalCount: Bool(false),
		VoiceIDs:          []string{"a", "b", "c"},
	}

	assert.Equal(t, map[string]string{
		"page_size":           "25",
		"search":              "old wizard",
		"sort":                "name",
		"sort_direction":      "desc",
		"voice_type":          "non-default",
		"category":            "professional",
		"fine_tuning_state":   "fine_tuned",
		"collection_id":       "col-1",
		"include_total_count": "false",
		"voice_ids":           "a,b,c",
	}, q.ToQueryParams())
}

func TestVoiceQuerySkipsBlankSearch(t *testing.T) {
	q := &VoiceQuery{Search: "   ", PageSize: Int(0)}

	assert.Equal(t, map[string]string{"page_size": "0"}, q.ToQueryParams())
}

func TestWithNextPageTokenCopies(t *testing.T) {
	q := &VoiceQuery{Search: "wizard", VoiceIDs: []string{"a"}}

	next := q.WithNextPageToken("token-2")
	next.VoiceIDs[0] = "changed"

	assert.Equal(t, "", q.NextPageToken)
	assert.Equal(t, []string{"a"}, q.VoiceIDs)
	assert.Equal(t, "token-2", next.NextPageToken)
	assert.Equal(t, "wizard", next.Search)
	assert.NotSame(t, q, next)
}

func TestWithNextPageTokenOnNil(t *testing.T) {
	var q *VoiceQuery

	next := q.WithNextPageToken("token")

	assert.Equal(t, map[string]string{"next_page_token": "token"}, next.ToQueryParams())
}
