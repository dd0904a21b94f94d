package voices

// SortDirection orders a voice listing.
type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// VoiceType filters voices by ownership. VoiceTypeNonDefault matches every
// type except VoiceTypeDefault.
type VoiceType string

const (
	VoiceTypePersonal   VoiceType = "personal"
	VoiceTypeCommunity  VoiceType = "community"
	VoiceTypeDefault    VoiceType = "default"
	VoiceTypeWorkspace  VoiceType = "workspace"
	VoiceTypeNonDefault VoiceType = "non-default"
)

// Category is how a voice was made.
type Category string

const (
	CategoryPremade      Category = "premade"
	CategoryCloned       Category = "cloned"
	CategoryGenerated    Category = "generated"
	CategoryProfessional Category = "professional"
)

// FineTuningState applies to professional voice clones only.
type FineTuningState string

const (
	FineTuningDraft       FineTuningState = "draft"
	FineTuningNotVerified FineTuningState = "not_verified"
	FineTuningNotStarted  FineTuningState = "not_started"
	FineTuningQueued      FineTuningState = "queued"
	FineTuningInProgress  FineTuningState = "fine_tuning"
	FineTuningDone        FineTuningState = "fine_tuned"
	FineTuningFailed      FineTuningState = "failed"
	FineTuningDelayed     FineTuningState = "delayed"
)

type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style,omitempty"`
	UseSpeakerBoost bool    `json:"use_speaker_boost,omitempty"`
	Speed           float64 `json:"speed,omitempty"`
}

type Sample struct {
	SampleID  string `json:"sample_id"`
	FileName  string `json:"file_name"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
	Hash      string `json:"hash"`
}

type FineTuning struct {
	IsAllowedToFineTune  bool                       `json:"is_allowed_to_fine_tune"`
	State                map[string]FineTuningState `json:"state,omitempty"`
	VerificationFailures []string                   `json:"verification_failures,omitempty"`
}

// Voice is a single voice as returned by the voices endpoints.
type Voice struct {
	VoiceID                 string            `json:"voice_id"`
	Name                    string            `json:"name"`
	Category                Category          `json:"category,omitempty"`
	Description             string            `json:"description,omitempty"`
	Labels                  map[string]string `json:"labels,omitempty"`
	PreviewURL              string            `json:"preview_url,omitempty"`
	Samples                 []Sample          `json:"samples,omitempty"`
	Settings                *VoiceSettings    `json:"settings,omitempty"`
	FineTuning              *FineTuning       `json:"fine_tuning,omitempty"`
	AvailableForTiers       []string          `json:"available_for_tiers,omitempty"`
	HighQualityBaseModelIDs []string          `json:"high_quality_base_model_ids,omitempty"`
	IsOwner                 bool              `json:"is_owner,omitempty"`
	IsLegacy                bool              `json:"is_legacy,omitempty"`
	CreatedAtUnix           int64             `json:"created_at_unix,omitempty"`
}

func (v Voice) String() string {
	return v.Name
}

// VoiceList is one page of a voice listing. Pass NextPageToken to
// VoiceQuery.WithNextPageToken to request the following page.
type VoiceList struct {
	Voices        []Voice `json:"voices"`
	HasMore       bool    `json:"has_more"`
	TotalCount    int     `json:"total_count"`
	NextPageToken string  `json:"next_page_token,omitempty"`
}
