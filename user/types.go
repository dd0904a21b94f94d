package user

import "time"

// UserInfo is a snapshot of the account behind the API key.
type UserInfo struct {
	UserID                      string           `json:"user_id"`
	FirstName                   string           `json:"first_name,omitempty"`
	Subscription                SubscriptionInfo `json:"subscription"`
	IsNewUser                   bool             `json:"is_new_user"`
	XIAPIKey                    string           `json:"xi_api_key,omitempty"`
	CanUseDelayedPaymentMethods bool             `json:"can_use_delayed_payment_methods"`
	IsOnboardingCompleted       bool             `json:"is_onboarding_completed"`
}

// SubscriptionInfo is a snapshot of the account's plan and usage.
type SubscriptionInfo struct {
	Tier                           string       `json:"tier"`
	Status                         string       `json:"status"`
	CharacterCount                 int          `json:"character_count"`
	CharacterLimit                 int          `json:"character_limit"`
	CanExtendCharacterLimit        bool         `json:"can_extend_character_limit"`
	AllowedToExtendCharacterLimit  bool         `json:"allowed_to_extend_character_limit"`
	NextCharacterCountResetUnix    int64        `json:"next_character_count_reset_unix"`
	VoiceLimit                     int          `json:"voice_limit"`
	MaxVoiceAddEdits               int          `json:"max_voice_add_edits"`
	VoiceAddEditCounter            int          `json:"voice_add_edit_counter"`
	ProfessionalVoiceLimit         int          `json:"professional_voice_limit"`
	CanExtendVoiceLimit            bool         `json:"can_extend_voice_limit"`
	CanUseInstantVoiceCloning      bool         `json:"can_use_instant_voice_cloning"`
	CanUseProfessionalVoiceCloning bool         `json:"can_use_professional_voice_cloning"`
	Currency                       string       `json:"currency,omitempty"`
	BillingPeriod                  string       `json:"billing_period,omitempty"`
	CharacterRefreshPeriod         string       `json:"character_refresh_period,omitempty"`
	NextInvoice                    *NextInvoice `json:"next_invoice,omitempty"`
}

type NextInvoice struct {
	AmountDueCents         int   `json:"amount_due_cents"`
	NextPaymentAttemptUnix int64 `json:"next_payment_attempt_unix"`
}

// NextCharacterCountReset is when CharacterCount goes back to zero. It is
// the zero time when the API did not report one.
func (s SubscriptionInfo) NextCharacterCountReset() time.Time {
	if s.NextCharacterCountResetUnix == 0 {
		return time.Time{}
	}
	return time.Unix(s.NextCharacterCountResetUnix, 0).UTC()
}

// CharactersRemaining is the unused part of the character quota.
func (s SubscriptionInfo) CharactersRemaining() int {
	if s.CharacterCount >= s.CharacterLimit {
		return 0
	}
	return s.CharacterLimit - s.CharacterCount
}
