// Package user reads the account and subscription behind an API key.
package user

import (
	"context"
	"fmt"

	"elevenlabs-sdk/api"
)

type Endpoint struct {
	api.Endpoint
}

func NewEndpoint(client *api.Client) *Endpoint {
	return &Endpoint{api.NewEndpoint(client, "v1", "user")}
}

// GetUserInfo fetches information about the user account.
func (e *Endpoint) GetUserInfo(ctx context.Context) (*UserInfo, error) {
	var info UserInfo
	if err := e.Client.Get(ctx, e.URL("", nil), &info); err != nil {
		return nil, fmt.Errorf("failed to get user info; %w", err)
	}
	return &info, nil
}

// GetSubscriptionInfo fetches the account's subscription.
func (e *Endpoint) GetSubscriptionInfo(ctx context.Context) (*SubscriptionInfo, error) {
	var info SubscriptionInfo
	if err := e.Client.Get(ctx, e.URL("/subscription", nil), &info); err != nil {
		return nil, fmt.Errorf("failed to get subscription info; %w", err)
	}
	return &info, nil
}
