package driven

import (
	"context"

	"github.com/conduit-labs/conduit-core/internal/core/domain"
)

// AuthorizationGrant is the backend's answer to an authorize request:
// where to send the browser, and the anti-forgery state that keys the
// pending handoff.
type AuthorizationGrant struct {
	AuthorizationURL string `json:"authorization_url"`
	State            string `json:"state"`
}

// ExchangeRequest carries everything the backend callback endpoint needs
// to turn an authorization code into a completed integration.
type ExchangeRequest struct {
	TypeID            string         `json:"type_id"`
	AuthorizationCode string         `json:"authorization_code"`
	State             string         `json:"state"`
	ClientID          string         `json:"client_id"`
	ClientSecret      string         `json:"client_secret"`
	Name              string         `json:"name,omitempty"`
	Description       string         `json:"description,omitempty"`
	Config            map[string]any `json:"config,omitempty"`
}

// OAuthAPI drives the backend's half of the authorization-code flow.
type OAuthAPI interface {
	// Authorize requests an authorization URL and anti-forgery state for
	// the type, passing the chosen scopes.
	Authorize(ctx context.Context, typeID, clientID string, scopes []string) (*AuthorizationGrant, error)

	// Exchange trades the authorization code for a completed integration.
	Exchange(ctx context.Context, req ExchangeRequest) (*domain.Integration, error)
}
