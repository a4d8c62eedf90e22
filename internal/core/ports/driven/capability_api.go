package driven

import "context"

// OAuthSupport is the raw answer from the oauth-support endpoint.
type OAuthSupport struct {
	SupportsOAuth bool `json:"supports_oauth"`
}

// OAuthScopes is the raw answer from the oauth-scopes endpoint.
type OAuthScopes struct {
	AvailableScopes []string `json:"available_scopes"`
	DefaultScopes   []string `json:"default_scopes"`
}

// CapabilityAPI probes the backend for a template type's OAuth facts.
// Both calls may fail; the capability service converts any failure into a
// conservative "no OAuth" answer.
type CapabilityAPI interface {
	// GetOAuthSupport reports whether the type supports OAuth.
	GetOAuthSupport(ctx context.Context, typeID string) (*OAuthSupport, error)

	// GetOAuthScopes returns the available and default scopes for the type.
	GetOAuthScopes(ctx context.Context, typeID string) (*OAuthScopes, error)
}
