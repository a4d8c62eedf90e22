package domain

import "time"

// PendingHandoff bridges the browser redirect to the external authorization
// server and back. It is keyed by the server-issued anti-forgery state and
// must survive a full page navigation, so it lives in a durable store
// rather than in-memory session state. Records are single-use: consuming
// one deletes it.
type PendingHandoff struct {
	// State is the anti-forgery token issued by the backend when the
	// authorization URL was requested. Primary key.
	State string `json:"state"`

	TypeID string `json:"type_id"`

	// ClientID and ClientSecret are held only for the lifetime of the
	// handoff; the secret is encrypted at rest by durable stores.
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`

	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`

	// DefaultSettings is the template's configuration map, carried across
	// the redirect so the completed integration gets it.
	DefaultSettings map[string]any `json:"default_settings,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired reports whether the handoff has outlived its TTL.
func (h *PendingHandoff) IsExpired() bool {
	return time.Now().After(h.ExpiresAt)
}
