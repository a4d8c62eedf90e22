package driven

import (
	"context"

	"github.com/conduit-labs/conduit-core/internal/core/domain"
)

// CreateIntegrationRequest is the payload for creating an integration on
// the backend.
type CreateIntegrationRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	TypeID      string            `json:"type_id"`
	Credentials map[string]string `json:"credentials"`
	Config      map[string]any    `json:"config,omitempty"`
}

// UpdateIntegrationRequest carries a partial credential update. Absent
// fields keep their previously stored values; the backend merges.
type UpdateIntegrationRequest struct {
	Name        string            `json:"name,omitempty"`
	Description string            `json:"description,omitempty"`
	Credentials map[string]string `json:"credentials,omitempty"`
	Config      map[string]any    `json:"config,omitempty"`
}

// TestOutcome is the application-level result of a connection test.
// A failed test is a value here, not an error: Test returns a non-nil
// error only for transport-level failures.
type TestOutcome struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// IntegrationAPI creates and tests integrations on the backend.
type IntegrationAPI interface {
	// Create creates a new integration record.
	Create(ctx context.Context, req CreateIntegrationRequest) (*domain.Integration, error)

	// Update applies a partial update to an existing integration.
	// Credential merge semantics are the backend's: only submitted fields
	// change.
	Update(ctx context.Context, id string, req UpdateIntegrationRequest) (*domain.Integration, error)

	// Test invokes the integration's test endpoint. The outcome carries
	// the application-level verdict; the error return is reserved for
	// transport failures (network unreachable, timeout).
	Test(ctx context.Context, id string) (*TestOutcome, error)
}
