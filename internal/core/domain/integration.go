package domain

import "time"

// IntegrationStatus reflects the backend's view of a connected integration.
type IntegrationStatus string

const (
	// IntegrationStatusActive means the integration was created and its
	// connection test passed.
	IntegrationStatusActive IntegrationStatus = "active"

	// IntegrationStatusUnverified means the integration exists but its
	// last connection test failed. It is not rolled back; the user can
	// retry verification from the list view.
	IntegrationStatusUnverified IntegrationStatus = "unverified"

	// IntegrationStatusError means the backend marked the integration as
	// failing during normal operation.
	IntegrationStatusError IntegrationStatus = "error"
)

// Integration is the end artifact of onboarding. It is owned by the backend
// collaborator; this engine creates it and reads it back, but credentials
// are opaque once submitted.
type Integration struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	TypeID      string            `json:"type_id"`
	Status      IntegrationStatus `json:"status"`
	Health      string            `json:"health,omitempty"`
	Config      map[string]any    `json:"config,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}
