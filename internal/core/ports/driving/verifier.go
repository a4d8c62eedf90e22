package driving

import "context"

// VerifyResult is the application-level verdict of a connection test.
// @Description Result of verifying an integration's connection
type VerifyResult struct {
	// Success is true when the integration's test endpoint reported ok.
	Success bool `json:"success"`

	// Reason is a human-readable explanation when Success is false.
	Reason string `json:"reason,omitempty" example:"service rejected the credentials"`
}

// VerifierService runs a live connection test against a created integration.
//
// An ordinary test failure is a value, not an error: the error return is
// reserved for transport failures (integration backend unreachable), so
// the caller can distinguish "could not reach the integration" from
// "integration rejected the credentials".
type VerifierService interface {
	Verify(ctx context.Context, integrationID string) (*VerifyResult, error)
}
