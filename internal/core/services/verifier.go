package services

import (
	"context"
	"fmt"

	"github.com/conduit-labs/conduit-core/internal/core/ports/driven"
	"github.com/conduit-labs/conduit-core/internal/core/ports/driving"
)

// Ensure verifierService implements VerifierService
var _ driving.VerifierService = (*verifierService)(nil)

// verifierService invokes the integration test endpoint and classifies
// the outcome. A non-2xx test result is a value; only transport-level
// failures come back as the error return.
type verifierService struct {
	integrations driven.IntegrationAPI
}

// NewVerifierService creates a new connection verifier.
func NewVerifierService(integrations driven.IntegrationAPI) driving.VerifierService {
	return &verifierService{integrations: integrations}
}

// Verify runs the connection test for an integration.
func (s *verifierService) Verify(ctx context.Context, integrationID string) (*driving.VerifyResult, error) {
	outcome, err := s.integrations.Test(ctx, integrationID)
	if err != nil {
		// Network unreachable, timeout: distinct from an application-level
		// test failure so the UI can say "could not reach the integration".
		return nil, fmt.Errorf("test integration %s: %w", integrationID, err)
	}

	if outcome.Success {
		return &driving.VerifyResult{Success: true}, nil
	}

	reason := outcome.Message
	if reason == "" {
		reason = "the integration rejected the connection test"
	}
	return &driving.VerifyResult{Success: false, Reason: reason}, nil
}
