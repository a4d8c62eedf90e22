package services

import (
	"context"

	"github.com/conduit-labs/conduit-core/internal/core/domain"
	"github.com/conduit-labs/conduit-core/internal/core/ports/driven"
	"github.com/conduit-labs/conduit-core/internal/core/ports/driving"
)

// CredentialExecutor runs the direct-credentials onboarding path: build a
// payload from the session's dynamic fields, create (or merge-update) the
// integration, then immediately verify it.
type CredentialExecutor struct {
	integrations driven.IntegrationAPI
	verifier     driving.VerifierService
}

// NewCredentialExecutor creates a new credential path executor.
func NewCredentialExecutor(integrations driven.IntegrationAPI, verifier driving.VerifierService) *CredentialExecutor {
	return &CredentialExecutor{
		integrations: integrations,
		verifier:     verifier,
	}
}

// Validate checks that every required field holds a non-empty trimmed
// value. The returned FlowError names all missing fields. Validation is
// local: it never reaches the network.
func (e *CredentialExecutor) Validate(session *domain.OnboardingSession) *domain.FlowError {
	if missing := session.MissingRequiredFields(); len(missing) > 0 {
		return domain.NewValidationError(missing)
	}
	return nil
}

// Execute creates and verifies the integration.
//
// When verification fails after a successful creation, the integration is
// NOT rolled back: it persists unverified for the user to retry later, so
// Execute returns both the integration and a TestError. Creation failures
// return a nil integration and a CreationError.
func (e *CredentialExecutor) Execute(ctx context.Context, session *domain.OnboardingSession) (*domain.Integration, *domain.FlowError) {
	if fe := e.Validate(session); fe != nil {
		return nil, fe
	}

	payload := session.CredentialPayload()

	name := session.Name
	if name == "" && session.SelectedTemplate != nil {
		name = session.SelectedTemplate.DisplayName
	}

	var (
		integration *domain.Integration
		err         error
	)
	if session.ExistingIntegrationID != "" {
		// Edit: only submitted fields change; blank fields keep their
		// previously stored values.
		integration, err = e.integrations.Update(ctx, session.ExistingIntegrationID, driven.UpdateIntegrationRequest{
			Name:        session.Name,
			Description: session.Description,
			Credentials: payload,
		})
	} else {
		integration, err = e.integrations.Create(ctx, driven.CreateIntegrationRequest{
			Name:        name,
			Description: session.Description,
			TypeID:      session.SelectedTemplate.TypeID,
			Credentials: payload,
			Config:      session.SelectedTemplate.DefaultSettings,
		})
	}
	if err != nil {
		return nil, &domain.FlowError{
			Kind:    domain.ErrorKindCreation,
			Message: "the integration could not be created",
		}
	}

	result, err := e.verifier.Verify(ctx, integration.ID)
	if err != nil {
		integration.Status = domain.IntegrationStatusUnverified
		return integration, &domain.FlowError{
			Kind:    domain.ErrorKindTest,
			Message: "could not reach the integration to verify it",
		}
	}
	if !result.Success {
		integration.Status = domain.IntegrationStatusUnverified
		return integration, &domain.FlowError{
			Kind:    domain.ErrorKindTest,
			Message: result.Reason,
		}
	}

	integration.Status = domain.IntegrationStatusActive
	return integration, nil
}
