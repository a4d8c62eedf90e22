package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/conduit-labs/conduit-core/internal/core/domain"
	"github.com/conduit-labs/conduit-core/internal/core/ports/driven"
)

// DefaultHandoffTTL bounds how long a pending handoff may wait for the
// user to return from the authorization consent screen.
const DefaultHandoffTTL = 10 * time.Minute

// OAuthExecutor runs the OAuth onboarding path. Initiate requests an
// authorization URL from the backend and persists the pending handoff
// before the URL is released for the redirect; Resume consumes the
// handoff exactly once and exchanges the authorization code.
type OAuthExecutor struct {
	oauth    driven.OAuthAPI
	handoffs driven.HandoffStore
	ttl      time.Duration
}

// NewOAuthExecutor creates a new OAuth path executor.
func NewOAuthExecutor(oauth driven.OAuthAPI, handoffs driven.HandoffStore) *OAuthExecutor {
	return &OAuthExecutor{
		oauth:    oauth,
		handoffs: handoffs,
		ttl:      DefaultHandoffTTL,
	}
}

// NewOAuthExecutorWithTTL creates an OAuth executor with a custom handoff TTL.
func NewOAuthExecutorWithTTL(oauth driven.OAuthAPI, handoffs driven.HandoffStore, ttl time.Duration) *OAuthExecutor {
	return &OAuthExecutor{
		oauth:    oauth,
		handoffs: handoffs,
		ttl:      ttl,
	}
}

// ValidateClientCredentials checks that the client ID and secret are
// present in the session's fields. Local check, never hits the network.
func (e *OAuthExecutor) ValidateClientCredentials(session *domain.OnboardingSession) *domain.FlowError {
	var missing []string
	if strings.TrimSpace(session.FieldValues[domain.FieldClientID]) == "" {
		missing = append(missing, domain.FieldClientID)
	}
	if strings.TrimSpace(session.FieldValues[domain.FieldClientSecret]) == "" {
		missing = append(missing, domain.FieldClientSecret)
	}
	if len(missing) > 0 {
		return &domain.FlowError{
			Kind:    domain.ErrorKindMissingClientCredentials,
			Message: "an OAuth client id and secret are required",
			Fields:  missing,
		}
	}
	return nil
}

// Initiate requests the authorization grant and persists the handoff.
// The handoff write strictly precedes returning the URL: redirecting
// before the record is durable would risk losing the flow entirely.
func (e *OAuthExecutor) Initiate(ctx context.Context, session *domain.OnboardingSession) (*driven.AuthorizationGrant, *domain.FlowError) {
	if fe := e.ValidateClientCredentials(session); fe != nil {
		return nil, fe
	}

	clientID := strings.TrimSpace(session.FieldValues[domain.FieldClientID])
	clientSecret := strings.TrimSpace(session.FieldValues[domain.FieldClientSecret])
	typeID := session.SelectedTemplate.TypeID

	grant, err := e.oauth.Authorize(ctx, typeID, clientID, session.Scopes)
	if err != nil {
		return nil, &domain.FlowError{
			Kind:    domain.ErrorKindExchange,
			Message: "could not reach the authorization service",
		}
	}

	now := time.Now()
	handoff := &domain.PendingHandoff{
		State:           grant.State,
		TypeID:          typeID,
		ClientID:        clientID,
		ClientSecret:    clientSecret,
		Name:            session.Name,
		Description:     session.Description,
		DefaultSettings: session.SelectedTemplate.DefaultSettings,
		CreatedAt:       now,
		ExpiresAt:       now.Add(e.ttl),
	}

	if err := e.handoffs.Save(ctx, handoff); err != nil {
		return nil, &domain.FlowError{
			Kind:    domain.ErrorKindExchange,
			Message: "could not persist the authorization handoff",
		}
	}

	return grant, nil
}

// Resume finishes the flow after the provider redirected back. The handoff
// is consumed atomically: a second resume with the same state finds
// nothing. Exchange failures leave no integration behind and the handoff
// is not retained.
func (e *OAuthExecutor) Resume(ctx context.Context, state, code string) (*domain.Integration, error) {
	handoff, err := e.handoffs.GetAndDelete(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("consume handoff: %w", err)
	}
	if handoff == nil {
		// Expired, tampered, or already consumed. Terminal: the
		// pre-redirect context is gone, the user must restart.
		return nil, &domain.FlowError{
			Kind:    domain.ErrorKindHandoffNotFound,
			Message: "the onboarding session expired, please retry from the start",
		}
	}

	integration, err := e.oauth.Exchange(ctx, driven.ExchangeRequest{
		TypeID:            handoff.TypeID,
		AuthorizationCode: code,
		State:             state,
		ClientID:          handoff.ClientID,
		ClientSecret:      handoff.ClientSecret,
		Name:              handoff.Name,
		Description:       handoff.Description,
		Config:            handoff.DefaultSettings,
	})
	if err != nil {
		return nil, &domain.FlowError{
			Kind:    domain.ErrorKindExchange,
			Message: "the authorization code exchange failed",
		}
	}

	return integration, nil
}
