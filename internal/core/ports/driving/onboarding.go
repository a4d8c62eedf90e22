package driving

import (
	"context"

	"github.com/conduit-labs/conduit-core/internal/core/domain"
)

// OnboardingService drives the multi-step onboarding flow. Exactly one
// session may be active at a time; Start refuses a second attempt until
// the first completes, fails terminally, or is cancelled.
type OnboardingService interface {
	// Start opens a new onboarding session at the template-selection step.
	// Returns domain.ErrOnboardingActive if a session is already live.
	Start(ctx context.Context, req StartRequest) (*SessionView, error)

	// Session returns a snapshot of the active session.
	// Returns domain.ErrNoActiveSession if none is live.
	Session(ctx context.Context) (*SessionView, error)

	// SelectTemplate chooses the template and resolves its OAuth
	// capability, moving the session to the configure step.
	SelectTemplate(ctx context.Context, typeID string) (*SessionView, error)

	// SetAuthMethod overrides the defaulted method. OAuth is rejected for
	// templates whose capability does not support it.
	SetAuthMethod(ctx context.Context, method domain.AuthMethod) (*SessionView, error)

	// SetDetails sets the integration name and description.
	SetDetails(ctx context.Context, name, description string) (*SessionView, error)

	// SetFields records raw field values. Fields not declared by the
	// template (or outside the OAuth client pair) are rejected.
	SetFields(ctx context.Context, values map[string]string) (*SessionView, error)

	// SetScopes replaces the chosen OAuth scope subset.
	SetScopes(ctx context.Context, scopes []string) (*SessionView, error)

	// Submit executes the configured path. On the credentials path it
	// creates and verifies the integration; on the OAuth path it persists
	// the handoff and returns the authorization URL for the redirect.
	// A submit while verification is already in flight is a no-op.
	Submit(ctx context.Context) (*SubmitResult, error)

	// Retry returns a failed session to the configure step with field
	// values intact.
	Retry(ctx context.Context) (*SessionView, error)

	// Cancel destroys the session with no side effects. Refused once
	// verification has started.
	Cancel(ctx context.Context) error

	// Resume finishes an OAuth flow after the provider redirected back
	// with a state and authorization code. The handoff is consumed
	// exactly once; an unknown state is a terminal HandoffNotFound.
	Resume(ctx context.Context, req ResumeRequest) (*ResumeResult, error)
}

// StartRequest opens an onboarding session.
// @Description Request to start an onboarding attempt
type StartRequest struct {
	// ExistingIntegrationID, when set, makes this an edit of an existing
	// integration's credentials: blank fields merge instead of overwrite.
	ExistingIntegrationID string `json:"existing_integration_id,omitempty"`
}

// SessionView is a safe snapshot of the active session. Raw field values
// are not echoed back; only which fields have been populated.
// @Description Snapshot of the active onboarding session
type SessionView struct {
	CurrentStep    domain.Step       `json:"current_step"`
	TemplateTypeID string            `json:"template_type_id,omitempty"`
	AuthMethod     domain.AuthMethod `json:"auth_method,omitempty"`

	Capability *domain.OAuthCapability `json:"capability,omitempty"`

	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`

	// PopulatedFields lists field names that currently hold a value.
	PopulatedFields []string `json:"populated_fields,omitempty"`

	Scopes []string `json:"scopes,omitempty"`

	LastError *domain.FlowError `json:"last_error,omitempty"`

	ExistingIntegrationID string `json:"existing_integration_id,omitempty"`
}

// SubmitOutcome tells the caller what a submit did.
type SubmitOutcome string

const (
	// SubmitOutcomeComplete means the credentials path succeeded end to end.
	SubmitOutcomeComplete SubmitOutcome = "complete"

	// SubmitOutcomeFailed means creation or verification failed; the
	// session is in the failed step with a classified error.
	SubmitOutcomeFailed SubmitOutcome = "failed"

	// SubmitOutcomeRedirect means the OAuth path persisted its handoff
	// and the browser must be sent to the authorization URL.
	SubmitOutcomeRedirect SubmitOutcome = "redirect"

	// SubmitOutcomePending means a submit was already in flight; this
	// call was a no-op.
	SubmitOutcomePending SubmitOutcome = "pending"
)

// SubmitResult is the result of submitting the configure step.
// @Description Result of submitting the onboarding form
type SubmitResult struct {
	Outcome SubmitOutcome `json:"outcome"`

	// Integration is set when the credentials path completed.
	Integration *domain.Integration `json:"integration,omitempty"`

	// AuthorizationURL and State are set on the OAuth path.
	AuthorizationURL string `json:"authorization_url,omitempty"`
	State            string `json:"state,omitempty"`

	// Error carries the classified failure when Outcome is failed.
	Error *domain.FlowError `json:"error,omitempty"`
}

// ResumeRequest carries the two query parameters the provider's redirect
// presents, plus any provider-reported error.
// @Description OAuth callback parameters from the provider redirect
type ResumeRequest struct {
	State string `json:"state" example:"abc123"`
	Code  string `json:"code" example:"xyz"`

	// Error is set when the provider denied or failed the authorization.
	Error string `json:"error,omitempty" example:"access_denied"`
}

// ResumeResult is the result of completing an OAuth flow.
// @Description Result of resuming onboarding after the OAuth redirect
type ResumeResult struct {
	Integration *domain.Integration `json:"integration,omitempty"`

	// Verification carries the post-exchange connection test verdict.
	Verification *VerifyResult `json:"verification,omitempty"`

	Message string `json:"message,omitempty" example:"Successfully connected Slack"`
}
