package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/conduit-labs/conduit-core/internal/core/domain"
	"github.com/conduit-labs/conduit-core/internal/core/ports/driving"
)

// Ensure onboardingService implements OnboardingService
var _ driving.OnboardingService = (*onboardingService)(nil)

// OnboardingServiceConfig holds configuration for the onboarding service.
type OnboardingServiceConfig struct {
	// Catalog serves templates for selection.
	Catalog driving.CatalogService

	// Capability resolves OAuth support per template type.
	Capability driving.CapabilityService

	// Credentials executes the direct-credentials path.
	Credentials *CredentialExecutor

	// OAuth executes the authorization-code path.
	OAuth *OAuthExecutor

	// Verifier re-checks integrations completed via OAuth resume.
	Verifier driving.VerifierService

	Logger *slog.Logger
}

// onboardingService drives the multi-step onboarding flow. It is the
// single-slot session holder: one session may be live at a time, enforced
// by the mutex rather than by convention.
type onboardingService struct {
	catalog     driving.CatalogService
	capability  driving.CapabilityService
	credentials *CredentialExecutor
	oauth       *OAuthExecutor
	verifier    driving.VerifierService
	logger      *slog.Logger

	mu         sync.Mutex
	session    *domain.OnboardingSession
	submitting bool
}

// NewOnboardingService creates a new onboarding service.
func NewOnboardingService(cfg OnboardingServiceConfig) driving.OnboardingService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &onboardingService{
		catalog:     cfg.Catalog,
		capability:  cfg.Capability,
		credentials: cfg.Credentials,
		oauth:       cfg.OAuth,
		verifier:    cfg.Verifier,
		logger:      logger,
	}
}

// Start opens a new onboarding session.
func (s *onboardingService) Start(ctx context.Context, req driving.StartRequest) (*driving.SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session != nil {
		return nil, domain.ErrOnboardingActive
	}

	session := domain.NewOnboardingSession()
	session.ExistingIntegrationID = req.ExistingIntegrationID
	s.session = session

	return viewOf(session), nil
}

// Session returns a snapshot of the active session.
func (s *onboardingService) Session(ctx context.Context) (*driving.SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil, domain.ErrNoActiveSession
	}
	return viewOf(s.session), nil
}

// SelectTemplate chooses the template and resolves its capability before
// the configure step renders its default auth method.
func (s *onboardingService) SelectTemplate(ctx context.Context, typeID string) (*driving.SessionView, error) {
	s.mu.Lock()
	session := s.session
	s.mu.Unlock()

	if session == nil {
		return nil, domain.ErrNoActiveSession
	}
	if session.CurrentStep != domain.StepSelectTemplate {
		return nil, domain.ErrInvalidStep
	}

	template, err := s.catalog.Get(ctx, typeID)
	if err != nil {
		return nil, err
	}

	// Capability resolution always completes (or fails soft) before the
	// auth-method default is chosen. Selecting a different template
	// invalidates any previously cached answer.
	s.capability.Invalidate()
	cap := s.capability.Resolve(ctx, typeID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != session {
		return nil, domain.ErrNoActiveSession
	}
	if err := session.SelectTemplate(template, cap); err != nil {
		return nil, err
	}

	s.logger.Info("template selected",
		"type_id", typeID,
		"supports_oauth", cap.SupportsOAuth,
		"auth_method", string(session.AuthMethod))

	return viewOf(session), nil
}

// SetAuthMethod overrides the defaulted method.
func (s *onboardingService) SetAuthMethod(ctx context.Context, method domain.AuthMethod) (*driving.SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil, domain.ErrNoActiveSession
	}
	if err := s.session.SetAuthMethod(method); err != nil {
		return nil, err
	}
	return viewOf(s.session), nil
}

// SetDetails sets the integration name and description.
func (s *onboardingService) SetDetails(ctx context.Context, name, description string) (*driving.SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil, domain.ErrNoActiveSession
	}
	if s.session.CurrentStep != domain.StepConfigureAuth {
		return nil, domain.ErrInvalidStep
	}
	s.session.Name = name
	s.session.Description = description
	return viewOf(s.session), nil
}

// SetFields records raw field values.
func (s *onboardingService) SetFields(ctx context.Context, values map[string]string) (*driving.SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil, domain.ErrNoActiveSession
	}
	// The batch is all-or-nothing: reject it before applying any value.
	for name := range values {
		if err := s.session.ValidateField(name); err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
	}
	for name, value := range values {
		if err := s.session.SetField(name, value); err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
	}
	return viewOf(s.session), nil
}

// SetScopes replaces the chosen OAuth scope subset.
func (s *onboardingService) SetScopes(ctx context.Context, scopes []string) (*driving.SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil, domain.ErrNoActiveSession
	}
	if err := s.session.SetScopes(scopes); err != nil {
		return nil, err
	}
	return viewOf(s.session), nil
}

// Submit executes the configured path.
//
// The submit guard makes a second call while verification is in flight a
// no-op: exactly one integration results from rapid double-submits.
// Local validation failures are returned before any step transition, so
// the session stays on the configure step.
func (s *onboardingService) Submit(ctx context.Context) (*driving.SubmitResult, error) {
	s.mu.Lock()

	session := s.session
	if session == nil {
		s.mu.Unlock()
		return nil, domain.ErrNoActiveSession
	}
	if s.submitting || session.CurrentStep == domain.StepAwaitingVerification {
		s.mu.Unlock()
		return &driving.SubmitResult{Outcome: driving.SubmitOutcomePending}, nil
	}
	if session.CurrentStep != domain.StepConfigureAuth {
		s.mu.Unlock()
		return nil, domain.ErrInvalidStep
	}

	switch session.AuthMethod {
	case domain.AuthMethodOAuth:
		if fe := s.oauth.ValidateClientCredentials(session); fe != nil {
			s.mu.Unlock()
			return nil, fe
		}
		s.submitting = true
		s.mu.Unlock()
		return s.submitOAuth(ctx, session)

	default:
		if fe := s.credentials.Validate(session); fe != nil {
			s.mu.Unlock()
			return nil, fe
		}
		s.submitting = true
		session.MarkAwaitingVerification()
		s.mu.Unlock()
		return s.submitCredentials(ctx, session)
	}
}

// submitCredentials runs create + verify outside the lock, then finalizes.
func (s *onboardingService) submitCredentials(ctx context.Context, session *domain.OnboardingSession) (*driving.SubmitResult, error) {
	integration, fe := s.credentials.Execute(ctx, session)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false

	if fe != nil {
		session.MarkFailed(fe)
		s.logger.Warn("credential onboarding failed",
			"kind", string(fe.Kind), "type_id", session.SelectedTemplate.TypeID)
		return &driving.SubmitResult{
			Outcome:     driving.SubmitOutcomeFailed,
			Integration: integration,
			Error:       fe,
		}, nil
	}

	session.MarkComplete()
	// Terminal: the slot frees and the integration id goes to the caller.
	if s.session == session {
		s.session = nil
	}

	s.logger.Info("integration onboarded",
		"integration_id", integration.ID, "type_id", integration.TypeID)

	return &driving.SubmitResult{
		Outcome:     driving.SubmitOutcomeComplete,
		Integration: integration,
	}, nil
}

// submitOAuth persists the handoff and hands the authorization URL to the
// caller for the redirect. On success this session terminates: control
// leaves the application and a resume reconstructs completion handling
// from the handoff record.
func (s *onboardingService) submitOAuth(ctx context.Context, session *domain.OnboardingSession) (*driving.SubmitResult, error) {
	grant, fe := s.oauth.Initiate(ctx, session)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false

	if fe != nil {
		if fe.Kind == domain.ErrorKindMissingClientCredentials {
			// Local refusal: the user stays on the configure step.
			return nil, fe
		}
		session.MarkFailed(fe)
		return &driving.SubmitResult{
			Outcome: driving.SubmitOutcomeFailed,
			Error:   fe,
		}, nil
	}

	if s.session == session {
		s.session = nil
	}

	s.logger.Info("oauth handoff persisted",
		"type_id", session.SelectedTemplate.TypeID, "state", grant.State)

	return &driving.SubmitResult{
		Outcome:          driving.SubmitOutcomeRedirect,
		AuthorizationURL: grant.AuthorizationURL,
		State:            grant.State,
	}, nil
}

// Retry returns a failed session to the configure step.
func (s *onboardingService) Retry(ctx context.Context) (*driving.SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil, domain.ErrNoActiveSession
	}
	if err := s.session.Retry(); err != nil {
		return nil, err
	}
	return viewOf(s.session), nil
}

// Cancel destroys the session with no side effects. Once a submit is in
// flight the call runs to termination instead; the OAuth path keeps the
// configure step while it persists the handoff, so the submitting flag is
// what marks the session uncancellable there.
func (s *onboardingService) Cancel(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return domain.ErrNoActiveSession
	}
	if s.submitting {
		return domain.ErrInvalidStep
	}
	if !s.session.CanCancel() && s.session.CurrentStep != domain.StepFailed {
		return domain.ErrInvalidStep
	}
	s.session = nil
	return nil
}

// Resume finishes an OAuth flow in the post-redirect browsing context.
// It does not touch the session slot: the pre-redirect session already
// terminated, and everything needed lives in the handoff record.
func (s *onboardingService) Resume(ctx context.Context, req driving.ResumeRequest) (*driving.ResumeResult, error) {
	if req.Error != "" {
		return nil, &domain.FlowError{
			Kind:    domain.ErrorKindExchange,
			Message: fmt.Sprintf("the authorization provider reported %q", req.Error),
		}
	}
	if req.State == "" || req.Code == "" {
		return nil, domain.ErrInvalidInput
	}

	integration, err := s.oauth.Resume(ctx, req.State, req.Code)
	if err != nil {
		return nil, err
	}

	result := &driving.ResumeResult{
		Integration: integration,
		Message:     fmt.Sprintf("Successfully connected %s", integration.Name),
	}

	// Completion handling mirrors the credentials path: verify right
	// after creation. A failed or unreachable test leaves the integration
	// in place, unverified.
	verdict, verr := s.verifier.Verify(ctx, integration.ID)
	if verr != nil {
		integration.Status = domain.IntegrationStatusUnverified
		result.Verification = &driving.VerifyResult{
			Success: false,
			Reason:  "could not reach the integration to verify it",
		}
	} else {
		if !verdict.Success {
			integration.Status = domain.IntegrationStatusUnverified
		} else {
			integration.Status = domain.IntegrationStatusActive
		}
		result.Verification = verdict
	}

	s.logger.Info("oauth onboarding resumed",
		"integration_id", integration.ID, "type_id", integration.TypeID,
		"verified", result.Verification.Success)

	return result, nil
}

// viewOf builds the safe session snapshot. Raw values are never echoed;
// only which fields hold one.
func viewOf(session *domain.OnboardingSession) *driving.SessionView {
	view := &driving.SessionView{
		CurrentStep:           session.CurrentStep,
		AuthMethod:            session.AuthMethod,
		Capability:            session.Capability,
		Name:                  session.Name,
		Description:           session.Description,
		Scopes:                append([]string(nil), session.Scopes...),
		LastError:             session.LastError,
		ExistingIntegrationID: session.ExistingIntegrationID,
	}
	if session.SelectedTemplate != nil {
		view.TemplateTypeID = session.SelectedTemplate.TypeID
	}
	for name, value := range session.FieldValues {
		if value != "" {
			view.PopulatedFields = append(view.PopulatedFields, name)
		}
	}
	sort.Strings(view.PopulatedFields)
	return view
}
