package domain

import (
	"strings"
	"time"
)

// Step identifies where an onboarding session is in the flow.
type Step string

const (
	StepSelectTemplate       Step = "select_template"
	StepConfigureAuth        Step = "configure_auth"
	StepAwaitingVerification Step = "awaiting_verification"
	StepComplete             Step = "complete"
	StepFailed               Step = "failed"
)

// AuthMethod defines how the integration being onboarded authenticates.
// The two methods are mutually exclusive within one session.
type AuthMethod string

const (
	AuthMethodCredentials AuthMethod = "credentials"
	AuthMethodOAuth       AuthMethod = "oauth"
)

// OAuthCapability is the per-template-type OAuth fact. It is always a
// usable value: a failed capability probe yields SupportsOAuth=false
// rather than an error, so the credentials fallback is never blocked.
type OAuthCapability struct {
	SupportsOAuth   bool     `json:"supports_oauth"`
	AvailableScopes []string `json:"available_scopes,omitempty"`
	DefaultScopes   []string `json:"default_scopes,omitempty"`
}

// AllowsScope reports whether the scope is in the available set.
func (c *OAuthCapability) AllowsScope(scope string) bool {
	for _, s := range c.AvailableScopes {
		if s == scope {
			return true
		}
	}
	return false
}

// OnboardingSession is the mutable state of one onboarding attempt.
// It is created when onboarding starts and destroyed on completion,
// terminal failure, or cancellation. Exactly one session may be active
// at a time; the onboarding service enforces that.
type OnboardingSession struct {
	CurrentStep      Step                 `json:"current_step"`
	SelectedTemplate *IntegrationTemplate `json:"selected_template,omitempty"`
	Capability       *OAuthCapability     `json:"capability,omitempty"`
	AuthMethod       AuthMethod           `json:"auth_method,omitempty"`

	// Name and Description label the integration being created.
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`

	// FieldValues maps field name to the raw value entered by the user.
	// Only fields declared by the template (or the OAuth client pair)
	// may be populated.
	FieldValues map[string]string `json:"field_values,omitempty"`

	// Scopes is the chosen subset of the capability's available scopes.
	Scopes []string `json:"scopes,omitempty"`

	LastError *FlowError `json:"last_error,omitempty"`

	// ExistingIntegrationID is set when editing an existing integration's
	// credentials. Blank fields then merge rather than overwrite.
	ExistingIntegrationID string `json:"existing_integration_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// NewOnboardingSession creates a fresh session at the template-selection step.
func NewOnboardingSession() *OnboardingSession {
	return &OnboardingSession{
		CurrentStep: StepSelectTemplate,
		FieldValues: make(map[string]string),
		CreatedAt:   time.Now(),
	}
}

// SelectTemplate binds the template and its resolved capability and moves
// the session to the configure step. The default auth method is OAuth when
// the capability supports it, credentials otherwise.
func (s *OnboardingSession) SelectTemplate(t *IntegrationTemplate, cap *OAuthCapability) error {
	if s.CurrentStep != StepSelectTemplate {
		return ErrInvalidStep
	}
	s.SelectedTemplate = t
	s.Capability = cap
	if cap != nil && cap.SupportsOAuth {
		s.AuthMethod = AuthMethodOAuth
		s.Scopes = append([]string(nil), cap.DefaultScopes...)
	} else {
		s.AuthMethod = AuthMethodCredentials
	}
	s.CurrentStep = StepConfigureAuth
	return nil
}

// SetAuthMethod overrides the default method. Legal only while configuring,
// and OAuth only when the capability supports it. Switching methods clears
// the values specific to the method being left so nothing leaks between
// the two payloads.
func (s *OnboardingSession) SetAuthMethod(method AuthMethod) error {
	if s.CurrentStep != StepConfigureAuth {
		return ErrInvalidStep
	}
	if method != AuthMethodCredentials && method != AuthMethodOAuth {
		return ErrInvalidInput
	}
	if method == AuthMethodOAuth && (s.Capability == nil || !s.Capability.SupportsOAuth) {
		return ErrOAuthNotSupported
	}
	if method == s.AuthMethod {
		return nil
	}

	switch s.AuthMethod {
	case AuthMethodOAuth:
		delete(s.FieldValues, FieldClientID)
		delete(s.FieldValues, FieldClientSecret)
		s.Scopes = nil
	case AuthMethodCredentials:
		if s.SelectedTemplate != nil {
			for _, f := range s.SelectedTemplate.RequiredCredentialFields {
				delete(s.FieldValues, f)
			}
			for _, f := range s.SelectedTemplate.OptionalCredentialFields {
				delete(s.FieldValues, f)
			}
		}
	}

	s.AuthMethod = method
	if method == AuthMethodOAuth && s.Capability != nil {
		s.Scopes = append([]string(nil), s.Capability.DefaultScopes...)
	}
	return nil
}

// ValidateField checks that a field may be set without recording a value.
// The field must belong to the active method: template-declared fields for
// credentials, the client pair for OAuth.
func (s *OnboardingSession) ValidateField(name string) error {
	if s.CurrentStep != StepConfigureAuth {
		return ErrInvalidStep
	}
	switch s.AuthMethod {
	case AuthMethodOAuth:
		if name != FieldClientID && name != FieldClientSecret {
			return ErrUndeclaredField
		}
	default:
		if s.SelectedTemplate == nil || !s.SelectedTemplate.DeclaresField(name) {
			return ErrUndeclaredField
		}
	}
	return nil
}

// SetField records a raw field value after validating it.
func (s *OnboardingSession) SetField(name, value string) error {
	if err := s.ValidateField(name); err != nil {
		return err
	}
	s.FieldValues[name] = value
	return nil
}

// SetScopes replaces the chosen scope set. Every scope must be in the
// capability's available set.
func (s *OnboardingSession) SetScopes(scopes []string) error {
	if s.CurrentStep != StepConfigureAuth {
		return ErrInvalidStep
	}
	if s.AuthMethod != AuthMethodOAuth || s.Capability == nil {
		return ErrOAuthNotSupported
	}
	for _, scope := range scopes {
		if !s.Capability.AllowsScope(scope) {
			return ErrInvalidInput
		}
	}
	s.Scopes = append([]string(nil), scopes...)
	return nil
}

// MissingRequiredFields returns the required credential fields with no
// non-empty trimmed value, in template order.
func (s *OnboardingSession) MissingRequiredFields() []string {
	if s.SelectedTemplate == nil {
		return nil
	}
	var missing []string
	for _, name := range s.SelectedTemplate.RequiredCredentialFields {
		if strings.TrimSpace(s.FieldValues[name]) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// CredentialPayload builds the outgoing credential map containing only
// fields with non-empty trimmed values. Blank fields are omitted so that
// editing an existing integration merges instead of overwriting.
func (s *OnboardingSession) CredentialPayload() map[string]string {
	payload := make(map[string]string)
	if s.SelectedTemplate == nil {
		return payload
	}
	for _, name := range s.SelectedTemplate.RequiredCredentialFields {
		if v := strings.TrimSpace(s.FieldValues[name]); v != "" {
			payload[name] = v
		}
	}
	for _, name := range s.SelectedTemplate.OptionalCredentialFields {
		if v := strings.TrimSpace(s.FieldValues[name]); v != "" {
			payload[name] = v
		}
	}
	return payload
}

// CanCancel reports whether cancelling now has no side effects.
// Once verification has started the in-flight call runs to termination.
func (s *OnboardingSession) CanCancel() bool {
	return s.CurrentStep == StepSelectTemplate || s.CurrentStep == StepConfigureAuth
}

// MarkAwaitingVerification moves the session into the verification step.
func (s *OnboardingSession) MarkAwaitingVerification() {
	s.CurrentStep = StepAwaitingVerification
}

// MarkComplete marks the session terminal-successful.
func (s *OnboardingSession) MarkComplete() {
	s.CurrentStep = StepComplete
	s.LastError = nil
}

// MarkFailed records a classified error and moves to the failed step.
func (s *OnboardingSession) MarkFailed(fe *FlowError) {
	s.CurrentStep = StepFailed
	s.LastError = fe
}

// Retry returns a failed session to the configure step. Field values are
// preserved; the last error is cleared on re-entry.
func (s *OnboardingSession) Retry() error {
	if s.CurrentStep != StepFailed {
		return ErrInvalidStep
	}
	s.CurrentStep = StepConfigureAuth
	s.LastError = nil
	return nil
}
