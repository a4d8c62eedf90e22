package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates authentication failed or missing
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the caller lacks permission for this action
	ErrForbidden = errors.New("forbidden")

	// ErrNoActiveSession indicates no onboarding session is in progress
	ErrNoActiveSession = errors.New("no active onboarding session")

	// ErrOnboardingActive indicates an onboarding session is already in
	// progress; only one may be active at a time
	ErrOnboardingActive = errors.New("onboarding already in progress")

	// ErrInvalidStep indicates the operation is not legal in the session's
	// current step
	ErrInvalidStep = errors.New("operation not allowed in current step")

	// ErrOAuthNotSupported indicates OAuth was requested for a template
	// that does not support it
	ErrOAuthNotSupported = errors.New("oauth not supported for this integration type")

	// ErrUndeclaredField indicates a field value was set for a field the
	// selected template does not declare
	ErrUndeclaredField = errors.New("field not declared by template")

	// ErrTokenExpired indicates the auth token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates the auth token is malformed or invalid
	ErrTokenInvalid = errors.New("token invalid")
)

// ErrorKind classifies an onboarding failure. Each kind implies a different
// corrective action for the user: retry, fix fields, or restart the flow.
type ErrorKind string

const (
	ErrorKindCatalogUnavailable       ErrorKind = "catalog_unavailable"
	ErrorKindValidation               ErrorKind = "validation_error"
	ErrorKindMissingClientCredentials ErrorKind = "missing_client_credentials"
	ErrorKindCreation                 ErrorKind = "creation_error"
	ErrorKindTest                     ErrorKind = "test_error"
	ErrorKindExchange                 ErrorKind = "exchange_error"
	ErrorKindHandoffNotFound          ErrorKind = "handoff_not_found"
)

// Retryable reports whether re-submitting the form can resolve the error.
// HandoffNotFound requires restarting onboarding from template selection.
func (k ErrorKind) Retryable() bool {
	return k != ErrorKindHandoffNotFound
}

// FlowError is a classified onboarding error carried on the session and
// returned to the API. Message is human-readable, never a raw transport
// string.
type FlowError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`

	// Fields names the offending fields for validation errors.
	Fields []string `json:"fields,omitempty"`
}

func (e *FlowError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, strings.Join(e.Fields, ", "))
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewValidationError builds a FlowError naming the missing fields.
func NewValidationError(fields []string) *FlowError {
	return &FlowError{
		Kind:    ErrorKindValidation,
		Message: "required fields are missing or empty",
		Fields:  fields,
	}
}

// AsFlowError unwraps err into a *FlowError if it is one.
func AsFlowError(err error) (*FlowError, bool) {
	var fe *FlowError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
