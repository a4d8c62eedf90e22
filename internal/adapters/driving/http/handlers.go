package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/conduit-labs/conduit-core/internal/core/domain"
	"github.com/conduit-labs/conduit-core/internal/core/ports/driving"
)

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`

	// Kind is set for classified onboarding errors.
	Kind string `json:"kind,omitempty" example:"validation_error"`

	// Fields names the offending fields for validation errors.
	Fields []string `json:"fields,omitempty"`

	// Retryable indicates whether re-submitting can resolve the error.
	Retryable *bool `json:"retryable,omitempty"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "handoff store unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Catalog endpoints

// handleListTemplates godoc
// @Summary      List integration templates
// @Description  Returns the normalized template catalog
// @Tags         Catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.IntegrationTemplate
// @Failure      503  {object}  ErrorResponse  "Catalog unavailable"
// @Router       /templates [get]
func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.catalogService.LoadTemplates(r.Context())
	if err != nil {
		writeFlowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, templates)
}

// handleGetCapability godoc
// @Summary      Resolve OAuth capability
// @Description  Reports whether the template type supports OAuth, failing soft
// @Tags         Catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.OAuthCapability
// @Router       /templates/{typeId}/capability [get]
func (s *Server) handleGetCapability(w http.ResponseWriter, r *http.Request) {
	typeID := r.PathValue("typeId")
	cap := s.capabilityService.Resolve(r.Context(), typeID)
	writeJSON(w, http.StatusOK, cap)
}

// handleGetFields godoc
// @Summary      Get form field descriptors
// @Tags         Catalog
// @Produce      json
// @Security     BearerAuth
// @Param        method  query  string  false  "Auth method (credentials or oauth)"
// @Success      200  {array}  domain.FieldDescriptor
// @Router       /templates/{typeId}/fields [get]
func (s *Server) handleGetFields(w http.ResponseWriter, r *http.Request) {
	typeID := r.PathValue("typeId")
	method := domain.AuthMethod(r.URL.Query().Get("method"))

	fields, err := s.catalogService.Fields(r.Context(), typeID, method)
	if err != nil {
		writeFlowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fields)
}

// Onboarding endpoints

// handleStartOnboarding godoc
// @Summary      Start onboarding
// @Description  Opens a new onboarding session; only one may be active
// @Tags         Onboarding
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  driving.SessionView
// @Failure      409  {object}  ErrorResponse  "Onboarding already in progress"
// @Router       /onboarding [post]
func (s *Server) handleStartOnboarding(w http.ResponseWriter, r *http.Request) {
	var req driving.StartRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	view, err := s.onboardingService.Start(r.Context(), req)
	if err != nil {
		writeFlowError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.onboardingService.Session(r.Context())
	if err != nil {
		writeFlowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleSelectTemplate godoc
// @Summary      Select a template
// @Tags         Onboarding
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  driving.SessionView
// @Router       /onboarding/template [post]
func (s *Server) handleSelectTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TypeID string `json:"type_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TypeID == "" {
		writeError(w, http.StatusBadRequest, "type_id is required")
		return
	}

	view, err := s.onboardingService.SelectTemplate(r.Context(), req.TypeID)
	if err != nil {
		writeFlowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleSetAuthMethod(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Method domain.AuthMethod `json:"method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := s.onboardingService.SetAuthMethod(r.Context(), req.Method)
	if err != nil {
		writeFlowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleSetDetails(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := s.onboardingService.SetDetails(r.Context(), req.Name, req.Description)
	if err != nil {
		writeFlowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleSetFields(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Values map[string]string `json:"values"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := s.onboardingService.SetFields(r.Context(), req.Values)
	if err != nil {
		writeFlowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleSetScopes(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Scopes []string `json:"scopes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := s.onboardingService.SetScopes(r.Context(), req.Scopes)
	if err != nil {
		writeFlowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleSubmit godoc
// @Summary      Submit the configured onboarding form
// @Description  Credentials path creates and verifies the integration; OAuth path returns the authorization URL for the redirect
// @Tags         Onboarding
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  driving.SubmitResult
// @Failure      400  {object}  ErrorResponse  "Validation failed"
// @Router       /onboarding/submit [post]
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	result, err := s.onboardingService.Submit(r.Context())
	if err != nil {
		writeFlowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	view, err := s.onboardingService.Retry(r.Context())
	if err != nil {
		writeFlowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	if err := s.onboardingService.Cancel(r.Context()); err != nil {
		writeFlowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

// handleOAuthCallback godoc
// @Summary      OAuth callback
// @Description  Resumes onboarding after the provider redirect; the sole reader of the state and code query parameters
// @Tags         Onboarding
// @Produce      json
// @Param        state  query  string  true   "Anti-forgery state"
// @Param        code   query  string  true   "Authorization code"
// @Param        error  query  string  false  "Provider error"
// @Success      200  {object}  driving.ResumeResult
// @Failure      410  {object}  ErrorResponse  "Handoff not found or expired"
// @Router       /oauth/callback [get]
func (s *Server) handleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := driving.ResumeRequest{
		State: query.Get("state"),
		Code:  query.Get("code"),
		Error: query.Get("error"),
	}

	result, err := s.onboardingService.Resume(r.Context(), req)
	if err != nil {
		writeFlowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleVerify godoc
// @Summary      Verify an integration
// @Description  Re-runs the connection test for a created integration
// @Tags         Integrations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  driving.VerifyResult
// @Failure      502  {object}  ErrorResponse  "Integration unreachable"
// @Router       /integrations/{id}/verify [post]
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	result, err := s.verifierService.Verify(r.Context(), id)
	if err != nil {
		// Transport failure: distinct from an application-level rejection.
		writeError(w, http.StatusBadGateway, "could not reach the integration")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// writeFlowError maps domain and classified errors onto HTTP statuses.
func writeFlowError(w http.ResponseWriter, err error) {
	if fe, ok := domain.AsFlowError(err); ok {
		retryable := fe.Kind.Retryable()
		resp := ErrorResponse{
			Error:     fe.Message,
			Kind:      string(fe.Kind),
			Fields:    fe.Fields,
			Retryable: &retryable,
		}
		switch fe.Kind {
		case domain.ErrorKindValidation, domain.ErrorKindMissingClientCredentials:
			writeJSON(w, http.StatusBadRequest, resp)
		case domain.ErrorKindCatalogUnavailable:
			writeJSON(w, http.StatusServiceUnavailable, resp)
		case domain.ErrorKindHandoffNotFound:
			writeJSON(w, http.StatusGone, resp)
		default:
			writeJSON(w, http.StatusBadGateway, resp)
		}
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrNoActiveSession):
		writeError(w, http.StatusNotFound, "no active onboarding session")
	case errors.Is(err, domain.ErrOnboardingActive):
		writeError(w, http.StatusConflict, "onboarding already in progress")
	case errors.Is(err, domain.ErrInvalidStep):
		writeError(w, http.StatusConflict, "operation not allowed in current step")
	case errors.Is(err, domain.ErrOAuthNotSupported):
		writeError(w, http.StatusBadRequest, "oauth is not supported for this integration type")
	case errors.Is(err, domain.ErrUndeclaredField):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid input")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// writeJSON writes a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
