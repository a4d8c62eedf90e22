package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/conduit-labs/conduit-core/internal/core/ports/driving"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string

	// Services
	catalogService    driving.CatalogService
	capabilityService driving.CapabilityService
	onboardingService driving.OnboardingService
	verifierService   driving.VerifierService

	// Infrastructure
	jwtSecret string
	db        Pinger // handoff store backend health check (optional)
}

// Config holds server configuration
type Config struct {
	Host      string
	Port      int
	Version   string
	JWTSecret string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:    "0.0.0.0",
		Port:    8080,
		Version: "dev",
	}
}

// NewServer creates a new HTTP server
func NewServer(
	cfg Config,
	catalogService driving.CatalogService,
	capabilityService driving.CapabilityService,
	onboardingService driving.OnboardingService,
	verifierService driving.VerifierService,
	db Pinger, // can be nil
) *Server {
	s := &Server{
		router:            http.NewServeMux(),
		version:           cfg.Version,
		catalogService:    catalogService,
		capabilityService: capabilityService,
		onboardingService: onboardingService,
		verifierService:   verifierService,
		jwtSecret:         cfg.JWTSecret,
		db:                db,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	authMiddleware := NewAuthMiddleware(s.jwtSecret)

	// Health endpoints (no auth)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)

	// Catalog endpoints (authenticated)
	s.router.Handle("GET /api/v1/templates",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleListTemplates)))
	s.router.Handle("GET /api/v1/templates/{typeId}/capability",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleGetCapability)))
	s.router.Handle("GET /api/v1/templates/{typeId}/fields",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleGetFields)))

	// Onboarding endpoints (admin-only mutations)
	s.router.Handle("POST /api/v1/onboarding",
		authMiddleware.Authenticate(
			authMiddleware.RequireAdmin(http.HandlerFunc(s.handleStartOnboarding))))
	s.router.Handle("GET /api/v1/onboarding",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleGetSession)))
	s.router.Handle("POST /api/v1/onboarding/template",
		authMiddleware.Authenticate(
			authMiddleware.RequireAdmin(http.HandlerFunc(s.handleSelectTemplate))))
	s.router.Handle("POST /api/v1/onboarding/auth-method",
		authMiddleware.Authenticate(
			authMiddleware.RequireAdmin(http.HandlerFunc(s.handleSetAuthMethod))))
	s.router.Handle("PUT /api/v1/onboarding/details",
		authMiddleware.Authenticate(
			authMiddleware.RequireAdmin(http.HandlerFunc(s.handleSetDetails))))
	s.router.Handle("PUT /api/v1/onboarding/fields",
		authMiddleware.Authenticate(
			authMiddleware.RequireAdmin(http.HandlerFunc(s.handleSetFields))))
	s.router.Handle("PUT /api/v1/onboarding/scopes",
		authMiddleware.Authenticate(
			authMiddleware.RequireAdmin(http.HandlerFunc(s.handleSetScopes))))
	s.router.Handle("POST /api/v1/onboarding/submit",
		authMiddleware.Authenticate(
			authMiddleware.RequireAdmin(http.HandlerFunc(s.handleSubmit))))
	s.router.Handle("POST /api/v1/onboarding/retry",
		authMiddleware.Authenticate(
			authMiddleware.RequireAdmin(http.HandlerFunc(s.handleRetry))))
	s.router.Handle("DELETE /api/v1/onboarding",
		authMiddleware.Authenticate(
			authMiddleware.RequireAdmin(http.HandlerFunc(s.handleCancel))))

	// OAuth callback (public: the provider's redirect carries no token)
	s.router.HandleFunc("GET /api/v1/oauth/callback", s.handleOAuthCallback)

	// Verification endpoint (admin-only)
	s.router.Handle("POST /api/v1/integrations/{id}/verify",
		authMiddleware.Authenticate(
			authMiddleware.RequireAdmin(http.HandlerFunc(s.handleVerify))))
}

// Start begins listening for requests
func (s *Server) Start() error {
	log.Printf("HTTP server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
