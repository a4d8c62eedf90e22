package services

import (
	"context"
	"sync"

	"github.com/conduit-labs/conduit-core/internal/core/domain"
	"github.com/conduit-labs/conduit-core/internal/core/ports/driven"
	"github.com/conduit-labs/conduit-core/internal/core/ports/driving"
)

// Ensure capabilityService implements CapabilityService
var _ driving.CapabilityService = (*capabilityService)(nil)

// capabilityService resolves a template type's OAuth capability against
// the backend. It fails soft: any probe error becomes a conservative
// "no OAuth" answer so the credentials fallback path is never blocked.
//
// The last resolved type is cached for the session and invalidated when a
// different template is selected.
type capabilityService struct {
	api driven.CapabilityAPI

	mu         sync.Mutex
	cachedType string
	cached     *domain.OAuthCapability
}

// NewCapabilityService creates a new capability service.
func NewCapabilityService(api driven.CapabilityAPI) driving.CapabilityService {
	return &capabilityService{api: api}
}

// Resolve returns the OAuth capability for the type, failing soft.
func (s *capabilityService) Resolve(ctx context.Context, typeID string) *domain.OAuthCapability {
	s.mu.Lock()
	if s.cachedType == typeID && s.cached != nil {
		cached := s.cached
		s.mu.Unlock()
		return cached
	}
	s.mu.Unlock()

	cap := s.probe(ctx, typeID)

	s.mu.Lock()
	s.cachedType = typeID
	s.cached = cap
	s.mu.Unlock()

	return cap
}

// probe combines the support and scope endpoints. If either call errors,
// the answer is SupportsOAuth=false.
func (s *capabilityService) probe(ctx context.Context, typeID string) *domain.OAuthCapability {
	support, err := s.api.GetOAuthSupport(ctx, typeID)
	if err != nil || support == nil || !support.SupportsOAuth {
		return &domain.OAuthCapability{SupportsOAuth: false}
	}

	scopes, err := s.api.GetOAuthScopes(ctx, typeID)
	if err != nil || scopes == nil {
		return &domain.OAuthCapability{SupportsOAuth: false}
	}

	return &domain.OAuthCapability{
		SupportsOAuth:   true,
		AvailableScopes: scopes.AvailableScopes,
		DefaultScopes:   scopes.DefaultScopes,
	}
}

// Invalidate drops the cached capability.
func (s *capabilityService) Invalidate() {
	s.mu.Lock()
	s.cachedType = ""
	s.cached = nil
	s.mu.Unlock()
}
