package driving

import (
	"context"

	"github.com/conduit-labs/conduit-core/internal/core/domain"
)

// CapabilityService resolves a template type's OAuth capability.
//
// Resolve never returns an error: a capability-check outage yields a
// conservative SupportsOAuth=false so the credentials fallback path is
// never blocked. The contract is visible in the signature itself.
type CapabilityService interface {
	// Resolve returns the OAuth capability for the type, failing soft.
	Resolve(ctx context.Context, typeID string) *domain.OAuthCapability

	// Invalidate drops the cached capability. Called when a different
	// template is selected.
	Invalidate()
}
