package driven

import (
	"context"

	"github.com/conduit-labs/conduit-core/internal/core/domain"
)

// HandoffStore persists pending OAuth handoffs across the browser redirect.
// This is the one piece of state shared between the pre-redirect and
// post-redirect execution contexts, so it must outlive a page load.
// Records are single-use and expire after a short TTL.
type HandoffStore interface {
	// Save stores a new handoff keyed by its state token.
	// Persistence must complete before the redirect is issued.
	Save(ctx context.Context, handoff *domain.PendingHandoff) error

	// GetAndDelete atomically retrieves and deletes the handoff.
	// This enforces single-use semantics.
	// Returns nil, nil if the handoff doesn't exist or has expired.
	GetAndDelete(ctx context.Context, state string) (*domain.PendingHandoff, error)

	// Cleanup removes expired handoffs. Abandoned consent screens leave
	// orphans behind; the runtime janitor calls this periodically.
	Cleanup(ctx context.Context) error
}
