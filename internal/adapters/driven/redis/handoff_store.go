// Package redis provides a Redis-backed pending-handoff store. Redis is a
// natural fit here: handoffs are short-lived, keyed blobs whose expiry the
// server enforces natively.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/conduit-labs/conduit-core/internal/core/domain"
	"github.com/conduit-labs/conduit-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.HandoffStore = (*HandoffStore)(nil)

// handoffPrefix namespaces handoff keys in Redis.
const handoffPrefix = "handoff:"

// DefaultHandoffTTL is applied when a handoff arrives without an expiry.
const DefaultHandoffTTL = 10 * time.Minute

// HandoffStore implements driven.HandoffStore using Redis.
// Single-use consumption relies on GETDEL being atomic.
type HandoffStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewHandoffStore creates a new Redis-backed HandoffStore.
func NewHandoffStore(client *redis.Client) *HandoffStore {
	return &HandoffStore{client: client, ttl: DefaultHandoffTTL}
}

// Save stores the handoff with a TTL derived from its expiry.
func (s *HandoffStore) Save(ctx context.Context, handoff *domain.PendingHandoff) error {
	now := time.Now()
	if handoff.CreatedAt.IsZero() {
		handoff.CreatedAt = now
	}
	if handoff.ExpiresAt.IsZero() {
		handoff.ExpiresAt = now.Add(s.ttl)
	}

	ttl := time.Until(handoff.ExpiresAt)
	if ttl <= 0 {
		// Already expired, don't save
		return nil
	}

	data, err := json.Marshal(handoff)
	if err != nil {
		return fmt.Errorf("failed to marshal handoff: %w", err)
	}

	if err := s.client.Set(ctx, handoffPrefix+handoff.State, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save handoff: %w", err)
	}
	return nil
}

// GetAndDelete atomically retrieves and deletes the handoff via GETDEL.
func (s *HandoffStore) GetAndDelete(ctx context.Context, state string) (*domain.PendingHandoff, error) {
	data, err := s.client.GetDel(ctx, handoffPrefix+state).Bytes()
	if err == redis.Nil {
		return nil, nil // Not found or expired
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get handoff: %w", err)
	}

	var handoff domain.PendingHandoff
	if err := json.Unmarshal(data, &handoff); err != nil {
		return nil, fmt.Errorf("failed to unmarshal handoff: %w", err)
	}
	if handoff.IsExpired() {
		return nil, nil
	}
	return &handoff, nil
}

// Cleanup is a no-op: Redis expires handoff keys natively.
func (s *HandoffStore) Cleanup(ctx context.Context) error {
	return nil
}
