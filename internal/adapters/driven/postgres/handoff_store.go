package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/conduit-labs/conduit-core/internal/core/domain"
	"github.com/conduit-labs/conduit-core/internal/core/ports/driven"
)

// Ensure HandoffStore implements the interface.
var _ driven.HandoffStore = (*HandoffStore)(nil)

// DefaultHandoffTTL is applied when a handoff arrives without an expiry.
const DefaultHandoffTTL = 10 * time.Minute

// HandoffStore implements driven.HandoffStore using PostgreSQL.
// The client secret is encrypted at rest; everything else is plain
// columns so expired rows can be swept with one indexed delete.
type HandoffStore struct {
	db        *DB
	encryptor *SecretEncryptor
	ttl       time.Duration
}

// NewHandoffStore creates a new PostgreSQL-backed handoff store.
func NewHandoffStore(db *DB, encryptor *SecretEncryptor) *HandoffStore {
	return &HandoffStore{
		db:        db,
		encryptor: encryptor,
		ttl:       DefaultHandoffTTL,
	}
}

// Save stores a new handoff keyed by its state token.
func (s *HandoffStore) Save(ctx context.Context, handoff *domain.PendingHandoff) error {
	now := time.Now()
	if handoff.CreatedAt.IsZero() {
		handoff.CreatedAt = now
	}
	if handoff.ExpiresAt.IsZero() {
		handoff.ExpiresAt = now.Add(s.ttl)
	}

	secretBlob, err := s.encryptor.EncryptString(handoff.ClientSecret)
	if err != nil {
		return fmt.Errorf("encrypt client secret: %w", err)
	}

	var settings []byte
	if handoff.DefaultSettings != nil {
		settings, err = json.Marshal(handoff.DefaultSettings)
		if err != nil {
			return fmt.Errorf("encode default settings: %w", err)
		}
	}

	query := `
		INSERT INTO pending_handoffs (state, type_id, client_id, secret_blob, name, description, default_settings, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = s.db.ExecContext(ctx, query,
		handoff.State,
		handoff.TypeID,
		handoff.ClientID,
		secretBlob,
		nullString(handoff.Name),
		nullString(handoff.Description),
		settings,
		handoff.CreatedAt,
		handoff.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("save handoff: %w", err)
	}

	return nil
}

// GetAndDelete atomically retrieves and deletes the handoff.
// Uses DELETE ... RETURNING for atomic single-use semantics.
func (s *HandoffStore) GetAndDelete(ctx context.Context, state string) (*domain.PendingHandoff, error) {
	query := `
		DELETE FROM pending_handoffs
		WHERE state = $1 AND expires_at > NOW()
		RETURNING state, type_id, client_id, secret_blob, name, description, default_settings, created_at, expires_at
	`

	var (
		handoff    domain.PendingHandoff
		secretBlob []byte
		name       sql.NullString
		desc       sql.NullString
		settings   []byte
	)
	err := s.db.QueryRowContext(ctx, query, state).Scan(
		&handoff.State,
		&handoff.TypeID,
		&handoff.ClientID,
		&secretBlob,
		&name,
		&desc,
		&settings,
		&handoff.CreatedAt,
		&handoff.ExpiresAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil // Handoff not found or expired
	}
	if err != nil {
		return nil, fmt.Errorf("get and delete handoff: %w", err)
	}

	secret, err := s.encryptor.DecryptString(secretBlob)
	if err != nil {
		return nil, fmt.Errorf("decrypt client secret: %w", err)
	}
	handoff.ClientSecret = secret
	handoff.Name = name.String
	handoff.Description = desc.String

	if len(settings) > 0 {
		if err := json.Unmarshal(settings, &handoff.DefaultSettings); err != nil {
			return nil, fmt.Errorf("decode default settings: %w", err)
		}
	}

	return &handoff, nil
}

// Cleanup removes expired handoffs.
func (s *HandoffStore) Cleanup(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM pending_handoffs WHERE expires_at < NOW()`)
	if err != nil {
		return fmt.Errorf("cleanup handoffs: %w", err)
	}
	return nil
}

// nullString converts an empty string to a SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
