package driving

import (
	"context"

	"github.com/conduit-labs/conduit-core/internal/core/domain"
)

// CatalogService loads and serves the integration template catalog.
// A load failure blocks onboarding entirely but is retryable: every call
// refetches, no process restart needed.
type CatalogService interface {
	// LoadTemplates fetches and normalizes the full catalog.
	// A duplicate type ID in the backend response is a catalog failure,
	// never a silent overwrite.
	LoadTemplates(ctx context.Context) ([]*domain.IntegrationTemplate, error)

	// Get returns a single template by type ID.
	// Returns domain.ErrNotFound if the catalog has no such type.
	Get(ctx context.Context, typeID string) (*domain.IntegrationTemplate, error)

	// Fields derives the form field descriptors for a template and method.
	Fields(ctx context.Context, typeID string, method domain.AuthMethod) ([]domain.FieldDescriptor, error)
}
