package driven

import (
	"context"

	"github.com/conduit-labs/conduit-core/internal/core/domain"
)

// CatalogSource fetches integration templates from the backend.
// The backend's template endpoint has historically returned both a flat
// list and a keyed map; implementations normalize both shapes into one
// canonical sequence. Ordering is the backend's; the catalog service
// re-sorts by type ID.
type CatalogSource interface {
	// FetchTemplates retrieves all templates. Categories arrive raw and
	// are resolved against the taxonomy by the catalog service.
	FetchTemplates(ctx context.Context) ([]*domain.IntegrationTemplate, error)
}
