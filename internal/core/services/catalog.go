package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/conduit-labs/conduit-core/internal/core/domain"
	"github.com/conduit-labs/conduit-core/internal/core/ports/driven"
	"github.com/conduit-labs/conduit-core/internal/core/ports/driving"
)

// Ensure catalogService implements CatalogService
var _ driving.CatalogService = (*catalogService)(nil)

// catalogService loads integration templates from the backend and
// normalizes them into one canonical, taxonomy-resolved catalog.
type catalogService struct {
	source driven.CatalogSource
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(source driven.CatalogSource) driving.CatalogService {
	return &catalogService{source: source}
}

// LoadTemplates fetches and normalizes the full catalog.
// Each call refetches, so a failed load is retryable without restarting
// the host application.
func (s *catalogService) LoadTemplates(ctx context.Context) ([]*domain.IntegrationTemplate, error) {
	templates, err := s.source.FetchTemplates(ctx)
	if err != nil {
		return nil, &domain.FlowError{
			Kind:    domain.ErrorKindCatalogUnavailable,
			Message: "the integration catalog could not be loaded",
		}
	}

	seen := make(map[string]bool, len(templates))
	for _, t := range templates {
		if t.TypeID == "" {
			return nil, &domain.FlowError{
				Kind:    domain.ErrorKindCatalogUnavailable,
				Message: "the integration catalog contains a template without a type id",
			}
		}
		// A duplicate type id must not silently overwrite another template.
		if seen[t.TypeID] {
			return nil, &domain.FlowError{
				Kind:    domain.ErrorKindCatalogUnavailable,
				Message: fmt.Sprintf("the integration catalog contains duplicate type %q", t.TypeID),
			}
		}
		seen[t.TypeID] = true

		// Unmapped categories fall into the "other" bucket rather than
		// failing the whole load.
		t.Category = domain.ResolveCategory(string(t.Category))
	}

	sort.Slice(templates, func(i, j int) bool {
		return templates[i].TypeID < templates[j].TypeID
	})

	return templates, nil
}

// Get returns a single template by type ID.
func (s *catalogService) Get(ctx context.Context, typeID string) (*domain.IntegrationTemplate, error) {
	templates, err := s.LoadTemplates(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range templates {
		if t.TypeID == typeID {
			return t, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Fields derives the form field descriptors for a template and method.
func (s *catalogService) Fields(ctx context.Context, typeID string, method domain.AuthMethod) ([]domain.FieldDescriptor, error) {
	t, err := s.Get(ctx, typeID)
	if err != nil {
		return nil, err
	}
	if method == "" {
		method = domain.AuthMethodCredentials
	}
	if method != domain.AuthMethodCredentials && method != domain.AuthMethodOAuth {
		return nil, domain.ErrInvalidInput
	}
	return domain.FieldsFor(t, method), nil
}
