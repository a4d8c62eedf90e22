package backendapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/conduit-labs/conduit-core/internal/core/domain"
	"github.com/conduit-labs/conduit-core/internal/core/ports/driven"
)

// Ensure Client implements CatalogSource.
var _ driven.CatalogSource = (*Client)(nil)

// wireTemplate is the template shape on the wire. Category arrives raw;
// the catalog service resolves it against the taxonomy.
type wireTemplate struct {
	TypeID                   string         `json:"type_id"`
	DisplayName              string         `json:"display_name"`
	Description              string         `json:"description"`
	Category                 string         `json:"category"`
	RequiredCredentialFields []string       `json:"required_credential_fields"`
	OptionalCredentialFields []string       `json:"optional_credential_fields"`
	DefaultSettings          map[string]any `json:"default_settings"`
	DocumentationURL         string         `json:"documentation_url"`
}

func (w *wireTemplate) toDomain() *domain.IntegrationTemplate {
	return &domain.IntegrationTemplate{
		TypeID:                   w.TypeID,
		DisplayName:              w.DisplayName,
		Description:              w.Description,
		Category:                 domain.Category(w.Category),
		RequiredCredentialFields: w.RequiredCredentialFields,
		OptionalCredentialFields: w.OptionalCredentialFields,
		DefaultSettings:          w.DefaultSettings,
		DocumentationURL:         w.DocumentationURL,
	}
}

// FetchTemplates retrieves the template catalog.
//
// The endpoint has historically returned two shapes: a flat JSON array,
// and a map keyed by type id. Both decode into one canonical sequence.
// When the map shape omits type_id inside the value, the key supplies it.
func (c *Client) FetchTemplates(ctx context.Context) ([]*domain.IntegrationTemplate, error) {
	data, err := c.do(ctx, "fetch templates", http.MethodGet, "/templates", nil)
	if err != nil {
		return nil, err
	}

	// Try the list shape first.
	var list []*wireTemplate
	if err := json.Unmarshal(data, &list); err == nil {
		templates := make([]*domain.IntegrationTemplate, 0, len(list))
		for _, w := range list {
			if w == nil {
				continue
			}
			templates = append(templates, w.toDomain())
		}
		return templates, nil
	}

	// Fall back to the keyed-map shape.
	var keyed map[string]*wireTemplate
	if err := json.Unmarshal(data, &keyed); err != nil {
		return nil, fmt.Errorf("fetch templates: unrecognized catalog shape: %w", err)
	}

	templates := make([]*domain.IntegrationTemplate, 0, len(keyed))
	for typeID, w := range keyed {
		if w == nil {
			continue
		}
		if w.TypeID == "" {
			w.TypeID = typeID
		}
		templates = append(templates, w.toDomain())
	}
	return templates, nil
}
