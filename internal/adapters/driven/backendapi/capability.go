package backendapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/conduit-labs/conduit-core/internal/core/ports/driven"
)

// Ensure Client implements CapabilityAPI.
var _ driven.CapabilityAPI = (*Client)(nil)

// GetOAuthSupport reports whether the type supports OAuth.
func (c *Client) GetOAuthSupport(ctx context.Context, typeID string) (*driven.OAuthSupport, error) {
	path := "/oauth-support/" + url.PathEscape(typeID)
	data, err := c.do(ctx, "get oauth support", http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var support driven.OAuthSupport
	if err := json.Unmarshal(data, &support); err != nil {
		return nil, fmt.Errorf("get oauth support: decode response: %w", err)
	}
	return &support, nil
}

// GetOAuthScopes returns the available and default scopes for the type.
func (c *Client) GetOAuthScopes(ctx context.Context, typeID string) (*driven.OAuthScopes, error) {
	path := "/oauth-scopes/" + url.PathEscape(typeID)
	data, err := c.do(ctx, "get oauth scopes", http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var scopes driven.OAuthScopes
	if err := json.Unmarshal(data, &scopes); err != nil {
		return nil, fmt.Errorf("get oauth scopes: decode response: %w", err)
	}
	return &scopes, nil
}
