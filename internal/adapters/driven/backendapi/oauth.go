package backendapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/conduit-labs/conduit-core/internal/core/domain"
	"github.com/conduit-labs/conduit-core/internal/core/ports/driven"
)

// Ensure Client implements OAuthAPI.
var _ driven.OAuthAPI = (*Client)(nil)

// Authorize requests an authorization URL and anti-forgery state.
func (c *Client) Authorize(ctx context.Context, typeID, clientID string, scopes []string) (*driven.AuthorizationGrant, error) {
	body := map[string]any{
		"type_id":   typeID,
		"client_id": clientID,
		"scopes":    scopes,
	}

	data, err := c.do(ctx, "oauth authorize", http.MethodPost, "/oauth-authorize", body)
	if err != nil {
		return nil, err
	}

	var grant driven.AuthorizationGrant
	if err := json.Unmarshal(data, &grant); err != nil {
		return nil, fmt.Errorf("oauth authorize: decode response: %w", err)
	}
	if grant.AuthorizationURL == "" || grant.State == "" {
		return nil, fmt.Errorf("oauth authorize: backend returned an incomplete grant")
	}
	return &grant, nil
}

// Exchange trades the authorization code for a completed integration.
func (c *Client) Exchange(ctx context.Context, req driven.ExchangeRequest) (*domain.Integration, error) {
	body := map[string]any{
		"type_id":            req.TypeID,
		"authorization_code": req.AuthorizationCode,
		"state":              req.State,
		"client_id":          req.ClientID,
		"client_secret":      req.ClientSecret,
		"name":               req.Name,
		"description":        req.Description,
		"config":             req.Config,
	}

	data, err := c.do(ctx, "oauth callback", http.MethodPost, "/oauth-callback", body)
	if err != nil {
		return nil, err
	}

	var integration domain.Integration
	if err := json.Unmarshal(data, &integration); err != nil {
		return nil, fmt.Errorf("oauth callback: decode response: %w", err)
	}
	return &integration, nil
}
