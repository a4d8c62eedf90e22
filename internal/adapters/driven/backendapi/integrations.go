package backendapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/conduit-labs/conduit-core/internal/core/domain"
	"github.com/conduit-labs/conduit-core/internal/core/ports/driven"
)

// Ensure Client implements IntegrationAPI.
var _ driven.IntegrationAPI = (*Client)(nil)

// Create creates a new integration record.
func (c *Client) Create(ctx context.Context, req driven.CreateIntegrationRequest) (*domain.Integration, error) {
	data, err := c.do(ctx, "create integration", http.MethodPost, "/integrations", req)
	if err != nil {
		return nil, err
	}

	var integration domain.Integration
	if err := json.Unmarshal(data, &integration); err != nil {
		return nil, fmt.Errorf("create integration: decode response: %w", err)
	}
	return &integration, nil
}

// Update applies a partial update. The backend merges: absent credential
// fields keep their previously stored values.
func (c *Client) Update(ctx context.Context, id string, req driven.UpdateIntegrationRequest) (*domain.Integration, error) {
	path := "/integrations/" + url.PathEscape(id)
	data, err := c.do(ctx, "update integration", http.MethodPatch, path, req)
	if err != nil {
		return nil, err
	}

	var integration domain.Integration
	if err := json.Unmarshal(data, &integration); err != nil {
		return nil, fmt.Errorf("update integration: decode response: %w", err)
	}
	return &integration, nil
}

// Test invokes the integration's test endpoint. A failing test is a value
// here: non-2xx statuses decode into an unsuccessful outcome rather than
// an error. Only transport-level failures return a non-nil error.
func (c *Client) Test(ctx context.Context, id string) (*driven.TestOutcome, error) {
	path := "/integrations/" + url.PathEscape(id) + "/test"
	status, data, err := c.doStatus(ctx, "test integration", http.MethodPost, path, nil)
	if err != nil {
		return nil, err
	}

	var outcome driven.TestOutcome
	if jsonErr := json.Unmarshal(data, &outcome); jsonErr == nil && (outcome.Success || outcome.Message != "") {
		return &outcome, nil
	}

	if status >= 200 && status < 300 {
		return &driven.TestOutcome{Success: true}, nil
	}
	return &driven.TestOutcome{
		Success: false,
		Message: fmt.Sprintf("test endpoint returned status %d", status),
	}, nil
}
