package services

import (
	"context"
	"fmt"
	"time"

	"github.com/conduit-labs/conduit-core/internal/core/domain"
	"github.com/conduit-labs/conduit-core/internal/core/ports/driven"
)

// mockCatalogSource implements driven.CatalogSource for testing
type mockCatalogSource struct {
	templates []*domain.IntegrationTemplate
	err       error
	calls     int
}

func (m *mockCatalogSource) FetchTemplates(ctx context.Context) ([]*domain.IntegrationTemplate, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.templates, nil
}

// mockCapabilityAPI implements driven.CapabilityAPI for testing
type mockCapabilityAPI struct {
	support    *driven.OAuthSupport
	supportErr error
	scopes     *driven.OAuthScopes
	scopesErr  error

	supportCalls int
	scopesCalls  int
}

func (m *mockCapabilityAPI) GetOAuthSupport(ctx context.Context, typeID string) (*driven.OAuthSupport, error) {
	m.supportCalls++
	return m.support, m.supportErr
}

func (m *mockCapabilityAPI) GetOAuthScopes(ctx context.Context, typeID string) (*driven.OAuthScopes, error) {
	m.scopesCalls++
	return m.scopes, m.scopesErr
}

// mockIntegrationAPI implements driven.IntegrationAPI for testing
type mockIntegrationAPI struct {
	createErr  error
	updateErr  error
	testErr    error
	outcome    *driven.TestOutcome
	nextID     int
	created    []driven.CreateIntegrationRequest
	updated    map[string]driven.UpdateIntegrationRequest
	testedIDs  []string

	// testBarrier, when set, blocks Test until the channel closes. Lets a
	// test hold verification in flight while probing the submit guard.
	testBarrier chan struct{}
}

func newMockIntegrationAPI() *mockIntegrationAPI {
	return &mockIntegrationAPI{
		outcome: &driven.TestOutcome{Success: true},
		updated: make(map[string]driven.UpdateIntegrationRequest),
	}
}

func (m *mockIntegrationAPI) Create(ctx context.Context, req driven.CreateIntegrationRequest) (*domain.Integration, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.nextID++
	m.created = append(m.created, req)
	return &domain.Integration{
		ID:     fmt.Sprintf("int-%d", m.nextID),
		Name:   req.Name,
		TypeID: req.TypeID,
	}, nil
}

func (m *mockIntegrationAPI) Update(ctx context.Context, id string, req driven.UpdateIntegrationRequest) (*domain.Integration, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	m.updated[id] = req
	return &domain.Integration{ID: id, Name: req.Name}, nil
}

func (m *mockIntegrationAPI) Test(ctx context.Context, id string) (*driven.TestOutcome, error) {
	if m.testBarrier != nil {
		<-m.testBarrier
	}
	m.testedIDs = append(m.testedIDs, id)
	if m.testErr != nil {
		return nil, m.testErr
	}
	return m.outcome, nil
}

// mockOAuthAPI implements driven.OAuthAPI for testing
type mockOAuthAPI struct {
	grant        *driven.AuthorizationGrant
	authorizeErr error
	exchanged    []driven.ExchangeRequest
	exchangeErr  error

	// authorizeBarrier, when set, blocks Authorize until the channel
	// closes; authorizeEntered, when set, is closed once the call is
	// parked. Lets a test hold an OAuth submit in flight.
	authorizeBarrier chan struct{}
	authorizeEntered chan struct{}
}

func (m *mockOAuthAPI) Authorize(ctx context.Context, typeID, clientID string, scopes []string) (*driven.AuthorizationGrant, error) {
	if m.authorizeEntered != nil {
		close(m.authorizeEntered)
		m.authorizeEntered = nil
	}
	if m.authorizeBarrier != nil {
		<-m.authorizeBarrier
	}
	if m.authorizeErr != nil {
		return nil, m.authorizeErr
	}
	if m.grant != nil {
		return m.grant, nil
	}
	return &driven.AuthorizationGrant{
		AuthorizationURL: "https://provider.example.com/authorize?state=state-1",
		State:            "state-1",
	}, nil
}

func (m *mockOAuthAPI) Exchange(ctx context.Context, req driven.ExchangeRequest) (*domain.Integration, error) {
	m.exchanged = append(m.exchanged, req)
	if m.exchangeErr != nil {
		return nil, m.exchangeErr
	}
	return &domain.Integration{
		ID:     "int-oauth-1",
		Name:   req.Name,
		TypeID: req.TypeID,
	}, nil
}

// mockHandoffStore implements driven.HandoffStore for testing
type mockHandoffStore struct {
	handoffs map[string]*domain.PendingHandoff
	saveErr  error
	getErr   error
	saves    int
}

func newMockHandoffStore() *mockHandoffStore {
	return &mockHandoffStore{handoffs: make(map[string]*domain.PendingHandoff)}
}

func (m *mockHandoffStore) Save(ctx context.Context, handoff *domain.PendingHandoff) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.handoffs[handoff.State] = handoff
	return nil
}

func (m *mockHandoffStore) GetAndDelete(ctx context.Context, state string) (*domain.PendingHandoff, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	h, ok := m.handoffs[state]
	if !ok {
		return nil, nil
	}
	delete(m.handoffs, state)
	if time.Now().After(h.ExpiresAt) {
		return nil, nil
	}
	return h, nil
}

func (m *mockHandoffStore) Cleanup(ctx context.Context) error {
	now := time.Now()
	for k, v := range m.handoffs {
		if now.After(v.ExpiresAt) {
			delete(m.handoffs, k)
		}
	}
	return nil
}
