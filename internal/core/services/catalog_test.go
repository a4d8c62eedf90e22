package services

import (
	"context"
	"errors"
	"testing"

	"github.com/conduit-labs/conduit-core/internal/core/domain"
)

func TestLoadTemplatesNormalizesAndSorts(t *testing.T) {
	source := &mockCatalogSource{
		templates: []*domain.IntegrationTemplate{
			{TypeID: "slack", Category: "messaging"},
			{TypeID: "jira", Category: "issues"},
			{TypeID: "custom", Category: "weird_new_thing"},
		},
	}
	svc := NewCatalogService(source)

	templates, err := svc.LoadTemplates(context.Background())
	if err != nil {
		t.Fatalf("LoadTemplates() error = %v", err)
	}

	if len(templates) != 3 {
		t.Fatalf("LoadTemplates() returned %d templates, want 3", len(templates))
	}
	if templates[0].TypeID != "custom" || templates[1].TypeID != "jira" || templates[2].TypeID != "slack" {
		t.Errorf("templates not sorted by type id: %s, %s, %s",
			templates[0].TypeID, templates[1].TypeID, templates[2].TypeID)
	}
	if templates[1].Category != domain.CategoryIssueTracking {
		t.Errorf("jira category = %s, want %s", templates[1].Category, domain.CategoryIssueTracking)
	}
	if templates[0].Category != domain.CategoryOther {
		t.Errorf("unknown category = %s, want %s", templates[0].Category, domain.CategoryOther)
	}
}

func TestLoadTemplatesFetchError(t *testing.T) {
	source := &mockCatalogSource{err: errors.New("connection refused")}
	svc := NewCatalogService(source)

	_, err := svc.LoadTemplates(context.Background())
	fe, ok := domain.AsFlowError(err)
	if !ok {
		t.Fatalf("LoadTemplates() error = %v, want FlowError", err)
	}
	if fe.Kind != domain.ErrorKindCatalogUnavailable {
		t.Errorf("error kind = %s, want %s", fe.Kind, domain.ErrorKindCatalogUnavailable)
	}
}

func TestLoadTemplatesDuplicateTypeID(t *testing.T) {
	source := &mockCatalogSource{
		templates: []*domain.IntegrationTemplate{
			{TypeID: "slack", Category: "chat"},
			{TypeID: "slack", Category: "chat"},
		},
	}
	svc := NewCatalogService(source)

	_, err := svc.LoadTemplates(context.Background())
	fe, ok := domain.AsFlowError(err)
	if !ok || fe.Kind != domain.ErrorKindCatalogUnavailable {
		t.Errorf("LoadTemplates() with duplicate error = %v, want CatalogUnavailable", err)
	}
}

func TestLoadTemplatesMissingTypeID(t *testing.T) {
	source := &mockCatalogSource{
		templates: []*domain.IntegrationTemplate{{TypeID: ""}},
	}
	svc := NewCatalogService(source)

	_, err := svc.LoadTemplates(context.Background())
	fe, ok := domain.AsFlowError(err)
	if !ok || fe.Kind != domain.ErrorKindCatalogUnavailable {
		t.Errorf("LoadTemplates() with empty type id error = %v, want CatalogUnavailable", err)
	}
}

func TestLoadTemplatesRefetchesEachCall(t *testing.T) {
	source := &mockCatalogSource{err: errors.New("down")}
	svc := NewCatalogService(source)

	_, _ = svc.LoadTemplates(context.Background())

	// The backend recovers; the next call must see it without a restart.
	source.err = nil
	source.templates = []*domain.IntegrationTemplate{{TypeID: "slack", Category: "chat"}}

	templates, err := svc.LoadTemplates(context.Background())
	if err != nil {
		t.Fatalf("LoadTemplates() after recovery error = %v", err)
	}
	if len(templates) != 1 {
		t.Errorf("got %d templates after recovery, want 1", len(templates))
	}
	if source.calls != 2 {
		t.Errorf("FetchTemplates called %d times, want 2", source.calls)
	}
}

func TestGetNotFound(t *testing.T) {
	source := &mockCatalogSource{
		templates: []*domain.IntegrationTemplate{{TypeID: "slack", Category: "chat"}},
	}
	svc := NewCatalogService(source)

	if _, err := svc.Get(context.Background(), "nope"); err != domain.ErrNotFound {
		t.Errorf("Get(nope) error = %v, want ErrNotFound", err)
	}
}

func TestFieldsDefaultsToCredentials(t *testing.T) {
	source := &mockCatalogSource{
		templates: []*domain.IntegrationTemplate{{
			TypeID:                   "jira",
			Category:                 "issues",
			RequiredCredentialFields: []string{"base_url", "api_token"},
		}},
	}
	svc := NewCatalogService(source)

	fields, err := svc.Fields(context.Background(), "jira", "")
	if err != nil {
		t.Fatalf("Fields() error = %v", err)
	}
	if len(fields) != 2 {
		t.Fatalf("Fields() returned %d descriptors, want 2", len(fields))
	}

	if _, err := svc.Fields(context.Background(), "jira", "carrier_pigeon"); err != domain.ErrInvalidInput {
		t.Errorf("Fields(bad method) error = %v, want ErrInvalidInput", err)
	}
}
