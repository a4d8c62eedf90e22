package services

import (
	"context"
	"errors"
	"testing"

	"github.com/conduit-labs/conduit-core/internal/core/domain"
	"github.com/conduit-labs/conduit-core/internal/core/ports/driven"
)

func jiraTemplate() *domain.IntegrationTemplate {
	return &domain.IntegrationTemplate{
		TypeID:                   "jira",
		DisplayName:              "Jira",
		Category:                 domain.CategoryIssueTracking,
		RequiredCredentialFields: []string{"base_url", "api_token"},
		OptionalCredentialFields: []string{"project_key"},
		DefaultSettings:          map[string]any{"sync_interval": "30m"},
	}
}

func configuredSession(t *testing.T) *domain.OnboardingSession {
	t.Helper()
	s := domain.NewOnboardingSession()
	if err := s.SelectTemplate(jiraTemplate(), &domain.OAuthCapability{}); err != nil {
		t.Fatalf("SelectTemplate() error = %v", err)
	}
	if err := s.SetField("base_url", "https://jira.example.com"); err != nil {
		t.Fatalf("SetField() error = %v", err)
	}
	if err := s.SetField("api_token", "tok-123"); err != nil {
		t.Fatalf("SetField() error = %v", err)
	}
	return s
}

func TestValidateNamesAllMissingFields(t *testing.T) {
	s := domain.NewOnboardingSession()
	if err := s.SelectTemplate(jiraTemplate(), &domain.OAuthCapability{}); err != nil {
		t.Fatalf("SelectTemplate() error = %v", err)
	}

	exec := NewCredentialExecutor(newMockIntegrationAPI(), nil)
	fe := exec.Validate(s)
	if fe == nil {
		t.Fatal("Validate() = nil, want validation error")
	}
	if fe.Kind != domain.ErrorKindValidation {
		t.Errorf("error kind = %s, want %s", fe.Kind, domain.ErrorKindValidation)
	}
	if len(fe.Fields) != 2 {
		t.Errorf("error fields = %v, want both missing fields named", fe.Fields)
	}
}

func TestExecuteCreatesAndActivates(t *testing.T) {
	api := newMockIntegrationAPI()
	exec := NewCredentialExecutor(api, NewVerifierService(api))

	s := configuredSession(t)
	integration, fe := exec.Execute(context.Background(), s)
	if fe != nil {
		t.Fatalf("Execute() error = %v", fe)
	}

	if integration.Status != domain.IntegrationStatusActive {
		t.Errorf("Status = %s, want %s", integration.Status, domain.IntegrationStatusActive)
	}
	if len(api.created) != 1 {
		t.Fatalf("Create called %d times, want 1", len(api.created))
	}

	req := api.created[0]
	// Name defaults to the template's display name when unset.
	if req.Name != "Jira" {
		t.Errorf("create name = %q, want template display name", req.Name)
	}
	if req.Config["sync_interval"] != "30m" {
		t.Errorf("create config = %v, want template default settings", req.Config)
	}
	if len(req.Credentials) != 2 {
		t.Errorf("credentials = %v, want only the two populated fields", req.Credentials)
	}
}

func TestExecuteEditUsesUpdate(t *testing.T) {
	api := newMockIntegrationAPI()
	exec := NewCredentialExecutor(api, NewVerifierService(api))

	s := configuredSession(t)
	s.ExistingIntegrationID = "int-42"

	_, fe := exec.Execute(context.Background(), s)
	if fe != nil {
		t.Fatalf("Execute() error = %v", fe)
	}

	if len(api.created) != 0 {
		t.Error("edit went through Create instead of Update")
	}
	req, ok := api.updated["int-42"]
	if !ok {
		t.Fatal("Update not called for the existing integration")
	}
	// Blank optional field omitted: the backend keeps its stored value.
	if _, ok := req.Credentials["project_key"]; ok {
		t.Error("blank field present in update payload, breaks merge semantics")
	}
}

func TestExecuteCreationFailure(t *testing.T) {
	api := newMockIntegrationAPI()
	api.createErr = errors.New("500 internal")
	exec := NewCredentialExecutor(api, NewVerifierService(api))

	integration, fe := exec.Execute(context.Background(), configuredSession(t))
	if fe == nil || fe.Kind != domain.ErrorKindCreation {
		t.Fatalf("Execute() error = %v, want CreationError", fe)
	}
	if integration != nil {
		t.Error("integration returned despite creation failure")
	}
}

func TestExecuteTestFailureKeepsIntegration(t *testing.T) {
	api := newMockIntegrationAPI()
	api.outcome = &driven.TestOutcome{Success: false, Message: "401 unauthorized"}
	exec := NewCredentialExecutor(api, NewVerifierService(api))

	integration, fe := exec.Execute(context.Background(), configuredSession(t))
	if fe == nil || fe.Kind != domain.ErrorKindTest {
		t.Fatalf("Execute() error = %v, want TestError", fe)
	}
	// No rollback: the integration exists, unverified.
	if integration == nil {
		t.Fatal("integration rolled back on test failure")
	}
	if integration.Status != domain.IntegrationStatusUnverified {
		t.Errorf("Status = %s, want %s", integration.Status, domain.IntegrationStatusUnverified)
	}
	if fe.Message != "401 unauthorized" {
		t.Errorf("error message = %q, want the test's reason", fe.Message)
	}
}

func TestExecuteUnreachableTestKeepsIntegration(t *testing.T) {
	api := newMockIntegrationAPI()
	api.testErr = errors.New("dial tcp: timeout")
	exec := NewCredentialExecutor(api, NewVerifierService(api))

	integration, fe := exec.Execute(context.Background(), configuredSession(t))
	if fe == nil || fe.Kind != domain.ErrorKindTest {
		t.Fatalf("Execute() error = %v, want TestError", fe)
	}
	if integration == nil || integration.Status != domain.IntegrationStatusUnverified {
		t.Error("unreachable test must leave the integration in place, unverified")
	}
	if fe.Message != "could not reach the integration to verify it" {
		t.Errorf("error message = %q, want the unreachable wording", fe.Message)
	}
}
