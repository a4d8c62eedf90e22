package services

import (
	"context"
	"errors"
	"testing"

	"github.com/conduit-labs/conduit-core/internal/core/ports/driven"
)

func TestResolveSupported(t *testing.T) {
	api := &mockCapabilityAPI{
		support: &driven.OAuthSupport{SupportsOAuth: true},
		scopes: &driven.OAuthScopes{
			AvailableScopes: []string{"read", "write"},
			DefaultScopes:   []string{"read"},
		},
	}
	svc := NewCapabilityService(api)

	cap := svc.Resolve(context.Background(), "github")
	if !cap.SupportsOAuth {
		t.Fatal("Resolve() SupportsOAuth = false, want true")
	}
	if len(cap.AvailableScopes) != 2 || len(cap.DefaultScopes) != 1 {
		t.Errorf("scopes = %v / %v, want [read write] / [read]", cap.AvailableScopes, cap.DefaultScopes)
	}
}

func TestResolveFailsSoftOnSupportError(t *testing.T) {
	api := &mockCapabilityAPI{supportErr: errors.New("connection refused")}
	svc := NewCapabilityService(api)

	// A probe failure is never an error: it is a usable "no OAuth" answer.
	cap := svc.Resolve(context.Background(), "github")
	if cap == nil {
		t.Fatal("Resolve() returned nil capability")
	}
	if cap.SupportsOAuth {
		t.Error("Resolve() SupportsOAuth = true despite probe failure")
	}
}

func TestResolveFailsSoftOnScopesError(t *testing.T) {
	api := &mockCapabilityAPI{
		support:   &driven.OAuthSupport{SupportsOAuth: true},
		scopesErr: errors.New("timeout"),
	}
	svc := NewCapabilityService(api)

	cap := svc.Resolve(context.Background(), "github")
	if cap.SupportsOAuth {
		t.Error("Resolve() SupportsOAuth = true despite scope probe failure")
	}
}

func TestResolveCachesLastType(t *testing.T) {
	api := &mockCapabilityAPI{
		support: &driven.OAuthSupport{SupportsOAuth: true},
		scopes:  &driven.OAuthScopes{AvailableScopes: []string{"read"}},
	}
	svc := NewCapabilityService(api)

	svc.Resolve(context.Background(), "github")
	svc.Resolve(context.Background(), "github")

	if api.supportCalls != 1 {
		t.Errorf("GetOAuthSupport called %d times for same type, want 1", api.supportCalls)
	}

	svc.Invalidate()
	svc.Resolve(context.Background(), "github")

	if api.supportCalls != 2 {
		t.Errorf("GetOAuthSupport called %d times after Invalidate, want 2", api.supportCalls)
	}
}
