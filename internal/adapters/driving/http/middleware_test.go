package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, role string, expiresIn time.Duration) string {
	t.Helper()
	claims := tokenClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func authedRequest(t *testing.T, token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticateValidToken(t *testing.T) {
	m := NewAuthMiddleware(testSecret)

	var captured *AuthContext
	handler := m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetAuthContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, signToken(t, testSecret, "admin", time.Hour)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if captured == nil {
		t.Fatal("auth context not set")
	}
	if captured.Subject != "user-1" || !captured.IsAdmin() {
		t.Errorf("auth context = %+v, want admin user-1", captured)
	}
}

func TestAuthenticateMissingToken(t *testing.T) {
	m := NewAuthMiddleware(testSecret)
	rec := httptest.NewRecorder()
	m.Authenticate(okHandler()).ServeHTTP(rec, authedRequest(t, ""))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticateWrongSecret(t *testing.T) {
	m := NewAuthMiddleware(testSecret)
	rec := httptest.NewRecorder()
	m.Authenticate(okHandler()).ServeHTTP(rec, authedRequest(t, signToken(t, "other-secret", "admin", time.Hour)))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticateExpiredToken(t *testing.T) {
	m := NewAuthMiddleware(testSecret)
	rec := httptest.NewRecorder()
	m.Authenticate(okHandler()).ServeHTTP(rec, authedRequest(t, signToken(t, testSecret, "admin", -time.Hour)))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	m := NewAuthMiddleware(testSecret)
	handler := m.Authenticate(m.RequireAdmin(okHandler()))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, signToken(t, testSecret, "viewer", time.Hour)))
	if rec.Code != http.StatusForbidden {
		t.Errorf("viewer status = %d, want 403", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, signToken(t, testSecret, "admin", time.Hour)))
	if rec.Code != http.StatusOK {
		t.Errorf("admin status = %d, want 200", rec.Code)
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header   string
		expected string
	}{
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"Basic abc", ""},
		{"Bearer", ""},
		{"", ""},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		if got := extractBearerToken(req); got != tt.expected {
			t.Errorf("extractBearerToken(%q) = %q, want %q", tt.header, got, tt.expected)
		}
	}
}
