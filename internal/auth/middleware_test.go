package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/teamloop/teamloop/internal/auth"
	"github.com/teamloop/teamloop/internal/shared"
)

func protectedServer(t *testing.T, issuer *auth.TokenIssuer) http.Handler {
	t.Helper()
	var handler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := shared.IdentityFromContext(r.Context())
		if id == nil {
			t.Fatal("identity missing from context")
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(id.Email))
	})
	return auth.RequireToken(issuer)(handler)
}

func TestRequireTokenAcceptsValidToken(t *testing.T) {
	issuer, err := auth.NewTokenIssuer([]byte("middleware-secret"), 24*time.Hour)
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}
	token, err := issuer.Issue("bob@test.local", []string{auth.AuthorityUser})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	protectedServer(t, issuer).ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if res.Body.String() != "bob@test.local" {
		t.Fatalf("expected subject in context, got %q", res.Body.String())
	}
}

func TestRequireTokenRejectsMissingHeader(t *testing.T) {
	issuer, err := auth.NewTokenIssuer([]byte("middleware-secret"), 24*time.Hour)
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	res := httptest.NewRecorder()
	protectedServer(t, issuer).ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
	var body struct {
		Summary string `json:"summary"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Summary != "Authentication Failed" {
		t.Fatalf("expected summary 'Authentication Failed', got %q", body.Summary)
	}
}

func TestRequireTokenRejectsGarbageToken(t *testing.T) {
	issuer, err := auth.NewTokenIssuer([]byte("middleware-secret"), 24*time.Hour)
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	res := httptest.NewRecorder()
	protectedServer(t, issuer).ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}
