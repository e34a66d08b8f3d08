package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/teamloop/teamloop/internal/auth"
	"github.com/teamloop/teamloop/internal/shared"
	_ "github.com/teamloop/teamloop/testing"
)

type stubRepo struct {
	user *auth.User
}

func (s *stubRepo) FindActiveByEmail(ctx context.Context, email string) (*auth.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, shared.ErrNotFound
	}
	return s.user, nil
}

func newLoginHandler(t *testing.T, repo auth.Repository) (*auth.Handler, *auth.TokenIssuer) {
	t.Helper()
	issuer, err := auth.NewTokenIssuer([]byte("handler-test-secret"), 24*time.Hour)
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}
	logger := newTestLogger()
	return auth.NewHandler(logger, auth.NewService(repo), issuer), issuer
}

func postLogin(t *testing.T, handler *auth.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	router := newRouterFor(handler)
	router.ServeHTTP(res, req)
	return res
}

func TestLoginSuccess(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("correctpass"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo := &stubRepo{user: &auth.User{ID: 42, Email: "user@test.local", Name: "Test User", PasswordHash: string(hashed)}}
	handler, issuer := newLoginHandler(t, repo)

	res := postLogin(t, handler, `{"email":"user@test.local","password":"correctpass"}`)

	if res.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.Code)
	}
	if ct := res.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected JSON content type, got %q", ct)
	}

	var body struct {
		ID          int64  `json:"id"`
		Email       string `json:"email"`
		Name        string `json:"name"`
		AccessToken string `json:"accessToken"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.ID != 42 || body.Email != "user@test.local" || body.Name != "Test User" {
		t.Fatalf("unexpected identity in response: %+v", body)
	}

	claims, err := issuer.Verify(body.AccessToken)
	if err != nil {
		t.Fatalf("issued token failed verification: %v", err)
	}
	if claims.Subject != "user@test.local" {
		t.Fatalf("expected token subject user@test.local, got %q", claims.Subject)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("correctpass"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo := &stubRepo{user: &auth.User{ID: 42, Email: "user@test.local", PasswordHash: string(hashed)}}
	handler, _ := newLoginHandler(t, repo)

	res := postLogin(t, handler, `{"email":"user@test.local","password":"wrongpass"}`)

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", res.Code)
	}
	if res.Body.String() != "Wrong password or user email" {
		t.Fatalf("unexpected failure body: %q", res.Body.String())
	}
}

func TestLoginUnknownEmailSameBody(t *testing.T) {
	handler, _ := newLoginHandler(t, &stubRepo{})

	res := postLogin(t, handler, `{"email":"nobody@test.local","password":"whatever"}`)

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", res.Code)
	}
	if res.Body.String() != "Wrong password or user email" {
		t.Fatalf("response must not reveal whether the email exists: %q", res.Body.String())
	}
}

func TestLoginMalformedBody(t *testing.T) {
	handler, _ := newLoginHandler(t, &stubRepo{})

	res := postLogin(t, handler, `{"email":`)

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", res.Code)
	}
	if res.Body.String() != "Wrong password or user email" {
		t.Fatalf("unexpected failure body: %q", res.Body.String())
	}
}
