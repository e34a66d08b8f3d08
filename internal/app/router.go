package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/teamloop/teamloop/internal/account"
	"github.com/teamloop/teamloop/internal/auth"
	"github.com/teamloop/teamloop/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	AuthHandler    *auth.Handler
	AccountHandler *account.Handler
	TokenIssuer    *auth.TokenIssuer
	JobsHandler    *jobs.Handler
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// POST /login is the authentication flow; the remaining account routes
	// share the root path with it.
	params.AuthHandler.MountRoutes(r)
	params.AccountHandler.MountRoutes(r)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireToken(params.TokenIssuer))
		params.AccountHandler.MountProtectedRoutes(r)
	})

	if params.JobsHandler != nil {
		r.Route("/jobs", params.JobsHandler.MountRoutes)
	}

	return r
}
