package auth_test

import (
	"io"
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/teamloop/teamloop/internal/auth"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRouterFor(handler *auth.Handler) chi.Router {
	r := chi.NewRouter()
	handler.MountRoutes(r)
	return r
}
