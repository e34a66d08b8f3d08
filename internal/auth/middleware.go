package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/teamloop/teamloop/internal/platform/httpx"
	"github.com/teamloop/teamloop/internal/shared"
)

// RequireToken verifies the bearer token on protected routes and places the
// caller identity in the request context.
func RequireToken(issuer *TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				httpx.RespondError(w, fmt.Errorf("%w: missing bearer token", httpx.ErrAuthentication))
				return
			}
			claims, err := issuer.Verify(token)
			if err != nil {
				httpx.RespondError(w, fmt.Errorf("%w: invalid or expired token", httpx.ErrAuthentication))
				return
			}
			ctx := shared.ContextWithIdentity(r.Context(), &shared.Identity{
				Email:       claims.Subject,
				Authorities: claims.Authorities,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
