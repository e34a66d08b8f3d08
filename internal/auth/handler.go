package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/teamloop/teamloop/internal/platform/httpx"
)

// loginFailedMessage is deliberately uninformative to prevent account
// enumeration; it is the only body a failed login ever produces.
const loginFailedMessage = "Wrong password or user email"

// Handler wires HTTP endpoints for the authentication flow.
type Handler struct {
	logger  *slog.Logger
	service *Service
	issuer  *TokenIssuer
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, issuer *TokenIssuer) *Handler {
	return &Handler{logger: logger, service: service, issuer: issuer}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	AccessToken string `json:"accessToken"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("login request body unreadable", slog.Any("error", err))
		h.writeFailure(w)
		return
	}
	if req.Email == "" || req.Password == "" {
		h.writeFailure(w)
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Info("login failed", slog.String("email", req.Email))
		h.writeFailure(w)
		return
	}

	token, err := h.issuer.Issue(user.Email, []string{AuthorityUser})
	if err != nil {
		h.logger.Error("issue session token", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, loginResponse{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		AccessToken: token,
	})
}

func (h *Handler) writeFailure(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(loginFailedMessage))
}
