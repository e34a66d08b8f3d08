package account

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/teamloop/teamloop/internal/platform/httpx"
	"github.com/teamloop/teamloop/internal/shared"
)

// Handler wires HTTP endpoints for the account lifecycle.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
	}
}

// MountRoutes registers public account routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/login", h.verifyStatus)
	r.Get("/signup", h.checkEmail)
	r.Post("/signup", h.createAccount)
	r.Get("/invitations/companies", h.invitationLink)
	r.Post("/resend", h.resendVerification)
	r.Post("/verify", h.verifyAccount)
}

// MountProtectedRoutes registers routes that require a valid session token.
func (h *Handler) MountProtectedRoutes(r chi.Router) {
	r.Get("/users/me", h.me)
	r.Delete("/users/me", h.cancel)
}

func (h *Handler) verifyStatus(w http.ResponseWriter, r *http.Request) {
	email, ok := requireParam(w, r, "email")
	if !ok {
		return
	}
	unverified, err := h.service.IsUnverified(r.Context(), email)
	if err != nil {
		h.respondServiceError(w, "check verification status", err)
		return
	}
	if unverified {
		httpx.Text(w, http.StatusNonAuthoritativeInfo, "Unverified user")
		return
	}
	httpx.Text(w, http.StatusOK, "success")
}

func (h *Handler) checkEmail(w http.ResponseWriter, r *http.Request) {
	email, ok := requireParam(w, r, "email")
	if !ok {
		return
	}
	exists, err := h.service.IsEmailRegistered(r.Context(), email)
	if err != nil {
		h.respondServiceError(w, "check email exists", err)
		return
	}
	if exists {
		httpx.Text(w, http.StatusConflict, "Email has taken")
		return
	}
	httpx.Text(w, http.StatusOK, "Email does not exist")
}

type createAccountRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	Score      int64  `json:"score"`
	LinkNumber int64  `json:"linkNumber"`
}

func (h *Handler) createAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, &httpx.ValidationError{Details: []string{"request body is not valid JSON"}})
		return
	}
	if !h.validate(w, req) {
		return
	}

	_, err := h.service.CreateAccount(r.Context(), CreateAccountInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Score:      req.Score,
		LinkNumber: req.LinkNumber,
	})
	if err != nil {
		h.respondServiceError(w, "create account", err)
		return
	}
	httpx.Text(w, http.StatusOK, "success")
}

func (h *Handler) invitationLink(w http.ResponseWriter, r *http.Request) {
	companyIDRaw, ok := requireParam(w, r, "companyId")
	if !ok {
		return
	}
	email, ok := requireParam(w, r, "email")
	if !ok {
		return
	}
	name, ok := requireParam(w, r, "name")
	if !ok {
		return
	}
	title, ok := requireParam(w, r, "title")
	if !ok {
		return
	}
	companyID, err := strconv.ParseInt(companyIDRaw, 10, 64)
	if err != nil {
		httpx.RespondError(w, &httpx.ValidationError{Details: []string{"companyId must be a number"}})
		return
	}

	link, err := h.service.IssueInvitationLink(r.Context(), companyID, email, name, title)
	if err != nil {
		h.respondServiceError(w, "issue invitation link", err)
		return
	}
	httpx.Text(w, http.StatusOK, link)
}

type resendRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *Handler) resendVerification(w http.ResponseWriter, r *http.Request) {
	var req resendRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, &httpx.ValidationError{Details: []string{"request body is not valid JSON"}})
		return
	}
	if !h.validate(w, req) {
		return
	}

	if _, err := h.service.IssueVerificationLink(r.Context(), req.Email); err != nil {
		h.respondServiceError(w, "resend verification link", err)
		return
	}
	httpx.Text(w, http.StatusOK, "success")
}

func (h *Handler) verifyAccount(w http.ResponseWriter, r *http.Request) {
	code, ok := requireParam(w, r, "code")
	if !ok {
		return
	}
	verified, err := h.service.MarkVerified(r.Context(), code)
	if err != nil {
		h.respondServiceError(w, "verify account", err)
		return
	}
	if !verified {
		httpx.Text(w, http.StatusNonAuthoritativeInfo, "Inactivated")
		return
	}
	httpx.Text(w, http.StatusOK, "success")
}

type profileResponse struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	Score      int64     `json:"score"`
	LinkNumber int64     `json:"linkNumber"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	id := shared.IdentityFromContext(r.Context())
	if id == nil {
		httpx.RespondError(w, fmt.Errorf("%w: no identity", httpx.ErrAuthentication))
		return
	}
	user, err := h.service.GetProfile(r.Context(), id.Email)
	if err != nil {
		h.respondServiceError(w, "load profile", err)
		return
	}
	httpx.JSON(w, http.StatusOK, profileResponse{
		ID:         user.ID,
		Email:      user.Email,
		Name:       user.Name,
		Status:     string(user.Status),
		Score:      user.Score,
		LinkNumber: user.LinkNumber,
		CreatedAt:  user.CreatedAt,
	})
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	id := shared.IdentityFromContext(r.Context())
	if id == nil {
		httpx.RespondError(w, fmt.Errorf("%w: no identity", httpx.ErrAuthentication))
		return
	}
	if err := h.service.CancelAccount(r.Context(), id.Email); err != nil {
		h.respondServiceError(w, "cancel account", err)
		return
	}
	httpx.Text(w, http.StatusOK, "success")
}

// validate runs struct validation and renders one detail per violated
// field on failure.
func (h *Handler) validate(w http.ResponseWriter, req any) bool {
	err := h.validator.Struct(req)
	if err == nil {
		return true
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		details := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			details = append(details, fe.Error())
		}
		httpx.RespondError(w, &httpx.ValidationError{Details: details})
		return false
	}
	h.logger.Error("validate request", slog.Any("error", err))
	httpx.RespondError(w, err)
	return false
}

func (h *Handler) respondServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		httpx.RespondError(w, fmt.Errorf("%w for this email", httpx.ErrNotFound))
	case errors.Is(err, shared.ErrDuplicateEmail):
		httpx.RespondError(w, fmt.Errorf("%w: email already registered", httpx.ErrDuplicate))
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}

func requireParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	value := r.URL.Query().Get(name)
	if value == "" {
		httpx.RespondError(w, httpx.MissingParamError(name))
		return "", false
	}
	return value, true
}
