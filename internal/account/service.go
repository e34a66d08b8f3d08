package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/teamloop/teamloop/internal/shared"
	"github.com/teamloop/teamloop/jobs"
)

// MailQueue enqueues transactional emails for background delivery.
type MailQueue interface {
	EnqueueSendEmail(ctx context.Context, payload jobs.SendEmailPayload) error
}

// Service wraps account lifecycle business rules.
type Service struct {
	repo   Repository
	codes  *CodeStore
	links  *LinkBuilder
	mail   MailQueue
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs a new Service. The mail queue may be nil, in which
// case verification emails are skipped and only links are produced.
func NewService(repo Repository, codes *CodeStore, links *LinkBuilder, mail MailQueue, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		codes:  codes,
		links:  links,
		mail:   mail,
		logger: logger,
		now:    time.Now,
	}
}

// CreateAccountInput carries the signup form fields.
type CreateAccountInput struct {
	Name       string
	Email      string
	Password   string
	Score      int64
	LinkNumber int64
}

// CreateAccount creates an unverified account and issues its verification
// link. The email is lowercased before storage and the password is stored
// as a bcrypt hash only.
func (s *Service) CreateAccount(ctx context.Context, in CreateAccountInput) (*User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("account: hash password: %w", err)
	}

	now := s.now().UTC()
	user := &User{
		Email:        strings.ToLower(in.Email),
		Name:         in.Name,
		PasswordHash: string(hashed),
		Status:       StatusUnverified,
		Score:        in.Score,
		LinkNumber:   in.LinkNumber,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	// Signup already succeeded; a failed link issue is recoverable via
	// the resend endpoint.
	if _, err := s.IssueVerificationLink(ctx, created.Email); err != nil {
		s.logger.Warn("issue verification link after signup",
			slog.String("email", created.Email), slog.Any("error", err))
	}
	return created, nil
}

// IsEmailRegistered reports whether any account holds the email.
func (s *Service) IsEmailRegistered(ctx context.Context, email string) (bool, error) {
	return s.repo.EmailExists(ctx, strings.ToLower(email))
}

// IsUnverified reports whether the email belongs to an account still
// awaiting verification.
func (s *Service) IsUnverified(ctx context.Context, email string) (bool, error) {
	_, err := s.repo.FindUnverifiedByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// IssueVerificationLink generates a fresh verification code for an
// unverified account, stores it, enqueues the email and returns the link.
// Returns shared.ErrNotFound when no unverified account holds the email.
func (s *Service) IssueVerificationLink(ctx context.Context, email string) (string, error) {
	user, err := s.repo.FindUnverifiedByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return "", err
	}

	code := uuid.NewString()
	if err := s.codes.Put(ctx, code, user.Email); err != nil {
		return "", err
	}
	link := s.links.VerificationLink(code)

	if s.mail != nil {
		payload := jobs.SendEmailPayload{
			To:      user.Email,
			Subject: "Verify your email address",
			Body:    fmt.Sprintf("Hi %s,\n\nPlease verify your email address by opening the link below:\n\n%s\n", user.Name, link),
		}
		if err := s.mail.EnqueueSendEmail(ctx, payload); err != nil {
			s.logger.Warn("enqueue verification email",
				slog.String("email", user.Email), slog.Any("error", err))
		}
	}
	return link, nil
}

// MarkVerified activates the account a verification code was issued for.
// It reports false for unknown, expired or already-consumed codes.
func (s *Service) MarkVerified(ctx context.Context, code string) (bool, error) {
	email, err := s.codes.Resolve(ctx, code)
	if err != nil {
		if errors.Is(err, shared.ErrCodeNotFound) {
			return false, nil
		}
		return false, err
	}

	activated, err := s.repo.Activate(ctx, email)
	if err != nil {
		return false, err
	}
	if activated {
		if err := s.codes.Delete(ctx, code); err != nil {
			s.logger.Warn("delete consumed verification code", slog.Any("error", err))
		}
	}
	return activated, nil
}

// IssueInvitationLink renders a signed company invitation link.
func (s *Service) IssueInvitationLink(ctx context.Context, companyID int64, email, name, title string) (string, error) {
	return s.links.InvitationLink(companyID, email, name, title)
}

// GetProfile returns the non-cancelled account for the email.
func (s *Service) GetProfile(ctx context.Context, email string) (*User, error) {
	return s.repo.FindActiveByEmail(ctx, strings.ToLower(email))
}

// CancelAccount soft-deletes the account. Cancelled accounts are excluded
// from lookups and can no longer authenticate.
func (s *Service) CancelAccount(ctx context.Context, email string) error {
	rows, err := s.repo.UpdateStatusByEmail(ctx, strings.ToLower(email), StatusCancelled)
	if err != nil {
		return err
	}
	if rows == 0 {
		return shared.ErrNotFound
	}
	return nil
}
