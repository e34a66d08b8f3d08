package account

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// invitationTTL bounds how long a company invitation link stays valid.
const invitationTTL = 7 * 24 * time.Hour

// InvitationClaims are carried by the token embedded in an invitation link.
type InvitationClaims struct {
	jwt.RegisteredClaims
	CompanyID int64  `json:"companyId"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Title     string `json:"title"`
}

// LinkBuilder renders verification and invitation links. Invitation links
// embed a signed token so the invite parameters cannot be tampered with.
type LinkBuilder struct {
	baseURL string
	secret  []byte
	now     func() time.Time
}

// NewLinkBuilder constructs a LinkBuilder.
func NewLinkBuilder(baseURL string, secret []byte) (*LinkBuilder, error) {
	if len(secret) == 0 {
		return nil, errors.New("account: link signing key must not be empty")
	}
	return &LinkBuilder{
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  secret,
		now:     time.Now,
	}, nil
}

// VerificationLink renders the activation URL for a verification code.
func (b *LinkBuilder) VerificationLink(code string) string {
	return fmt.Sprintf("%s/verify?code=%s", b.baseURL, url.QueryEscape(code))
}

// InvitationLink renders a company invitation URL carrying a signed token
// with the invite parameters.
func (b *LinkBuilder) InvitationLink(companyID int64, email, name, title string) (string, error) {
	now := b.now()
	claims := InvitationClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strings.ToLower(email),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(invitationTTL)),
		},
		CompanyID: companyID,
		Email:     strings.ToLower(email),
		Name:      name,
		Title:     title,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.secret)
	if err != nil {
		return "", fmt.Errorf("account: sign invitation token: %w", err)
	}
	return fmt.Sprintf("%s/invitations/register?code=%s", b.baseURL, url.QueryEscape(token)), nil
}

// DecodeInvitation verifies an invitation token and returns its claims.
func (b *LinkBuilder) DecodeInvitation(token string) (*InvitationClaims, error) {
	claims := &InvitationClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return b.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(b.now))
	if err != nil {
		return nil, fmt.Errorf("account: parse invitation token: %w", err)
	}
	if !parsed.Valid {
		return nil, errors.New("account: invalid invitation token")
	}
	return claims, nil
}
