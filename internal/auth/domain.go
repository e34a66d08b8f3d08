package auth

import "time"

// User is the credential-store view of an account used during login.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AuthorityUser is the default authority granted to every authenticated
// account. There is no role model in this service yet.
const AuthorityUser = "ROLE_USER"
