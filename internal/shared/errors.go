package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure. Unknown email, cancelled
	// account and wrong password all collapse into this one error so the
	// response never reveals whether the email exists.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrDuplicateEmail indicates the email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrCodeNotFound indicates an unknown or expired verification code.
	ErrCodeNotFound = errors.New("verification code not found")
)
