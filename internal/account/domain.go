// Package account implements the account lifecycle: signup, email
// verification, invitation links and soft deletion.
package account

import "time"

// Status is the lifecycle state of a user account. Only two transitions
// exist: UNVERIFIED -> ACTIVE on verification and any -> CANCELLED on soft
// delete. Cancelled accounts are excluded from normal lookups.
type Status string

const (
	StatusUnverified Status = "UNVERIFIED"
	StatusActive     Status = "ACTIVE"
	StatusCancelled  Status = "CANCELLED"
)

// User represents a user account record. Emails are stored lowercase and
// timestamps are UTC.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	Status       Status
	Score        int64
	LinkNumber   int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
