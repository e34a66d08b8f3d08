package account

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teamloop/teamloop/internal/shared"
)

// Repository defines persistence operations for the account module. Status
// filtering is expressed as explicit query predicates, never assumed.
type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	FindActiveByEmail(ctx context.Context, email string) (*User, error)
	FindUnverifiedByEmail(ctx context.Context, email string) (*User, error)
	Activate(ctx context.Context, email string) (bool, error)
	UpdateStatusByEmail(ctx context.Context, email string, status Status) (int64, error)
}

const userColumns = `id, email, name, password_hash, status, score, link_number, created_at, updated_at`

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Create inserts a new user record. A unique violation on email maps to
// shared.ErrDuplicateEmail.
func (r *PGRepository) Create(ctx context.Context, user *User) (*User, error) {
	const query = `INSERT INTO users (email, name, password_hash, status, score, link_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.pool.QueryRow(ctx, query,
		user.Email, user.Name, user.PasswordHash, string(user.Status),
		user.Score, user.LinkNumber, user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, shared.ErrDuplicateEmail
		}
		return nil, err
	}
	return user, nil
}

// EmailExists reports whether any account, regardless of status, holds the
// email.
func (r *PGRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// FindActiveByEmail fetches a non-cancelled user by email.
func (r *PGRepository) FindActiveByEmail(ctx context.Context, email string) (*User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND status <> 'CANCELLED'`
	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

// FindUnverifiedByEmail fetches a user whose account is awaiting
// verification.
func (r *PGRepository) FindUnverifiedByEmail(ctx context.Context, email string) (*User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND status = 'UNVERIFIED'`
	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

// Activate flips an unverified account to active. It reports false when no
// account was in the UNVERIFIED state for the email.
func (r *PGRepository) Activate(ctx context.Context, email string) (bool, error) {
	const query = `UPDATE users SET status = 'ACTIVE', updated_at = $2
		WHERE email = $1 AND status = 'UNVERIFIED'`
	tag, err := r.pool.Exec(ctx, query, email, time.Now().UTC())
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// UpdateStatusByEmail sets the lifecycle status for an account and returns
// the number of affected rows.
func (r *PGRepository) UpdateStatusByEmail(ctx context.Context, email string, status Status) (int64, error) {
	const query = `UPDATE users SET status = $2, updated_at = $3 WHERE email = $1`
	tag, err := r.pool.Exec(ctx, query, email, string(status), time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PGRepository) scanUser(row pgx.Row) (*User, error) {
	var user User
	var status string
	err := row.Scan(
		&user.ID, &user.Email, &user.Name, &user.PasswordHash, &status,
		&user.Score, &user.LinkNumber, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	user.Status = Status(status)
	return &user, nil
}

var _ Repository = (*PGRepository)(nil)
