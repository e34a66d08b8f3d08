package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teamloop/teamloop/internal/shared"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindActiveByEmail(ctx context.Context, email string) (*User, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// FindActiveByEmail fetches a user by email, excluding cancelled accounts.
// The status predicate is explicit so soft-deleted users can never log in.
func (r *PGRepository) FindActiveByEmail(ctx context.Context, email string) (*User, error) {
	const query = `SELECT id, email, name, password_hash, created_at, updated_at
		FROM users WHERE email = $1 AND status <> 'CANCELLED'`
	var user User
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

var _ Repository = (*PGRepository)(nil)
