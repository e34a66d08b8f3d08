package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/teamloop/teamloop/internal/shared"
)

const codeKeyPrefix = "verify:"

// CodeStore keeps verification codes in Redis, mapping code -> email with a
// TTL. Codes are single use: they are deleted once verification succeeds.
type CodeStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCodeStore constructs a CodeStore.
func NewCodeStore(client *redis.Client, ttl time.Duration) *CodeStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CodeStore{client: client, ttl: ttl}
}

// Put stores a verification code for the email.
func (s *CodeStore) Put(ctx context.Context, code, email string) error {
	if err := s.client.Set(ctx, codeKeyPrefix+code, email, s.ttl).Err(); err != nil {
		return fmt.Errorf("account: store verification code: %w", err)
	}
	return nil
}

// Resolve returns the email a code was issued for, or
// shared.ErrCodeNotFound when the code is unknown or expired.
func (s *CodeStore) Resolve(ctx context.Context, code string) (string, error) {
	email, err := s.client.Get(ctx, codeKeyPrefix+code).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", shared.ErrCodeNotFound
		}
		return "", fmt.Errorf("account: resolve verification code: %w", err)
	}
	return email, nil
}

// Delete removes a consumed verification code.
func (s *CodeStore) Delete(ctx context.Context, code string) error {
	return s.client.Del(ctx, codeKeyPrefix+code).Err()
}
