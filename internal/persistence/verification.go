package persistence

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const verificationKeyPrefix = "verify:"

// VerificationCodeStore keeps pending email verification codes in Redis so
// they expire on their own and never land in the users table.
type VerificationCodeStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewVerificationCodeStore builds the store.
func NewVerificationCodeStore(r *Redis, ttl time.Duration) *VerificationCodeStore {
	return &VerificationCodeStore{client: r.Client, ttl: ttl}
}

// Put stores the code for the given email, replacing any previous code.
func (s *VerificationCodeStore) Put(ctx context.Context, email, code string) error {
	return s.client.Set(ctx, verificationKeyPrefix+email, code, s.ttl).Err()
}

// Get returns the pending code, or "" when none is stored.
func (s *VerificationCodeStore) Get(ctx context.Context, email string) (string, error) {
	code, err := s.client.Get(ctx, verificationKeyPrefix+email).Result()
	if err == redis.Nil {
		return "", nil
	}
	return code, err
}

// Delete removes a consumed code.
func (s *VerificationCodeStore) Delete(ctx context.Context, email string) error {
	return s.client.Del(ctx, verificationKeyPrefix+email).Err()
}
