package otp

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrCodeNotFound = errors.New("no active code for this email")

// Store keeps pending codes in Redis so verification survives process
// restarts and works across replicas. Consume uses GETDEL: a code can be
// checked exactly once, whether or not the attempt matches.
type Store struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{redis: rdb, ttl: ttl}
}

func key(email string) string {
	return "otp:" + email
}

func (s *Store) Save(ctx context.Context, email, code string) error {
	return s.redis.Set(ctx, key(email), code, s.ttl).Err()
}

func (s *Store) Consume(ctx context.Context, email string) (string, error) {
	code, err := s.redis.GetDel(ctx, key(email)).Result()
	if err == redis.Nil {
		return "", ErrCodeNotFound
	}
	if err != nil {
		return "", err
	}
	return code, nil
}

func (s *Store) TTL() time.Duration {
	return s.ttl
}
