// internal/session/redis.go
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// Config holds Redis connection configuration.
type Config struct {
	Addr     string        `env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB" env-default:"0"`
	TTL      time.Duration `env:"SESSION_TTL" env-default:"24h"`
}

// NewRedisClient connects to Redis and verifies the connection with a ping.
func NewRedisClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// RedisStore keeps sessions as "session:<token>" -> user id keys with a TTL.
type RedisStore struct {
	client redis.Cmdable
}

// NewRedisStore creates a RedisStore on top of an existing client.
func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

func key(token string) string {
	return keyPrefix + token
}

// Exists reports whether token denotes a live session.
func (s *RedisStore) Exists(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	n, err := s.client.Exists(ctx, key(token)).Result()
	if err != nil {
		return false, fmt.Errorf("session exists: %w", err)
	}
	return n > 0, nil
}

// UserIDFor resolves the user owning token.
func (s *RedisStore) UserIDFor(ctx context.Context, token string) (int64, error) {
	raw, err := s.client.Get(ctx, key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrNoSession
		}
		return 0, fmt.Errorf("session lookup: %w", err)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("session lookup: corrupt user id %q: %w", raw, err)
	}
	return id, nil
}

// Issue stores a session for userID that expires after ttl.
func (s *RedisStore) Issue(ctx context.Context, token string, userID int64, ttl time.Duration) error {
	if err := s.client.Set(ctx, key(token), strconv.FormatInt(userID, 10), ttl).Err(); err != nil {
		return fmt.Errorf("session issue: %w", err)
	}
	return nil
}

// Revoke deletes a session. Revoking an unknown token is not an error.
func (s *RedisStore) Revoke(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, key(token)).Err(); err != nil {
		return fmt.Errorf("session revoke: %w", err)
	}
	return nil
}
