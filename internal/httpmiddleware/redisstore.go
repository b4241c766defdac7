package httpmiddleware

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a fixed-window counter shared across instances. Each key
// gets perWindow requests per window; the first hit sets the expiry.
type RedisStore struct {
	client    *redis.Client
	prefix    string
	perWindow int
	window    time.Duration
}

// NewRedisStore creates a Redis-backed limiter with a one-minute window.
func NewRedisStore(client *redis.Client, perMinute int) *RedisStore {
	return &RedisStore{
		client:    client,
		prefix:    "facegate:ratelimit:",
		perWindow: perMinute,
		window:    time.Minute,
	}
}

// Allow implements Store.
func (s *RedisStore) Allow(ctx context.Context, key string) (bool, error) {
	k := s.prefix + key
	n, err := s.client.Incr(ctx, k).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		// Best effort; a lost expiry self-heals after restart.
		_ = s.client.Expire(ctx, k, s.window).Err()
	}
	return n <= int64(s.perWindow), nil
}
