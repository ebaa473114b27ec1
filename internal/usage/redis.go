package usage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces usage keys.
const DefaultRedisPrefix = "duesoon:usage"

// DefaultRedisTTL keeps a month's counter around long enough to be read
// after the month has ended.
const DefaultRedisTTL = 400 * 24 * time.Hour

var incrementScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// RedisCounter stores counts as Redis integers keyed by user and month.
type RedisCounter struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewRedisCounter(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisCounter {
	trimmed := strings.TrimSuffix(strings.TrimSpace(prefix), ":")
	if trimmed == "" {
		trimmed = DefaultRedisPrefix
	}
	if ttl <= 0 {
		ttl = DefaultRedisTTL
	}
	return &RedisCounter{client: client, prefix: trimmed, ttl: ttl}
}

func (c *RedisCounter) key(userID uuid.UUID, monthKey string) string {
	return fmt.Sprintf("%s:%s:%s", c.prefix, userID, monthKey)
}

func (c *RedisCounter) Get(ctx context.Context, userID uuid.UUID, monthKey string) (int64, error) {
	if err := validateKey(userID, monthKey); err != nil {
		return 0, err
	}

	count, err := c.client.Get(ctx, c.key(userID, monthKey)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get usage: %w", err)
	}
	return count, nil
}

func (c *RedisCounter) Increment(ctx context.Context, userID uuid.UUID, monthKey string) (int64, error) {
	if err := validateKey(userID, monthKey); err != nil {
		return 0, err
	}

	raw, err := incrementScript.Run(ctx, c.client, []string{c.key(userID, monthKey)}, c.ttl.Milliseconds()).Result()
	if err != nil {
		return 0, fmt.Errorf("redis increment usage: %w", err)
	}
	count, ok := raw.(int64)
	if !ok {
		return 0, fmt.Errorf("unexpected redis increment response type: %T", raw)
	}
	return count, nil
}
