package ratelimit

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Lua script for atomic increment with TTL on first set
// KEYS[1] = counter key
// ARGV[1] = TTL in seconds
// Returns: [current_count, ttl_remaining]
const windowScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`

// RedisLimiter keeps window counters in Redis so replicas share one budget.
type RedisLimiter struct {
	client goredis.Cmdable
	cfg    Config
	now    func() time.Time
}

func NewRedisLimiter(client goredis.Cmdable, cfg Config) *RedisLimiter {
	return &RedisLimiter{client: client, cfg: cfg, now: time.Now}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	ttlSeconds := int(l.cfg.Window.Seconds())
	if ttlSeconds < 1 {
		ttlSeconds = 1
	}

	result, err := l.client.Eval(ctx, windowScript, []string{l.cfg.KeyPrefix + key}, ttlSeconds).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}

	// Parse result [count, ttl]
	arr, ok := result.([]interface{})
	if !ok || len(arr) < 2 {
		return Decision{}, fmt.Errorf("unexpected redis result format: %v", result)
	}
	count, ok := arr[0].(int64)
	if !ok {
		return Decision{}, fmt.Errorf("unexpected redis count: %v", arr[0])
	}
	ttl, _ := arr[1].(int64)
	if ttl < 0 {
		// Key lost its expiry; treat as a full window.
		ttl = int64(ttlSeconds)
	}

	resetAt := l.now().Add(time.Duration(ttl) * time.Second)
	return decide(l.cfg, int(count), resetAt), nil
}
