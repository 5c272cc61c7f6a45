// Package ratelimit implements fixed-window request counters keyed by client
// identity.
//
// MemoryLimiter keeps counters in process and does not survive horizontal
// scaling: each replica enforces its own budget. RedisLimiter shares counters
// between replicas.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of a single counted request.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter returns the wait until the window resets, never below one second.
func (d Decision) RetryAfter(now time.Time) time.Duration {
	wait := d.ResetAt.Sub(now)
	if wait < time.Second {
		return time.Second
	}
	return wait.Round(time.Second)
}

// Limiter counts a request for key and decides whether it may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// Config is shared by every limiter implementation.
type Config struct {
	// Requests per window
	Limit int
	// Time window duration
	Window time.Duration
	// Key prefix for Redis
	KeyPrefix string
}

// DefaultConfig is six requests per minute.
func DefaultConfig() Config {
	return Config{
		Limit:     6,
		Window:    time.Minute,
		KeyPrefix: "rl:sms:",
	}
}

func decide(cfg Config, count int, resetAt time.Time) Decision {
	remaining := cfg.Limit - count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   count <= cfg.Limit,
		Limit:     cfg.Limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
}
