package ratelimit

import (
	"context"
	"log/slog"
)

// FallbackLimiter prefers the primary limiter and fails open to the secondary
// one when the primary errors, so a Redis outage never blocks the endpoint.
type FallbackLimiter struct {
	primary   Limiter
	secondary Limiter
	log       *slog.Logger
}

func NewFallbackLimiter(primary, secondary Limiter, log *slog.Logger) *FallbackLimiter {
	if log == nil {
		log = slog.Default()
	}
	return &FallbackLimiter{primary: primary, secondary: secondary, log: log}
}

func (l *FallbackLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	d, err := l.primary.Allow(ctx, key)
	if err == nil {
		return d, nil
	}
	l.log.Warn("primary rate limiter failed, using fallback", "error", err)
	return l.secondary.Allow(ctx, key)
}
