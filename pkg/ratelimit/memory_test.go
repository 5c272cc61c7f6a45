package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func TestMemoryLimiterSeventhRequestDenied(t *testing.T) {
	clock := newClock()
	l := NewMemoryLimiter(DefaultConfig(), WithClock(clock.Now))
	ctx := context.Background()

	for i := 1; i <= 6; i++ {
		d, err := l.Allow(ctx, "203.0.113.7")
		require.NoError(t, err)
		assert.True(t, d.Allowed, "request %d should pass", i)
		assert.Equal(t, 6-i, d.Remaining)
	}

	d, err := l.Allow(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.Equal(t, clock.Now().Add(time.Minute), d.ResetAt)
	assert.Equal(t, time.Minute, d.RetryAfter(clock.Now()))
}

func TestMemoryLimiterWindowResets(t *testing.T) {
	clock := newClock()
	l := NewMemoryLimiter(DefaultConfig(), WithClock(clock.Now))
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		_, _ = l.Allow(ctx, "203.0.113.7")
	}
	d, _ := l.Allow(ctx, "203.0.113.7")
	require.False(t, d.Allowed)

	clock.Advance(time.Minute)

	d, err := l.Allow(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 5, d.Remaining)
}

func TestMemoryLimiterKeysAreIndependent(t *testing.T) {
	l := NewMemoryLimiter(Config{Limit: 1, Window: time.Minute})
	ctx := context.Background()

	d, _ := l.Allow(ctx, "a")
	assert.True(t, d.Allowed)
	d, _ = l.Allow(ctx, "a")
	assert.False(t, d.Allowed)

	d, _ = l.Allow(ctx, "b")
	assert.True(t, d.Allowed)
}

func TestMemoryLimiterConcurrentCount(t *testing.T) {
	l := NewMemoryLimiter(Config{Limit: 50, Window: time.Minute})
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, _ := l.Allow(ctx, "shared")
			if d.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, allowed)
}

func TestMemoryLimiterCleanup(t *testing.T) {
	clock := newClock()
	l := NewMemoryLimiter(DefaultConfig(), WithClock(clock.Now))

	_, _ = l.Allow(context.Background(), "a")
	_, _ = l.Allow(context.Background(), "b")
	require.Equal(t, 2, l.Len())

	clock.Advance(30 * time.Second)
	l.Cleanup()
	assert.Equal(t, 2, l.Len())

	clock.Advance(30 * time.Second)
	l.Cleanup()
	assert.Equal(t, 0, l.Len())
}

func TestDecisionRetryAfterFloor(t *testing.T) {
	now := time.Now()
	d := Decision{ResetAt: now.Add(200 * time.Millisecond)}
	assert.Equal(t, time.Second, d.RetryAfter(now))
}
