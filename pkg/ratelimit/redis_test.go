package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLimiterAllow(t *testing.T) {
	db, mock := redismock.NewClientMock()
	l := NewRedisLimiter(db, DefaultConfig())
	fixed := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	mock.ExpectEval(windowScript, []string{"rl:sms:198.51.100.1"}, 60).
		SetVal([]interface{}{int64(3), int64(45)})

	d, err := l.Allow(context.Background(), "198.51.100.1")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 3, d.Remaining)
	assert.Equal(t, fixed.Add(45*time.Second), d.ResetAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLimiterDenied(t *testing.T) {
	db, mock := redismock.NewClientMock()
	l := NewRedisLimiter(db, DefaultConfig())

	mock.ExpectEval(windowScript, []string{"rl:sms:198.51.100.1"}, 60).
		SetVal([]interface{}{int64(7), int64(12)})

	d, err := l.Allow(context.Background(), "198.51.100.1")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLimiterError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	l := NewRedisLimiter(db, DefaultConfig())

	mock.ExpectEval(windowScript, []string{"rl:sms:198.51.100.1"}, 60).
		SetErr(errors.New("connection refused"))

	_, err := l.Allow(context.Background(), "198.51.100.1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestRedisLimiterUnexpectedResult(t *testing.T) {
	db, mock := redismock.NewClientMock()
	l := NewRedisLimiter(db, DefaultConfig())

	mock.ExpectEval(windowScript, []string{"rl:sms:198.51.100.1"}, 60).SetVal("OK")

	_, err := l.Allow(context.Background(), "198.51.100.1")
	assert.ErrorContains(t, err, "unexpected redis result format")
}
