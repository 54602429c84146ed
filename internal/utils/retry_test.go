package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetry_RetriesTransientFailures(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond}, "test", func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("database is locked")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetry_StopsOnPermanentError(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), RetryPolicy{MaxAttempts: 5, BaseDelay: time.Millisecond}, "test", func(context.Context) error {
		calls++
		return Permanent(errors.New("503 but permanent"))
	})
	assert.ErrorIs(t, err, ErrPermanent)
	assert.Equal(t, 1, calls)
}

func TestRetry_GivesUpAfterMaxAttempts(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), RetryPolicy{MaxAttempts: 2, BaseDelay: time.Millisecond}, "test", func(context.Context) error {
		calls++
		return errors.New("timeout")
	})
	assert.EqualError(t, err, "timeout")
	assert.Equal(t, 2, calls)
}

func TestRetry_NonTransientReturnsImmediately(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), RetryPolicy{MaxAttempts: 4, BaseDelay: time.Millisecond}, "test", func(context.Context) error {
		calls++
		return errors.New("constraint failed")
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestIsTransient(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.False(t, IsTransient(context.Canceled))
	assert.True(t, IsTransient(context.DeadlineExceeded))
	assert.True(t, IsTransient(errors.New("HTTP 429 too many requests")))
}
