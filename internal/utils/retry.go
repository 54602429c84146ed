package utils

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

// RetryPolicy bounds how often a transient failure is retried.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// ErrPermanent marks an error that must not be retried.
var ErrPermanent = errors.New("permanent failure")

// Permanent wraps err so Retry gives up immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrPermanent, err)
}

// Retry runs fn until it succeeds, the attempts are exhausted, the error is
// not transient or ctx is done. Delays double after each failed attempt.
func Retry(ctx context.Context, policy RetryPolicy, op string, fn func(context.Context) error) error {
	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	delay := policy.BaseDelay

	var err error
	for i := 0; i < attempts; i++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}
		if !IsTransient(err) || i == attempts-1 {
			break
		}
		log.Printf("%s: attempt %d/%d failed, retrying in %v: %v", op, i+1, attempts, delay, err)
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", op, ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
	}
	return err
}

var transientMarkers = []string{
	"database is locked",
	"busy",
	"timeout",
	"connection reset",
	"unavailable",
	"overloaded",
	"429",
	"502",
	"503",
}

// IsTransient reports whether err looks like a failure worth retrying.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, ErrPermanent) {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
