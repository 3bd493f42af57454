// Package retry implements bounded exponential backoff for upstream calls.
package retry

import (
	"context"
	"time"
)

// RetryableError lets error types declare their own retryability without this
// package importing them.
type RetryableError interface {
	error
	IsRetryable() bool
}

// Config defines retry behavior with exponential backoff.
type Config struct {
	// MaxAttempts bounds total attempts, not wall-clock time.
	MaxAttempts int
	// BaseDelay is the wait before the second attempt; attempt n waits
	// BaseDelay * 2^(n-1). No delay follows the final attempt.
	BaseDelay time.Duration
	// MaxDelay caps the backoff growth. Zero means uncapped.
	MaxDelay time.Duration
}

// DefaultConfig returns the defaults for AI upstream calls:
// 3 attempts, 1s base delay, doubling each time, capped at 30s.
func DefaultConfig() *Config {
	return &Config{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		MaxDelay:    30 * time.Second,
	}
}

// IsRetryable reports whether err declares itself retryable.
// Errors that do not implement RetryableError are treated as permanent.
func IsRetryable(err error) bool {
	var re RetryableError
	if ok := asRetryable(err, &re); ok {
		return re.IsRetryable()
	}
	return false
}

// DoWithResult executes fn up to cfg.MaxAttempts times, sleeping between
// attempts, and returns the first success. Non-retryable errors stop the loop
// immediately. Respects context cancellation during wait periods.
func DoWithResult[T any](ctx context.Context, cfg *Config, fn func() (T, error)) (T, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	var zero T
	var lastErr error

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !IsRetryable(err) {
			return zero, err
		}

		if attempt < cfg.MaxAttempts-1 {
			select {
			case <-time.After(cfg.delayFor(attempt)):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}
	}

	return zero, lastErr
}

// Do is DoWithResult for functions that only return an error.
func Do(ctx context.Context, cfg *Config, fn func() error) error {
	_, err := DoWithResult(ctx, cfg, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// delayFor returns the backoff after the given zero-based attempt index.
func (c *Config) delayFor(attempt int) time.Duration {
	delay := c.BaseDelay << uint(attempt)
	if c.MaxDelay > 0 && delay > c.MaxDelay {
		delay = c.MaxDelay
	}
	return delay
}

func asRetryable(err error, target *RetryableError) bool {
	for err != nil {
		if re, ok := err.(RetryableError); ok {
			*target = re
			return true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = unwrapper.Unwrap()
	}
	return false
}
