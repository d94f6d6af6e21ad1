package llmerrors

import (
	"context"
	"fmt"
	"time"

	"loft/internal/logging"
)

// RetryConfig configures retry behavior for completion calls.
type RetryConfig struct {
	MaxAttempts  int           // Total attempts including the first call (default: 3)
	InitialDelay time.Duration // Delay before the first retry; doubles each retry (default: 1s)
}

// DefaultRetryConfig returns the budget the completion client ships with.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Second,
	}
}

func (c RetryConfig) normalized() RetryConfig {
	if c.MaxAttempts < 1 {
		c.MaxAttempts = 1
	}
	if c.InitialDelay < 0 {
		c.InitialDelay = 0
	}
	return c
}

// RetryWithResult executes fn with a bounded retry loop and exponential
// backoff. Only transient errors (per IsTransient) are retried; a success
// short-circuits, a non-transient failure surfaces immediately. The loop is
// explicit rather than recursive so stack usage and cancellation stay obvious.
func RetryWithResult[T any](ctx context.Context, config RetryConfig, logger logging.Logger, fn func(ctx context.Context) (T, error)) (T, error) {
	logger = logging.OrNop(logger)
	config = config.normalized()

	var zero T
	var lastErr error

	delay := config.InitialDelay
	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return zero, fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		result, err := fn(ctx)
		if err == nil {
			if attempt > 1 {
				logger.Info("Retry succeeded on attempt %d/%d", attempt, config.MaxAttempts)
			}
			return result, nil
		}

		lastErr = err
		if !IsTransient(err) {
			logger.Debug("Error is not transient, stopping retries: %v", err)
			return zero, err
		}

		if attempt == config.MaxAttempts {
			logger.Warn("Retry budget (%d attempts) exhausted: %v", config.MaxAttempts, err)
			break
		}

		logger.Debug("Attempt %d/%d failed (%v), retrying in %v", attempt, config.MaxAttempts, err, delay)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return zero, fmt.Errorf("context cancelled during retry: %w", ctx.Err())
		}
		delay *= 2
	}

	return zero, lastErr
}
