// Package retry implements exponential-backoff retries for the outbound
// HTTP calls made by the embedding adapters. The recommendation engine
// itself never retries; retry policy lives with the collaborator access
// layer.
package retry

import (
	"context"
	"math"
	"time"
)

// Config holds the configuration for retry logic
type Config struct {
	MaxRetries      int
	BaseDelay       time.Duration
	MaxDelay        time.Duration
	BackoffMultiple float64
}

// DefaultConfig returns a sensible default retry configuration
func DefaultConfig() Config {
	return Config{
		MaxRetries:      3,
		BaseDelay:       200 * time.Millisecond,
		MaxDelay:        5 * time.Second,
		BackoffMultiple: 2.0,
	}
}

// ErrorChecker decides whether an attempt outcome should trigger a retry.
type ErrorChecker func(err error, statusCode int, responseBody []byte) bool

// Func is one attempt of the retried operation.
type Func func(attempt int) (result any, statusCode int, responseBody []byte, err error)

// Logger logs retry attempts.
type Logger func(message string, args ...any)

// Options configures retry behavior for one operation.
type Options struct {
	Config       Config
	ErrorChecker ErrorChecker
	Logger       Logger
	Op           string
}

// calculateDelay computes the delay for the given attempt using exponential backoff
func (c Config) calculateDelay(attempt int) time.Duration {
	delay := time.Duration(float64(c.BaseDelay) * math.Pow(c.BackoffMultiple, float64(attempt)))
	if delay > c.MaxDelay {
		delay = c.MaxDelay
	}
	return delay
}

// Execute runs fn until it succeeds, the error checker declines a retry, or
// the attempt budget is spent, in which case the last error is returned.
func Execute(ctx context.Context, opts Options, fn Func) (any, error) {
	var lastErr error
	var lastStatus int
	var lastBody []byte

	for attempt := 0; attempt <= opts.Config.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := opts.Config.calculateDelay(attempt - 1)
			if opts.Logger != nil {
				opts.Logger("%s retry attempt %d/%d after %v delay", opts.Op, attempt+1, opts.Config.MaxRetries+1, delay)
			}

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		result, statusCode, body, err := fn(attempt)
		lastErr = err
		lastStatus = statusCode
		lastBody = body

		retryable := opts.ErrorChecker != nil && opts.ErrorChecker(err, statusCode, body)

		if err == nil && !retryable {
			return result, nil
		}
		if !retryable {
			// Not retryable; fail immediately.
			return nil, err
		}
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, &ExhaustedError{Op: opts.Op, StatusCode: lastStatus, Body: lastBody}
}

// ExhaustedError reports that every attempt was retryable but the budget ran
// out without a hard error, e.g. repeated 5xx responses.
type ExhaustedError struct {
	Op         string
	StatusCode int
	Body       []byte
}

func (e *ExhaustedError) Error() string {
	return e.Op + ": retries exhausted"
}
