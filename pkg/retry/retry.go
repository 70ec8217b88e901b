package retry

import (
	"context"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
)

// Policy describes how an operation against a remote collaborator is retried.
// The same primitive covers the connectivity probe, script generation and
// narration synthesis; the per-phase differences are data, not code.
type Policy struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int
	// InitialInterval is the wait before the first retry.
	InitialInterval time.Duration
	// MaxInterval caps the backoff growth.
	MaxInterval time.Duration
	// AttemptTimeout bounds the first attempt. Zero means no per-attempt bound.
	AttemptTimeout time.Duration
	// ExtendedTimeout, when set, bounds every attempt after the first. Used by
	// the connectivity probe to tolerate backend cold starts.
	ExtendedTimeout time.Duration
	// Retryable decides whether an error is worth another attempt. Nil means
	// every error is retryable.
	Retryable func(error) bool
}

// Do runs op under the policy. The context passed to op carries the
// per-attempt timeout when one is configured. The last error is returned
// once attempts are exhausted or a non-retryable error occurs.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	attempt := 0
	wrapped := func() error {
		attempt++

		attemptCtx := ctx
		timeout := p.AttemptTimeout
		if attempt > 1 && p.ExtendedTimeout > 0 {
			timeout = p.ExtendedTimeout
		}
		if timeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		err := op(attemptCtx)
		if err == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	bo := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		bo.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		bo.MaxInterval = p.MaxInterval
	}
	bo.MaxElapsedTime = 0 // bounded by attempt count, not wall clock

	limited := backoff.WithMaxRetries(bo, uint64(attempts-1))
	return backoff.Retry(wrapped, backoff.WithContext(limited, ctx))
}

// IsTransient reports whether an error looks like a temporary remote failure
// worth retrying: network trouble, timeouts, rate limits, 5xx responses.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())

	// Context errors (timeout, cancelled)
	if strings.Contains(errStr, "context deadline exceeded") ||
		strings.Contains(errStr, "context canceled") {
		return true
	}

	// Network errors
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "network unreachable") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "i/o timeout") {
		return true
	}

	// API rate limiting
	if strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests") ||
		strings.Contains(errStr, "429") {
		return true
	}

	// Server errors (5xx)
	if strings.Contains(errStr, "status 5") ||
		strings.Contains(errStr, "internal server error") ||
		strings.Contains(errStr, "service unavailable") ||
		strings.Contains(errStr, "bad gateway") {
		return true
	}

	// Temporary failures
	if strings.Contains(errStr, "temporary failure") ||
		strings.Contains(errStr, "try again") {
		return true
	}

	return false
}
