package graph

import (
	"context"
	"time"

	"github.com/c-daly/logos-sub004/internal/types"
)

// RetryPolicy bounds automatic retries of transient failures.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// BaseDelay is the backoff delay before the first retry.
	BaseDelay time.Duration

	// MaxDelay caps the exponential backoff delay.
	MaxDelay time.Duration
}

// Delay returns the backoff delay after the given zero-based attempt.
// The delay doubles per attempt: BaseDelay * 2^attempt, capped at MaxDelay.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	delay := p.BaseDelay
	for i := 0; i < attempt; i++ {
		delay *= 2
		if delay >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if delay > p.MaxDelay {
		return p.MaxDelay
	}
	return delay
}

// RunWithRetry executes op, retrying on transient failures with exponential
// backoff until the policy's attempt budget is exhausted. An error is
// considered transient when it (or any error in its chain) is a LogosError
// marked retryable; all other errors surface immediately. The last error is
// returned when attempts are exhausted.
//
// op must be safe to invoke multiple times. Cancellation of ctx aborts the
// backoff wait and returns the context error wrapped as a transient failure.
func RunWithRetry(ctx context.Context, policy RetryPolicy, op func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(policy.Delay(attempt - 1)):
			case <-ctx.Done():
				return types.WrapError(ErrCodeGraphTransient,
					"retry aborted by context", ctx.Err())
			}
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if !types.IsRetryable(lastErr) {
			return lastErr
		}
	}

	return lastErr
}
