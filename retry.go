package gauge

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// RetryPolicy configures exponential backoff.
type RetryPolicy struct {
	// Attempts is the total number of calls, including the first.
	Attempts int

	// BaseDelay is the wait before the first retry. It doubles each time.
	BaseDelay time.Duration

	// MaxDelay caps the wait between attempts. Zero means no cap.
	MaxDelay time.Duration

	// Retryable decides whether an error is worth another attempt. Nil
	// retries every error.
	Retryable func(error) bool
}

// DefaultRetryPolicy returns 3 attempts starting at one second.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts:  3,
		BaseDelay: time.Second,
		MaxDelay:  time.Minute,
	}
}

// Delay returns the wait before retry n, where n=1 is the first retry.
func (p RetryPolicy) Delay(n int) time.Duration {
	if n < 1 {
		return 0
	}
	d := p.BaseDelay
	for i := 1; i < n; i++ {
		d *= 2
		if p.MaxDelay > 0 && d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if p.MaxDelay > 0 && d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// Retry calls fn until it succeeds or the policy is exhausted, waiting with
// exponential backoff between attempts.
//
// There is no wait after the final attempt; its error is returned as is.
// Context cancellation during a wait aborts with the context error.
//
// Example:
//
//	// Up to 3 calls, waiting 1s then 2s
//	err := gauge.Retry(ctx, clockz.RealClock, gauge.DefaultRetryPolicy(), func(ctx context.Context) error {
//	    return submit(ctx)
//	})
func Retry(ctx context.Context, clock clockz.Clock, policy RetryPolicy, fn func(context.Context) error) error {
	if clock == nil {
		clock = clockz.RealClock
	}
	attempts := max(policy.Attempts, 1)

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		if policy.Retryable != nil && !policy.Retryable(err) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		delay := policy.Delay(attempt)
		capitan.Emit(ctx, ProviderRetryScheduled,
			KeyAttempt.Field(attempt),
			KeyDelay.Field(delay),
			KeyError.Field(err.Error()),
		)

		timer := clock.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C():
		}
	}
	return err
}
