package gauge

import (
	"context"
	"errors"
	"time"

	"github.com/zoobzio/clockz"
)

// WithTimeout runs fn under a deadline of d measured on clock.
//
// fn receives a context that is cancelled at the deadline. If the deadline
// passes first, WithTimeout returns a timeout *Error without waiting for fn
// to unwind. A non-positive d runs fn without a deadline.
//
// Example:
//
//	res, err := gauge.WithTimeout(ctx, clock, 10*time.Second,
//	    func(ctx context.Context) (gauge.ConversionResult, error) {
//	        return provider.Convert(ctx, req)
//	    })
func WithTimeout[T any](ctx context.Context, clock clockz.Clock, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if d <= 0 {
		return fn(ctx)
	}
	if clock == nil {
		clock = clockz.RealClock
	}

	callCtx, cancel := clock.WithTimeout(ctx, d)
	defer cancel()

	type outcome struct {
		val T
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		v, err := fn(callCtx)
		done <- outcome{v, err}
	}()

	var zero T
	select {
	case o := <-done:
		if o.err != nil && ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return zero, TimeoutError(o.err)
		}
		return o.val, o.err
	case <-callCtx.Done():
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		return zero, TimeoutError(callCtx.Err())
	}
}
