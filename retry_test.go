package gauge

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/zoobzio/clockz"
)

func TestRetryPolicy_Delay(t *testing.T) {
	p := RetryPolicy{BaseDelay: time.Second, MaxDelay: 5 * time.Second}
	want := []time.Duration{0, time.Second, 2 * time.Second, 4 * time.Second, 5 * time.Second, 5 * time.Second}
	for n, w := range want {
		if got := p.Delay(n); got != w {
			t.Errorf("Delay(%d) = %v, want %v", n, got, w)
		}
	}
}

func TestRetry_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), clockz.RealClock, RetryPolicy{Attempts: 3, BaseDelay: time.Millisecond},
		func(context.Context) error {
			calls++
			if calls < 3 {
				return errBoom
			}
			return nil
		})
	if err != nil {
		t.Fatalf("Retry() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestRetry_ReturnsLastError(t *testing.T) {
	calls := 0
	last := errors.New("third")
	err := Retry(context.Background(), clockz.RealClock, RetryPolicy{Attempts: 3, BaseDelay: time.Millisecond},
		func(context.Context) error {
			calls++
			if calls == 3 {
				return last
			}
			return errBoom
		})
	if !errors.Is(err, last) {
		t.Errorf("expected last error, got %v", err)
	}
}

func TestRetry_StopsOnPermanentError(t *testing.T) {
	calls := 0
	policy := RetryPolicy{Attempts: 5, BaseDelay: time.Millisecond, Retryable: Transient}
	err := Retry(context.Background(), clockz.RealClock, policy, func(context.Context) error {
		calls++
		return RejectedError(400, "bad")
	})
	if KindOf(err) != KindProviderRejected || calls != 1 {
		t.Errorf("expected one rejected call, got %v after %d", err, calls)
	}
}

func TestRetry_ZeroAttemptsCallsOnce(t *testing.T) {
	calls := 0
	_ = Retry(context.Background(), nil, RetryPolicy{}, func(context.Context) error {
		calls++
		return errBoom
	})
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestRetry_ContextCancelDuringWait(t *testing.T) {
	clock := clockz.NewFakeClock()
	ctx, cancel := context.WithCancel(context.Background())

	errc := make(chan error, 1)
	go func() {
		errc <- Retry(ctx, clock, RetryPolicy{Attempts: 3, BaseDelay: time.Hour}, func(context.Context) error {
			return errBoom
		})
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Retry did not return after cancel")
	}
}

func TestRetry_WaitsOnClock(t *testing.T) {
	clock := clockz.NewFakeClock()
	calls := make(chan struct{}, 3)

	errc := make(chan error, 1)
	go func() {
		errc <- Retry(context.Background(), clock, RetryPolicy{Attempts: 2, BaseDelay: time.Minute}, func(context.Context) error {
			calls <- struct{}{}
			return errBoom
		})
	}()

	<-calls
	select {
	case <-calls:
		t.Fatal("second attempt ran before the backoff elapsed")
	case <-time.After(20 * time.Millisecond):
	}

	clock.Advance(time.Minute)
	clock.BlockUntilReady()

	select {
	case <-calls:
	case <-time.After(time.Second):
		t.Fatal("second attempt did not run")
	}
	if err := <-errc; !errors.Is(err, errBoom) {
		t.Errorf("expected errBoom, got %v", err)
	}
}
