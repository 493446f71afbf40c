package gauge

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/zoobzio/clockz"
)

func TestWithTimeout_Completes(t *testing.T) {
	v, err := WithTimeout(context.Background(), clockz.RealClock, time.Second, func(context.Context) (int, error) {
		return 7, nil
	})
	if err != nil || v != 7 {
		t.Fatalf("WithTimeout() = %d, %v", v, err)
	}
}

func TestWithTimeout_Expires(t *testing.T) {
	clock := clockz.NewFakeClock()
	started := make(chan struct{})

	errc := make(chan error, 1)
	go func() {
		_, err := WithTimeout(context.Background(), clock, 10*time.Second, func(ctx context.Context) (int, error) {
			close(started)
			<-ctx.Done()
			return 0, ctx.Err()
		})
		errc <- err
	}()

	<-started
	clock.Advance(10 * time.Second)
	clock.BlockUntilReady()

	select {
	case err := <-errc:
		var e *Error
		if !errors.As(err, &e) || !e.Timeout || e.Kind != KindNetworkUnreachable {
			t.Fatalf("expected timeout error, got %v", err)
		}
		if Message(err) != "Request timed out. Please try again." {
			t.Errorf("unexpected message %q", Message(err))
		}
	case <-time.After(time.Second):
		t.Fatal("WithTimeout did not return")
	}
}

func TestWithTimeout_ParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})

	errc := make(chan error, 1)
	go func() {
		_, err := WithTimeout(ctx, clockz.RealClock, time.Minute, func(ctx context.Context) (int, error) {
			close(started)
			<-ctx.Done()
			return 0, ctx.Err()
		})
		errc <- err
	}()

	<-started
	cancel()
	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestWithTimeout_ZeroRunsDirectly(t *testing.T) {
	_, err := WithTimeout(context.Background(), nil, 0, func(ctx context.Context) (int, error) {
		if _, ok := ctx.Deadline(); ok {
			t.Error("expected no deadline")
		}
		return 0, errBoom
	})
	if !errors.Is(err, errBoom) {
		t.Errorf("expected errBoom, got %v", err)
	}
}
