package gauge

import (
	"context"
	"errors"
	"testing"
)

func TestFallback_FirstSuccessWins(t *testing.T) {
	var tried []string
	out, err := Fallback(context.Background(), []string{"a/", "b/", "c/"}, func(_ context.Context, ep string) (string, error) {
		tried = append(tried, ep)
		if ep == "b/" {
			return "ok", nil
		}
		return "", errBoom
	})
	if err != nil || out != "ok" {
		t.Fatalf("Fallback() = %q, %v", out, err)
	}
	if len(tried) != 2 || tried[0] != "a/" {
		t.Errorf("expected a/ then b/, got %v", tried)
	}
}

func TestFallback_AllFail(t *testing.T) {
	last := RejectedError(404, "")
	_, err := Fallback(context.Background(), []string{"a/", "b/"}, func(_ context.Context, ep string) (int, error) {
		if ep == "b/" {
			return 0, last
		}
		return 0, errBoom
	})
	if !errors.Is(err, last) {
		t.Fatalf("expected last error wrapped, got %v", err)
	}
	if err.Error() != "all 2 endpoints failed: provider_rejected (404)" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestFallback_NoEndpoints(t *testing.T) {
	_, err := Fallback(context.Background(), nil, func(context.Context, string) (int, error) {
		t.Fatal("call must not run")
		return 0, nil
	})
	if !errors.Is(err, ErrNoEndpoints) {
		t.Errorf("expected ErrNoEndpoints, got %v", err)
	}
}

func TestFallback_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := Fallback(ctx, []string{"a/", "b/"}, func(ctx context.Context, _ string) (int, error) {
		calls++
		cancel()
		return 0, ctx.Err()
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}
