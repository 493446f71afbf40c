package gauge

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/zoobzio/clockz"
)

func TestDebouncer_FiresOnce(t *testing.T) {
	clock := clockz.NewFakeClock()
	d := NewDebouncer[string](clock)

	var calls atomic.Int32
	var got atomic.Value
	d.Schedule("k", "a", 100*time.Millisecond, func(v string) {
		calls.Add(1)
		got.Store(v)
	})
	if !d.Pending("k") {
		t.Fatal("expected pending call")
	}

	clock.Advance(100 * time.Millisecond)
	clock.BlockUntilReady()

	if !waitFor(t, time.Second, func() bool { return calls.Load() == 1 }) {
		t.Fatalf("expected 1 call, got %d", calls.Load())
	}
	if got.Load() != "a" {
		t.Errorf("expected a, got %v", got.Load())
	}
	if d.Pending("k") {
		t.Error("expected no pending call after firing")
	}

	clock.Advance(time.Second)
	clock.BlockUntilReady()
	time.Sleep(10 * time.Millisecond)
	if calls.Load() != 1 {
		t.Errorf("expected still 1 call, got %d", calls.Load())
	}
}

func TestDebouncer_RescheduleRestartsWindow(t *testing.T) {
	clock := clockz.NewFakeClock()
	d := NewDebouncer[int](clock)

	var mu sync.Mutex
	var got []int
	fn := func(v int) {
		mu.Lock()
		got = append(got, v)
		mu.Unlock()
	}

	d.Schedule("k", 1, 100*time.Millisecond, fn)
	clock.Advance(60 * time.Millisecond)
	clock.BlockUntilReady()
	d.Schedule("k", 2, 100*time.Millisecond, fn)
	clock.Advance(60 * time.Millisecond)
	clock.BlockUntilReady()
	time.Sleep(10 * time.Millisecond)

	mu.Lock()
	if len(got) != 0 {
		t.Fatalf("expected no call before the restarted window elapses, got %v", got)
	}
	mu.Unlock()

	clock.Advance(40 * time.Millisecond)
	clock.BlockUntilReady()
	ok := waitFor(t, time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	})
	if !ok {
		t.Fatal("expected one call")
	}
	mu.Lock()
	defer mu.Unlock()
	if got[0] != 2 {
		t.Errorf("expected latest value 2, got %d", got[0])
	}
}

func TestDebouncer_KeysAreIndependent(t *testing.T) {
	clock := clockz.NewFakeClock()
	d := NewDebouncer[string](clock)

	var a, b atomic.Int32
	d.Schedule("a", "x", 100*time.Millisecond, func(string) { a.Add(1) })
	d.Schedule("b", "y", 300*time.Millisecond, func(string) { b.Add(1) })

	clock.Advance(100 * time.Millisecond)
	clock.BlockUntilReady()
	if !waitFor(t, time.Second, func() bool { return a.Load() == 1 }) {
		t.Fatal("expected a to fire")
	}
	if b.Load() != 0 {
		t.Error("b must still be pending")
	}
	if !d.Pending("b") {
		t.Error("expected b pending")
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	clock := clockz.NewFakeClock()
	d := NewDebouncer[string](clock)

	var calls atomic.Int32
	d.Schedule("k", "a", 100*time.Millisecond, func(string) { calls.Add(1) })
	d.Cancel("k")
	d.Cancel("missing")

	clock.Advance(time.Second)
	clock.BlockUntilReady()
	time.Sleep(10 * time.Millisecond)
	if calls.Load() != 0 {
		t.Errorf("expected no call after Cancel, got %d", calls.Load())
	}
}

func TestDebouncer_CancelAll(t *testing.T) {
	clock := clockz.NewFakeClock()
	d := NewDebouncer[string](clock)

	var calls atomic.Int32
	for _, k := range []string{"a", "b", "c"} {
		d.Schedule(k, k, 100*time.Millisecond, func(string) { calls.Add(1) })
	}
	d.CancelAll()

	clock.Advance(time.Second)
	clock.BlockUntilReady()
	time.Sleep(10 * time.Millisecond)
	if calls.Load() != 0 {
		t.Errorf("expected no calls, got %d", calls.Load())
	}
}

func TestDebouncer_StopIgnoresLaterSchedules(t *testing.T) {
	clock := clockz.NewFakeClock()
	d := NewDebouncer[string](clock)

	var calls atomic.Int32
	d.Schedule("k", "a", 100*time.Millisecond, func(string) { calls.Add(1) })
	d.Stop()
	d.Schedule("k", "b", 100*time.Millisecond, func(string) { calls.Add(1) })

	if d.Pending("k") {
		t.Error("expected nothing pending after Stop")
	}
	clock.Advance(time.Second)
	clock.BlockUntilReady()
	time.Sleep(10 * time.Millisecond)
	if calls.Load() != 0 {
		t.Errorf("expected no calls after Stop, got %d", calls.Load())
	}
}
