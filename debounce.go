package gauge

import (
	"sync"
	"time"

	"github.com/zoobzio/clockz"
)

// Debouncer runs a callback once a keyed value has stopped changing for a
// delay. Each key has at most one pending timer; scheduling the key again
// cancels the unfired timer and restarts the window.
type Debouncer[V any] struct {
	clock   clockz.Clock
	mu      sync.Mutex
	pending map[string]*pendingCall
	stopped bool
}

type pendingCall struct {
	timer clockz.Timer
	done  chan struct{}
}

// NewDebouncer creates a Debouncer on clock. A nil clock uses the real clock.
func NewDebouncer[V any](clock clockz.Clock) *Debouncer[V] {
	if clock == nil {
		clock = clockz.RealClock
	}
	return &Debouncer[V]{
		clock:   clock,
		pending: make(map[string]*pendingCall),
	}
}

// Schedule arranges for fn(value) to run after delay unless key is
// rescheduled or cancelled first. fn runs on its own goroutine.
func (d *Debouncer[V]) Schedule(key string, value V, delay time.Duration, fn func(V)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.cancelLocked(key)

	p := &pendingCall{
		timer: d.clock.NewTimer(delay),
		done:  make(chan struct{}),
	}
	d.pending[key] = p
	go d.wait(key, p, value, fn)
}

func (d *Debouncer[V]) wait(key string, p *pendingCall, value V, fn func(V)) {
	select {
	case <-p.timer.C():
	case <-p.done:
		return
	}

	d.mu.Lock()
	if d.pending[key] != p {
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	d.mu.Unlock()

	fn(value)
}

// Cancel drops the pending call for key, if any.
func (d *Debouncer[V]) Cancel(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked(key)
}

// CancelAll drops every pending call.
func (d *Debouncer[V]) CancelAll() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key := range d.pending {
		d.cancelLocked(key)
	}
}

// Pending reports whether key has an unfired timer.
func (d *Debouncer[V]) Pending(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.pending[key]
	return ok
}

// Stop cancels everything. Later Schedule calls are ignored.
func (d *Debouncer[V]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	for key := range d.pending {
		d.cancelLocked(key)
	}
}

func (d *Debouncer[V]) cancelLocked(key string) {
	p, ok := d.pending[key]
	if !ok {
		return
	}
	p.timer.Stop()
	close(p.done)
	delete(d.pending, key)
}
