package gauge

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/zoobzio/clockz"
)

// pascals per unit for the test catalog.
var testFactors = map[UnitID]float64{
	"pa":  1,
	"kpa": 1000,
	"bar": 100000,
	"psi": 6894.757293168,
}

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := NewCatalog("test", []Unit{
		{ID: "pa", Label: "Pascal", Category: "SI"},
		{ID: "kpa", Label: "Kilopascal", Category: "SI"},
		{ID: "bar", Label: "Bar", Category: "Metric"},
		{ID: "psi", Label: "PSI", Category: "Imperial"},
	})
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	return c
}

// factorConvert is a consistent conversion table.
func factorConvert(req ConversionRequest) (ConversionResult, error) {
	from, ok := testFactors[req.FromUnit]
	if !ok {
		return nil, RejectedError(400, "unknown unit")
	}
	base := req.Value * from
	out := make(ConversionResult, len(testFactors))
	for u, f := range testFactors {
		out[u] = base / f
	}
	return out, nil
}

// stubProvider answers from the factor table and counts calls.
type stubProvider struct {
	calls atomic.Int32
	mu    sync.Mutex
	reqs  []ConversionRequest
	err   error
}

func (p *stubProvider) Convert(_ context.Context, req ConversionRequest) (ConversionResult, error) {
	p.calls.Add(1)
	p.mu.Lock()
	p.reqs = append(p.reqs, req)
	err := p.err
	p.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return factorConvert(req)
}

func (p *stubProvider) setErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

func (p *stubProvider) last() ConversionRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.reqs) == 0 {
		return ConversionRequest{}
	}
	return p.reqs[len(p.reqs)-1]
}

// gatedProvider blocks each call until released by value.
type gatedProvider struct {
	mu    sync.Mutex
	gates map[float64]chan struct{}
	seen  map[float64]bool
}

func newGatedProvider() *gatedProvider {
	return &gatedProvider{
		gates: make(map[float64]chan struct{}),
		seen:  make(map[float64]bool),
	}
}

func (p *gatedProvider) gate(v float64) chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	g, ok := p.gates[v]
	if !ok {
		g = make(chan struct{})
		p.gates[v] = g
	}
	return g
}

func (p *gatedProvider) Convert(ctx context.Context, req ConversionRequest) (ConversionResult, error) {
	g := p.gate(req.Value)
	p.mu.Lock()
	p.seen[req.Value] = true
	p.mu.Unlock()
	select {
	case <-g:
		return factorConvert(req)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *gatedProvider) called(v float64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.seen[v]
}

func (p *gatedProvider) release(v float64) {
	close(p.gate(v))
}

// countingMetrics records metrics callbacks.
type countingMetrics struct {
	NoOpMetricsProvider
	stale    atomic.Int32
	success  atomic.Int32
	failures atomic.Int32
	edits    atomic.Int32
}

func (m *countingMetrics) OnStaleResponse()                         { m.stale.Add(1) }
func (m *countingMetrics) OnRequestSuccess(_ time.Duration)         { m.success.Add(1) }
func (m *countingMetrics) OnRequestFailure(_ Kind, _ time.Duration) { m.failures.Add(1) }
func (m *countingMetrics) OnEditReceived(_ Side)                    { m.edits.Add(1) }

// newTestConverter starts a converter on the test catalog with an empty
// primary field, so Start issues no request.
func newTestConverter(t *testing.T, p Provider, clock clockz.Clock) *Converter {
	t.Helper()
	c := NewConverter("test", testCatalog(t), p).
		Defaults("", "pa", "bar").
		Clock(clock).
		Timeout(0).
		ErrorHistorySize(5)
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// waitFor polls a condition until it returns true or timeout is reached.
func waitFor(t *testing.T, timeout time.Duration, condition func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return condition()
}

func requireState(t *testing.T, c *Converter, want State) {
	t.Helper()
	if !waitFor(t, time.Second, func() bool { return c.State() == want }) {
		t.Fatalf("expected state %s, got %s", want, c.State())
	}
}

func approx(a, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= 1e-9*math.Max(math.Abs(a), math.Abs(b))
}

var errBoom = errors.New("boom")
