package prommetrics

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/zoobzio/gauge"
)

func TestProvider_StateChange(t *testing.T) {
	m, err := New(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	p := m.Converter("pressure")

	if v := testutil.ToFloat64(m.state.WithLabelValues("pressure", "idle")); v != 1 {
		t.Errorf("expected idle=1 initially, got %v", v)
	}

	p.OnStateChange(gauge.StateIdle, gauge.StateAwaitingDebounce)
	p.OnStateChange(gauge.StateAwaitingDebounce, gauge.StateRequestInFlight)

	if v := testutil.ToFloat64(m.state.WithLabelValues("pressure", "request_in_flight")); v != 1 {
		t.Errorf("expected request_in_flight=1, got %v", v)
	}
	if v := testutil.ToFloat64(m.state.WithLabelValues("pressure", "awaiting_debounce")); v != 0 {
		t.Errorf("expected awaiting_debounce=0, got %v", v)
	}
	if v := testutil.ToFloat64(m.transitions.WithLabelValues("pressure", "idle", "awaiting_debounce")); v != 1 {
		t.Errorf("expected one transition, got %v", v)
	}
}

func TestProvider_Requests(t *testing.T) {
	m, err := New(prometheus.NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	p := m.Converter("vacuum")

	p.OnRequestSuccess(100 * time.Millisecond)
	p.OnRequestFailure(gauge.KindNetworkUnreachable, time.Second)
	p.OnStaleResponse()
	p.OnEditReceived(gauge.Secondary)

	if v := testutil.ToFloat64(m.requests.WithLabelValues("vacuum", "success")); v != 1 {
		t.Errorf("expected 1 success, got %v", v)
	}
	if v := testutil.ToFloat64(m.requests.WithLabelValues("vacuum", "network_unreachable")); v != 1 {
		t.Errorf("expected 1 failure, got %v", v)
	}
	if v := testutil.ToFloat64(m.stale.WithLabelValues("vacuum")); v != 1 {
		t.Errorf("expected 1 stale, got %v", v)
	}
	if v := testutil.ToFloat64(m.edits.WithLabelValues("vacuum", "secondary")); v != 1 {
		t.Errorf("expected 1 edit, got %v", v)
	}
	if n := testutil.CollectAndCount(m.duration); n != 1 {
		t.Errorf("expected one histogram series, got %d", n)
	}
}

func TestNew_ReusesRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := New(reg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(reg)
	if err != nil {
		t.Fatalf("second New() error = %v", err)
	}
	b.Converter("x").OnStaleResponse()
	if v := testutil.ToFloat64(a.stale.WithLabelValues("x")); v != 1 {
		t.Errorf("expected shared collectors, got %v", v)
	}
}

func TestProvider_WithConverter(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	if err != nil {
		t.Fatal(err)
	}

	provider := gauge.ProviderFunc(func(_ context.Context, req gauge.ConversionRequest) (gauge.ConversionResult, error) {
		return gauge.ConversionResult{"pa": req.Value, "bar": req.Value / 1e5}, nil
	})
	catalog, err := gauge.NewCatalog("mini", []gauge.Unit{{ID: "pa"}, {ID: "bar"}})
	if err != nil {
		t.Fatal(err)
	}
	conv := gauge.NewConverter("mini", catalog, provider).
		Defaults("100000", "pa", "bar").
		Timeout(0).
		Metrics(m.Converter("mini"))
	if err := conv.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer conv.Close()

	expected := `
# HELP gauge_converter_requests_total Completed conversion requests by outcome.
# TYPE gauge_converter_requests_total counter
gauge_converter_requests_total{converter="mini",outcome="success"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "gauge_converter_requests_total"); err != nil {
		t.Error(err)
	}
}
