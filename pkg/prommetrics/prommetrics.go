// Package prommetrics provides a gauge.MetricsProvider backed by Prometheus
// collectors.
//
// One Metrics value owns the collectors for a registerer; each converter
// gets its own provider labeled with the converter name:
//
//	m, err := prommetrics.New(prometheus.DefaultRegisterer)
//	if err != nil {
//	    return err
//	}
//	conv := gauge.NewPressureConverter(provider).Metrics(m.Converter("pressure"))
package prommetrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/zoobzio/gauge"
)

const namespace = "gauge"

var states = []gauge.State{
	gauge.StateIdle,
	gauge.StateAwaitingDebounce,
	gauge.StateRequestInFlight,
	gauge.StateSettled,
	gauge.StateError,
}

// Metrics holds the collectors shared by every converter.
type Metrics struct {
	state       *prometheus.GaugeVec
	transitions *prometheus.CounterVec
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	stale       *prometheus.CounterVec
	edits       *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. Collectors that
// are already registered are reused.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		state: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "converter",
			Name:      "state",
			Help:      "Current converter state, 1 for the active state.",
		}, []string{"converter", "state"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "converter",
			Name:      "transitions_total",
			Help:      "Converter state transitions.",
		}, []string{"converter", "from", "to"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "converter",
			Name:      "requests_total",
			Help:      "Completed conversion requests by outcome.",
		}, []string{"converter", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "converter",
			Name:      "request_duration_seconds",
			Help:      "Provider round trip of conversion requests.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"converter"}),
		stale: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "converter",
			Name:      "stale_responses_total",
			Help:      "Responses dropped because a newer request was issued.",
		}, []string{"converter"}),
		edits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "converter",
			Name:      "edits_total",
			Help:      "Accepted edits by side.",
		}, []string{"converter", "side"}),
	}

	var err error
	if m.state, err = register(reg, m.state); err != nil {
		return nil, err
	}
	if m.transitions, err = register(reg, m.transitions); err != nil {
		return nil, err
	}
	if m.requests, err = register(reg, m.requests); err != nil {
		return nil, err
	}
	if m.duration, err = register(reg, m.duration); err != nil {
		return nil, err
	}
	if m.stale, err = register(reg, m.stale); err != nil {
		return nil, err
	}
	if m.edits, err = register(reg, m.edits); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Converter returns a provider that labels every observation with name.
func (m *Metrics) Converter(name string) *Provider {
	for _, s := range states {
		v := 0.0
		if s == gauge.StateIdle {
			v = 1
		}
		m.state.WithLabelValues(name, s.String()).Set(v)
	}
	return &Provider{m: m, name: name}
}

// Provider implements gauge.MetricsProvider for one converter.
type Provider struct {
	m    *Metrics
	name string
}

func (p *Provider) OnStateChange(from, to gauge.State) {
	p.m.transitions.WithLabelValues(p.name, from.String(), to.String()).Inc()
	p.m.state.WithLabelValues(p.name, from.String()).Set(0)
	p.m.state.WithLabelValues(p.name, to.String()).Set(1)
}

func (p *Provider) OnRequestSuccess(d time.Duration) {
	p.m.requests.WithLabelValues(p.name, "success").Inc()
	p.m.duration.WithLabelValues(p.name).Observe(d.Seconds())
}

func (p *Provider) OnRequestFailure(kind gauge.Kind, d time.Duration) {
	p.m.requests.WithLabelValues(p.name, kind.String()).Inc()
	p.m.duration.WithLabelValues(p.name).Observe(d.Seconds())
}

func (p *Provider) OnStaleResponse() {
	p.m.stale.WithLabelValues(p.name).Inc()
}

func (p *Provider) OnEditReceived(side gauge.Side) {
	p.m.edits.WithLabelValues(p.name, side.String()).Inc()
}

var _ gauge.MetricsProvider = (*Provider)(nil)
