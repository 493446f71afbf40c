package gauge

import "time"

// MetricsProvider allows integration with metrics systems like Prometheus, StatsD, etc.
// Implement this interface to receive callbacks on key converter events.
type MetricsProvider interface {
	// OnStateChange is called when the converter transitions between states.
	OnStateChange(from, to State)

	// OnRequestSuccess is called when a response is applied. Duration is the
	// provider round trip.
	OnRequestSuccess(duration time.Duration)

	// OnRequestFailure is called when a live request fails.
	OnRequestFailure(kind Kind, duration time.Duration)

	// OnStaleResponse is called when a superseded response is dropped.
	OnStaleResponse()

	// OnEditReceived is called for every accepted edit.
	OnEditReceived(side Side)
}

// NoOpMetricsProvider is a no-op implementation of MetricsProvider.
// Use this as an embedded type to implement only the methods you need.
type NoOpMetricsProvider struct{}

func (NoOpMetricsProvider) OnStateChange(_, _ State)                 {}
func (NoOpMetricsProvider) OnRequestSuccess(_ time.Duration)         {}
func (NoOpMetricsProvider) OnRequestFailure(_ Kind, _ time.Duration) {}
func (NoOpMetricsProvider) OnStaleResponse()                         {}
func (NoOpMetricsProvider) OnEditReceived(_ Side)                    {}
