package gauge

import "github.com/zoobzio/capitan"

// Converter lifecycle signals.
var (
	// ConverterStarted is emitted when a Converter starts.
	ConverterStarted = capitan.NewSignal(
		"gauge.converter.started",
		"Converter started",
	)

	// ConverterStopped is emitted when a Converter is closed.
	ConverterStopped = capitan.NewSignal(
		"gauge.converter.stopped",
		"Converter stopped",
	)

	// ConverterStateChanged is emitted when a Converter transitions between states.
	ConverterStateChanged = capitan.NewSignal(
		"gauge.converter.state.changed",
		"Converter state transition",
	)

	// ConverterSwapped is emitted when the two fields are exchanged.
	ConverterSwapped = capitan.NewSignal(
		"gauge.converter.swapped",
		"Converter fields swapped",
	)
)

// Edit and request signals.
var (
	// ConverterEditReceived is emitted when an edit is accepted.
	ConverterEditReceived = capitan.NewSignal(
		"gauge.converter.edit.received",
		"Edit accepted",
	)

	// ConverterEditRejected is emitted when an edit fails validation.
	ConverterEditRejected = capitan.NewSignal(
		"gauge.converter.edit.rejected",
		"Edit rejected",
	)

	// ConverterUnitResolved is emitted when a unit change on the dependent
	// side is served from the fan-out cache.
	ConverterUnitResolved = capitan.NewSignal(
		"gauge.converter.unit.resolved",
		"Unit change served from cache",
	)

	// ConverterRequestIssued is emitted when a conversion request is sent.
	ConverterRequestIssued = capitan.NewSignal(
		"gauge.converter.request.issued",
		"Conversion request issued",
	)

	// ConverterRequestSucceeded is emitted when a response is applied.
	ConverterRequestSucceeded = capitan.NewSignal(
		"gauge.converter.request.succeeded",
		"Conversion response applied",
	)

	// ConverterRequestFailed is emitted when a live request fails.
	ConverterRequestFailed = capitan.NewSignal(
		"gauge.converter.request.failed",
		"Conversion request failed",
	)

	// ConverterResponseStale is emitted when a superseded response is dropped.
	ConverterResponseStale = capitan.NewSignal(
		"gauge.converter.response.stale",
		"Stale conversion response dropped",
	)
)

// Provider call signals.
var (
	// ProviderEndpointFailed is emitted when one endpoint variant fails.
	ProviderEndpointFailed = capitan.NewSignal(
		"gauge.provider.endpoint.failed",
		"Provider endpoint failed",
	)

	// ProviderRetryScheduled is emitted before a backoff wait.
	ProviderRetryScheduled = capitan.NewSignal(
		"gauge.provider.retry.scheduled",
		"Provider retry scheduled",
	)
)

// Calculator signals.
var (
	// BoilingSubmitted is emitted when a boiling-point submission is sent.
	BoilingSubmitted = capitan.NewSignal(
		"gauge.boiling.submitted",
		"Boiling point submitted",
	)

	// BoilingRejected is emitted when a submission fails precondition checks.
	BoilingRejected = capitan.NewSignal(
		"gauge.boiling.rejected",
		"Boiling point submission rejected",
	)

	// BoilingSucceeded is emitted when the computed target is written back.
	BoilingSucceeded = capitan.NewSignal(
		"gauge.boiling.succeeded",
		"Boiling point computed",
	)

	// BarometricFallback is emitted when a leg height is computed locally.
	BarometricFallback = capitan.NewSignal(
		"gauge.barometric.fallback",
		"Barometric leg computed locally",
	)

	// FeedRejected is emitted when a feed line cannot be applied.
	FeedRejected = capitan.NewSignal(
		"gauge.feed.rejected",
		"Feed line rejected",
	)
)
