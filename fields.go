package gauge

import "github.com/zoobzio/capitan"

// Field keys for gauge events.
var (
	// KeyConverter is the converter name.
	KeyConverter = capitan.NewStringKey("converter")

	// KeyState is the current state of the converter.
	KeyState = capitan.NewStringKey("state")

	// KeyOldState is the previous state before a transition.
	KeyOldState = capitan.NewStringKey("old_state")

	// KeyNewState is the new state after a transition.
	KeyNewState = capitan.NewStringKey("new_state")

	// KeyError is the error message when an operation fails.
	KeyError = capitan.NewStringKey("error")

	// KeyKind is the error kind.
	KeyKind = capitan.NewStringKey("kind")

	// KeySide is the field side an event concerns.
	KeySide = capitan.NewStringKey("side")

	// KeyUnit is a unit id.
	KeyUnit = capitan.NewStringKey("unit")

	// KeyValue is the raw text of an edit or feed line.
	KeyValue = capitan.NewStringKey("value")

	// KeyEpoch is the request epoch.
	KeyEpoch = capitan.NewIntKey("epoch")

	// KeyEndpoint is the provider endpoint path.
	KeyEndpoint = capitan.NewStringKey("endpoint")

	// KeyAttempt is the attempt number that failed before a retry.
	KeyAttempt = capitan.NewIntKey("attempt")

	// KeyDelay is the backoff delay before the next attempt.
	KeyDelay = capitan.NewDurationKey("delay")

	// KeyDebounce is the configured value debounce duration.
	KeyDebounce = capitan.NewDurationKey("debounce")

	// KeyTarget is the boiling-point target being computed.
	KeyTarget = capitan.NewStringKey("target")

	// KeySource is the origin of a barometric result.
	KeySource = capitan.NewStringKey("source")
)
