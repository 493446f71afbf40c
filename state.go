package gauge

// State represents the current state of a Converter.
type State int32

const (
	// StateIdle indicates there is nothing to convert. The source field is
	// empty or incomplete, or the converter has just been swapped or cleared.
	StateIdle State = iota

	// StateAwaitingDebounce indicates an accepted edit is waiting for input
	// to settle before a request is issued.
	StateAwaitingDebounce

	// StateRequestInFlight indicates the provider has been asked for a
	// conversion and has not answered yet.
	StateRequestInFlight

	// StateSettled indicates the last response was applied to the dependent
	// field.
	StateSettled

	// StateError indicates the last request failed. The dependent field is
	// cleared and the error is available via LastError.
	StateError
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingDebounce:
		return "awaiting_debounce"
	case StateRequestInFlight:
		return "request_in_flight"
	case StateSettled:
		return "settled"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}
