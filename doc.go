/*
Package gauge keeps two linked value fields consistent through a remote
conversion service.

gauge is designed to sit behind engineering conversion forms: the user edits
either side of a converter, the edit is validated and debounced, and the
remote service is asked for the full fan-out of equivalent values. The
result is written into the opposite side without being treated as an edit,
so the pair never loops and older responses never overwrite newer input.

# Converter

	conv := gauge.NewPressureConverter(provider).
	    ValueDebounce(800 * time.Millisecond).
	    UnitDebounce(500 * time.Millisecond).
	    Timeout(10 * time.Second)

	if err := conv.Start(ctx); err != nil {
	    log.Printf("initial conversion failed: %s", gauge.Message(err))
	}

	_ = conv.SetText(gauge.Primary, "12")
	_ = conv.SetUnit(gauge.Secondary, "psi")

A Converter moves through five states:

  - Idle: nothing to convert
  - AwaitingDebounce: an accepted edit is waiting for input to settle
  - RequestInFlight: the provider has been asked for a conversion
  - Settled: the last response was applied
  - Error: the last request failed and the dependent side was cleared

Every issued request captures an epoch. Responses whose epoch is no longer
current are dropped without touching state.

# Validation

Keystrokes are accepted with IsPartial and converted only once IsComplete
holds. "-" and "." are acceptable keystrokes but never reach the provider.

# Provider calls

Fallback tries endpoint variants in order, Retry applies exponential backoff
for important submissions, and WithTimeout bounds every call. Failures are
reported as *Error values; Message turns them into user-facing text.

# Calculators

BoilingPoint guards two mutually exclusive target fields and recomputes the
empty one on Submit. Barometric computes barometric leg heights and labels
local fallback results explicitly.

# Signals

Lifecycle, request and failure events are emitted through capitan. Hook the
signals in signals.go for logging or auditing.
*/
package gauge
