package commands

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zoobzio/capitan"

	"github.com/zoobzio/gauge"
)

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if verbose {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

var (
	current   atomic.Pointer[slog.Logger]
	hooksOnce sync.Once
)

// hookSignals routes library signals to logger. Hooks are installed once;
// later calls only swap the logger.
func hookSignals(logger *slog.Logger) {
	current.Store(logger)
	hooksOnce.Do(func() {
		debug, warn := slog.LevelDebug, slog.LevelWarn

		capitan.Hook(gauge.ConverterStarted, logEvent(debug, gauge.ConverterStarted.Name()))
		capitan.Hook(gauge.ConverterStopped, logEvent(debug, gauge.ConverterStopped.Name()))
		capitan.Hook(gauge.ConverterStateChanged, logEvent(debug, gauge.ConverterStateChanged.Name()))
		capitan.Hook(gauge.ConverterSwapped, logEvent(debug, gauge.ConverterSwapped.Name()))
		capitan.Hook(gauge.ConverterEditReceived, logEvent(debug, gauge.ConverterEditReceived.Name()))
		capitan.Hook(gauge.ConverterEditRejected, logEvent(warn, gauge.ConverterEditRejected.Name()))
		capitan.Hook(gauge.ConverterUnitResolved, logEvent(debug, gauge.ConverterUnitResolved.Name()))
		capitan.Hook(gauge.ConverterRequestIssued, logEvent(debug, gauge.ConverterRequestIssued.Name()))
		capitan.Hook(gauge.ConverterRequestSucceeded, logEvent(debug, gauge.ConverterRequestSucceeded.Name()))
		capitan.Hook(gauge.ConverterRequestFailed, logEvent(warn, gauge.ConverterRequestFailed.Name()))
		capitan.Hook(gauge.ConverterResponseStale, logEvent(debug, gauge.ConverterResponseStale.Name()))
		capitan.Hook(gauge.ProviderEndpointFailed, logEvent(debug, gauge.ProviderEndpointFailed.Name()))
		capitan.Hook(gauge.ProviderRetryScheduled, logEvent(warn, gauge.ProviderRetryScheduled.Name()))
		capitan.Hook(gauge.BoilingSubmitted, logEvent(debug, gauge.BoilingSubmitted.Name()))
		capitan.Hook(gauge.BoilingRejected, logEvent(debug, gauge.BoilingRejected.Name()))
		capitan.Hook(gauge.BoilingSucceeded, logEvent(debug, gauge.BoilingSucceeded.Name()))
		capitan.Hook(gauge.BarometricFallback, logEvent(warn, gauge.BarometricFallback.Name()))
		capitan.Hook(gauge.FeedRejected, logEvent(warn, gauge.FeedRejected.Name()))
	})
}

type attrFunc func(*capitan.Event) (slog.Attr, bool)

func stringAttr(name string, from func(*capitan.Event) (string, bool)) attrFunc {
	return func(e *capitan.Event) (slog.Attr, bool) {
		v, ok := from(e)
		return slog.String(name, v), ok
	}
}

func intAttr(name string, from func(*capitan.Event) (int, bool)) attrFunc {
	return func(e *capitan.Event) (slog.Attr, bool) {
		v, ok := from(e)
		return slog.Int(name, v), ok
	}
}

func durationAttr(name string, from func(*capitan.Event) (time.Duration, bool)) attrFunc {
	return func(e *capitan.Event) (slog.Attr, bool) {
		v, ok := from(e)
		return slog.Duration(name, v), ok
	}
}

var eventAttrs = []attrFunc{
	stringAttr("converter", gauge.KeyConverter.From),
	stringAttr("old_state", gauge.KeyOldState.From),
	stringAttr("new_state", gauge.KeyNewState.From),
	stringAttr("side", gauge.KeySide.From),
	stringAttr("unit", gauge.KeyUnit.From),
	stringAttr("value", gauge.KeyValue.From),
	intAttr("epoch", gauge.KeyEpoch.From),
	stringAttr("endpoint", gauge.KeyEndpoint.From),
	intAttr("attempt", gauge.KeyAttempt.From),
	durationAttr("delay", gauge.KeyDelay.From),
	durationAttr("debounce", gauge.KeyDebounce.From),
	stringAttr("target", gauge.KeyTarget.From),
	stringAttr("source", gauge.KeySource.From),
	stringAttr("kind", gauge.KeyKind.From),
	stringAttr("error", gauge.KeyError.From),
}

func logEvent(level slog.Level, signal string) func(context.Context, *capitan.Event) {
	return func(ctx context.Context, e *capitan.Event) {
		logger := current.Load()
		if logger == nil || !logger.Enabled(ctx, level) {
			return
		}
		attrs := make([]slog.Attr, 0, 4)
		for _, fn := range eventAttrs {
			if a, ok := fn(e); ok {
				attrs = append(attrs, a)
			}
		}
		logger.LogAttrs(ctx, level, signal, attrs...)
	}
}
