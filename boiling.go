package gauge

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// Param is a boiling-point prerequisite input.
type Param int

const (
	ParamP1 Param = iota
	ParamT1
	ParamHvap
)

// Boiling-point targets.
const (
	TargetP2 = TargetA
	TargetT2 = TargetB
)

var paramNames = [...]struct{ key, label string }{
	ParamP1:   {"P1", "Pressure (P1)"},
	ParamT1:   {"T1", "Temperature (T1)"},
	ParamHvap: {"Hvap", "Enthalpy of Vaporization (Hvap)"},
}

// String returns the parameter key as sent to the provider.
func (p Param) String() string {
	if p < ParamP1 || p > ParamHvap {
		return "unknown"
	}
	return paramNames[p].key
}

func targetName(t Target) string {
	if t == TargetP2 {
		return "P2"
	}
	return "T2"
}

// BoilingPointResult is an applied boiling-point computation.
type BoilingPointResult struct {
	// Computed is the target filled in from the response.
	Computed Target
	Value    float64
	Request  BoilingPointRequest
}

// BoilingPointView is a snapshot of the calculator form.
type BoilingPointView struct {
	P1, T1, Hvap string
	P2, T2       string
	Substance    string
	Derived      *Target
	Err          error
	Message      string
}

type submitOptions struct {
	important bool
}

// SubmitOption configures a single Submit call.
type SubmitOption func(*submitOptions)

// WithImportant retries transient failures with the calculator's backoff
// policy.
func WithImportant() SubmitOption {
	return func(o *submitOptions) { o.important = true }
}

// BoilingPoint is the boiling-point calculator form: three prerequisites
// and two mutually exclusive targets, one of which the provider computes
// from the other on Submit.
type BoilingPoint struct {
	provider BoilingPointProvider
	clock    clockz.Clock
	timeout  time.Duration
	backoff  RetryPolicy

	mu        sync.Mutex
	inputs    [3]string
	substance string
	targets   *Exclusive
	gen       uint64
	lastErr   error
}

// NewBoilingPoint creates a calculator backed by provider.
func NewBoilingPoint(provider BoilingPointProvider) *BoilingPoint {
	policy := DefaultRetryPolicy()
	policy.Retryable = Transient
	return &BoilingPoint{
		provider: provider,
		clock:    clockz.RealClock,
		timeout:  defaultTimeout,
		backoff:  policy,
		targets:  NewExclusive("P2", "T2"),
	}
}

// Clock sets the clock used for timeouts and backoff.
func (b *BoilingPoint) Clock(clock clockz.Clock) *BoilingPoint {
	b.clock = clock
	return b
}

// Timeout bounds each provider call. Zero disables the bound.
func (b *BoilingPoint) Timeout(d time.Duration) *BoilingPoint {
	b.timeout = d
	return b
}

// Backoff sets the retry policy used by important submissions.
func (b *BoilingPoint) Backoff(p RetryPolicy) *BoilingPoint {
	b.backoff = p
	return b
}

// SetInput edits a prerequisite. Text must be a partial number.
func (b *BoilingPoint) SetInput(p Param, text string) error {
	if p < ParamP1 || p > ParamHvap {
		return invalidInput("param", fmt.Sprintf("unknown parameter %d", p))
	}
	if !IsPartial(text) {
		return invalidInput(p.String(), paramNames[p].label+" must be a number")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.inputs[p] = text
	b.edited()
	return nil
}

// SetTarget edits P2 or T2. A non-empty value clears the other target.
func (b *BoilingPoint) SetTarget(t Target, text string) error {
	if t != TargetP2 && t != TargetT2 {
		return invalidInput("target", fmt.Sprintf("unknown target %d", t))
	}
	if !IsPartial(text) {
		return invalidInput(targetName(t), targetName(t)+" must be a number")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.targets.Set(t, text)
	b.edited()
	return nil
}

// SelectSubstance fills Hvap from the substance table.
func (b *BoilingPoint) SelectSubstance(name string) error {
	s, err := LookupSubstance(name)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.substance = s.Name
	b.inputs[ParamHvap] = FormatField(s.Hvap)
	b.edited()
	return nil
}

// edited invalidates in-flight submissions and the previous outcome.
func (b *BoilingPoint) edited() {
	b.gen++
	b.lastErr = nil
}

// Validate checks the preconditions of Submit in order and returns the
// first violation.
func (b *BoilingPoint) Validate() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, _, err := b.prepare()
	return err
}

func (b *BoilingPoint) prepare() (BoilingPointRequest, Target, error) {
	var vals [3]float64
	for p := ParamP1; p <= ParamHvap; p++ {
		v, err := requireNumber(p.String(), paramNames[p].label, b.inputs[p])
		if err != nil {
			return BoilingPointRequest{}, 0, err
		}
		vals[p] = v
	}
	if vals[ParamP1] <= 0 {
		return BoilingPointRequest{}, 0, invalidInput("P1", "Pressure (P1) must be greater than 0")
	}
	if vals[ParamHvap] <= 0 {
		return BoilingPointRequest{}, 0, invalidInput("Hvap", "Enthalpy of Vaporization (Hvap) must be greater than 0")
	}

	given, text, err := b.targets.Given()
	if err != nil {
		return BoilingPointRequest{}, 0, err
	}
	v, err := requireNumber(targetName(given), targetName(given), text)
	if err != nil {
		return BoilingPointRequest{}, 0, err
	}
	if given == TargetP2 && v <= 0 {
		return BoilingPointRequest{}, 0, invalidInput("P2", "P2 must be greater than 0")
	}

	req := BoilingPointRequest{P1: vals[ParamP1], T1: vals[ParamT1], Hvap: vals[ParamHvap]}
	if given == TargetP2 {
		req.P2 = &v
	} else {
		req.T2 = &v
	}
	return req, given, nil
}

func requireNumber(key, label, text string) (float64, error) {
	if text == "" {
		return 0, invalidInput(key, "Please fill "+label)
	}
	v, ok := parseComplete(text)
	if !ok {
		return 0, invalidInput(key, label+" must be a number")
	}
	return v, nil
}

// Submit validates the form and asks the provider for the empty target.
// On success the computed value is written into that target.
//
// Edits made while the call is in flight make its response stale: nothing
// is written and the returned error satisfies IsStale.
func (b *BoilingPoint) Submit(ctx context.Context, opts ...SubmitOption) (BoilingPointResult, error) {
	var o submitOptions
	for _, opt := range opts {
		opt(&o)
	}

	b.mu.Lock()
	req, given, err := b.prepare()
	if err != nil {
		b.lastErr = err
		b.mu.Unlock()
		capitan.Emit(ctx, BoilingRejected,
			KeyKind.Field(KindOf(err).String()),
			KeyError.Field(err.Error()),
		)
		return BoilingPointResult{}, err
	}
	gen := b.gen
	b.lastErr = nil
	b.mu.Unlock()

	computed := given.Other()
	capitan.Emit(ctx, BoilingSubmitted, KeyTarget.Field(targetName(computed)))

	var resp BoilingPointResponse
	call := func(ctx context.Context) error {
		var err error
		resp, err = WithTimeout(ctx, b.clock, b.timeout, func(ctx context.Context) (BoilingPointResponse, error) {
			return b.provider.BoilingPoint(ctx, req)
		})
		return err
	}
	if o.important {
		err = Retry(ctx, b.clock, b.backoff, call)
	} else {
		err = call(ctx)
	}

	var value *float64
	if err == nil {
		value = resp.T2
		if computed == TargetP2 {
			value = resp.P2
		}
		if value == nil {
			err = MalformedError("response missing "+targetName(computed), nil)
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if gen != b.gen {
		return BoilingPointResult{}, staleError(gen)
	}
	if err != nil {
		b.lastErr = err
		return BoilingPointResult{}, err
	}
	b.targets.Resolve(computed, FormatField(*value))
	capitan.Emit(ctx, BoilingSucceeded, KeyTarget.Field(targetName(computed)))
	return BoilingPointResult{Computed: computed, Value: *value, Request: req}, nil
}

// LastError returns the error of the last validation or submission.
func (b *BoilingPoint) LastError() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

// Snapshot returns the current form values.
func (b *BoilingPoint) Snapshot() BoilingPointView {
	b.mu.Lock()
	defer b.mu.Unlock()

	v := BoilingPointView{
		P1:        b.inputs[ParamP1],
		T1:        b.inputs[ParamT1],
		Hvap:      b.inputs[ParamHvap],
		P2:        b.targets.Value(TargetP2),
		T2:        b.targets.Value(TargetT2),
		Substance: b.substance,
		Err:       b.lastErr,
		Message:   Message(b.lastErr),
	}
	for _, t := range [...]Target{TargetP2, TargetT2} {
		if b.targets.Derived(t) {
			v.Derived = &t
		}
	}
	return v
}

// Clear empties the form and invalidates in-flight submissions.
func (b *BoilingPoint) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.inputs = [3]string{}
	b.substance = ""
	b.targets.Clear()
	b.edited()
}
