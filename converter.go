package gauge

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

const (
	defaultValueDebounce = 800 * time.Millisecond
	defaultUnitDebounce  = 500 * time.Millisecond
	defaultTimeout       = 10 * time.Second
)

// Conversion is one row of a converter's result table.
type Conversion struct {
	Unit    Unit
	Value   float64
	Display string
}

// View is a consistent snapshot of a converter.
type View struct {
	Name      string
	Primary   Field
	Secondary Field
	Source    Side
	State     State
	Epoch     uint64
	Results   []Conversion
	Err       error
	Message   string
}

// Field returns the field for side.
func (v View) Field(side Side) Field {
	if side == Secondary {
		return v.Secondary
	}
	return v.Primary
}

type ticket struct {
	epoch  uint64
	side   Side
	req    ConversionRequest
	issued time.Time
}

// Converter keeps two linked fields consistent through a Provider.
//
// The side the user edited last is the change source. Edits are debounced
// per side and kind (value or unit), the provider is asked for the full
// fan-out of the source value, and the result is written into the other
// side. Each issued request captures an epoch; a response is applied only
// while its epoch is still current, so slow responses never overwrite newer
// input.
//
// All methods are safe for concurrent use. Transitions are serialized by a
// single mutex. Signals and OnChange callbacks are delivered after the mutex
// is released; OnChange may be invoked from several goroutines at once.
type Converter struct {
	name     string
	catalog  *Catalog
	provider Provider

	defaultText   string
	defaultUnits  [2]UnitID
	valueDebounce time.Duration
	unitDebounce  time.Duration
	timeout       time.Duration
	clock         clockz.Clock
	metrics       MetricsProvider
	onChange      func(View)
	historySize   int

	mu        sync.Mutex
	started   bool
	closed    bool
	ctx       context.Context
	cancel    context.CancelFunc
	debouncer *Debouncer[uint64]

	fields       [2]Field
	source       Side
	state        State
	epoch        uint64
	seq          uint64
	timers       map[string]uint64
	cache        FanOut
	lastErr      error
	errorHistory *errorRing

	outbox  []func(context.Context)
	changed bool
}

// NewConverter creates a Converter over catalog. The primary field starts
// empty in the catalog's first unit and the secondary in its second.
func NewConverter(name string, catalog *Catalog, provider Provider) *Converter {
	units := catalog.Units()
	primary := units[0].ID
	secondary := primary
	if len(units) > 1 {
		secondary = units[1].ID
	}
	return &Converter{
		name:          name,
		catalog:       catalog,
		provider:      provider,
		defaultUnits:  [2]UnitID{primary, secondary},
		valueDebounce: defaultValueDebounce,
		unitDebounce:  defaultUnitDebounce,
		timeout:       defaultTimeout,
		clock:         clockz.RealClock,
		timers:        make(map[string]uint64),
	}
}

// NewPressureConverter creates a pressure Converter: 1 Pa to bar, 800ms value
// and 500ms unit debounce.
func NewPressureConverter(provider Provider) *Converter {
	return NewConverter("pressure", PressureCatalog(), provider).
		Defaults("1", "pa", "bar")
}

// NewVacuumConverter creates a vacuum Converter: 1 atm to atm, 500ms value
// and 300ms unit debounce.
func NewVacuumConverter(provider Provider) *Converter {
	return NewConverter("vacuum", VacuumCatalog(), provider).
		Defaults("1", "atm", "atm").
		ValueDebounce(500 * time.Millisecond).
		UnitDebounce(300 * time.Millisecond)
}

// Defaults sets the initial primary text and the units of both sides.
// Start and Reset restore these values. Must be called before Start.
func (c *Converter) Defaults(text string, primary, secondary UnitID) *Converter {
	c.defaultText = text
	c.defaultUnits = [2]UnitID{primary, secondary}
	return c
}

// ValueDebounce sets how long a text edit must settle before converting.
// Must be called before Start.
func (c *Converter) ValueDebounce(d time.Duration) *Converter {
	c.valueDebounce = d
	return c
}

// UnitDebounce sets how long a unit change must settle before converting.
// Must be called before Start.
func (c *Converter) UnitDebounce(d time.Duration) *Converter {
	c.unitDebounce = d
	return c
}

// Timeout bounds every provider call. Zero disables the bound.
// Must be called before Start.
func (c *Converter) Timeout(d time.Duration) *Converter {
	c.timeout = d
	return c
}

// Clock sets the clock used for debouncing and timeouts.
// Must be called before Start.
func (c *Converter) Clock(clock clockz.Clock) *Converter {
	c.clock = clock
	return c
}

// Metrics sets a metrics provider. Must be called before Start.
func (c *Converter) Metrics(m MetricsProvider) *Converter {
	c.metrics = m
	return c
}

// ErrorHistorySize retains the last n request failures, available via
// ErrorHistory. Must be called before Start.
func (c *Converter) ErrorHistorySize(n int) *Converter {
	c.historySize = n
	return c
}

// OnChange registers a callback receiving a View after every change to
// fields, state or results. Must be called before Start.
func (c *Converter) OnChange(fn func(View)) *Converter {
	c.onChange = fn
	return c
}

// Name returns the converter name.
func (c *Converter) Name() string { return c.name }

// Catalog returns the converter's unit catalog.
func (c *Converter) Catalog() *Catalog { return c.catalog }

// Start initializes the fields from the defaults and runs the first
// conversion synchronously if the default text is complete. Its error, if
// any, is returned and also recorded as LastError.
//
// Cancelling ctx closes the converter. Start can only be called once.
func (c *Converter) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.started {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	for _, u := range c.defaultUnits {
		if _, err := c.catalog.Lookup(u); err != nil {
			c.mu.Unlock()
			return fmt.Errorf("default unit: %w", err)
		}
	}
	if !IsPartial(c.defaultText) {
		c.mu.Unlock()
		return fmt.Errorf("default text %q is not numeric", c.defaultText)
	}
	if c.clock == nil {
		c.clock = clockz.RealClock
	}

	c.started = true
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.debouncer = NewDebouncer[uint64](c.clock)
	c.errorHistory = newErrorRing(c.historySize)
	c.fields = [2]Field{
		{Text: c.defaultText, Unit: c.defaultUnits[Primary]},
		{Unit: c.defaultUnits[Secondary]},
	}
	c.source = Primary
	c.changed = true
	c.emit(func(ctx context.Context) {
		capitan.Emit(ctx, ConverterStarted,
			KeyConverter.Field(c.name),
			KeyDebounce.Field(c.valueDebounce),
		)
	})
	t, ok := c.begin(Primary)
	c.unlock()

	go func() {
		<-c.ctx.Done()
		_ = c.Close()
	}()

	if !ok {
		return nil
	}
	return c.settle(c.ctx, t)
}

// SetText applies a keystroke-level edit to side. Text that is not a
// partial number is rejected with an InvalidInput error and the field keeps
// its previous text.
func (c *Converter) SetText(side Side, text string) error {
	if !side.valid() {
		return invalidInput("side", fmt.Sprintf("unknown side %d", side))
	}

	c.mu.Lock()
	defer c.unlock()

	if err := c.usableLocked(); err != nil {
		return err
	}
	if !IsPartial(text) {
		c.emit(func(ctx context.Context) {
			capitan.Emit(ctx, ConverterEditRejected,
				KeyConverter.Field(c.name),
				KeySide.Field(side.String()),
				KeyValue.Field(text),
			)
		})
		return invalidInput(side.String(), fmt.Sprintf("%q is not a number", text))
	}
	if c.fields[side].Text == text && c.source == side {
		return nil
	}

	c.fields[side].Text = text
	c.changed = true
	c.edit(side)
	c.schedule(side, "value", c.valueDebounce)
	return nil
}

// SetUnit changes the unit of side.
//
// On the change source the value is reconverted after the unit debounce.
// On the dependent side the new unit is served from the cached fan-out when
// available, without a provider call; otherwise the edited side becomes the
// change source and its value is reconverted.
func (c *Converter) SetUnit(side Side, unit UnitID) error {
	if !side.valid() {
		return invalidInput("side", fmt.Sprintf("unknown side %d", side))
	}
	if _, err := c.catalog.Lookup(unit); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.unlock()

	if err := c.usableLocked(); err != nil {
		return err
	}
	if c.fields[side].Unit == unit {
		return nil
	}

	c.fields[side].Unit = unit
	c.changed = true

	if side != c.source {
		if v, ok := c.cache.Lookup(unit); ok {
			c.fields[side].Text = FormatField(v)
			c.emit(func(ctx context.Context) {
				capitan.Emit(ctx, ConverterUnitResolved,
					KeyConverter.Field(c.name),
					KeySide.Field(side.String()),
					KeyUnit.Field(string(unit)),
				)
			})
			return nil
		}
	}

	c.edit(side)
	c.schedule(side, "unit", c.unitDebounce)
	return nil
}

// Swap exchanges both fields without a provider call. Pending edits and
// in-flight requests are discarded. The source becomes the secondary side
// only when it alone holds a complete value. The cached fan-out is kept.
func (c *Converter) Swap() error {
	c.mu.Lock()
	defer c.unlock()

	if err := c.usableLocked(); err != nil {
		return err
	}

	c.cancelTimers()
	c.epoch++
	c.fields[Primary], c.fields[Secondary] = c.fields[Secondary], c.fields[Primary]
	c.source = Primary
	if !c.fields[Primary].Complete() && c.fields[Secondary].Complete() {
		c.source = Secondary
	}
	c.changed = true
	c.setState(StateIdle)
	c.emit(func(ctx context.Context) {
		capitan.Emit(ctx, ConverterSwapped,
			KeyConverter.Field(c.name),
			KeySide.Field(c.source.String()),
		)
	})
	return nil
}

// Convert immediately converts from the change source, or from the other
// side when only it holds a complete value, and blocks until the response
// is applied. A response superseded by a concurrent edit returns nil.
func (c *Converter) Convert(ctx context.Context) error {
	c.mu.Lock()
	if err := c.usableLocked(); err != nil {
		c.unlock()
		return err
	}
	side := c.source
	if !c.fields[side].Complete() {
		side = side.Other()
	}
	if !c.fields[side].Complete() {
		c.unlock()
		return ErrNoValue
	}
	c.cancelTimers()
	if side != c.source {
		c.source = side
		c.changed = true
	}
	t, _ := c.begin(side)
	live := c.ctx
	c.unlock()

	callCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(live, cancel)
	defer stop()

	return c.settle(callCtx, t)
}

// Clear empties both fields and the results and discards pending work.
func (c *Converter) Clear() error {
	c.mu.Lock()
	defer c.unlock()

	if err := c.usableLocked(); err != nil {
		return err
	}
	c.cancelTimers()
	c.epoch++
	c.fields[Primary].Text = ""
	c.fields[Secondary].Text = ""
	c.source = Primary
	c.cache.Clear()
	c.lastErr = nil
	c.changed = true
	c.setState(StateIdle)
	return nil
}

// Reset restores the defaults and schedules the primary conversion.
func (c *Converter) Reset() error {
	c.mu.Lock()
	defer c.unlock()

	if err := c.usableLocked(); err != nil {
		return err
	}
	c.cancelTimers()
	c.fields = [2]Field{
		{Text: c.defaultText, Unit: c.defaultUnits[Primary]},
		{Unit: c.defaultUnits[Secondary]},
	}
	c.lastErr = nil
	c.errorHistory.clear()
	c.changed = true
	c.edit(Primary)
	c.schedule(Primary, "value", c.valueDebounce)
	return nil
}

// Close stops the converter. Pending timers are cancelled, the request
// context is cancelled and later edits return ErrClosed. Close is
// idempotent.
func (c *Converter) Close() error {
	c.mu.Lock()
	defer c.unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.epoch++
	if c.debouncer != nil {
		c.debouncer.Stop()
	}
	clear(c.timers)
	if c.cancel != nil {
		c.cancel()
	}
	state := c.state
	c.emit(func(ctx context.Context) {
		capitan.Emit(ctx, ConverterStopped,
			KeyConverter.Field(c.name),
			KeyState.Field(state.String()),
		)
	})
	return nil
}

// State returns the current state.
func (c *Converter) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Source returns the current change source.
func (c *Converter) Source() Side {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.source
}

// Field returns the current field for side.
func (c *Converter) Field(side Side) Field {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !side.valid() {
		return Field{}
	}
	return c.fields[side]
}

// Epoch returns the live epoch.
func (c *Converter) Epoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

// LastError returns the error of the last failed request, or nil after a
// success.
func (c *Converter) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// ErrorHistory returns recent request failures since the last success,
// oldest first. Returns nil if history is not enabled (see ErrorHistorySize).
func (c *Converter) ErrorHistory() []error {
	return c.errorHistory.all()
}

// Results returns the cached fan-out in catalog order, or nil when empty.
func (c *Converter) Results() []Conversion {
	return c.results()
}

// Snapshot returns a consistent view of the converter.
func (c *Converter) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *Converter) viewLocked() View {
	return View{
		Name:      c.name,
		Primary:   c.fields[Primary],
		Secondary: c.fields[Secondary],
		Source:    c.source,
		State:     c.state,
		Epoch:     c.epoch,
		Results:   c.results(),
		Err:       c.lastErr,
		Message:   Message(c.lastErr),
	}
}

func (c *Converter) results() []Conversion {
	res, ok := c.cache.Get()
	if !ok {
		return nil
	}
	out := make([]Conversion, 0, len(res))
	for _, u := range c.catalog.units {
		v, ok := res[u.ID]
		if !ok {
			continue
		}
		out = append(out, Conversion{Unit: u, Value: v, Display: FormatDisplay(v)})
	}
	return out
}

func (c *Converter) usableLocked() error {
	if c.closed {
		return ErrClosed
	}
	if !c.started {
		return ErrNotStarted
	}
	return nil
}

// edit records an accepted edit on side. The caller schedules the debounce.
func (c *Converter) edit(side Side) {
	c.source = side
	for _, kind := range [...]string{"value", "unit"} {
		c.cancelTimer(timerKey(side.Other(), kind))
	}
	c.cache.Clear()
	c.epoch++
	c.setState(StateAwaitingDebounce)
	if c.metrics != nil {
		c.metrics.OnEditReceived(side)
	}
	epoch := c.epoch
	c.emit(func(ctx context.Context) {
		capitan.Emit(ctx, ConverterEditReceived,
			KeyConverter.Field(c.name),
			KeySide.Field(side.String()),
			KeyEpoch.Field(int(epoch)),
		)
	})
}

func timerKey(side Side, kind string) string {
	return side.String() + "-" + kind
}

func (c *Converter) schedule(side Side, kind string, delay time.Duration) {
	key := timerKey(side, kind)
	c.seq++
	seq := c.seq
	c.timers[key] = seq
	c.debouncer.Schedule(key, seq, delay, func(seq uint64) {
		c.fire(side, key, seq)
	})
}

func (c *Converter) cancelTimer(key string) {
	delete(c.timers, key)
	c.debouncer.Cancel(key)
}

func (c *Converter) cancelTimers() {
	clear(c.timers)
	c.debouncer.CancelAll()
}

// fire runs when a debounce timer elapses. The last timer of the source
// side to fire performs the conversion.
func (c *Converter) fire(side Side, key string, seq uint64) {
	c.mu.Lock()
	if c.closed || c.timers[key] != seq {
		c.unlock()
		return
	}
	delete(c.timers, key)
	if side != c.source {
		c.unlock()
		return
	}
	for _, kind := range [...]string{"value", "unit"} {
		if _, pending := c.timers[timerKey(side, kind)]; pending {
			c.unlock()
			return
		}
	}
	t, ok := c.begin(side)
	live := c.ctx
	c.unlock()

	if ok {
		_ = c.settle(live, t) //nolint:errcheck // Errors stored via setError
	}
}

// begin issues a request for side's value, or clears the dependent side
// when the value is not complete.
func (c *Converter) begin(side Side) (ticket, bool) {
	src := c.fields[side]
	v, ok := src.Value()
	if !ok {
		if c.fields[side.Other()].Text != "" {
			c.fields[side.Other()].Text = ""
			c.changed = true
		}
		c.cache.Clear()
		c.setState(StateIdle)
		return ticket{}, false
	}

	c.epoch++
	t := ticket{
		epoch:  c.epoch,
		side:   side,
		req:    ConversionRequest{Value: v, FromUnit: src.Unit, ToUnit: AllUnits},
		issued: c.clock.Now(),
	}
	c.lastErr = nil
	c.setState(StateRequestInFlight)
	c.emit(func(ctx context.Context) {
		capitan.Emit(ctx, ConverterRequestIssued,
			KeyConverter.Field(c.name),
			KeySide.Field(side.String()),
			KeyUnit.Field(string(src.Unit)),
			KeyEpoch.Field(int(t.epoch)),
		)
	})
	return t, true
}

// settle performs the provider call for t and applies its outcome.
func (c *Converter) settle(ctx context.Context, t ticket) error {
	res, err := WithTimeout(ctx, c.clock, c.timeout, func(ctx context.Context) (ConversionResult, error) {
		return c.provider.Convert(ctx, t.req)
	})
	if err != nil && ctx.Err() != nil {
		return c.abandon(ctx, t)
	}
	err = c.complete(t, res, err)
	if IsStale(err) {
		return nil
	}
	return err
}

// abandon drops a request whose caller went away. Nothing is recorded as a
// failure; a still-current request returns the converter to Idle.
func (c *Converter) abandon(ctx context.Context, t ticket) error {
	c.mu.Lock()
	defer c.unlock()

	if c.closed {
		return ErrClosed
	}
	if t.epoch == c.epoch {
		c.setState(StateIdle)
	}
	return ctx.Err()
}

func (c *Converter) complete(t ticket, res ConversionResult, err error) error {
	c.mu.Lock()
	defer c.unlock()

	elapsed := c.clock.Since(t.issued)

	if c.closed {
		return ErrClosed
	}
	if t.epoch != c.epoch {
		if c.metrics != nil {
			c.metrics.OnStaleResponse()
		}
		c.emit(func(ctx context.Context) {
			capitan.Emit(ctx, ConverterResponseStale,
				KeyConverter.Field(c.name),
				KeyEpoch.Field(int(t.epoch)),
			)
		})
		return staleError(t.epoch)
	}

	if err == nil {
		err = c.catalog.CheckComplete(res)
	}
	if err != nil {
		if KindOf(err) == 0 {
			err = NetworkError(err)
		}
		c.fail(t, err, elapsed)
		return err
	}

	c.cache.Set(res)
	dep := t.side.Other()
	c.fields[dep].Text = FormatField(res[c.fields[dep].Unit])
	c.lastErr = nil
	c.errorHistory.clear()
	c.changed = true
	c.setState(StateSettled)
	if c.metrics != nil {
		c.metrics.OnRequestSuccess(elapsed)
	}
	c.emit(func(ctx context.Context) {
		capitan.Emit(ctx, ConverterRequestSucceeded,
			KeyConverter.Field(c.name),
			KeyEpoch.Field(int(t.epoch)),
		)
	})
	return nil
}

func (c *Converter) fail(t ticket, err error, elapsed time.Duration) {
	dep := t.side.Other()
	c.fields[dep].Text = ""
	c.cache.Clear()
	c.setError(err)
	c.changed = true
	c.setState(StateError)
	kind := KindOf(err)
	if c.metrics != nil {
		c.metrics.OnRequestFailure(kind, elapsed)
	}
	c.emit(func(ctx context.Context) {
		capitan.Emit(ctx, ConverterRequestFailed,
			KeyConverter.Field(c.name),
			KeyKind.Field(kind.String()),
			KeyError.Field(err.Error()),
			KeyEpoch.Field(int(t.epoch)),
		)
	})
}

// setError stores an error and adds it to the error history.
func (c *Converter) setError(err error) {
	c.lastErr = err
	c.errorHistory.push(err)
}

// setState updates the state and queues a state change event if changed.
func (c *Converter) setState(s State) {
	old := c.state
	if old == s {
		return
	}
	c.state = s
	c.changed = true
	if c.metrics != nil {
		c.metrics.OnStateChange(old, s)
	}
	c.emit(func(ctx context.Context) {
		capitan.Emit(ctx, ConverterStateChanged,
			KeyConverter.Field(c.name),
			KeyOldState.Field(old.String()),
			KeyNewState.Field(s.String()),
		)
	})
}

// emit queues an event for delivery once the mutex is released.
func (c *Converter) emit(fn func(context.Context)) {
	c.outbox = append(c.outbox, fn)
}

// unlock releases the mutex, then delivers queued events and the change
// callback.
func (c *Converter) unlock() {
	out := c.outbox
	c.outbox = nil
	var view View
	notify := c.changed && c.onChange != nil
	if notify {
		view = c.viewLocked()
	}
	c.changed = false
	c.mu.Unlock()

	ctx := context.Background()
	for _, fn := range out {
		fn(ctx)
	}
	if notify {
		c.onChange(view)
	}
}
