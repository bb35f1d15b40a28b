package apptime

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Engine derives "application time" from a native [Clock]. Depending on its
// [TimeMode], application time is the native reading unchanged, the native
// reading with a rate factor applied, or a value pushed by an external
// [CustomClock].
//
// All query methods are lock-free and never block, regardless of how many
// goroutines call them concurrently. Command methods are mutually exclusive
// with each other but never block queries: parameters are published as
// immutable snapshots behind an atomic pointer, so a reader always observes a
// self-consistent parameter set, never a mixture of old and new fields.
type Engine struct {
	clock Clock

	// mu serializes command operations (SetTimeStretching, SetTimeSource,
	// custom clock pushes, Close) against each other. Queries never take it.
	mu sync.Mutex

	params atomic.Pointer[stretching]
	mode   atomic.Int32

	// Custom clock slot: the last pushed timestamp, readable lock-free, and
	// the identity of the active clock, guarded by mu so that stale pushes
	// from a superseded clock can be told apart from live ones.
	customTime  AtomicTimestamp
	activeClock *CustomClock

	listeners *listenerRegistry
	closed    atomic.Bool
}

// Option configures an [Engine] during construction.
type Option func(*Engine)

// WithClock sets the native time source the engine derives application time
// from. The default is [SystemClock].
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// New creates an engine in [NativeTime] mode with a 1:1 stretching ratio and
// the time origin captured from the native clock.
func New(opts ...Option) *Engine {
	e := &Engine{
		clock:     SystemClock{},
		listeners: newListenerRegistry(),
	}

	for _, opt := range opts {
		opt(e)
	}

	origin := e.clock.Now()
	e.params.Store(&stretching{
		numerator:   1,
		denominator: 1,
		baseNative:  origin,
		baseApp:     origin,
	})

	return e
}

// Now returns the current application time. It never blocks and is safe to
// call from any goroutine at any frequency. After [Engine.Close] it falls
// back to the native clock reading.
func (e *Engine) Now() Timestamp {
	native := e.clock.Now()
	if e.closed.Load() {
		return native
	}

	return e.applicationTime(native)
}

// applicationTime maps a native reading to application time under the
// current mode.
func (e *Engine) applicationTime(native Timestamp) Timestamp {
	switch e.Mode() {
	case CustomClockTime:
		return e.customTime.Load()
	case StretchedTime:
		return e.params.Load().appTime(native)
	default:
		return native
	}
}

// Mode returns the current [TimeMode].
func (e *Engine) Mode() TimeMode {
	return TimeMode(e.mode.Load())
}

// Stretching returns the current stretching ratio. Application time
// progresses numerator/denominator times as fast as native time while the
// engine is in [StretchedTime] mode.
func (e *Engine) Stretching() (numerator, denominator uint) {
	p := e.params.Load()

	return uint(p.numerator), uint(p.denominator)
}

// ToSystemDuration converts a duration expressed in application time into a
// native-clock duration, suitable for blocking-wait primitives (e.g. a
// timeout expressed in virtual time). Under [NativeTime] and
// [CustomClockTime] the duration passes through unchanged, since no inverse
// mapping exists for an externally driven clock.
func (e *Engine) ToSystemDuration(appDuration time.Duration) time.Duration {
	if e.closed.Load() || e.Mode() != StretchedTime {
		return appDuration
	}

	return e.params.Load().toSystem(appDuration)
}

// SetTimeStretching changes the rate at which application time advances:
// numerator/denominator times as fast as native time, both in
// [1, MaxStretchFactor]. A factor below one means the application runs in
// slow motion. May be called frequently while the application is executing.
//
// The mapping is re-anchored at the present instant, so application time is
// continuous across the change with no visible jump. Requesting the ratio that
// is already in effect is a no-op and emits no notifications. On success the
// time mode becomes [StretchedTime].
func (e *Engine) SetTimeStretching(numerator, denominator uint) error {
	if !validStretchFactor(numerator) || !validStretchFactor(denominator) {
		return fmt.Errorf("%w: %d/%d not in [1, %d]",
			ErrInvalidStretching, numerator, denominator, MaxStretchFactor)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed.Load() {
		return ErrEngineClosed
	}

	cur := e.params.Load()
	num, den := uint32(numerator), uint32(denominator)

	if cur.sameRatio(num, den) {
		return nil
	}

	native := e.clock.Now()
	app := e.applicationTime(native)
	faster := ratioFaster(num, den, cur.numerator, cur.denominator)

	e.params.Store(&stretching{
		numerator:   num,
		denominator: den,
		baseNative:  native,
		baseApp:     app,
	})

	if e.setMode(StretchedTime) {
		e.listeners.notifyModeChanged(StretchedTime)
	}

	e.listeners.notifyStretchingChanged(faster)

	return nil
}

// SetTimeSource installs clock as the active external time source and sets
// application time to initial; the time mode becomes [CustomClockTime].
// Passing nil clears the external clock and switches back to
// [StretchedTime] without altering the stretching parameters; initial is
// ignored in that case.
func (e *Engine) SetTimeSource(clock *CustomClock, initial Timestamp) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed.Load() {
		return ErrEngineClosed
	}

	if clock == nil {
		e.activeClock = nil

		if e.setMode(StretchedTime) {
			e.listeners.notifyModeChanged(StretchedTime)
		}

		return nil
	}

	e.activeClock = clock
	clock.engine.Store(e)
	e.customTime.Store(initial)

	if e.setMode(CustomClockTime) {
		e.listeners.notifyModeChanged(CustomClockTime)
	}

	e.listeners.notifyTimeChanged(initial)

	return nil
}

// pushTime applies a time update from a custom clock. Updates from a clock
// that is no longer the installed one are an expected race during source
// replacement and are dropped silently.
func (e *Engine) pushTime(c *CustomClock, now Timestamp) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed.Load() || e.activeClock != c || e.Mode() != CustomClockTime {
		return
	}

	e.customTime.Store(now)
	e.listeners.notifyTimeChanged(now)
}

// setMode stores m and reports whether the stored mode actually changed.
func (e *Engine) setMode(m TimeMode) bool {
	return e.mode.Swap(int32(m)) != int32(m)
}

// Subscribe registers l for time-base change notifications and returns its
// [Subscription] handle. Cancel the subscription when the listener's owner
// goes away.
func (e *Engine) Subscribe(l Listener) *Subscription {
	return e.listeners.subscribe(l)
}

// Close shuts the engine down. Afterwards command operations return
// [ErrEngineClosed], custom clock pushes are dropped, all listeners are
// released, and [Engine.Now] returns the native clock reading. Close is
// idempotent and safe to call concurrently with queries.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.closed.Store(true)
	e.activeClock = nil
	e.listeners.close()
}

// Status is a point-in-time snapshot of an engine's time base, for health
// endpoints and diagnostics.
type Status struct {
	Mode        string    `json:"mode"`
	Now         Timestamp `json:"now"`
	Numerator   uint      `json:"numerator"`
	Denominator uint      `json:"denominator"`
	Rate        float64   `json:"rate"`
	Closed      bool      `json:"closed,omitempty"`
}

// Status returns the engine's current time base as a [Status] snapshot.
func (e *Engine) Status() Status {
	num, den := e.Stretching()

	return Status{
		Mode:        e.Mode().String(),
		Now:         e.Now(),
		Numerator:   num,
		Denominator: den,
		Rate:        float64(num) / float64(den),
		Closed:      e.closed.Load(),
	}
}
