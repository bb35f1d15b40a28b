package apptime

import (
	"sync"
	"sync/atomic"
)

// Listener observes time-base changes of an [Engine]. Implementations are
// invoked synchronously from the command operation that caused the change,
// after the new state has been published, so a callback that queries the
// engine observes the new time base. Callbacks must not invoke command
// operations of the same engine.
type Listener interface {
	// TimeChanged is called whenever application time is set from an
	// external entity (custom clock installation or push).
	TimeChanged(now Timestamp)

	// TimeModeChanged is called whenever the engine's time mode changes.
	TimeModeChanged(mode TimeMode)

	// TimeStretchingChanged is called whenever the time stretching factor
	// changes. faster is true if application time flows faster than before.
	TimeStretchingChanged(faster bool)
}

// ListenerFuncs adapts plain callback functions to the [Listener] interface.
// All fields are nil by default; callers set only the callbacks they care
// about. Once subscribed, a ListenerFuncs value must not be mutated: the
// methods read the function fields without synchronisation, which is safe as
// long as the struct is read-only after initialisation.
type ListenerFuncs struct {
	OnTimeChanged           func(now Timestamp)
	OnTimeModeChanged       func(mode TimeMode)
	OnTimeStretchingChanged func(faster bool)
}

// TimeChanged implements [Listener].
func (l ListenerFuncs) TimeChanged(now Timestamp) {
	if l.OnTimeChanged != nil {
		l.OnTimeChanged(now)
	}
}

// TimeModeChanged implements [Listener].
func (l ListenerFuncs) TimeModeChanged(mode TimeMode) {
	if l.OnTimeModeChanged != nil {
		l.OnTimeModeChanged(mode)
	}
}

// TimeStretchingChanged implements [Listener].
func (l ListenerFuncs) TimeStretchingChanged(faster bool) {
	if l.OnTimeStretchingChanged != nil {
		l.OnTimeStretchingChanged(faster)
	}
}

// Subscription is a handle to a registered [Listener]. Cancelling the
// subscription on all exit paths (typically via defer) guarantees the
// listener is released exactly once.
type Subscription struct {
	registry *listenerRegistry
	id       uint64
}

// Cancel removes the subscription's listener from the engine. It is
// idempotent: cancelling an already-cancelled subscription is a no-op.
func (s *Subscription) Cancel() {
	s.registry.remove(s.id)
}

// subscriber pairs a listener with the identity of its subscription.
type subscriber struct {
	listener Listener
	id       uint64
}

// listenerRegistry tracks subscribed listeners and broadcasts notifications.
//
// Writes (subscribe, remove, close) are serialized by mu and publish a fresh
// slice copy-on-write, so broadcasts iterate a snapshot without holding any
// lock: a callback that subscribes or cancels another listener can neither
// deadlock nor corrupt the in-progress iteration.
type listenerRegistry struct {
	subs   atomic.Pointer[[]subscriber]
	nextID uint64
	mu     sync.Mutex
	closed bool
}

func newListenerRegistry() *listenerRegistry {
	r := &listenerRegistry{}

	var empty []subscriber

	r.subs.Store(&empty)

	return r
}

// subscribe registers l and returns its subscription handle. After close,
// the listener is not retained and the returned handle cancels nothing.
func (r *listenerRegistry) subscribe(l Listener) *Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	sub := &Subscription{registry: r, id: r.nextID}

	if r.closed {
		return sub
	}

	old := *r.subs.Load()
	updated := make([]subscriber, len(old), len(old)+1)
	copy(updated, old)
	updated = append(updated, subscriber{listener: l, id: sub.id})
	r.subs.Store(&updated)

	return sub
}

func (r *listenerRegistry) remove(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	old := *r.subs.Load()
	updated := make([]subscriber, 0, len(old))

	for _, s := range old {
		if s.id != id {
			updated = append(updated, s)
		}
	}

	r.subs.Store(&updated)
}

// close drops all listeners; subsequent subscribe, remove and broadcast
// calls are safe no-ops.
func (r *listenerRegistry) close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true

	var empty []subscriber

	r.subs.Store(&empty)
}

func (r *listenerRegistry) notifyTimeChanged(now Timestamp) {
	for _, s := range *r.subs.Load() {
		s.listener.TimeChanged(now)
	}
}

func (r *listenerRegistry) notifyModeChanged(mode TimeMode) {
	for _, s := range *r.subs.Load() {
		s.listener.TimeModeChanged(mode)
	}
}

func (r *listenerRegistry) notifyStretchingChanged(faster bool) {
	for _, s := range *r.subs.Load() {
		s.listener.TimeStretchingChanged(faster)
	}
}
