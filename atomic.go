package apptime

import (
	"sync/atomic"
	"time"
)

// AtomicTimestamp boxes a single [Timestamp] so that it can be exchanged
// safely among goroutines. The zero value holds [NoTime] and is ready to use.
type AtomicTimestamp struct {
	v atomic.Int64
}

// Load atomically returns the stored timestamp.
func (a *AtomicTimestamp) Load() Timestamp {
	return Timestamp(a.v.Load())
}

// Store atomically replaces the stored timestamp.
func (a *AtomicTimestamp) Store(t Timestamp) {
	a.v.Store(int64(t))
}

// Swap atomically replaces the stored timestamp and returns the previous one.
func (a *AtomicTimestamp) Swap(t Timestamp) Timestamp {
	return Timestamp(a.v.Swap(int64(t)))
}

// AtomicDuration boxes a single [time.Duration] so that it can be exchanged
// safely among goroutines. The zero value holds 0 and is ready to use.
type AtomicDuration struct {
	v atomic.Int64
}

// Load atomically returns the stored duration.
func (a *AtomicDuration) Load() time.Duration {
	return time.Duration(a.v.Load())
}

// Store atomically replaces the stored duration.
func (a *AtomicDuration) Store(d time.Duration) {
	a.v.Store(int64(d))
}

// Swap atomically replaces the stored duration and returns the previous one.
func (a *AtomicDuration) Swap(d time.Duration) time.Duration {
	return time.Duration(a.v.Swap(int64(d)))
}
