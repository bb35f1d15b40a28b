package apptime

import "time"

// Clock abstracts the native time source an [Engine] derives application time
// from, so that engines can be tested deterministically. Production code uses
// [SystemClock]; tests may substitute a fake implementation to control the
// passage of native time.
//
// Implementations must be safe for concurrent use: Now is called from the
// engine's lock-free query path.
type Clock interface {
	// Now returns the current native time.
	Now() Timestamp
}

// SystemClock is a zero-value [Clock] backed by the real [time] package.
// It is safe for concurrent use because it holds no mutable state.
type SystemClock struct{}

// Now returns the current wall-clock time via [time.Now].
func (SystemClock) Now() Timestamp { return TimestampOf(time.Now()) }
