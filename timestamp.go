package apptime

import "time"

// Timestamp is a point in application or system time, expressed as a signed
// nanosecond tick count since the Unix epoch. It is a plain integer so that
// it can be exchanged between goroutines with a single atomic operation
// (see [AtomicTimestamp]) and packed into lock-free structures.
//
// Durations between timestamps are ordinary [time.Duration] values, so
// Timestamp arithmetic is closed under addition and subtraction.
type Timestamp int64

// NoTime is a distinguished sentinel meaning "no time", "not set" or "never"
// (e.g. for a deadline). It is the zero value of [Timestamp].
const NoTime Timestamp = 0

// TimestampOf converts a [time.Time] into a [Timestamp].
func TimestampOf(t time.Time) Timestamp {
	return Timestamp(t.UnixNano())
}

// Time converts the timestamp into a [time.Time] in the local time zone.
// The result for NoTime is the Unix epoch.
func (t Timestamp) Time() time.Time {
	return time.Unix(0, int64(t))
}

// Add returns the timestamp shifted by duration d, which may be negative.
func (t Timestamp) Add(d time.Duration) Timestamp {
	return t + Timestamp(d)
}

// Sub returns the duration t - u.
func (t Timestamp) Sub(u Timestamp) time.Duration {
	return time.Duration(t - u)
}

// Before reports whether t is earlier than u.
func (t Timestamp) Before(u Timestamp) bool { return t < u }

// After reports whether t is later than u.
func (t Timestamp) After(u Timestamp) bool { return t > u }

// IsZero reports whether t is the [NoTime] sentinel.
func (t Timestamp) IsZero() bool { return t == NoTime }

// String returns the ISO 8601 representation of the timestamp.
func (t Timestamp) String() string { return t.ISOString() }
