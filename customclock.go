package apptime

import "sync/atomic"

// CustomClock lets an external entity drive application time. The driving
// time does not need to be related to real or system time in any (linear)
// way. Between calls to [CustomClock.SetApplicationTime], application time
// stays the same, so pushes should happen with relatively high frequency.
//
// A CustomClock becomes the active time source by passing it to
// [Engine.SetTimeSource]. The clock's identity (its pointer) validates
// pushes: once a clock has been superseded by another source, its remaining
// pushes are dropped silently.
//
// Embed CustomClock to build concrete time sources; see [NTPClock].
type CustomClock struct {
	engine atomic.Pointer[Engine]
}

// SetApplicationTime pushes a new application time to the engine this clock
// was installed on. The push only takes effect while this clock is still the
// installed time source and the engine is in [CustomClockTime] mode.
func (c *CustomClock) SetApplicationTime(now Timestamp) {
	if e := c.engine.Load(); e != nil {
		e.pushTime(c, now)
	}
}
