package apptime

// TimeMode describes how an [Engine] derives application time. Exactly one
// mode is active at any instant; transitions happen only through
// [Engine.SetTimeStretching] and [Engine.SetTimeSource].
type TimeMode int32

const (
	// NativeTime means application time is identical to native system time.
	NativeTime TimeMode = iota
	// StretchedTime means application time is native system time with a
	// numerator/denominator rate factor applied.
	StretchedTime
	// CustomClockTime means application time is set by an external entity
	// through a [CustomClock].
	CustomClockTime
)

// String returns the time mode as a human-readable string.
func (m TimeMode) String() string {
	switch m {
	case StretchedTime:
		return "stretched"
	case CustomClockTime:
		return "custom_clock"
	default:
		return "native"
	}
}
