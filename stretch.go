package apptime

import "time"

// MaxStretchFactor bounds the numerator and denominator of the time
// stretching ratio. Both must lie in [1, MaxStretchFactor].
const MaxStretchFactor = 1_000_000

// mulFirstBits is the tick-count magnitude threshold for the order of rate
// arithmetic. Tick counts whose magnitude fits in this many bits are
// multiplied before dividing (maximum precision); larger counts are divided
// first to avoid int64 overflow across multi-decade runtimes. At nanosecond
// resolution the precision lost by dividing first is below one microsecond
// even for denominators of [MaxStretchFactor].
//
// 43 is the largest safe width: 2^43 * MaxStretchFactor < 2^63, so the
// multiply-first product cannot overflow for any permitted factor.
const mulFirstBits = 43

// scale returns d * num / den, choosing the evaluation order by magnitude as
// described at [mulFirstBits].
func scale(d time.Duration, num, den uint32) time.Duration {
	ticks := int64(d)
	if s := ticks >> mulFirstBits; s == 0 || s == -1 {
		return time.Duration(ticks * int64(num) / int64(den))
	}
	return time.Duration(ticks / int64(den) * int64(num))
}

// stretching is an immutable snapshot of the time stretching parameters.
// Application time progresses numerator/denominator times as fast as native
// time, anchored so that the mapping is continuous across rate changes:
//
//	app = baseApp + (native - baseNative) * numerator / denominator
//
// baseNative and baseApp are the native and application time captured at the
// moment the current ratio was installed, which guarantees that application
// time does not jump when the ratio changes.
//
// A snapshot is never mutated after publication; the engine's writer replaces
// the whole snapshot behind an atomic pointer, so readers always observe a
// self-consistent parameter set.
type stretching struct {
	numerator   uint32
	denominator uint32
	baseNative  Timestamp
	baseApp     Timestamp
}

// appTime maps a native reading to application time.
func (s *stretching) appTime(native Timestamp) Timestamp {
	return s.baseApp.Add(scale(native.Sub(s.baseNative), s.numerator, s.denominator))
}

// toSystem applies the reciprocal ratio, converting an application-time
// duration into a native-clock duration.
func (s *stretching) toSystem(d time.Duration) time.Duration {
	return scale(d, s.denominator, s.numerator)
}

// sameRatio reports whether num/den equals the snapshot's ratio.
// Compared exactly via cross multiplication; both factors are bounded by
// [MaxStretchFactor], so the products cannot overflow uint64.
func (s *stretching) sameRatio(num, den uint32) bool {
	return uint64(s.numerator)*uint64(den) == uint64(num)*uint64(s.denominator)
}

// ratioFaster reports whether newNum/newDen is a higher rate than
// oldNum/oldDen.
func ratioFaster(newNum, newDen, oldNum, oldDen uint32) bool {
	return uint64(newNum)*uint64(oldDen) > uint64(oldNum)*uint64(newDen)
}

// validStretchFactor reports whether v may be used as a stretching numerator
// or denominator.
func validStretchFactor(v uint) bool {
	return v >= 1 && v <= MaxStretchFactor
}
