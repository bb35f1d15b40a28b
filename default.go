package apptime

import (
	"sync"
	"time"
)

//nolint:gochecknoglobals // singleton via sync.OnceValue
var defaultEngine = sync.OnceValue(func() *Engine { return New() })

// Default returns the package-level engine, creating it on first call.
//
// Pattern: Singleton. Lazy initialization via sync.OnceValue ensures exactly
// one process-wide engine exists and is safe for concurrent access. Prefer an
// explicitly constructed [Engine] when lifetime or injection matters.
func Default() *Engine {
	return defaultEngine()
}

// Now returns the current application time of the default engine.
func Now() Timestamp {
	return Default().Now()
}

// Mode returns the current time mode of the default engine.
func Mode() TimeMode {
	return Default().Mode()
}

// SetTimeStretching changes the stretching ratio of the default engine.
// See [Engine.SetTimeStretching].
func SetTimeStretching(numerator, denominator uint) error {
	return Default().SetTimeStretching(numerator, denominator)
}

// SetTimeSource installs clock as the time source of the default engine.
// See [Engine.SetTimeSource].
func SetTimeSource(clock *CustomClock, initial Timestamp) error {
	return Default().SetTimeSource(clock, initial)
}

// ToSystemDuration converts an application-time duration of the default
// engine into a native-clock duration. See [Engine.ToSystemDuration].
func ToSystemDuration(appDuration time.Duration) time.Duration {
	return Default().ToSystemDuration(appDuration)
}

// Subscribe registers l with the default engine. See [Engine.Subscribe].
func Subscribe(l Listener) *Subscription {
	return Default().Subscribe(l)
}
