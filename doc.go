// Package apptime provides a process-wide notion of "application time" that
// can be decoupled from wall-clock system time.
//
// The central type is [Engine], a virtual clock whose rate can be stretched
// (slow motion / fast motion) relative to the native system clock, or replaced
// entirely by an externally driven [CustomClock] (simulation time, NTP time,
// log replay). Components that do not strictly require system time should
// obtain timestamps from the engine so that time stretching works across a
// whole application.
//
// Queries ([Engine.Now], [Engine.ToSystemDuration], [Engine.Mode]) are
// lock-free and safe to call from any goroutine at any frequency. Commands
// ([Engine.SetTimeStretching], [Engine.SetTimeSource]) are serialized by a
// single mutex and never block queries.
//
// Pattern: Observer. [Engine.Subscribe] registers a [Listener] notified when
// the time base changes, decoupling time-base events from consumers
// (schedulers, loggers, metrics) without polling.
//
// A lazily created package-level default engine is available through
// [Default] and the package-level convenience functions [Now],
// [SetTimeStretching], [SetTimeSource], [ToSystemDuration] and [Subscribe].
package apptime
