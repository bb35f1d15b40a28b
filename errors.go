package apptime

// timeError is the concrete type backing all sentinel errors.
type timeError string

func (e timeError) Error() string { return string(e) }

// Sentinel errors.
var (
	// ErrInvalidStretching is returned when a stretching numerator or
	// denominator lies outside [1, MaxStretchFactor]. The engine's state is
	// left unchanged.
	ErrInvalidStretching error = timeError("stretching factor out of range")
	// ErrEngineClosed is returned by command operations invoked after
	// [Engine.Close]. Queries never fail; they fall back to native time.
	ErrEngineClosed error = timeError("time engine closed")
)
