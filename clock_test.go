package apptime

import (
	"testing"
	"time"
)

func TestSystemClockNow(t *testing.T) {
	c := SystemClock{}
	before := TimestampOf(time.Now())
	got := c.Now()
	after := TimestampOf(time.Now())

	if got.Before(before) || got.After(after) {
		t.Fatalf("Now() = %v, want between %v and %v", got, before, after)
	}
}

// TestSystemClockConcurrentAccess verifies that concurrent reads are safe.
// SystemClock is stateless (zero-value struct), so concurrent use is
// inherently safe; this test confirms it under the race detector.
func TestSystemClockConcurrentAccess(t *testing.T) {
	c := SystemClock{}
	done := make(chan struct{})

	for i := 0; i < 10; i++ {
		go func() {
			_ = c.Now()
			done <- struct{}{}
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}
