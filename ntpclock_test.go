package apptime

import (
	"errors"
	"testing"
	"time"

	"github.com/beevik/ntp"
)

func TestNTPClockSyncUpdatesOffset(t *testing.T) {
	c := NewNTPClock("ntp.test", NTPSyncInterval(time.Hour))
	c.query = func(string) (*ntp.Response, error) {
		return &ntp.Response{ClockOffset: 250 * time.Millisecond}, nil
	}

	c.maybeSync()

	if got := c.Offset(); got != 250*time.Millisecond {
		t.Fatalf("Offset() = %v, want 250ms", got)
	}

	healthy, offset, lastSync, lastErr := c.Health()
	if !healthy || offset != 250*time.Millisecond || lastSync.IsZero() || lastErr != nil {
		t.Fatalf("Health() = (%v, %v, %v, %v), want healthy", healthy, offset, lastSync, lastErr)
	}
}

func TestNTPClockFailureBacksOff(t *testing.T) {
	cause := errors.New("server unreachable")

	queries := 0
	c := NewNTPClock("ntp.test", NTPSyncInterval(time.Hour))
	c.query = func(string) (*ntp.Response, error) {
		queries++

		return nil, cause
	}

	c.maybeSync()

	if c.backoff != c.backoffInitial {
		t.Fatalf("backoff after first failure = %v, want %v", c.backoff, c.backoffInitial)
	}

	healthy, _, _, lastErr := c.Health()
	if healthy || !errors.Is(lastErr, cause) {
		t.Fatalf("Health() after failure = (%v, %v), want unhealthy with cause", healthy, lastErr)
	}

	// Within the backoff window nothing is queried again.
	c.maybeSync()

	if queries != 1 {
		t.Fatalf("queries = %d, want 1 (still backing off)", queries)
	}

	// Past the window the backoff doubles on the next failure.
	c.lastAttempt = time.Now().Add(-time.Hour)
	c.maybeSync()

	if queries != 2 {
		t.Fatalf("queries = %d, want 2", queries)
	}

	if c.backoff != 2*c.backoffInitial {
		t.Fatalf("backoff after second failure = %v, want %v", c.backoff, 2*c.backoffInitial)
	}

	// A success clears the backoff.
	c.query = func(string) (*ntp.Response, error) {
		return &ntp.Response{ClockOffset: time.Millisecond}, nil
	}
	c.lastAttempt = time.Now().Add(-time.Hour)
	c.maybeSync()

	if c.backoff != 0 {
		t.Fatalf("backoff after success = %v, want 0", c.backoff)
	}
}

func TestNTPClockPushesOffsetCorrectedTime(t *testing.T) {
	e := New()
	defer e.Close()

	c := NewNTPClock("ntp.test", NTPSyncInterval(time.Hour))
	c.query = func(string) (*ntp.Response, error) {
		return &ntp.Response{ClockOffset: time.Hour}, nil
	}
	c.maybeSync()

	if err := c.Install(e); err != nil {
		t.Fatalf("Install() = %v", err)
	}

	if got := e.Mode(); got != CustomClockTime {
		t.Fatalf("Mode() = %v, want CustomClockTime", got)
	}

	c.push()

	want := time.Now().Add(time.Hour)

	diff := e.Now().Time().Sub(want)
	if diff < -time.Second || diff > time.Second {
		t.Fatalf("Now() = %v, want about %v", e.Now().Time(), want)
	}
}

func TestNTPClockStalePushAfterDisplacement(t *testing.T) {
	e := New()
	defer e.Close()

	c := NewNTPClock("ntp.test")
	c.query = func(string) (*ntp.Response, error) {
		return &ntp.Response{ClockOffset: time.Hour}, nil
	}

	if err := c.Install(e); err != nil {
		t.Fatalf("Install() = %v", err)
	}

	// Another source displaces the NTP clock; its pushes become stale.
	t0 := TimestampOf(time.Unix(5000, 0))
	e.SetTimeSource(&CustomClock{}, t0)

	c.push()

	if got := e.Now(); got != t0 {
		t.Fatalf("Now() after stale NTP push = %v, want %v", got, t0)
	}
}
