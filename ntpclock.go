package apptime

import (
	"context"
	"sync"
	"time"

	"github.com/beevik/ntp"
)

// NTPClock is a [CustomClock] driven by an NTP server: it periodically
// queries the server for the clock offset and pushes offset-corrected
// wall-clock time into the engine it is installed on. Failed queries back
// off exponentially; the last known offset keeps being applied meanwhile.
//
// Install the clock with [Engine.SetTimeSource] and drive it with
// [NTPClock.Run].
type NTPClock struct {
	CustomClock

	server       string
	syncInterval time.Duration
	pushInterval time.Duration

	backoffInitial time.Duration
	backoffMax     time.Duration

	// query is swappable for tests.
	query func(server string) (*ntp.Response, error)

	mu          sync.Mutex
	offset      time.Duration
	lastSync    time.Time
	lastAttempt time.Time
	lastErr     error
	backoff     time.Duration
}

// NTPOption configures an [NTPClock] during construction.
type NTPOption func(*NTPClock)

// NTPSyncInterval sets the period between NTP queries. The default is five
// minutes.
func NTPSyncInterval(d time.Duration) NTPOption {
	return func(c *NTPClock) { c.syncInterval = d }
}

// NTPPushInterval sets the period between time pushes into the engine.
// Application time stands still between pushes, so the interval bounds the
// granularity of custom-clock time. The default is 100 milliseconds.
func NTPPushInterval(d time.Duration) NTPOption {
	return func(c *NTPClock) { c.pushInterval = d }
}

// NewNTPClock creates an NTP-driven clock for the given server host, e.g.
// "time.google.com". No network traffic happens until [NTPClock.Run].
func NewNTPClock(server string, opts ...NTPOption) *NTPClock {
	c := &NTPClock{
		server:         server,
		syncInterval:   5 * time.Minute,
		pushInterval:   100 * time.Millisecond,
		backoffInitial: 5 * time.Second,
		backoffMax:     5 * time.Minute,
		query:          ntp.Query,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Install makes this clock the time source of e, seeding application time
// with the current offset-corrected wall-clock time.
func (c *NTPClock) Install(e *Engine) error {
	return e.SetTimeSource(&c.CustomClock, TimestampOf(time.Now().Add(c.Offset())))
}

// Run synchronizes against the NTP server and pushes offset-corrected time
// into the installed engine until ctx is cancelled. It returns ctx.Err().
// The first query happens immediately; a failed initial query is not fatal,
// and pushes continue with zero offset until a sync succeeds.
func (c *NTPClock) Run(ctx context.Context) error {
	c.maybeSync()
	c.push()

	ticker := time.NewTicker(c.pushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.maybeSync()
			c.push()
		}
	}
}

func (c *NTPClock) push() {
	c.SetApplicationTime(TimestampOf(time.Now().Add(c.Offset())))
}

// Offset returns the last measured clock offset. Positive means local time
// is behind NTP time.
func (c *NTPClock) Offset() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.offset
}

// Health reports the clock's synchronization state: whether the last query
// succeeded, the measured offset, the time of the last successful sync and
// the last query error, if any.
func (c *NTPClock) Health() (healthy bool, offset time.Duration, lastSync time.Time, lastErr error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lastErr == nil && !c.lastSync.IsZero(), c.offset, c.lastSync, c.lastErr
}

// maybeSync queries the server if the effective interval (sync interval, or
// the current backoff after failures) has elapsed.
func (c *NTPClock) maybeSync() {
	c.mu.Lock()

	effective := c.syncInterval
	if c.backoff > 0 {
		if c.backoff > c.backoffMax {
			c.backoff = c.backoffMax
		}

		effective = c.backoff
	}

	if !c.lastAttempt.IsZero() && time.Since(c.lastAttempt) < effective {
		c.mu.Unlock()

		return
	}

	c.lastAttempt = time.Now()
	c.mu.Unlock()

	// Query without the lock so that concurrent pushes keep reading the
	// previous offset while the network round trip is in flight.
	resp, err := c.query(c.server)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.lastErr = err

		if c.backoff == 0 {
			c.backoff = c.backoffInitial
		} else {
			c.backoff *= 2
		}

		return
	}

	c.offset = resp.ClockOffset
	c.lastSync = time.Now()
	c.lastErr = nil
	c.backoff = 0
}
