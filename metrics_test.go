package apptime

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestCollectorReportsTimeBase(t *testing.T) {
	clock := newFakeClock(TimestampOf(time.Unix(1000, 0)))
	e := New(WithClock(clock))
	defer e.Close()

	if err := e.SetTimeStretching(2, 1); err != nil {
		t.Fatalf("SetTimeStretching(2, 1) = %v", err)
	}

	// The fake native clock has not moved since the rate change, so
	// application time equals native time and the offset is zero.
	expected := `
# HELP apptime_mode Current time mode (0=native, 1=stretched, 2=custom clock)
# TYPE apptime_mode gauge
apptime_mode 1
# HELP apptime_offset_seconds Application time minus native time, in seconds
# TYPE apptime_offset_seconds gauge
apptime_offset_seconds 0
# HELP apptime_rate Application time seconds advanced per native second
# TYPE apptime_rate gauge
apptime_rate 2
# HELP apptime_stretching_denominator Denominator of the time stretching ratio
# TYPE apptime_stretching_denominator gauge
apptime_stretching_denominator 1
# HELP apptime_stretching_numerator Numerator of the time stretching ratio
# TYPE apptime_stretching_numerator gauge
apptime_stretching_numerator 2
`

	if err := testutil.CollectAndCompare(NewCollector(e), strings.NewReader(expected)); err != nil {
		t.Fatalf("unexpected metrics:\n%v", err)
	}
}

// gaugeValue collects c and returns the value of the named gauge.
func gaugeValue(t *testing.T, c prometheus.Collector, name string) float64 {
	t.Helper()

	ch := make(chan prometheus.Metric, 16)
	c.Collect(ch)
	close(ch)

	for m := range ch {
		if !strings.Contains(m.Desc().String(), `"`+name+`"`) {
			continue
		}

		var pb dto.Metric
		if err := m.Write(&pb); err != nil {
			t.Fatalf("write metric %q: %v", name, err)
		}

		return pb.GetGauge().GetValue()
	}

	t.Fatalf("metric %q not collected", name)

	return 0
}

func TestCollectorTracksOffset(t *testing.T) {
	clock := newFakeClock(TimestampOf(time.Unix(1000, 0)))
	e := New(WithClock(clock))
	defer e.Close()

	e.SetTimeStretching(2, 1)
	clock.Advance(10 * time.Second)

	// 10s native at double speed: application time leads by 10s.
	if got := gaugeValue(t, NewCollector(e), "apptime_offset_seconds"); got != 10 {
		t.Fatalf("apptime_offset_seconds = %v, want 10", got)
	}

	// Under a custom clock the offset follows the pushed time.
	var c CustomClock
	e.SetTimeSource(&c, clock.Now().Add(-30*time.Second))

	if got := gaugeValue(t, NewCollector(e), "apptime_offset_seconds"); got != -30 {
		t.Fatalf("apptime_offset_seconds = %v, want -30", got)
	}
}

func TestCollectorModeValues(t *testing.T) {
	e := New(WithClock(newFakeClock(TimestampOf(time.Unix(1000, 0)))))
	defer e.Close()

	if got := gaugeValue(t, NewCollector(e), "apptime_mode"); got != 0 {
		t.Fatalf("apptime_mode = %v, want 0 (native)", got)
	}

	e.SetTimeSource(&CustomClock{}, TimestampOf(time.Unix(5000, 0)))

	if got := gaugeValue(t, NewCollector(e), "apptime_mode"); got != 2 {
		t.Fatalf("apptime_mode = %v, want 2 (custom clock)", got)
	}
}

func TestRegisterMetrics(t *testing.T) {
	e := New(WithClock(newFakeClock(TimestampOf(time.Unix(1000, 0)))))
	defer e.Close()

	if err := RegisterMetrics(e); err != nil {
		t.Fatalf("RegisterMetrics() = %v", err)
	}
}
