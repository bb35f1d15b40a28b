package apptime

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Calendar conventions for ISO 8601 duration arithmetic. Years and months in
// duration strings are treated as fixed lengths; exact calendar arithmetic is
// out of scope for a duration value that is not anchored to a date.
const (
	isoDay   = 24 * time.Hour
	isoMonth = 30 * isoDay
	isoYear  = 365 * isoDay
)

// ParseTimestamp parses a timestamp in ISO 8601 (RFC 3339) string
// representation, e.g. "2012-06-16T15:20:26.12345+03:00". A timestamp
// without a zone designator is interpreted in the local time zone.
func ParseTimestamp(s string) (Timestamp, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return TimestampOf(t), nil
	}

	t, err := time.ParseInLocation("2006-01-02T15:04:05.999999999", s, time.Local)
	if err != nil {
		return NoTime, fmt.Errorf("apptime: parse timestamp %q: %w", s, err)
	}

	return TimestampOf(t), nil
}

// ISOString returns the timestamp in ISO 8601 (RFC 3339) representation in
// the local time zone, with sub-second digits only when present.
func (t Timestamp) ISOString() string {
	tm := t.Time()
	if tm.Nanosecond() == 0 {
		return tm.Format(time.RFC3339)
	}

	return tm.Format(time.RFC3339Nano)
}

// FormatISODuration returns the ISO 8601 representation of d, e.g.
// "P1Y35DT3H43.220S". Years count 365 days; months are never emitted.
// Sub-second digits are printed at millisecond, microsecond or nanosecond
// width depending on the remainder. Negative durations carry a leading
// minus sign.
func FormatISODuration(d time.Duration) string {
	if d == 0 {
		return "PT0S"
	}

	var b strings.Builder

	if d < 0 {
		b.WriteByte('-')
		d = -d
	}

	b.WriteByte('P')

	years := d / isoYear
	d -= years * isoYear
	days := d / isoDay
	d -= days * isoDay

	if years > 0 {
		fmt.Fprintf(&b, "%dY", years)
	}

	if days > 0 {
		fmt.Fprintf(&b, "%dD", days)
	}

	if d == 0 && (years > 0 || days > 0) {
		return b.String()
	}

	b.WriteByte('T')

	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second
	frac := (d - seconds*time.Second).Nanoseconds()

	if hours > 0 {
		fmt.Fprintf(&b, "%dH", hours)
	}

	if minutes > 0 {
		fmt.Fprintf(&b, "%dM", minutes)
	}

	switch {
	case frac == 0 && seconds == 0:
		if hours == 0 && minutes == 0 {
			b.WriteString("0S")
		}
	case frac == 0:
		fmt.Fprintf(&b, "%dS", seconds)
	case frac%int64(time.Millisecond) == 0:
		fmt.Fprintf(&b, "%d.%03dS", seconds, frac/int64(time.Millisecond))
	case frac%int64(time.Microsecond) == 0:
		fmt.Fprintf(&b, "%d.%06dS", seconds, frac/int64(time.Microsecond))
	default:
		fmt.Fprintf(&b, "%d.%09dS", seconds, frac)
	}

	return b.String()
}

// ParseISODuration parses a duration in ISO 8601 string representation, e.g.
// "P1Y2M4DT3H43.22S". Years count 365 days, months 30 days, weeks 7 days.
// A leading minus sign negates the whole duration.
func ParseISODuration(s string) (time.Duration, error) {
	orig := s

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	if len(s) == 0 || s[0] != 'P' {
		return 0, fmt.Errorf("apptime: parse duration %q: missing P designator", orig)
	}

	s = s[1:]

	var total time.Duration

	inTime := false
	gotComponent := false
	gotTimeComponent := false

	for len(s) > 0 {
		if s[0] == 'T' {
			if inTime {
				return 0, fmt.Errorf("apptime: parse duration %q: repeated T designator", orig)
			}

			inTime = true
			s = s[1:]

			continue
		}

		i := 0
		for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '.') {
			i++
		}

		if i == 0 || i == len(s) {
			return 0, fmt.Errorf("apptime: parse duration %q: invalid syntax", orig)
		}

		value, err := strconv.ParseFloat(s[:i], 64)
		if err != nil {
			return 0, fmt.Errorf("apptime: parse duration %q: %w", orig, err)
		}

		designator := s[i]
		s = s[i+1:]

		var unit time.Duration

		switch {
		case !inTime && designator == 'Y':
			unit = isoYear
		case !inTime && designator == 'M':
			unit = isoMonth
		case !inTime && designator == 'W':
			unit = 7 * isoDay
		case !inTime && designator == 'D':
			unit = isoDay
		case inTime && designator == 'H':
			unit = time.Hour
		case inTime && designator == 'M':
			unit = time.Minute
		case inTime && designator == 'S':
			unit = time.Second
		default:
			return 0, fmt.Errorf("apptime: parse duration %q: unexpected designator %q", orig, string(designator))
		}

		total += time.Duration(math.Round(value * float64(unit)))
		gotComponent = true

		if inTime {
			gotTimeComponent = true
		}
	}

	if !gotComponent || (inTime && !gotTimeComponent) {
		return 0, fmt.Errorf("apptime: parse duration %q: no components", orig)
	}

	if neg {
		total = -total
	}

	return total, nil
}

// FormatDuration renders d as a simple "number + unit" string for diagnostics
// and logs, e.g. "1.5ms" or "2h". For precise interchange use
// [FormatISODuration].
func FormatDuration(d time.Duration) string {
	abs := d
	if abs < 0 {
		abs = -abs
	}

	var (
		value float64
		unit  string
	)

	switch {
	case abs >= time.Hour:
		value, unit = d.Hours(), "h"
	case abs >= time.Minute:
		value, unit = d.Minutes(), "min"
	case abs >= time.Second:
		value, unit = d.Seconds(), "s"
	case abs >= time.Millisecond:
		value, unit = float64(d)/float64(time.Millisecond), "ms"
	case abs >= time.Microsecond:
		value, unit = float64(d)/float64(time.Microsecond), "µs"
	default:
		return strconv.FormatInt(int64(d), 10) + "ns"
	}

	return strconv.FormatFloat(value, 'g', 4, 64) + unit
}
