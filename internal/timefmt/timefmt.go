// Package timefmt converts between human duration strings, seconds,
// and UTC timestamps. Pure functions, no state.
package timefmt

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDuration parses a human duration string ("2h30m", "90s") into
// seconds. A bare integer is interpreted as minutes, matching the CLI
// convention ("break start 5" means five minutes).
func ParseDuration(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("negative duration %q", s)
		}
		return n * 60, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", s)
	}
	return int64(d.Seconds()), nil
}

// FormatSeconds renders seconds as a compact duration string.
// 3661 becomes "1h1m1s"; zero-valued units are omitted; 0 is "0s".
// FormatSeconds(ParseDuration(s)) == s for canonical inputs.
func FormatSeconds(secs int64) string {
	if secs <= 0 {
		return "0s"
	}

	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60

	var b strings.Builder
	if h > 0 {
		fmt.Fprintf(&b, "%dh", h)
	}
	if m > 0 {
		fmt.Fprintf(&b, "%dm", m)
	}
	if s > 0 {
		fmt.Fprintf(&b, "%ds", s)
	}
	return b.String()
}

// Humanize renders seconds as friendly prose for notifications:
// "25 minutes", "1 hour 5 minutes", "45 seconds".
func Humanize(secs int64) string {
	if secs < 60 {
		return plural(secs, "second")
	}

	h := secs / 3600
	m := (secs % 3600) / 60

	switch {
	case h > 0 && m > 0:
		return plural(h, "hour") + " " + plural(m, "minute")
	case h > 0:
		return plural(h, "hour")
	default:
		return plural(m, "minute")
	}
}

func plural(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// FormatUTC renders a timestamp as RFC3339 in UTC.
func FormatUTC(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ParseUTC parses an RFC3339 timestamp into UTC.
func ParseUTC(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

// Clock renders seconds as a fixed-width countdown clock, "04:32" or
// "1:04:32" past the hour mark. Used by the countdown UI.
func Clock(secs int64) string {
	if secs < 0 {
		secs = 0
	}
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
