// Package timeutil holds the timestamp formats used by persisted data and
// the helpers that render dates on pages.
// No external dependencies - uses only standard library.
package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// Clock returns the current time. Stores take one so tests can pin it.
type Clock func() time.Time

// Now returns the current time in UTC.
func Now() time.Time {
	return time.Now().UTC()
}

// Common date/time formats.
const (
	// FormatISO is the persisted timestamp layout (microsecond precision).
	FormatISO = "2006-01-02T15:04:05.000000Z07:00"
	// FormatDate is the standard date format (YYYY-MM-DD).
	FormatDate = "2006-01-02"
	// FormatHumanDate is used for "member since" lines.
	FormatHumanDate = "January 2, 2006"
)

// Layouts accepted by ParseISO, most specific first. Naive forms carry no
// offset and are read as UTC.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	FormatDate,
}

// FormatISOTime formats t in UTC with FormatISO.
func FormatISOTime(t time.Time) string {
	return t.UTC().Format(FormatISO)
}

// ParseISO parses an ISO-8601 timestamp with or without a zone offset.
// Timestamps without an offset are taken as UTC.
func ParseISO(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("timeutil: unrecognised timestamp %q", value)
}

// FormatDateStr formats a time as YYYY-MM-DD in UTC.
func FormatDateStr(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(FormatDate)
}

// FormatHuman formats a time as "January 2, 2006".
func FormatHuman(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(FormatHumanDate)
}

// DaysSince returns the number of whole days between t and now.
func DaysSince(t, now time.Time) int {
	if t.IsZero() || now.Before(t) {
		return 0
	}
	return int(now.Sub(t).Hours() / 24)
}

// FormatRelative returns a short English description of how long ago t was.
func FormatRelative(t, now time.Time) string {
	d := now.Sub(t)
	if d < 0 {
		return "just now"
	}
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute") + " ago"
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour") + " ago"
	case d < 48*time.Hour:
		return "yesterday"
	case d < 30*24*time.Hour:
		return plural(int(d.Hours()/24), "day") + " ago"
	case d < 365*24*time.Hour:
		return plural(int(d.Hours()/24/30), "month") + " ago"
	default:
		return plural(int(d.Hours()/24/365), "year") + " ago"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
