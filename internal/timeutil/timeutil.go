// Package timeutil provides shared timestamp and duration formatting.
// Timestamps are stored as RFC3339 UTC strings; date parameters are
// naive YYYY-MM-DD calendar dates.
package timeutil

import (
	"fmt"
	"time"
)

// DateFormat is the wire format for calendar dates.
const DateFormat = "2006-01-02"

const timestampFormat = "2006-01-02T15:04:05.000Z"

// Format renders t as an RFC3339 UTC string with millisecond
// precision. Returns "" for the zero time.
func Format(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timestampFormat)
}

// Ptr is Format for nullable columns: nil for the zero time.
func Ptr(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := Format(t)
	return &s
}

// ParseDate parses a naive YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, s)
}

// ParseTimestamp parses a stored timestamp, accepting both second
// and sub-second precision.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Parse("2006-01-02T15:04:05Z", s)
	}
	return t, nil
}

// TimeAgo formats the distance from t back to now as a short
// relative string. Thresholds are 60s, 3600s, and 86400s.
func TimeAgo(t, now time.Time) string {
	secs := now.Sub(t).Seconds()
	switch {
	case secs < 60:
		return "Just now"
	case secs < 3600:
		return fmt.Sprintf("%d min ago", int(secs/60))
	case secs < 86400:
		return fmt.Sprintf("%dh ago", int(secs/3600))
	default:
		return fmt.Sprintf("%dd ago", int(secs/86400))
	}
}

// FormatDuration renders a second count as "Xm Ys". Zero or
// negative values render as "0m 0s".
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "0m 0s"
	}
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}
