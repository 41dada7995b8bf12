package db

import (
	"fmt"
	"time"

	"github.com/twinlabs/twinsight/internal/timeutil"
)

// parseRange validates a from/to calendar-date pair. Both bounds are
// inclusive and from must not be after to.
func parseRange(from, to string) (time.Time, time.Time, error) {
	start, err := timeutil.ParseDate(from)
	if err != nil {
		return time.Time{}, time.Time{},
			fmt.Errorf("invalid start date %q: %w", from, err)
	}
	end, err := timeutil.ParseDate(to)
	if err != nil {
		return time.Time{}, time.Time{},
			fmt.Errorf("invalid end date %q: %w", to, err)
	}
	if start.After(end) {
		return time.Time{}, time.Time{},
			fmt.Errorf("start date %s after end date %s", from, to)
	}
	return start, end, nil
}

// rangeDays returns every calendar date in [start, end] inclusive:
// always (end-start).days + 1 entries.
func rangeDays(start, end time.Time) []string {
	var days []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(timeutil.DateFormat))
	}
	return days
}

// inDateRange checks if a date falls within [from, to].
func inDateRange(date, from, to string) bool {
	return date >= from && date <= to
}

// addDays shifts a calendar date string by n days.
func addDays(date string, n int) string {
	t, err := timeutil.ParseDate(date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, n).Format(timeutil.DateFormat)
}
