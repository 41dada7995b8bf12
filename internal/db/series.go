package db

import (
	"context"
	"fmt"
	"math"
)

// EventKind selects which countable category a series buckets.
type EventKind string

// Supported event kinds.
const (
	EventActiveUsers        EventKind = "active_users"
	EventSessions           EventKind = "sessions"
	EventMessages           EventKind = "messages"
	EventDocuments          EventKind = "documents"
	EventQueries            EventKind = "queries"
	EventSharedInteractions EventKind = "shared_interactions"
)

// ValidEventKind reports whether k names a supported event kind.
func ValidEventKind(k EventKind) bool {
	switch k {
	case EventActiveUsers, EventSessions, EventMessages,
		EventDocuments, EventQueries, EventSharedInteractions:
		return true
	}
	return false
}

// kindSource returns the table, timestamp column, count expression,
// and extra predicate for an event kind.
func kindSource(kind EventKind) (table, tsCol, countExpr, extra string, err error) {
	switch kind {
	case EventActiveUsers:
		return "sessions", "started_at", "COUNT(DISTINCT user_id)", "", nil
	case EventSessions:
		return "sessions", "started_at", "COUNT(*)", "", nil
	case EventSharedInteractions:
		return "sessions", "started_at", "COUNT(*)", " AND is_shared_twin = 1", nil
	case EventMessages:
		return "messages", "created_at", "COUNT(*)", "", nil
	case EventDocuments:
		return "documents", "created_at", "COUNT(*)", "", nil
	case EventQueries:
		return "queries", "created_at", "COUNT(*)", "", nil
	}
	return "", "", "", "", fmt.Errorf("unknown event kind %q", kind)
}

// SeriesPoint is one calendar day in a daily series.
type SeriesPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// GetSeries counts occurrences of kind per calendar day over the
// inclusive range [from, to]. Every day in range appears exactly
// once, in ascending order, with an explicit zero when nothing
// happened that day.
func (db *DB) GetSeries(
	ctx context.Context, kind EventKind, from, to string,
) ([]SeriesPoint, error) {
	start, end, err := parseRange(from, to)
	if err != nil {
		return nil, err
	}
	counts, err := db.dailyCounts(ctx, kind, from, to)
	if err != nil {
		return nil, err
	}

	days := rangeDays(start, end)
	points := make([]SeriesPoint, 0, len(days))
	for _, day := range days {
		points = append(points, SeriesPoint{
			Date:  day,
			Count: counts[day],
		})
	}
	return points, nil
}

// dailyCounts groups kind occurrences by calendar day. A day is the
// UTC date of the stored timestamp, so its window is exactly
// [00:00:00, 23:59:59.999...] of that date.
func (db *DB) dailyCounts(
	ctx context.Context, kind EventKind, from, to string,
) (map[string]int, error) {
	table, tsCol, countExpr, extra, err := kindSource(kind)
	if err != nil {
		return nil, err
	}

	query := `SELECT date(` + tsCol + `), ` + countExpr +
		` FROM ` + table +
		` WHERE date(` + tsCol + `) >= ? AND date(` + tsCol + `) <= ?` +
		extra + ` GROUP BY date(` + tsCol + `)`

	rows, err := db.reader.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("querying %s series: %w", kind, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var day string
		var n int
		if err := rows.Scan(&day, &n); err != nil {
			return nil, fmt.Errorf("scanning %s series row: %w", kind, err)
		}
		counts[day] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s series rows: %w", kind, err)
	}
	return counts, nil
}

// SumSeries is the single-query count of kind over the same
// inclusive range a daily series covers.
func (db *DB) SumSeries(
	ctx context.Context, kind EventKind, from, to string,
) (int, error) {
	if _, _, err := parseRange(from, to); err != nil {
		return 0, err
	}
	table, tsCol, countExpr, extra, err := kindSource(kind)
	if err != nil {
		return 0, err
	}

	query := `SELECT ` + countExpr + ` FROM ` + table +
		` WHERE date(` + tsCol + `) >= ? AND date(` + tsCol + `) <= ?` +
		extra

	var n int
	if err := db.reader.QueryRowContext(
		ctx, query, from, to,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s: %w", kind, err)
	}
	return n, nil
}

// ConversationPoint pairs per-day session and message counts for
// the conversation chart.
type ConversationPoint struct {
	Date          string `json:"date"`
	Conversations int    `json:"conversations"`
	Messages      int    `json:"messages"`
}

// GetConversationSeries returns per-day conversation (session) and
// message counts over [from, to], zero-filled.
func (db *DB) GetConversationSeries(
	ctx context.Context, from, to string,
) ([]ConversationPoint, error) {
	start, end, err := parseRange(from, to)
	if err != nil {
		return nil, err
	}

	sessions, err := db.dailyCounts(ctx, EventSessions, from, to)
	if err != nil {
		return nil, err
	}
	messages, err := db.dailyCounts(ctx, EventMessages, from, to)
	if err != nil {
		return nil, err
	}

	days := rangeDays(start, end)
	points := make([]ConversationPoint, 0, len(days))
	for _, day := range days {
		points = append(points, ConversationPoint{
			Date:          day,
			Conversations: sessions[day],
			Messages:      messages[day],
		})
	}
	return points, nil
}

// HourPoint is one hour-of-day bucket in an hourly-average series.
type HourPoint struct {
	Hour  int `json:"hour"`
	Value int `json:"value"`
}

// GetHourlyAverage collapses the date dimension of a series: for
// each hour 0-23 it averages the per-hour count of kind across
// every day in [from, to], rounded to the nearest integer. Always
// returns exactly 24 points.
func (db *DB) GetHourlyAverage(
	ctx context.Context, kind EventKind, from, to string,
) ([]HourPoint, error) {
	start, end, err := parseRange(from, to)
	if err != nil {
		return nil, err
	}
	table, tsCol, countExpr, extra, err := kindSource(kind)
	if err != nil {
		return nil, err
	}

	// Grouped by (day, hour) so distinct-user counts stay per-day;
	// a range-wide DISTINCT would count a daily regular only once.
	query := `SELECT date(` + tsCol + `),` +
		` CAST(strftime('%H', ` + tsCol + `) AS INTEGER), ` +
		countExpr + ` FROM ` + table +
		` WHERE date(` + tsCol + `) >= ? AND date(` + tsCol + `) <= ?` +
		extra + ` GROUP BY 1, 2`

	rows, err := db.reader.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("querying hourly %s: %w", kind, err)
	}
	defer rows.Close()

	var totals [24]int
	for rows.Next() {
		var day string
		var hour, n int
		if err := rows.Scan(&day, &hour, &n); err != nil {
			return nil, fmt.Errorf("scanning hourly %s row: %w", kind, err)
		}
		if hour >= 0 && hour < 24 {
			totals[hour] += n
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating hourly %s rows: %w", kind, err)
	}

	numDays := len(rangeDays(start, end))
	points := make([]HourPoint, 24)
	for h := range points {
		points[h].Hour = h
		if numDays > 0 {
			points[h].Value = int(math.Round(
				float64(totals[h]) / float64(numDays),
			))
		}
	}
	return points, nil
}
