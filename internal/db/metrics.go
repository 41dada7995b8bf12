package db

import (
	"context"
	"fmt"
	"math"
)

// MetricsOverview holds the four headline metrics with their
// period-over-period percentage changes. Field names follow the
// dashboard wire format.
type MetricsOverview struct {
	TotalActiveUsers    int     `json:"totalActiveUsers"`
	ActiveUsersChange   float64 `json:"activeUsersChange"`
	TotalConversations  int     `json:"totalConversations"`
	ConversationsChange float64 `json:"conversationsChange"`
	DocumentsDrafted    int     `json:"documentsDrafted"`
	DocumentsChange     float64 `json:"documentsChange"`
	TwinInstallations   int     `json:"twinInstallations"`
	InstallationsChange float64 `json:"installationsChange"`
}

// calcChange computes the percentage change from previous to
// current, rounded to one decimal. A zero baseline maps to 100.0
// when anything happened and 0.0 when nothing did; the same rule
// applies to every headline metric.
func calcChange(current, previous int) float64 {
	if previous == 0 {
		if current > 0 {
			return 100.0
		}
		return 0.0
	}
	pct := float64(current-previous) / float64(previous) * 100
	return math.Round(pct*10) / 10
}

// GetMetricsOverview computes the headline metrics for the
// inclusive range [from, to] and for the immediately preceding
// period of identical length [from-(to-from), from), which ends
// exactly where the current period begins.
//
// Twin installations are cumulative: twins created at or before
// the period end, not twins created inside it.
func (db *DB) GetMetricsOverview(
	ctx context.Context, from, to string,
) (MetricsOverview, error) {
	start, end, err := parseRange(from, to)
	if err != nil {
		return MetricsOverview{}, err
	}

	periodDays := int(end.Sub(start).Hours() / 24)
	prevFrom := addDays(from, -periodDays)

	var m MetricsOverview
	var prev struct {
		activeUsers   int
		conversations int
		documents     int
		installations int
	}

	// Current period: date in [from, to]. Previous period:
	// date in [prevFrom, from).
	steps := []struct {
		dst   *int
		query string
		args  []any
	}{
		{&m.TotalActiveUsers,
			`SELECT COUNT(DISTINCT user_id) FROM sessions
			 WHERE date(started_at) >= ? AND date(started_at) <= ?`,
			[]any{from, to}},
		{&prev.activeUsers,
			`SELECT COUNT(DISTINCT user_id) FROM sessions
			 WHERE date(started_at) >= ? AND date(started_at) < ?`,
			[]any{prevFrom, from}},
		{&m.TotalConversations,
			`SELECT COUNT(*) FROM sessions
			 WHERE date(started_at) >= ? AND date(started_at) <= ?`,
			[]any{from, to}},
		{&prev.conversations,
			`SELECT COUNT(*) FROM sessions
			 WHERE date(started_at) >= ? AND date(started_at) < ?`,
			[]any{prevFrom, from}},
		{&m.DocumentsDrafted,
			`SELECT COUNT(*) FROM documents
			 WHERE date(created_at) >= ? AND date(created_at) <= ?`,
			[]any{from, to}},
		{&prev.documents,
			`SELECT COUNT(*) FROM documents
			 WHERE date(created_at) >= ? AND date(created_at) < ?`,
			[]any{prevFrom, from}},
		{&m.TwinInstallations,
			`SELECT COUNT(*) FROM twins WHERE date(created_at) <= ?`,
			[]any{to}},
		{&prev.installations,
			`SELECT COUNT(*) FROM twins WHERE date(created_at) < ?`,
			[]any{from}},
	}

	for _, s := range steps {
		if err := db.reader.QueryRowContext(
			ctx, s.query, s.args...,
		).Scan(s.dst); err != nil {
			return MetricsOverview{},
				fmt.Errorf("querying metrics overview: %w", err)
		}
	}

	m.ActiveUsersChange = calcChange(m.TotalActiveUsers, prev.activeUsers)
	m.ConversationsChange = calcChange(m.TotalConversations, prev.conversations)
	m.DocumentsChange = calcChange(m.DocumentsDrafted, prev.documents)
	m.InstallationsChange = calcChange(m.TwinInstallations, prev.installations)
	return m, nil
}
