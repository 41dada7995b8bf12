package db

import (
	"context"
	"fmt"
	"math"
	"sort"
)

// EngagementPoint is one day of categorical feature engagement.
// Categories are independent range-scoped counts, not mutually
// exclusive: a session may contribute a query and a document.
type EngagementPoint struct {
	Date               string `json:"date"`
	QuestionsAsked     int    `json:"questionAsked"`
	InfoRetrieved      int    `json:"infoRetrieved"`
	DocumentsDrafted   int    `json:"documentsDrafted"`
	SharedInteractions int    `json:"sharedInteractions"`
}

// GetEngagement returns the per-day engagement breakdown over
// [from, to], zero-filled. Sessions proxy "questions asked".
func (db *DB) GetEngagement(
	ctx context.Context, from, to string,
) ([]EngagementPoint, error) {
	start, end, err := parseRange(from, to)
	if err != nil {
		return nil, err
	}

	sessions, err := db.dailyCounts(ctx, EventSessions, from, to)
	if err != nil {
		return nil, err
	}
	queries, err := db.dailyCounts(ctx, EventQueries, from, to)
	if err != nil {
		return nil, err
	}
	documents, err := db.dailyCounts(ctx, EventDocuments, from, to)
	if err != nil {
		return nil, err
	}
	shared, err := db.dailyCounts(ctx, EventSharedInteractions, from, to)
	if err != nil {
		return nil, err
	}

	days := rangeDays(start, end)
	points := make([]EngagementPoint, 0, len(days))
	for _, day := range days {
		points = append(points, EngagementPoint{
			Date:               day,
			QuestionsAsked:     sessions[day],
			InfoRetrieved:      queries[day],
			DocumentsDrafted:   documents[day],
			SharedInteractions: shared[day],
		})
	}
	return points, nil
}

// FeatureUsageItem is one slice of the feature distribution chart.
type FeatureUsageItem struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// GetFeatureDistribution aggregates feature usage over [from, to]
// with display labels. Features with zero usage are omitted.
func (db *DB) GetFeatureDistribution(
	ctx context.Context, from, to string,
) ([]FeatureUsageItem, error) {
	features := []struct {
		kind  EventKind
		label string
	}{
		{EventSessions, "Questions Asked"},
		{EventQueries, "Information Retrieved"},
		{EventDocuments, "Documents Drafted"},
		{EventSharedInteractions, "Shared Twin Usage"},
	}

	items := make([]FeatureUsageItem, 0, len(features))
	for _, f := range features {
		n, err := db.SumSeries(ctx, f.kind, from, to)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			items = append(items, FeatureUsageItem{
				Name:  f.label,
				Value: n,
			})
		}
	}
	return items, nil
}

const (
	// DefaultLeaderboardLimit is the number of organizations
	// returned when no limit is given.
	DefaultLeaderboardLimit = 5
	// MaxLeaderboardLimit caps the leaderboard size.
	MaxLeaderboardLimit = 50
)

// LeaderboardEntry ranks one organization by activity volume.
type LeaderboardEntry struct {
	Rank                 int    `json:"rank"`
	Company              string `json:"company"`
	ActiveUsers          int    `json:"activeUsers"`
	TotalActivities      int    `json:"totalActivities"`
	AvgActivitiesPerUser int    `json:"avgActivitiesPerUser"`
}

// GetLeaderboard groups sessions in [from, to] by the acting user's
// company, excluding users without one, and ranks organizations by
// total sessions descending (company name ascending on ties).
func (db *DB) GetLeaderboard(
	ctx context.Context, from, to string, limit int,
) ([]LeaderboardEntry, error) {
	if _, _, err := parseRange(from, to); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > MaxLeaderboardLimit {
		limit = DefaultLeaderboardLimit
	}

	rows, err := db.reader.QueryContext(ctx, `
		SELECT u.company, COUNT(DISTINCT s.user_id), COUNT(*)
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE u.company IS NOT NULL AND u.company != ''
		  AND date(s.started_at) >= ? AND date(s.started_at) <= ?
		GROUP BY u.company`, from, to)
	if err != nil {
		return nil, fmt.Errorf("querying leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(
			&e.Company, &e.ActiveUsers, &e.TotalActivities,
		); err != nil {
			return nil, fmt.Errorf("scanning leaderboard row: %w", err)
		}
		if e.ActiveUsers > 0 {
			e.AvgActivitiesPerUser = int(math.Round(
				float64(e.TotalActivities) / float64(e.ActiveUsers),
			))
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating leaderboard rows: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalActivities != entries[j].TotalActivities {
			return entries[i].TotalActivities > entries[j].TotalActivities
		}
		return entries[i].Company < entries[j].Company
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}
