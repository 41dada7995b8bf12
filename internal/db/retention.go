package db

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/twinlabs/twinsight/internal/timeutil"
)

// PopulationScope selects the retention denominator.
type PopulationScope string

const (
	// ScopeAll evaluates every user with at least one session ever.
	ScopeAll PopulationScope = "all"
	// ScopeActive restricts to users with a session inside the
	// query range.
	ScopeActive PopulationScope = "active"
)

// ValidScope reports whether s names a supported population scope.
func ValidScope(s PopulationScope) bool {
	return s == ScopeAll || s == ScopeActive
}

// retentionHorizons are the day offsets checked against each
// user's cohort date.
var retentionHorizons = [3]int{1, 7, 30}

// powerUserThreshold is the session count (within the query range)
// at which a user counts as a power user.
const powerUserThreshold = 10

// Retention is the cohort-retention report for a date range.
// AvgSessionDuration is always the "0m 0s" sentinel: the schema has
// no session end timestamp, so a duration cannot be derived.
type Retention struct {
	Day1               int    `json:"day1"`
	Day7               int    `json:"day7"`
	Day30              int    `json:"day30"`
	AvgSessionDuration string `json:"avgSessionDuration"`
	SessionsPerUser    string `json:"sessionsPerUser"`
	PowerUsersPercent  int    `json:"powerUsersPercent"`
}

// userActivity collects one user's session dates.
type userActivity struct {
	cohort       string          // earliest session date, global
	days         map[string]bool // every date with >= 1 session
	inRangeCount int             // sessions inside [from, to]
}

// GetRetention computes day-1/7/30 retention rates plus range-scoped
// engagement ratios.
//
// A user's cohort date is the date of their earliest session,
// regardless of the query range. For horizon N the user is retained
// iff a session started on exactly cohort+N days; when that check
// date is still in the future relative to now, the user is excluded
// from both the numerator and the denominator of that horizon.
func (db *DB) GetRetention(
	ctx context.Context, from, to string,
	scope PopulationScope, now time.Time,
) (Retention, error) {
	if _, _, err := parseRange(from, to); err != nil {
		return Retention{}, err
	}
	if scope == "" {
		scope = ScopeAll
	}
	if !ValidScope(scope) {
		return Retention{}, fmt.Errorf("unknown population scope %q", scope)
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}
	today := now.UTC().Format(timeutil.DateFormat)

	users, err := db.loadUserActivity(ctx, from, to)
	if err != nil {
		return Retention{}, err
	}

	r := Retention{
		AvgSessionDuration: timeutil.FormatDuration(0),
		SessionsPerUser:    "0.0",
	}

	var rates [3]int
	for i, horizon := range retentionHorizons {
		evaluated, retained := 0, 0
		for _, u := range users {
			if scope == ScopeActive && u.inRangeCount == 0 {
				continue
			}
			check := addDays(u.cohort, horizon)
			if check > today {
				continue // horizon not yet reachable
			}
			evaluated++
			if u.days[check] {
				retained++
			}
		}
		if evaluated > 0 {
			rates[i] = retained * 100 / evaluated
		}
	}
	r.Day1, r.Day7, r.Day30 = rates[0], rates[1], rates[2]

	totalInRange, activeInRange, powerUsers := 0, 0, 0
	for _, u := range users {
		if u.inRangeCount == 0 {
			continue
		}
		activeInRange++
		totalInRange += u.inRangeCount
		if u.inRangeCount >= powerUserThreshold {
			powerUsers++
		}
	}
	if activeInRange > 0 {
		perUser := math.Round(
			float64(totalInRange)/float64(activeInRange)*10,
		) / 10
		r.SessionsPerUser = strconv.FormatFloat(perUser, 'f', 1, 64)
		r.PowerUsersPercent = powerUsers * 100 / activeInRange
	}
	return r, nil
}

// loadUserActivity scans every session once and buckets per user:
// cohort date, the set of active dates, and the in-range count.
func (db *DB) loadUserActivity(
	ctx context.Context, from, to string,
) (map[string]*userActivity, error) {
	rows, err := db.reader.QueryContext(ctx,
		`SELECT user_id, date(started_at) FROM sessions`)
	if err != nil {
		return nil, fmt.Errorf("querying user activity: %w", err)
	}
	defer rows.Close()

	users := make(map[string]*userActivity)
	for rows.Next() {
		var userID, day string
		if err := rows.Scan(&userID, &day); err != nil {
			return nil, fmt.Errorf("scanning user activity: %w", err)
		}
		u, ok := users[userID]
		if !ok {
			u = &userActivity{
				cohort: day,
				days:   make(map[string]bool),
			}
			users[userID] = u
		}
		if day < u.cohort {
			u.cohort = day
		}
		u.days[day] = true
		if inDateRange(day, from, to) {
			u.inRangeCount++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating user activity: %w", err)
	}
	return users, nil
}
