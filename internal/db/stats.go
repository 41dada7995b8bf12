package db

import (
	"context"
	"fmt"
)

// Stats holds whole-database row counts.
type Stats struct {
	Users     int `json:"users"`
	Twins     int `json:"twins"`
	Sessions  int `json:"sessions"`
	Messages  int `json:"messages"`
	Documents int `json:"documents"`
	Queries   int `json:"queries"`
}

// GetStats counts every entity table in one round trip.
func (db *DB) GetStats(ctx context.Context) (Stats, error) {
	var s Stats
	err := db.reader.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM twins),
			(SELECT COUNT(*) FROM sessions),
			(SELECT COUNT(*) FROM messages),
			(SELECT COUNT(*) FROM documents),
			(SELECT COUNT(*) FROM queries)`).Scan(
		&s.Users, &s.Twins, &s.Sessions,
		&s.Messages, &s.Documents, &s.Queries)
	if err != nil {
		return Stats{}, fmt.Errorf("querying stats: %w", err)
	}
	return s, nil
}
