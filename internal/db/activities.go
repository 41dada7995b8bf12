package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/twinlabs/twinsight/internal/timeutil"
)

// Activity kinds, derived structurally from a session's rows rather
// than stored. Precedence: shared beats document beats query beats
// conversation.
const (
	KindConversation = "conversation"
	KindDocument     = "document"
	KindQuery        = "query"
	KindShared       = "shared"
)

// ValidActivityKind reports whether k names a derivable activity kind.
func ValidActivityKind(k string) bool {
	switch k {
	case KindConversation, KindDocument, KindQuery, KindShared:
		return true
	}
	return false
}

// kindExpr classifies a session row aliased as s. The CASE order is
// the kind precedence.
const kindExpr = `CASE
	WHEN s.is_shared_twin = 1 THEN 'shared'
	WHEN EXISTS (SELECT 1 FROM documents d WHERE d.session_id = s.id) THEN 'document'
	WHEN EXISTS (SELECT 1 FROM queries q WHERE q.session_id = s.id) THEN 'query'
	ELSE 'conversation'
END`

// Activity listing defaults.
const (
	DefaultActivityLimit = 100
	MaxActivityLimit     = 1000
)

// ActivityFilter narrows and pages an activity listing. Kind, User,
// From, and To are optional; empty means unfiltered. Now anchors the
// relative time strings and defaults to the wall clock.
type ActivityFilter struct {
	Kind  string
	User  string
	From  string
	To    string
	Page  int
	Limit int
	Now   time.Time
}

// ActivityItem is one session rendered as a feed row.
type ActivityItem struct {
	ID           string  `json:"id"`
	Type         string  `json:"type"`
	User         string  `json:"user"`
	Action       string  `json:"action"`
	Time         string  `json:"time"`
	Duration     string  `json:"duration"`
	MessageCount int     `json:"messageCount"`
	IsShared     bool    `json:"isShared"`
	HasDocuments bool    `json:"hasDocuments"`
	HasQueries   bool    `json:"hasQueries"`
	TwinOwner    *string `json:"twinOwner,omitempty"`
}

// ActivityPage is one page of the feed plus pagination metadata.
type ActivityPage struct {
	Items      []ActivityItem `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"totalPages"`
	HasNext    bool           `json:"hasNext"`
	HasPrev    bool           `json:"hasPrev"`
}

// escapeLike escapes LIKE metacharacters so user input matches
// literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// activityLabels maps a derived kind to its default action text, used
// when the session has no title.
var activityLabels = map[string]string{
	KindConversation: "Conversation",
	KindDocument:     "Document drafted",
	KindQuery:        "Information retrieved",
	KindShared:       "Shared Twin session",
}

// ListActivities returns one page of the activity feed, newest first.
// Filters compose with AND. An unknown kind yields an error; the
// caller validates before paging.
func (db *DB) ListActivities(
	ctx context.Context, f ActivityFilter,
) (ActivityPage, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = DefaultActivityLimit
	}
	if f.Limit > MaxActivityLimit {
		f.Limit = MaxActivityLimit
	}
	if f.Kind != "" && !ValidActivityKind(f.Kind) {
		return ActivityPage{}, fmt.Errorf("unknown activity kind %q", f.Kind)
	}
	if f.Now.IsZero() {
		f.Now = time.Now().UTC()
	}

	var preds []string
	var args []any
	if f.Kind != "" {
		preds = append(preds, kindExpr+" = ?")
		args = append(args, f.Kind)
	}
	if f.User != "" {
		preds = append(preds, `u.email LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(f.User)+"%")
	}
	if f.From != "" {
		preds = append(preds, "date(s.started_at) >= ?")
		args = append(args, f.From)
	}
	if f.To != "" {
		preds = append(preds, "date(s.started_at) <= ?")
		args = append(args, f.To)
	}

	where := ""
	if len(preds) > 0 {
		where = " WHERE " + strings.Join(preds, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM sessions s
		JOIN users u ON u.id = s.user_id` + where
	if err := db.reader.QueryRowContext(
		ctx, countQuery, args...,
	).Scan(&total); err != nil {
		return ActivityPage{}, fmt.Errorf("counting activities: %w", err)
	}

	query := `SELECT
			s.id, ` + kindExpr + `, u.email,
			COALESCE(s.title, ''), s.started_at, s.is_shared_twin,
			(SELECT COUNT(*) FROM messages m WHERE m.session_id = s.id),
			EXISTS (SELECT 1 FROM documents d WHERE d.session_id = s.id),
			EXISTS (SELECT 1 FROM queries q WHERE q.session_id = s.id),
			(SELECT ou.email FROM twins t
			 JOIN users ou ON ou.id = t.user_id
			 WHERE t.id = s.twin_id)
		FROM sessions s
		JOIN users u ON u.id = s.user_id` + where + `
		ORDER BY s.started_at DESC, s.id DESC
		LIMIT ? OFFSET ?`
	args = append(args, f.Limit, (f.Page-1)*f.Limit)

	rows, err := db.reader.QueryContext(ctx, query, args...)
	if err != nil {
		return ActivityPage{}, fmt.Errorf("querying activities: %w", err)
	}
	defer rows.Close()

	items := []ActivityItem{}
	for rows.Next() {
		var it ActivityItem
		var title, startedAt string
		var owner sql.NullString
		if err := rows.Scan(
			&it.ID, &it.Type, &it.User, &title, &startedAt,
			&it.IsShared, &it.MessageCount,
			&it.HasDocuments, &it.HasQueries, &owner,
		); err != nil {
			return ActivityPage{}, fmt.Errorf("scanning activity row: %w", err)
		}
		it.Action = title
		if it.Action == "" {
			it.Action = activityLabels[it.Type]
		}
		it.Duration = "N/A"
		if ts, err := timeutil.ParseTimestamp(startedAt); err == nil {
			it.Time = timeutil.TimeAgo(ts, f.Now)
		}
		if it.IsShared && owner.Valid {
			it.TwinOwner = &owner.String
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return ActivityPage{}, fmt.Errorf("iterating activity rows: %w", err)
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + f.Limit - 1) / f.Limit
	}
	return ActivityPage{
		Items:      items,
		Total:      total,
		Page:       f.Page,
		Limit:      f.Limit,
		TotalPages: totalPages,
		HasNext:    f.Page < totalPages,
		HasPrev:    f.Page > 1,
	}, nil
}

// DocumentView annotates a message with the document it produced.
type DocumentView struct {
	Title   string `json:"title"`
	Preview string `json:"preview"`
}

// QueryView annotates a message with the retrieval it triggered.
type QueryView struct {
	QueryText     string   `json:"queryText"`
	RetrievedInfo string   `json:"retrievedInfo"`
	Sources       []string `json:"sources"`
}

// MessageView is one transcript message with optional artifact
// annotations.
type MessageView struct {
	Sender    string        `json:"sender"`
	Content   string        `json:"content"`
	Timestamp string        `json:"timestamp"`
	Document  *DocumentView `json:"document,omitempty"`
	Query     *QueryView    `json:"query,omitempty"`
}

// ActivityDetail is the full transcript view of one session.
type ActivityDetail struct {
	ID                 string        `json:"id"`
	Type               string        `json:"type"`
	User               string        `json:"user"`
	Action             string        `json:"action"`
	Time               string        `json:"time"`
	Duration           string        `json:"duration"`
	IsShared           bool          `json:"isShared"`
	TwinOwner          string        `json:"twinOwner"`
	InteractionSummary string        `json:"interactionSummary,omitempty"`
	Messages           []MessageView `json:"messages"`
}

const documentPreviewLen = 500

// GetActivityDetail loads one session's transcript with document and
// query annotations matched to their triggering messages. Returns
// (nil, nil) when no session has the given id.
func (db *DB) GetActivityDetail(
	ctx context.Context, id string, now time.Time,
) (*ActivityDetail, error) {
	if now.IsZero() {
		now = time.Now().UTC()
	}

	var d ActivityDetail
	var title, startedAt string
	var owner sql.NullString
	err := db.reader.QueryRowContext(ctx, `SELECT
			s.id, `+kindExpr+`, u.email,
			COALESCE(s.title, ''), s.started_at, s.is_shared_twin,
			(SELECT ou.email FROM twins t
			 JOIN users ou ON ou.id = t.user_id
			 WHERE t.id = s.twin_id)
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.id = ?`, id).Scan(
		&d.ID, &d.Type, &d.User, &title, &startedAt,
		&d.IsShared, &owner,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying activity %s: %w", id, err)
	}

	d.Action = title
	if d.Action == "" {
		d.Action = activityLabels[d.Type]
	}
	d.Duration = "N/A"
	if ts, err := timeutil.ParseTimestamp(startedAt); err == nil {
		d.Time = timeutil.TimeAgo(ts, now)
	}
	d.TwinOwner = "Unknown"
	if owner.Valid {
		d.TwinOwner = owner.String
	}
	if d.IsShared {
		d.InteractionSummary = fmt.Sprintf("Used %s's Twin", d.TwinOwner)
	}

	docs, err := db.sessionDocuments(ctx, id)
	if err != nil {
		return nil, err
	}
	queries, err := db.sessionQueries(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := db.reader.QueryContext(ctx, `
		SELECT id, sender, content, created_at FROM messages
		WHERE session_id = ? ORDER BY created_at, id`, id)
	if err != nil {
		return nil, fmt.Errorf("querying messages for %s: %w", id, err)
	}
	defer rows.Close()

	d.Messages = []MessageView{}
	for rows.Next() {
		var msgID, sender, content, createdAt string
		if err := rows.Scan(&msgID, &sender, &content, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning message row: %w", err)
		}
		mv := MessageView{Sender: sender, Content: content}
		if ts, err := timeutil.ParseTimestamp(createdAt); err == nil {
			mv.Timestamp = ts.Format("03:04 PM")
		}
		if doc, ok := docs[msgID]; ok {
			mv.Document = doc
		}
		if q, ok := queries[msgID]; ok {
			mv.Query = q
		}
		d.Messages = append(d.Messages, mv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating message rows: %w", err)
	}
	return &d, nil
}

// sessionDocuments maps triggering message id to a document view for
// one session. Documents without a message link are not shown in the
// transcript.
func (db *DB) sessionDocuments(
	ctx context.Context, sessionID string,
) (map[string]*DocumentView, error) {
	rows, err := db.reader.QueryContext(ctx, `
		SELECT message_id, title, COALESCE(content, '')
		FROM documents
		WHERE session_id = ? AND message_id IS NOT NULL`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying documents for %s: %w", sessionID, err)
	}
	defer rows.Close()

	docs := make(map[string]*DocumentView)
	for rows.Next() {
		var msgID, title, content string
		if err := rows.Scan(&msgID, &title, &content); err != nil {
			return nil, fmt.Errorf("scanning document row: %w", err)
		}
		preview := content
		if len(preview) > documentPreviewLen {
			preview = preview[:documentPreviewLen] + "..."
		}
		docs[msgID] = &DocumentView{Title: title, Preview: preview}
	}
	return docs, rows.Err()
}

// sessionQueries maps triggering message id to a query view for one
// session. Sources come from the stored JSON array; entries that are
// not a JSON array yield no sources.
func (db *DB) sessionQueries(
	ctx context.Context, sessionID string,
) (map[string]*QueryView, error) {
	rows, err := db.reader.QueryContext(ctx, `
		SELECT message_id, query_text, results_count,
		       COALESCE(sources_json, '')
		FROM queries
		WHERE session_id = ? AND message_id IS NOT NULL`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying queries for %s: %w", sessionID, err)
	}
	defer rows.Close()

	queries := make(map[string]*QueryView)
	for rows.Next() {
		var msgID, text, sourcesJSON string
		var results int
		if err := rows.Scan(&msgID, &text, &results, &sourcesJSON); err != nil {
			return nil, fmt.Errorf("scanning query row: %w", err)
		}
		qv := &QueryView{
			QueryText:     text,
			RetrievedInfo: fmt.Sprintf("Found %d results", results),
			Sources:       []string{},
		}
		if parsed := gjson.Parse(sourcesJSON); parsed.IsArray() {
			for _, src := range parsed.Array() {
				qv.Sources = append(qv.Sources, src.String())
			}
		}
		queries[msgID] = qv
	}
	return queries, rows.Err()
}
