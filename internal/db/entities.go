package db

import (
	"fmt"
)

// User owns twins and sessions. Company is the grouping key for the
// organization leaderboard and may be empty.
type User struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	FullName     string  `json:"full_name"`
	Company      *string `json:"company"`
	Department   *string `json:"department"`
	CreatedAt    string  `json:"created_at"`
	LastActiveAt *string `json:"last_active_at"`
}

// Twin is an AI agent instance owned by exactly one user.
type Twin struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	IsShared    bool    `json:"is_shared"`
	CreatedAt   string  `json:"created_at"`
}

// Session is one conversation thread. IsSharedTwin must equal
// (twin owner != session user); the store does not re-derive it
// on read paths.
type Session struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	TwinID       string  `json:"twin_id"`
	IsSharedTwin bool    `json:"is_shared_twin"`
	Title        *string `json:"title"`
	StartedAt    string  `json:"started_at"`
}

// Message sender roles.
const (
	SenderUser = "user"
	SenderTwin = "twin"
)

// Message belongs to exactly one session. MessageType tags whether
// the message triggered artifact creation: "general", "document",
// "query", or "document,query". It is derivable from the document
// and query message linkage, not independently authoritative.
type Message struct {
	ID          string `json:"id"`
	SessionID   string `json:"session_id"`
	Sender      string `json:"sender"`
	Content     string `json:"content"`
	MessageType string `json:"message_type"`
	CreatedAt   string `json:"created_at"`
}

// Document is drafted by a twin, always linked to its session and
// optionally to the message that triggered it.
type Document struct {
	ID           string  `json:"id"`
	SessionID    string  `json:"session_id"`
	MessageID    *string `json:"message_id"`
	Title        string  `json:"title"`
	DocumentType *string `json:"document_type"`
	Content      *string `json:"content"`
	WordCount    *int    `json:"word_count"`
	CreatedAt    string  `json:"created_at"`
}

// Query is an information-retrieval request, always linked to its
// session and optionally to the triggering message. SourcesJSON is
// a raw JSON array of source descriptions.
type Query struct {
	ID           string  `json:"id"`
	SessionID    string  `json:"session_id"`
	MessageID    *string `json:"message_id"`
	QueryText    string  `json:"query_text"`
	QueryType    *string `json:"query_type"`
	ResultsCount int     `json:"results_count"`
	SourcesJSON  *string `json:"sources_json"`
	CreatedAt    string  `json:"created_at"`
}

// InsertUser writes a user row.
func (db *DB) InsertUser(u User) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.writer.Exec(`
		INSERT INTO users (
			id, email, full_name, company, department,
			created_at, last_active_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.FullName, u.Company, u.Department,
		u.CreatedAt, u.LastActiveAt)
	if err != nil {
		return fmt.Errorf("inserting user %s: %w", u.ID, err)
	}
	return nil
}

// InsertTwin writes a twin row.
func (db *DB) InsertTwin(t Twin) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.writer.Exec(`
		INSERT INTO twins (
			id, user_id, name, description, is_shared, created_at
		) VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.Name, t.Description, t.IsShared,
		t.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting twin %s: %w", t.ID, err)
	}
	return nil
}

// InsertSession writes a session row.
func (db *DB) InsertSession(s Session) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.writer.Exec(`
		INSERT INTO sessions (
			id, user_id, twin_id, is_shared_twin, title, started_at
		) VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.TwinID, s.IsSharedTwin, s.Title,
		s.StartedAt)
	if err != nil {
		return fmt.Errorf("inserting session %s: %w", s.ID, err)
	}
	return nil
}

// InsertMessage writes a message row.
func (db *DB) InsertMessage(m Message) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if m.MessageType == "" {
		m.MessageType = "general"
	}
	_, err := db.writer.Exec(`
		INSERT INTO messages (
			id, session_id, sender, content, message_type, created_at
		) VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.SessionID, m.Sender, m.Content, m.MessageType,
		m.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting message %s: %w", m.ID, err)
	}
	return nil
}

// InsertDocument writes a document row.
func (db *DB) InsertDocument(d Document) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.writer.Exec(`
		INSERT INTO documents (
			id, session_id, message_id, title, document_type,
			content, word_count, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.SessionID, d.MessageID, d.Title, d.DocumentType,
		d.Content, d.WordCount, d.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting document %s: %w", d.ID, err)
	}
	return nil
}

// InsertQuery writes a query row.
func (db *DB) InsertQuery(q Query) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.writer.Exec(`
		INSERT INTO queries (
			id, session_id, message_id, query_text, query_type,
			results_count, sources_json, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		q.ID, q.SessionID, q.MessageID, q.QueryText, q.QueryType,
		q.ResultsCount, q.SourcesJSON, q.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting query %s: %w", q.ID, err)
	}
	return nil
}
