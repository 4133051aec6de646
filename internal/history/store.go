package history

import (
	"database/sql"
	_ "embed"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Entry represents a single filter submission
type Entry struct {
	ID           int
	ServerName   string
	ProjectID    int
	UserGroupID  int
	Expression   string
	SubmittedAt  time.Time
	Duration     time.Duration
	Success      bool
	ErrorMessage string
}

// Store manages filter submission history persistence
type Store struct {
	db *sql.DB
}

// NewStore creates a new history store
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	// Create schema
	_, err = db.Exec(schemaSQL)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Add adds a new submission to history
func (s *Store) Add(entry Entry) error {
	_, err := s.db.Exec(`
		INSERT INTO filter_history
		(server_name, project_id, usergroup_id, expression, duration_ms, success, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ServerName,
		entry.ProjectID,
		entry.UserGroupID,
		entry.Expression,
		entry.Duration.Milliseconds(),
		entry.Success,
		entry.ErrorMessage,
	)
	return err
}

// GetRecent retrieves the most recent submissions
func (s *Store) GetRecent(limit int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, server_name, project_id, usergroup_id, expression,
		       submitted_at, duration_ms, success, error_message
		FROM filter_history
		ORDER BY submitted_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanEntries(rows)
}

// Search searches submission history by expression text
func (s *Store) Search(query string, limit int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, server_name, project_id, usergroup_id, expression,
		       submitted_at, duration_ms, success, error_message
		FROM filter_history
		WHERE expression LIKE ?
		ORDER BY submitted_at DESC
		LIMIT ?`, "%"+query+"%", limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanEntries(rows)
}

// Prune deletes all but the most recent max entries
func (s *Store) Prune(max int) error {
	_, err := s.db.Exec(`
		DELETE FROM filter_history
		WHERE id NOT IN (
			SELECT id FROM filter_history
			ORDER BY submitted_at DESC
			LIMIT ?
		)`, max)
	return err
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		var durationMs int64
		var submittedAt string

		err := rows.Scan(
			&e.ID,
			&e.ServerName,
			&e.ProjectID,
			&e.UserGroupID,
			&e.Expression,
			&submittedAt,
			&durationMs,
			&e.Success,
			&e.ErrorMessage,
		)
		if err != nil {
			return nil, err
		}

		e.Duration = time.Duration(durationMs) * time.Millisecond
		e.SubmittedAt, _ = time.Parse("2006-01-02 15:04:05", submittedAt)

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
