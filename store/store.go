// Package store keeps a local log of captured subscriber emails in a
// sqlite database. The mailing-list service stays the source of truth;
// the log gives a cheap duplicate short-circuit and an audit trail that
// survives upstream outages.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store wraps the subscriber database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the subscriber database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open subscriber db %s: %w", path, err)
	}
	const schema = `CREATE TABLE IF NOT EXISTS subscribers (
		email TEXT PRIMARY KEY,
		subscribed_at TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create subscribers table: %w", err)
	}
	return &Store{db: db}, nil
}

// Record logs a successful subscription. Recording the same email twice
// is a no-op.
func (s *Store) Record(email string) error {
	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO subscribers (email, subscribed_at) VALUES (?, ?)",
		email, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("record subscriber: %w", err)
	}
	return nil
}

// Exists reports whether an email has already been recorded.
func (s *Store) Exists(email string) (bool, error) {
	rows, err := s.db.Query("SELECT 1 FROM subscribers WHERE email = ?", email)
	if err != nil {
		return false, err
	}
	defer rows.Close()
	return rows.Next(), nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
