package session

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/flixfile/flixctl/internal/shared"
)

// SQLiteStore is a [Store] backed by the sessions table, holding at most one
// row. It lets the CLI stay signed in between invocations, which is the
// process-wide lifetime a browser client gets from its window storage.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a session store on the given database connection.
// The sessions table must exist (see shared.RunMigrations).
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Set writes token and username in a single statement so a concurrent reader
// never observes one field without the other.
func (s *SQLiteStore) Set(token, username string) error {
	query := `
		INSERT INTO sessions (id, token, username, created_at) VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET token = excluded.token, username = excluded.username, created_at = excluded.created_at
	`

	if _, err := s.db.Exec(query, token, username, time.Now()); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrSessionStorage, err)
	}

	return nil
}

// Clear removes the session row.
func (s *SQLiteStore) Clear() error {
	if _, err := s.db.Exec("DELETE FROM sessions WHERE id = 1"); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrSessionStorage, err)
	}
	return nil
}

// Current returns the persisted session. An expired token counts as signed
// out and the stale row is removed lazily.
func (s *SQLiteStore) Current() (Session, bool) {
	var sess Session
	err := s.db.QueryRow("SELECT token, username FROM sessions WHERE id = 1").Scan(&sess.Token, &sess.Username)
	if err == sql.ErrNoRows {
		return Session{}, false
	}
	if err != nil {
		return Session{}, false
	}

	if Expired(sess.Token) {
		// best effort; a failed delete just means the next read retries
		s.Clear()
		return Session{}, false
	}

	return sess, true
}
