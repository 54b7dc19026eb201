// Package store is the relational persistence layer: claims, users, and todo
// tasks in sqlite. Methods run plain parameterized SQL and map constraint
// violations to typed errors; they do not validate domain rules — that is the
// caller's job (see internal/claims).
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// ErrDuplicateTask reports an insert conflicting with the (user, text)
// uniqueness of todo tasks.
var ErrDuplicateTask = errors.New("task already exists")

const schema = `
CREATE TABLE IF NOT EXISTS claims (
	user_id INT,
	claim_x INT,
	claim_y INT,
	dimension INT DEFAULT 0,
	claim_time TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS users (
	user_id BIGINT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS todo (
	task_id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id BIGINT NOT NULL,
	task TEXT NOT NULL,
	date DATE,
	time TIME,
	remind_type INT NOT NULL DEFAULT 0,
	datetime_created TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (user_id) REFERENCES users (user_id) ON DELETE CASCADE,
	UNIQUE (user_id, task)
);`

// Store wraps the sqlite handle shared by all wrappers.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// Open opens (creating if needed) the database at path and runs migrations.
// Use ":memory:" for an ephemeral store.
func Open(path string, log zerolog.Logger) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("store: empty db path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("store: creating dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_loc=auto")
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}

	return &Store{db: db, log: log}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// EnsureUser inserts the user row if absent. Task rows hang off it with a
// cascading delete, so every task write goes through here first.
func (s *Store) EnsureUser(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (user_id) VALUES (?) ON CONFLICT DO NOTHING`, userID)
	if err != nil {
		return fmt.Errorf("store: ensure user: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err is a sqlite unique-constraint error.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
