package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

const (
	tableSlots   = "attempt_slots"
	tableResults = "attempt_results"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS ` + tableSlots + ` (
		slot       TEXT PRIMARY KEY,
		payload    TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ` + tableResults + ` (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		attempt_id     TEXT NOT NULL,
		test_id        TEXT NOT NULL,
		course_id      TEXT NOT NULL DEFAULT '',
		attempt_number INTEGER NOT NULL,
		score          INTEGER NOT NULL,
		correct        INTEGER NOT NULL,
		wrong          INTEGER NOT NULL,
		finished_at    INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS attempt_results_finished_at ON ` + tableResults + ` (finished_at)`,
}

// Store wraps the SQLite database holding local quiz state.
type Store struct {
	db  *sql.DB
	drv *entsql.Driver
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates missing tables.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	drv := entsql.OpenDB(dialect.SQLite, db)
	if err := migrate(context.Background(), drv); err != nil {
		drv.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{db: db, drv: drv}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// Slots returns the slot repository.
func (s *Store) Slots() *SlotRepo {
	return &SlotRepo{drv: s.drv}
}

// Results returns the finished-attempt history repository.
func (s *Store) Results() *ResultRepo {
	return &ResultRepo{drv: s.drv}
}

func migrate(ctx context.Context, drv *entsql.Driver) error {
	for _, stmt := range schema {
		if err := drv.Exec(ctx, stmt, []any{}, nil); err != nil {
			return err
		}
	}
	return nil
}

// applyPragmas configures SQLite for single-user use.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. QUIZDESK_DB environment variable
// 2. $XDG_DATA_HOME/quizdesk/quizdesk.db
// 3. ~/.local/share/quizdesk/quizdesk.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("QUIZDESK_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "quizdesk", "quizdesk.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
