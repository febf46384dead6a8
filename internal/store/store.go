package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

// Store holds session history and settings. Activity progress itself lives
// in the JSON progress file.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS sessions (
		id          TEXT PRIMARY KEY,
		label       TEXT NOT NULL,
		started_at  TEXT NOT NULL,
		ended_at    TEXT NOT NULL,
		seconds     INTEGER NOT NULL DEFAULT 0,
		outcome     TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_label   ON sessions(label);
	CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at);

	CREATE TABLE IF NOT EXISTS adjustments (
		id          TEXT PRIMARY KEY,
		label       TEXT NOT NULL,
		delta       INTEGER NOT NULL,
		created_at  TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_adjustments_label ON adjustments(label);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('default_budget_hours', '10000'),
		('history_days',         '7');
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDataDir returns ~/.config/tenk
func DefaultDataDir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "tenk"), nil
}

// DBPath returns the history database path inside dataDir.
func DBPath(dataDir string) string {
	return filepath.Join(dataDir, "tenk.db")
}
