package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store wraps the SQLite database holding player state and the event log.
type Store struct {
	db *sqlx.DB
}

// schema creates all tables. Player IDs are stored lowercased; the mastery
// table keys on (player, word).
const schema = `
CREATE TABLE IF NOT EXISTS players (
	id          TEXT PRIMARY KEY,
	vocab_score INTEGER NOT NULL DEFAULT 0,
	math_score  INTEGER NOT NULL DEFAULT 0,
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS word_mastery (
	player_id TEXT NOT NULL,
	word      TEXT NOT NULL,
	mastery   INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (player_id, word)
);

CREATE TABLE IF NOT EXISTS answer_events (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	player_id   TEXT NOT NULL,
	subject     TEXT NOT NULL,
	word        TEXT NOT NULL DEFAULT '',
	mode        TEXT NOT NULL,
	correct     INTEGER NOT NULL,
	points      INTEGER NOT NULL,
	created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS bonus_events (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	player_id   TEXT NOT NULL,
	game_id     TEXT NOT NULL,
	raw_points  INTEGER NOT NULL,
	points      INTEGER NOT NULL,
	created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS judge_events (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	model         TEXT NOT NULL,
	latency_ms    INTEGER NOT NULL,
	input_tokens  INTEGER NOT NULL DEFAULT 0,
	output_tokens INTEGER NOT NULL DEFAULT 0,
	success       INTEGER NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	created_at    TEXT NOT NULL
);
`

// Open creates a Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates the schema.
func Open(dsn string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// OpenOrRecover opens the store at path. A corrupt database file is not
// fatal: it is moved aside, a warning is printed, and a fresh empty store
// is created in its place. Only a second consecutive failure is returned
// as an error.
func OpenOrRecover(path string) (*Store, error) {
	st, err := Open(path)
	if err == nil {
		return st, nil
	}

	// In-memory databases have nothing to move aside.
	if path == ":memory:" {
		return nil, err
	}

	backup := fmt.Sprintf("%s.corrupt.%s", path, time.Now().Format("20060102-150405"))
	if mvErr := os.Rename(path, backup); mvErr != nil {
		return nil, fmt.Errorf("open store: %w (and could not move corrupt file aside: %v)", err, mvErr)
	}
	fmt.Fprintf(os.Stderr, "warning: player store was unreadable, starting fresh (old file kept at %s): %v\n", backup, err)

	return Open(path)
}

// DB returns the underlying sqlx handle for raw queries.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Players returns a PlayerRepo backed by this store.
func (s *Store) Players() *PlayerRepo {
	return newPlayerRepo(s.db)
}

// Events returns an EventRepo backed by this store.
func (s *Store) Events() EventRepo {
	return &eventRepo{db: s.db}
}

// applyPragmas configures SQLite for single-user interactive use.
func applyPragmas(db *sqlx.DB) error {
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
// 1. WORDQUEST_DB environment variable
// 2. $XDG_DATA_HOME/wordquest/wordquest.db
// 3. ~/.local/share/wordquest/wordquest.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("WORDQUEST_DB"); p != "" {
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

	p := filepath.Join(dataHome, "wordquest", "wordquest.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
