// Package storage persists sessions in a local SQLite file so progress
// survives process restarts.
package storage

import (
	"database/sql"
	"fmt"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/diegocalderon71/escape-san-antonio-bot/game"
)

const schema = `CREATE TABLE IF NOT EXISTS sessions (
	scope_key TEXT PRIMARY KEY,
	data      BLOB NOT NULL
)`

// Store keeps one JSON-encoded session row per scope key.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create sessions table: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save upserts the session for a scope key.
func (s *Store) Save(key game.ScopeKey, sess *game.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", key, err)
	}
	_, err = s.db.Exec(
		`INSERT INTO sessions (scope_key, data) VALUES (?, ?)
		 ON CONFLICT(scope_key) DO UPDATE SET data = excluded.data`,
		string(key), data,
	)
	if err != nil {
		return fmt.Errorf("save session %s: %w", key, err)
	}
	return nil
}

// LoadAll returns every persisted session, keyed by scope. Called once at
// startup to seed the in-memory store.
func (s *Store) LoadAll() (map[game.ScopeKey]*game.Session, error) {
	rows, err := s.db.Query(`SELECT scope_key, data FROM sessions`)
	if err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}
	defer rows.Close()

	sessions := make(map[game.ScopeKey]*game.Session)
	for rows.Next() {
		var key string
		var data []byte
		if err := rows.Scan(&key, &data); err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		var sess game.Session
		if err := json.Unmarshal(data, &sess); err != nil {
			return nil, fmt.Errorf("decode session %s: %w", key, err)
		}
		sessions[game.ScopeKey(key)] = &sess
	}
	return sessions, rows.Err()
}
