// Package sqlite implements an optional, file-backed chat-history store
// used only by the reference HTTP surface's /chat endpoint — the POC
// itself never requires persistence.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/libreassistant/poc/internal/poc/store"
)

// Store is a minimal append/fetch chat-history table backed by sqlite3.
type Store struct {
	db *sql.DB
}

// Open creates (if needed) the history table at path and returns a Store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db %q: %w", path, err)
	}
	const schema = `
CREATE TABLE IF NOT EXISTS chat_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_key TEXT NOT NULL,
	role TEXT NOT NULL,
	content TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_chat_history_session ON chat_history(session_key);
`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

var _ store.ChatHistoryStore = (*Store)(nil)

// AppendTurn inserts one turn for sessionKey.
func (s *Store) AppendTurn(ctx context.Context, sessionKey string, turn store.HistoryTurn) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_history (session_key, role, content) VALUES (?, ?, ?)`,
		sessionKey, turn.Role, turn.Content)
	if err != nil {
		return fmt.Errorf("append turn: %w", err)
	}
	return nil
}

// FetchHistory returns every turn for sessionKey, oldest first.
func (s *Store) FetchHistory(ctx context.Context, sessionKey string) ([]store.HistoryTurn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT role, content FROM chat_history WHERE session_key = ? ORDER BY id ASC`, sessionKey)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	defer rows.Close()

	var out []store.HistoryTurn
	for rows.Next() {
		var t store.HistoryTurn
		if err := rows.Scan(&t.Role, &t.Content); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
