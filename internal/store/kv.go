package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Entry is a single named value in the kv table. Each write is one
// statement, so an interrupted caller never leaves a partial value behind.
type Entry struct {
	db  *sql.DB
	key string
}

// Key returns the entry name.
func (e *Entry) Key() string {
	return e.key
}

// Get returns the stored value and whether it exists.
func (e *Entry) Get(ctx context.Context) (string, bool, error) {
	var value string
	err := e.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, e.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", e.key, err)
	}
	return value, true, nil
}

// Set stores value, replacing any previous one.
func (e *Entry) Set(ctx context.Context, value string) error {
	_, err := e.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		e.key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set %s: %w", e.key, err)
	}
	return nil
}

// Clear removes the entry. Clearing a missing entry is not an error.
func (e *Entry) Clear(ctx context.Context) error {
	if _, err := e.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, e.key); err != nil {
		return fmt.Errorf("clear %s: %w", e.key, err)
	}
	return nil
}
