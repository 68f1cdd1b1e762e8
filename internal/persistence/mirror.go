package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Mirror is a durable key-value store for encoded snapshots.
type Mirror interface {
	// Load returns the blob stored under key, or ErrSnapshotNotFound.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save replaces the blob stored under key.
	Save(ctx context.Context, key string, data []byte) error
}

// DBTX is the subset of *sql.DB the SQLite mirror needs. The database
// package's *DB satisfies it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLiteMirror stores blobs in the kv_store table created by the
// kv_store migration.
type SQLiteMirror struct {
	db  DBTX
	now func() time.Time
}

// NewSQLiteMirror returns a mirror over db. Migrations must have been applied.
func NewSQLiteMirror(db DBTX) *SQLiteMirror {
	return &SQLiteMirror{db: db, now: time.Now}
}

// Load implements Mirror.
func (m *SQLiteMirror) Load(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := m.db.QueryRowContext(ctx,
		"SELECT value FROM kv_store WHERE key = ?",
		key,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", key, err)
	}
	return data, nil
}

// Save implements Mirror.
func (m *SQLiteMirror) Save(ctx context.Context, key string, data []byte) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, data, m.now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving %q: %w", key, err)
	}
	return nil
}
