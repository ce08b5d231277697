package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/findosh/tourdesk/internal/session"
)

// KVRepository is a SQLite-backed session.Storage
type KVRepository struct {
	db *DB
}

// NewKVRepository creates a new key/value repository
func NewKVRepository(db *DB) *KVRepository {
	return &KVRepository{db: db}
}

var _ session.Storage = (*KVRepository)(nil)

// Get returns the value stored under key or session.ErrNotFound
func (r *KVRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, "SELECT value FROM kv_store WHERE store_key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read key: %w", err)
	}
	return value, nil
}

// Set inserts or replaces the value under key
func (r *KVRepository) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv_store (store_key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(store_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to write key: %w", err)
	}
	return nil
}

// Delete removes key; a missing key is not an error
func (r *KVRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM kv_store WHERE store_key = ?", key); err != nil {
		return fmt.Errorf("failed to delete key: %w", err)
	}
	return nil
}
