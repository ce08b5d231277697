package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/findosh/tourdesk/internal/models"
)

// SettingsRepository stores the app-wide settings document as one row
type SettingsRepository struct {
	db *DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the stored settings, or the defaults when none were saved
func (r *SettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	var data string
	var updatedAt time.Time

	err := r.db.QueryRowContext(ctx, "SELECT data, updated_at FROM settings WHERE id = 1").Scan(&data, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	var s models.Settings
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	if s.Translations == nil {
		s.Translations = map[models.Language]map[string]string{}
	}
	s.UpdatedAt = updatedAt.UTC()
	return &s, nil
}

// Save replaces the settings document
func (r *SettingsRepository) Save(ctx context.Context, s *models.Settings) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO settings (id, data, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`, string(data), s.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
