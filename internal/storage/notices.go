package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/findosh/tourdesk/internal/models"
	"github.com/google/uuid"
)

// NoticeRepository provides municipal notice data access
type NoticeRepository struct {
	db *DB
}

// NewNoticeRepository creates a new notice repository
func NewNoticeRepository(db *DB) *NoticeRepository {
	return &NoticeRepository{db: db}
}

const noticeColumns = `id, title, description, date, category, send_push, is_active, created_at`

// Create inserts a notice
func (r *NoticeRepository) Create(ctx context.Context, n *models.Notice) error {
	query := `INSERT INTO notices (` + noticeColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		n.ID.String(),
		n.Title,
		n.Description,
		n.Date.UTC(),
		n.Category,
		n.SendPush,
		n.IsActive,
		n.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create notice: %w", err)
	}
	return nil
}

// GetByID retrieves a notice by ID
func (r *NoticeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Notice, error) {
	query := `SELECT ` + noticeColumns + ` FROM notices WHERE id = ?`
	return scanNotice(r.db.QueryRowContext(ctx, query, id.String()))
}

// List returns notices, most recent date first. With activeOnly set,
// inactive notices are skipped.
func (r *NoticeRepository) List(ctx context.Context, activeOnly bool) ([]models.Notice, error) {
	query := `SELECT ` + noticeColumns + ` FROM notices`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY date DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list notices: %w", err)
	}
	defer rows.Close()

	notices := []models.Notice{}
	for rows.Next() {
		n, err := scanNotice(rows)
		if err != nil {
			return nil, err
		}
		notices = append(notices, *n)
	}
	return notices, rows.Err()
}

// Update replaces a notice
func (r *NoticeRepository) Update(ctx context.Context, n *models.Notice) error {
	query := `
		UPDATE notices SET title = ?, description = ?, date = ?, category = ?, send_push = ?, is_active = ?
		WHERE id = ?
	`
	_, err := r.db.ExecContext(ctx, query,
		n.Title,
		n.Description,
		n.Date.UTC(),
		n.Category,
		n.SendPush,
		n.IsActive,
		n.ID.String(),
	)
	return err
}

// Delete removes a notice
func (r *NoticeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM notices WHERE id = ?", id.String())
	return err
}

// CountActive counts active notices
func (r *NoticeRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM notices WHERE is_active = 1").Scan(&count)
	return count, err
}

// CountCreatedBetween counts notices created in [from, to)
func (r *NoticeRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM notices WHERE created_at >= ? AND created_at < ?",
		from.UTC(), to.UTC()).Scan(&count)
	return count, err
}

func scanNotice(row rowScanner) (*models.Notice, error) {
	var n models.Notice
	var id string

	err := row.Scan(
		&id,
		&n.Title,
		&n.Description,
		&n.Date,
		&n.Category,
		&n.SendPush,
		&n.IsActive,
		&n.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan notice: %w", err)
	}

	n.ID, _ = uuid.Parse(id)
	n.Date = n.Date.UTC()
	n.CreatedAt = n.CreatedAt.UTC()
	return &n, nil
}
