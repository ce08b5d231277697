package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/findosh/tourdesk/internal/models"
)

// NotificationRepository provides push notification data access
type NotificationRepository struct {
	db *DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

const notificationColumns = `id, title, message, type, internal_link, target_user, status, scheduled_date, sent_date, created_at`

// Create inserts a notification
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	query := `INSERT INTO notifications (` + notificationColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		n.ID.String(),
		n.Title,
		n.Message,
		n.Type,
		n.InternalLink,
		n.TargetUser,
		string(n.Status),
		nullTime(n.ScheduledDate),
		nullTime(n.SentDate),
		n.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// GetByID retrieves a notification by ID
func (r *NotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = ?`
	return scanNotification(r.db.QueryRowContext(ctx, query, id.String()))
}

// List returns notifications, newest first. Empty arguments match all.
func (r *NotificationRepository) List(ctx context.Context, status models.NotificationStatus, typ string) ([]models.Notification, error) {
	var where []string
	var args []interface{}
	if status != "" {
		where = append(where, "status = ?")
		args = append(args, string(status))
	}
	if typ != "" {
		where = append(where, "type = ?")
		args = append(args, typ)
	}

	query := `SELECT ` + notificationColumns + ` FROM notifications`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	list := []models.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *n)
	}
	return list, rows.Err()
}

// Update replaces a notification
func (r *NotificationRepository) Update(ctx context.Context, n *models.Notification) error {
	query := `
		UPDATE notifications SET title = ?, message = ?, type = ?, internal_link = ?, target_user = ?,
			status = ?, scheduled_date = ?, sent_date = ?
		WHERE id = ?
	`
	_, err := r.db.ExecContext(ctx, query,
		n.Title,
		n.Message,
		n.Type,
		n.InternalLink,
		n.TargetUser,
		string(n.Status),
		nullTime(n.ScheduledDate),
		nullTime(n.SentDate),
		n.ID.String(),
	)
	return err
}

// Delete removes a notification
func (r *NotificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM notifications WHERE id = ?", id.String())
	return err
}

// MarkDueSent marks every scheduled notification due at or before now as
// sent and returns how many were.
func (r *NotificationRepository) MarkDueSent(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE notifications SET status = ?, sent_date = ? WHERE status = ? AND scheduled_date <= ?",
		string(models.NotificationSent), now.UTC(), string(models.NotificationScheduled), now.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to send due notifications: %w", err)
	}
	return res.RowsAffected()
}

func scanNotification(row rowScanner) (*models.Notification, error) {
	var n models.Notification
	var id, status string
	var scheduled, sent sql.NullTime

	err := row.Scan(
		&id,
		&n.Title,
		&n.Message,
		&n.Type,
		&n.InternalLink,
		&n.TargetUser,
		&status,
		&scheduled,
		&sent,
		&n.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan notification: %w", err)
	}

	n.ID, _ = uuid.Parse(id)
	n.Status = models.NotificationStatus(status)
	n.CreatedAt = n.CreatedAt.UTC()
	if scheduled.Valid {
		t := scheduled.Time.UTC()
		n.ScheduledDate = &t
	}
	if sent.Valid {
		t := sent.Time.UTC()
		n.SentDate = &t
	}
	return &n, nil
}
