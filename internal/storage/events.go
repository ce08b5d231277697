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

// EventRepository provides event data access
type EventRepository struct {
	db *DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db}
}

// EventFilter narrows List. From and To select events overlapping [From, To).
type EventFilter struct {
	Status   models.EventStatus
	Category string
	From     time.Time
	To       time.Time
}

const eventColumns = `id, title, description, location, image, start_date, end_date, category, is_public, status, created_at, updated_at`

// Create inserts an event
func (r *EventRepository) Create(ctx context.Context, e *models.Event) error {
	query := `INSERT INTO events (` + eventColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID.String(),
		e.Title,
		e.Description,
		e.Location,
		e.Image,
		e.StartDate.UTC(),
		e.EndDate.UTC(),
		e.Category,
		e.IsPublic,
		string(e.Status),
		e.CreatedAt.UTC(),
		e.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// GetByID retrieves an event by ID
func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = ?`
	return scanEvent(r.db.QueryRowContext(ctx, query, id.String()))
}

// List returns events matching f, earliest start first
func (r *EventRepository) List(ctx context.Context, f EventFilter) ([]models.Event, error) {
	var where []string
	var args []interface{}

	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if !f.To.IsZero() {
		where = append(where, "start_date < ?")
		args = append(args, f.To.UTC())
	}
	if !f.From.IsZero() {
		where = append(where, "end_date >= ?")
		args = append(args, f.From.UTC())
	}

	query := `SELECT ` + eventColumns + ` FROM events`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY start_date`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

// Update replaces an event
func (r *EventRepository) Update(ctx context.Context, e *models.Event) error {
	query := `
		UPDATE events SET title = ?, description = ?, location = ?, image = ?, start_date = ?,
			end_date = ?, category = ?, is_public = ?, status = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.ExecContext(ctx, query,
		e.Title,
		e.Description,
		e.Location,
		e.Image,
		e.StartDate.UTC(),
		e.EndDate.UTC(),
		e.Category,
		e.IsPublic,
		string(e.Status),
		e.UpdatedAt.UTC(),
		e.ID.String(),
	)
	return err
}

// Delete removes an event
func (r *EventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM events WHERE id = ?", id.String())
	return err
}

func scanEvent(row rowScanner) (*models.Event, error) {
	var e models.Event
	var id, status string

	err := row.Scan(
		&id,
		&e.Title,
		&e.Description,
		&e.Location,
		&e.Image,
		&e.StartDate,
		&e.EndDate,
		&e.Category,
		&e.IsPublic,
		&status,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan event: %w", err)
	}

	e.ID, _ = uuid.Parse(id)
	e.Status = models.EventStatus(status)
	e.StartDate = e.StartDate.UTC()
	e.EndDate = e.EndDate.UTC()
	e.CreatedAt = e.CreatedAt.UTC()
	e.UpdatedAt = e.UpdatedAt.UTC()
	return &e, nil
}
