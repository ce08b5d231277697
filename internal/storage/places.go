package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/findosh/tourdesk/internal/models"
)

// PlaceRepository provides points of interest. Activities are places of
// type activity whose booking details live in the activity column.
type PlaceRepository struct {
	db *DB
}

// NewPlaceRepository creates a new place repository
func NewPlaceRepository(db *DB) *PlaceRepository {
	return &PlaceRepository{db: db}
}

// PlaceFilter narrows List. Zero values match everything.
type PlaceFilter struct {
	Type       models.PlaceType
	Category   string
	Occupancy  string // low, medium or high
	Search     string
	ActiveOnly bool
}

type activityDetails struct {
	Price               decimal.Decimal           `json:"price"`
	Duration            int                       `json:"duration"`
	MaxCapacity         int                       `json:"maxCapacity"`
	RequiresReservation bool                      `json:"requiresReservation"`
	ReservationURL      string                    `json:"reservationUrl"`
	Schedule            []models.ActivitySchedule `json:"schedule"`
}

const placeColumns = `id, name, type, category, description, address, latitude, longitude, occupancy,
	featured_image, gallery, features, is_active, activity, created_at, updated_at`

// Create inserts a place
func (r *PlaceRepository) Create(ctx context.Context, p *models.Place) error {
	return r.insert(ctx, p, nil)
}

// CreateActivity inserts an activity
func (r *PlaceRepository) CreateActivity(ctx context.Context, a *models.Activity) error {
	a.Type = models.PlaceActivity
	details := detailsOf(a)
	return r.insert(ctx, &a.Place, &details)
}

func (r *PlaceRepository) insert(ctx context.Context, p *models.Place, details *activityDetails) error {
	gallery, features, activity, err := encodePlace(p, details)
	if err != nil {
		return err
	}

	query := `INSERT INTO places (` + placeColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		p.ID.String(),
		p.Name,
		string(p.Type),
		p.Category,
		p.Description,
		p.Address,
		p.Latitude,
		p.Longitude,
		p.Occupancy,
		p.FeaturedImage,
		gallery,
		features,
		p.IsActive,
		activity,
		p.CreatedAt.UTC(),
		p.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create place: %w", err)
	}
	return nil
}

// GetByID retrieves any place by ID
func (r *PlaceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Place, error) {
	query := `SELECT ` + placeColumns + ` FROM places WHERE id = ?`
	p, _, err := scanPlace(r.db.QueryRowContext(ctx, query, id.String()))
	return p, err
}

// GetActivity retrieves an activity by ID. Places of other types are not found.
func (r *PlaceRepository) GetActivity(ctx context.Context, id uuid.UUID) (*models.Activity, error) {
	query := `SELECT ` + placeColumns + ` FROM places WHERE id = ? AND type = ?`
	p, details, err := scanPlace(r.db.QueryRowContext(ctx, query, id.String(), string(models.PlaceActivity)))
	if err != nil || p == nil {
		return nil, err
	}
	return activityOf(p, details), nil
}

// List returns places matching f, by name
func (r *PlaceRepository) List(ctx context.Context, f PlaceFilter) ([]models.Place, error) {
	var where []string
	var args []interface{}

	if f.Type != "" {
		where = append(where, "type = ?")
		args = append(args, string(f.Type))
	}
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	switch f.Occupancy {
	case models.OccupancyLow:
		where = append(where, "occupancy <= 30")
	case models.OccupancyMedium:
		where = append(where, "occupancy > 30 AND occupancy <= 70")
	case models.OccupancyHigh:
		where = append(where, "occupancy > 70")
	}
	if f.Search != "" {
		where = append(where, "(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)")
		like := "%" + strings.ToLower(f.Search) + "%"
		args = append(args, like, like)
	}
	if f.ActiveOnly {
		where = append(where, "is_active = 1")
	}

	query := `SELECT ` + placeColumns + ` FROM places`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list places: %w", err)
	}
	defer rows.Close()

	places := []models.Place{}
	for rows.Next() {
		p, _, err := scanPlace(rows)
		if err != nil {
			return nil, err
		}
		places = append(places, *p)
	}
	return places, rows.Err()
}

// ListActivities returns activities, optionally of one category
func (r *PlaceRepository) ListActivities(ctx context.Context, category string) ([]models.Activity, error) {
	query := `SELECT ` + placeColumns + ` FROM places WHERE type = ?`
	args := []interface{}{string(models.PlaceActivity)}
	if category != "" {
		query += ` AND category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	activities := []models.Activity{}
	for rows.Next() {
		p, details, err := scanPlace(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, *activityOf(p, details))
	}
	return activities, rows.Err()
}

// Update replaces a place. Activity details are left untouched.
func (r *PlaceRepository) Update(ctx context.Context, p *models.Place) error {
	gallery, features, _, err := encodePlace(p, nil)
	if err != nil {
		return err
	}

	query := `
		UPDATE places SET name = ?, type = ?, category = ?, description = ?, address = ?,
			latitude = ?, longitude = ?, occupancy = ?, featured_image = ?, gallery = ?,
			features = ?, is_active = ?, updated_at = ?
		WHERE id = ?
	`
	_, err = r.db.ExecContext(ctx, query,
		p.Name,
		string(p.Type),
		p.Category,
		p.Description,
		p.Address,
		p.Latitude,
		p.Longitude,
		p.Occupancy,
		p.FeaturedImage,
		gallery,
		features,
		p.IsActive,
		p.UpdatedAt.UTC(),
		p.ID.String(),
	)
	return err
}

// UpdateActivity replaces an activity including its booking details
func (r *PlaceRepository) UpdateActivity(ctx context.Context, a *models.Activity) error {
	a.Type = models.PlaceActivity
	if err := r.Update(ctx, &a.Place); err != nil {
		return err
	}

	details := detailsOf(a)
	_, _, activity, err := encodePlace(&a.Place, &details)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, "UPDATE places SET activity = ? WHERE id = ?", activity, a.ID.String())
	return err
}

// Delete removes a place
func (r *PlaceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM places WHERE id = ?", id.String())
	return err
}

func detailsOf(a *models.Activity) activityDetails {
	schedule := a.Schedule
	if schedule == nil {
		schedule = []models.ActivitySchedule{}
	}
	return activityDetails{
		Price:               a.Price,
		Duration:            a.Duration,
		MaxCapacity:         a.MaxCapacity,
		RequiresReservation: a.RequiresReservation,
		ReservationURL:      a.ReservationURL,
		Schedule:            schedule,
	}
}

func activityOf(p *models.Place, d *activityDetails) *models.Activity {
	a := &models.Activity{Place: *p, Schedule: []models.ActivitySchedule{}}
	if d == nil {
		return a
	}
	a.Price = d.Price
	a.Duration = d.Duration
	a.MaxCapacity = d.MaxCapacity
	a.RequiresReservation = d.RequiresReservation
	a.ReservationURL = d.ReservationURL
	if d.Schedule != nil {
		a.Schedule = d.Schedule
	}
	return a
}

func encodePlace(p *models.Place, details *activityDetails) (string, string, sql.NullString, error) {
	var activity sql.NullString

	gallery, err := marshalList(p.Gallery)
	if err != nil {
		return "", "", activity, fmt.Errorf("failed to marshal gallery: %w", err)
	}
	features, err := marshalList(p.Features)
	if err != nil {
		return "", "", activity, fmt.Errorf("failed to marshal features: %w", err)
	}

	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			return "", "", activity, fmt.Errorf("failed to marshal activity: %w", err)
		}
		activity = sql.NullString{String: string(data), Valid: true}
	}
	return gallery, features, activity, nil
}

func marshalList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	data, err := json.Marshal(list)
	return string(data), err
}

func scanPlace(row rowScanner) (*models.Place, *activityDetails, error) {
	var p models.Place
	var id, typ, gallery, features string
	var activity sql.NullString

	err := row.Scan(
		&id,
		&p.Name,
		&typ,
		&p.Category,
		&p.Description,
		&p.Address,
		&p.Latitude,
		&p.Longitude,
		&p.Occupancy,
		&p.FeaturedImage,
		&gallery,
		&features,
		&p.IsActive,
		&activity,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan place: %w", err)
	}

	p.ID, _ = uuid.Parse(id)
	p.Type = models.PlaceType(typ)
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()

	if err := json.Unmarshal([]byte(gallery), &p.Gallery); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal gallery: %w", err)
	}
	if err := json.Unmarshal([]byte(features), &p.Features); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal features: %w", err)
	}

	if !activity.Valid {
		return &p, nil, nil
	}
	var details activityDetails
	if err := json.Unmarshal([]byte(activity.String), &details); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal activity: %w", err)
	}
	return &p, &details, nil
}
