package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/findosh/tourdesk/internal/models"
	"github.com/google/uuid"
)

// NewsRepository provides news data access
type NewsRepository struct {
	db *DB
}

// NewNewsRepository creates a new news repository
func NewNewsRepository(db *DB) *NewsRepository {
	return &NewsRepository{db: db}
}

const newsColumns = `id, title, summary, content, cover_image, publish_date, status, author, tags, featured, versions, created_at, updated_at`

// Create inserts a news item
func (r *NewsRepository) Create(ctx context.Context, n *models.NewsItem) error {
	tags, versions, err := encodeNewsLists(n)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO news (` + newsColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		n.ID.String(),
		n.Title,
		n.Summary,
		n.Content,
		n.CoverImage,
		n.PublishDate.UTC(),
		string(n.Status),
		n.Author,
		tags,
		n.Featured,
		versions,
		n.CreatedAt.UTC(),
		n.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create news item: %w", err)
	}
	return nil
}

// GetByID retrieves a news item by ID
func (r *NewsRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.NewsItem, error) {
	query := `SELECT ` + newsColumns + ` FROM news WHERE id = ?`
	return scanNews(r.db.QueryRowContext(ctx, query, id.String()))
}

// List returns news items, newest publish date first. An empty status
// lists every item.
func (r *NewsRepository) List(ctx context.Context, status models.NewsStatus) ([]models.NewsItem, error) {
	query := `SELECT ` + newsColumns + ` FROM news`
	var args []interface{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY publish_date DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list news: %w", err)
	}
	defer rows.Close()

	items := []models.NewsItem{}
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *n)
	}
	return items, rows.Err()
}

// Update replaces a news item
func (r *NewsRepository) Update(ctx context.Context, n *models.NewsItem) error {
	tags, versions, err := encodeNewsLists(n)
	if err != nil {
		return err
	}

	query := `
		UPDATE news SET title = ?, summary = ?, content = ?, cover_image = ?, publish_date = ?,
			status = ?, author = ?, tags = ?, featured = ?, versions = ?, updated_at = ?
		WHERE id = ?
	`
	_, err = r.db.ExecContext(ctx, query,
		n.Title,
		n.Summary,
		n.Content,
		n.CoverImage,
		n.PublishDate.UTC(),
		string(n.Status),
		n.Author,
		tags,
		n.Featured,
		versions,
		n.UpdatedAt.UTC(),
		n.ID.String(),
	)
	return err
}

// Delete removes a news item
func (r *NewsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM news WHERE id = ?", id.String())
	return err
}

// CountPublished counts published items
func (r *NewsRepository) CountPublished(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM news WHERE status = ?", string(models.NewsPublished)).Scan(&count)
	return count, err
}

// CountPublishedBetween counts published items with a publish date in [from, to)
func (r *NewsRepository) CountPublishedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM news WHERE status = ? AND publish_date >= ? AND publish_date < ?",
		string(models.NewsPublished), from.UTC(), to.UTC()).Scan(&count)
	return count, err
}

func encodeNewsLists(n *models.NewsItem) (string, string, error) {
	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal tags: %w", err)
	}

	versions := n.Versions
	if versions == nil {
		versions = []models.NewsVersion{}
	}
	versionsJSON, err := json.Marshal(versions)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal versions: %w", err)
	}
	return string(tagsJSON), string(versionsJSON), nil
}

func scanNews(row rowScanner) (*models.NewsItem, error) {
	var n models.NewsItem
	var id, status, tags, versions string

	err := row.Scan(
		&id,
		&n.Title,
		&n.Summary,
		&n.Content,
		&n.CoverImage,
		&n.PublishDate,
		&status,
		&n.Author,
		&tags,
		&n.Featured,
		&versions,
		&n.CreatedAt,
		&n.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan news item: %w", err)
	}

	n.ID, _ = uuid.Parse(id)
	n.Status = models.NewsStatus(status)
	n.PublishDate = n.PublishDate.UTC()
	n.CreatedAt = n.CreatedAt.UTC()
	n.UpdatedAt = n.UpdatedAt.UTC()

	if err := json.Unmarshal([]byte(tags), &n.Tags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
	}
	if err := json.Unmarshal([]byte(versions), &n.Versions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal versions: %w", err)
	}

	return &n, nil
}
