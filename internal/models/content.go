package models

import (
	"time"

	"github.com/google/uuid"
)

// NewsStatus is the publication state of a news item
type NewsStatus string

// News statuses
const (
	NewsDraft     NewsStatus = "draft"
	NewsScheduled NewsStatus = "scheduled"
	NewsPublished NewsStatus = "published"
)

// NewsVersion is a snapshot of a news item's title and body
type NewsVersion struct {
	ID        uuid.UUID `json:"id"`
	Version   int       `json:"version"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewsItem is an article shown in the municipal app
type NewsItem struct {
	ID          uuid.UUID     `json:"id"`
	Title       string        `json:"title" validate:"required,max=200"`
	Summary     string        `json:"summary" validate:"max=500"`
	Content     string        `json:"content"`
	CoverImage  string        `json:"coverImage" validate:"omitempty,url"`
	PublishDate time.Time     `json:"publishDate"`
	Status      NewsStatus    `json:"status" validate:"required,oneof=draft scheduled published"`
	Author      string        `json:"author"`
	Tags        []string      `json:"tags"`
	Featured    bool          `json:"featured"`
	Versions    []NewsVersion `json:"versions"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// NewNewsItem creates a news item with its first version recorded
func NewNewsItem(title, summary, content, author string, status NewsStatus, publishDate time.Time) *NewsItem {
	now := time.Now().UTC()
	if publishDate.IsZero() {
		publishDate = now
	}
	n := &NewsItem{
		ID:          uuid.New(),
		Title:       title,
		Summary:     summary,
		Content:     content,
		PublishDate: publishDate.UTC(),
		Status:      status,
		Author:      author,
		Tags:        []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	n.Versions = []NewsVersion{n.snapshot(author, now)}
	return n
}

// Revise replaces title and content. A new version is appended only when
// either of them actually changed. Returns true if a version was added.
func (n *NewsItem) Revise(title, content, author string, at time.Time) bool {
	if title == n.Title && content == n.Content {
		return false
	}
	n.Title = title
	n.Content = content
	n.UpdatedAt = at.UTC()
	n.Versions = append(n.Versions, n.snapshot(author, at.UTC()))
	return true
}

func (n *NewsItem) snapshot(author string, at time.Time) NewsVersion {
	return NewsVersion{
		ID:        uuid.New(),
		Version:   len(n.Versions) + 1,
		Title:     n.Title,
		Content:   n.Content,
		Author:    author,
		CreatedAt: at,
	}
}

// Notice is a municipal announcement, optionally pushed to app users
type Notice struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"max=2000"`
	Date        time.Time `json:"date"`
	Category    string    `json:"category" validate:"required,max=60"`
	SendPush    bool      `json:"sendPush"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewNotice creates an active notice
func NewNotice(title, description, category string, date time.Time, sendPush bool) *Notice {
	now := time.Now().UTC()
	if date.IsZero() {
		date = now
	}
	return &Notice{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Date:        date.UTC(),
		Category:    category,
		SendPush:    sendPush,
		IsActive:    true,
		CreatedAt:   now,
	}
}
