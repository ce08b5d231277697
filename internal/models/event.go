package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// EventStatus is the publication state of an event
type EventStatus string

// Event statuses
const (
	EventDraft     EventStatus = "draft"
	EventPublished EventStatus = "published"
)

// Event is a dated happening in the municipality
type Event struct {
	ID          uuid.UUID   `json:"id"`
	Title       string      `json:"title" validate:"required,max=200"`
	Description string      `json:"description" validate:"max=4000"`
	Location    string      `json:"location" validate:"max=300"`
	Image       string      `json:"image" validate:"omitempty,url"`
	StartDate   time.Time   `json:"startDate" validate:"required"`
	EndDate     time.Time   `json:"endDate" validate:"required"`
	Category    string      `json:"category" validate:"required,max=60"`
	IsPublic    bool        `json:"isPublic"`
	Status      EventStatus `json:"status" validate:"required,oneof=draft published"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// ErrEventEndsBeforeStart is returned for an event whose end precedes its start
var ErrEventEndsBeforeStart = errors.New("event ends before it starts")

// NewEvent creates a public draft event
func NewEvent(title, category string, start, end time.Time) *Event {
	now := time.Now().UTC()
	return &Event{
		ID:        uuid.New(),
		Title:     title,
		Category:  category,
		StartDate: start.UTC(),
		EndDate:   end.UTC(),
		IsPublic:  true,
		Status:    EventDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks tags and the date order
func (e *Event) Validate() error {
	if err := validate.Struct(e); err != nil {
		return err
	}
	if e.EndDate.Before(e.StartDate) {
		return ErrEventEndsBeforeStart
	}
	return nil
}
