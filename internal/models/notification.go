package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// NotificationStatus tracks whether a push notification went out
type NotificationStatus string

// Notification statuses
const (
	NotificationScheduled NotificationStatus = "scheduled"
	NotificationSent      NotificationStatus = "sent"
)

// ErrNotificationSent is returned when changing a notification that was sent
var ErrNotificationSent = errors.New("notification already sent")

// Notification is a push message for app users
type Notification struct {
	ID            uuid.UUID          `json:"id"`
	Title         string             `json:"title" validate:"required,max=120"`
	Message       string             `json:"message" validate:"required,max=1000"`
	Type          string             `json:"type" validate:"required,max=40"`
	InternalLink  string             `json:"internalLink,omitempty" validate:"max=300"`
	TargetUser    string             `json:"targetUser,omitempty" validate:"max=120"`
	Status        NotificationStatus `json:"status" validate:"required,oneof=scheduled sent"`
	ScheduledDate *time.Time         `json:"scheduledDate,omitempty"`
	SentDate      *time.Time         `json:"sentDate,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
}

// NewNotification creates a notification due at scheduledAt. A zero
// scheduledAt means it is sent right away.
func NewNotification(title, message, typ string, scheduledAt time.Time) *Notification {
	now := time.Now().UTC()
	n := &Notification{
		ID:        uuid.New(),
		Title:     title,
		Message:   message,
		Type:      typ,
		Status:    NotificationScheduled,
		CreatedAt: now,
	}
	if scheduledAt.IsZero() {
		n.Status = NotificationSent
		n.SentDate = &now
		return n
	}
	at := scheduledAt.UTC()
	n.ScheduledDate = &at
	return n
}

// Editable reports whether the notification can still be changed
func (n *Notification) Editable() bool {
	return n.Status == NotificationScheduled
}

// MarkSent records delivery at the given time
func (n *Notification) MarkSent(at time.Time) error {
	if n.Status == NotificationSent {
		return ErrNotificationSent
	}
	sent := at.UTC()
	n.Status = NotificationSent
	n.SentDate = &sent
	return nil
}
