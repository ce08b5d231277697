package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/findosh/tourdesk/internal/i18n"
	"github.com/findosh/tourdesk/internal/models"
)

type notificationRequest struct {
	Title         string     `json:"title" validate:"required,max=120"`
	Message       string     `json:"message" validate:"required,max=1000"`
	Type          string     `json:"type" validate:"required,max=40"`
	InternalLink  string     `json:"internalLink" validate:"max=300"`
	TargetUser    string     `json:"targetUser" validate:"max=120"`
	ScheduledDate *time.Time `json:"scheduledDate"`
}

// ListNotifications returns notifications filtered by ?status and ?type
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	status := models.NotificationStatus(r.URL.Query().Get("status"))
	switch status {
	case "", models.NotificationScheduled, models.NotificationSent:
	default:
		h.jsonError(w, r, i18n.ErrorBadRequest, http.StatusBadRequest)
		return
	}

	list, err := h.notificationRepo.List(r.Context(), status, r.URL.Query().Get("type"))
	if err != nil {
		h.internalError(w, r, err, "failed to list notifications")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetNotification returns one notification
func (h *Handler) GetNotification(w http.ResponseWriter, r *http.Request) {
	n, ok := h.loadNotification(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// CreateNotification schedules a notification, or sends it right away
// when no scheduledDate is given
func (h *Handler) CreateNotification(w http.ResponseWriter, r *http.Request) {
	var req notificationRequest
	if err := decode(r, &req); err != nil {
		h.jsonError(w, r, i18n.ErrorBadRequest, http.StatusBadRequest)
		return
	}

	var at time.Time
	if req.ScheduledDate != nil {
		at = *req.ScheduledDate
	}
	n := models.NewNotification(req.Title, req.Message, req.Type, at)
	n.InternalLink = req.InternalLink
	n.TargetUser = req.TargetUser

	if err := h.notificationRepo.Create(r.Context(), n); err != nil {
		h.internalError(w, r, err, "failed to create notification")
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

// UpdateNotification changes a notification that has not been sent
func (h *Handler) UpdateNotification(w http.ResponseWriter, r *http.Request) {
	n, ok := h.loadNotification(w, r)
	if !ok {
		return
	}
	if !n.Editable() {
		h.jsonError(w, r, i18n.ErrorConflict, http.StatusConflict)
		return
	}

	var req notificationRequest
	if err := decode(r, &req); err != nil {
		h.jsonError(w, r, i18n.ErrorBadRequest, http.StatusBadRequest)
		return
	}

	n.Title = req.Title
	n.Message = req.Message
	n.Type = req.Type
	n.InternalLink = req.InternalLink
	n.TargetUser = req.TargetUser
	if req.ScheduledDate != nil {
		at := req.ScheduledDate.UTC()
		n.ScheduledDate = &at
	}

	if err := h.notificationRepo.Update(r.Context(), n); err != nil {
		h.internalError(w, r, err, "failed to update notification")
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// SendNotification sends a scheduled notification now
func (h *Handler) SendNotification(w http.ResponseWriter, r *http.Request) {
	n, ok := h.loadNotification(w, r)
	if !ok {
		return
	}

	if err := n.MarkSent(time.Now()); errors.Is(err, models.ErrNotificationSent) {
		h.jsonError(w, r, i18n.ErrorConflict, http.StatusConflict)
		return
	}

	if err := h.notificationRepo.Update(r.Context(), n); err != nil {
		h.internalError(w, r, err, "failed to send notification")
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// DeleteNotification removes a notification
func (h *Handler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	n, ok := h.loadNotification(w, r)
	if !ok {
		return
	}

	if err := h.notificationRepo.Delete(r.Context(), n.ID); err != nil {
		h.internalError(w, r, err, "failed to delete notification")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) loadNotification(w http.ResponseWriter, r *http.Request) (*models.Notification, bool) {
	id, err := pathID(r)
	if err != nil {
		h.jsonError(w, r, i18n.ErrorNotFound, http.StatusNotFound)
		return nil, false
	}

	n, err := h.notificationRepo.GetByID(r.Context(), id)
	if err != nil {
		h.internalError(w, r, err, "failed to load notification")
		return nil, false
	}
	if n == nil {
		h.jsonError(w, r, i18n.ErrorNotFound, http.StatusNotFound)
		return nil, false
	}
	return n, true
}
