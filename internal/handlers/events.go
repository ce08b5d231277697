package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/findosh/tourdesk/internal/i18n"
	"github.com/findosh/tourdesk/internal/models"
	"github.com/findosh/tourdesk/internal/storage"
)

type eventRequest struct {
	Title       string             `json:"title" validate:"required,max=200"`
	Description string             `json:"description" validate:"max=4000"`
	Location    string             `json:"location" validate:"max=300"`
	Image       string             `json:"image" validate:"omitempty,url"`
	StartDate   time.Time          `json:"startDate" validate:"required"`
	EndDate     time.Time          `json:"endDate" validate:"required"`
	Category    string             `json:"category" validate:"required,max=60"`
	IsPublic    *bool              `json:"isPublic"`
	Status      models.EventStatus `json:"status" validate:"required,oneof=draft published"`
}

func (req eventRequest) applyTo(e *models.Event) {
	e.Title = req.Title
	e.Description = req.Description
	e.Location = req.Location
	e.Image = req.Image
	e.StartDate = req.StartDate.UTC()
	e.EndDate = req.EndDate.UTC()
	e.Category = req.Category
	e.Status = req.Status
	if req.IsPublic != nil {
		e.IsPublic = *req.IsPublic
	}
}

// ListEvents returns events filtered by ?status, ?category and the
// RFC 3339 range ?from and ?to
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	filter := storage.EventFilter{
		Status:   models.EventStatus(r.URL.Query().Get("status")),
		Category: r.URL.Query().Get("category"),
	}
	switch filter.Status {
	case "", models.EventDraft, models.EventPublished:
	default:
		h.jsonError(w, r, i18n.ErrorBadRequest, http.StatusBadRequest)
		return
	}

	var err error
	if filter.From, err = queryTime(r, "from"); err != nil {
		h.jsonError(w, r, i18n.ErrorBadRequest, http.StatusBadRequest)
		return
	}
	if filter.To, err = queryTime(r, "to"); err != nil {
		h.jsonError(w, r, i18n.ErrorBadRequest, http.StatusBadRequest)
		return
	}

	events, err := h.eventRepo.List(r.Context(), filter)
	if err != nil {
		h.internalError(w, r, err, "failed to list events")
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// GetEvent returns one event
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, ok := h.loadEvent(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// CreateEvent stores a new event
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := decode(r, &req); err != nil {
		h.jsonError(w, r, i18n.ErrorBadRequest, http.StatusBadRequest)
		return
	}

	event := models.NewEvent(req.Title, req.Category, req.StartDate, req.EndDate)
	req.applyTo(event)
	if err := event.Validate(); err != nil {
		h.jsonError(w, r, i18n.ErrorBadRequest, http.StatusBadRequest)
		return
	}

	if err := h.eventRepo.Create(r.Context(), event); err != nil {
		h.internalError(w, r, err, "failed to create event")
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

// UpdateEvent replaces an event
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	event, ok := h.loadEvent(w, r)
	if !ok {
		return
	}

	var req eventRequest
	if err := decode(r, &req); err != nil {
		h.jsonError(w, r, i18n.ErrorBadRequest, http.StatusBadRequest)
		return
	}

	req.applyTo(event)
	event.UpdatedAt = time.Now().UTC()
	if err := event.Validate(); err != nil {
		h.jsonError(w, r, i18n.ErrorBadRequest, http.StatusBadRequest)
		return
	}

	if err := h.eventRepo.Update(r.Context(), event); err != nil {
		h.internalError(w, r, err, "failed to update event")
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// DeleteEvent removes an event
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	event, ok := h.loadEvent(w, r)
	if !ok {
		return
	}

	if err := h.eventRepo.Delete(r.Context(), event.ID); err != nil {
		h.internalError(w, r, err, "failed to delete event")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportEvents serves every event as CSV
func (h *Handler) ExportEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventRepo.List(r.Context(), storage.EventFilter{})
	if err != nil {
		h.internalError(w, r, err, "failed to export events")
		return
	}

	rows := make([][]string, 0, len(events))
	for _, e := range events {
		rows = append(rows, []string{
			e.ID.String(),
			e.Title,
			e.Location,
			e.StartDate.Format(time.RFC3339),
			e.EndDate.Format(time.RFC3339),
			e.Category,
			strconv.FormatBool(e.IsPublic),
			string(e.Status),
		})
	}
	h.writeCSV(w, r, "events.csv",
		[]string{"id", "title", "location", "startDate", "endDate", "category", "isPublic", "status"}, rows)
}

func (h *Handler) loadEvent(w http.ResponseWriter, r *http.Request) (*models.Event, bool) {
	id, err := pathID(r)
	if err != nil {
		h.jsonError(w, r, i18n.ErrorNotFound, http.StatusNotFound)
		return nil, false
	}

	event, err := h.eventRepo.GetByID(r.Context(), id)
	if err != nil {
		h.internalError(w, r, err, "failed to load event")
		return nil, false
	}
	if event == nil {
		h.jsonError(w, r, i18n.ErrorNotFound, http.StatusNotFound)
		return nil, false
	}
	return event, true
}
