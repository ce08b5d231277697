package handlers

import (
	"net/http"
	"time"

	"github.com/findosh/tourdesk/internal/i18n"
	"github.com/findosh/tourdesk/internal/models"
)

type noticeRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description" validate:"max=2000"`
	Date        *time.Time `json:"date"`
	Category    string     `json:"category" validate:"required,max=60"`
	SendPush    bool       `json:"sendPush"`
	IsActive    *bool      `json:"isActive"`
}

// ListNotices returns notices; ?active=true skips inactive ones
func (h *Handler) ListNotices(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	notices, err := h.noticeRepo.List(r.Context(), activeOnly)
	if err != nil {
		h.internalError(w, r, err, "failed to list notices")
		return
	}
	writeJSON(w, http.StatusOK, notices)
}

// GetNotice returns one notice
func (h *Handler) GetNotice(w http.ResponseWriter, r *http.Request) {
	notice, ok := h.loadNotice(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, notice)
}

// CreateNotice stores a new notice
func (h *Handler) CreateNotice(w http.ResponseWriter, r *http.Request) {
	var req noticeRequest
	if err := decode(r, &req); err != nil {
		h.jsonError(w, r, i18n.ErrorBadRequest, http.StatusBadRequest)
		return
	}

	var date time.Time
	if req.Date != nil {
		date = *req.Date
	}
	notice := models.NewNotice(req.Title, req.Description, req.Category, date, req.SendPush)
	if req.IsActive != nil {
		notice.IsActive = *req.IsActive
	}

	if err := h.noticeRepo.Create(r.Context(), notice); err != nil {
		h.internalError(w, r, err, "failed to create notice")
		return
	}
	writeJSON(w, http.StatusCreated, notice)
}

// UpdateNotice replaces a notice
func (h *Handler) UpdateNotice(w http.ResponseWriter, r *http.Request) {
	notice, ok := h.loadNotice(w, r)
	if !ok {
		return
	}

	var req noticeRequest
	if err := decode(r, &req); err != nil {
		h.jsonError(w, r, i18n.ErrorBadRequest, http.StatusBadRequest)
		return
	}

	notice.Title = req.Title
	notice.Description = req.Description
	notice.Category = req.Category
	notice.SendPush = req.SendPush
	if req.Date != nil {
		notice.Date = req.Date.UTC()
	}
	if req.IsActive != nil {
		notice.IsActive = *req.IsActive
	}

	if err := h.noticeRepo.Update(r.Context(), notice); err != nil {
		h.internalError(w, r, err, "failed to update notice")
		return
	}
	writeJSON(w, http.StatusOK, notice)
}

// DeleteNotice removes a notice
func (h *Handler) DeleteNotice(w http.ResponseWriter, r *http.Request) {
	notice, ok := h.loadNotice(w, r)
	if !ok {
		return
	}

	if err := h.noticeRepo.Delete(r.Context(), notice.ID); err != nil {
		h.internalError(w, r, err, "failed to delete notice")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) loadNotice(w http.ResponseWriter, r *http.Request) (*models.Notice, bool) {
	id, err := pathID(r)
	if err != nil {
		h.jsonError(w, r, i18n.ErrorNotFound, http.StatusNotFound)
		return nil, false
	}

	notice, err := h.noticeRepo.GetByID(r.Context(), id)
	if err != nil {
		h.internalError(w, r, err, "failed to load notice")
		return nil, false
	}
	if notice == nil {
		h.jsonError(w, r, i18n.ErrorNotFound, http.StatusNotFound)
		return nil, false
	}
	return notice, true
}
