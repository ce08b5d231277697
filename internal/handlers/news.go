package handlers

import (
	"net/http"
	"time"

	"github.com/findosh/tourdesk/internal/i18n"
	"github.com/findosh/tourdesk/internal/middleware"
	"github.com/findosh/tourdesk/internal/models"
)

type newsRequest struct {
	Title       string            `json:"title" validate:"required,max=200"`
	Summary     string            `json:"summary" validate:"max=500"`
	Content     string            `json:"content"`
	CoverImage  string            `json:"coverImage" validate:"omitempty,url"`
	PublishDate *time.Time        `json:"publishDate"`
	Status      models.NewsStatus `json:"status" validate:"required,oneof=draft scheduled published"`
	Tags        []string          `json:"tags" validate:"max=20,dive,required,max=40"`
	Featured    bool              `json:"featured"`
}

// ListNews returns news items, optionally filtered by ?status=
func (h *Handler) ListNews(w http.ResponseWriter, r *http.Request) {
	status := models.NewsStatus(r.URL.Query().Get("status"))
	switch status {
	case "", models.NewsDraft, models.NewsScheduled, models.NewsPublished:
	default:
		h.jsonError(w, r, i18n.ErrorBadRequest, http.StatusBadRequest)
		return
	}

	items, err := h.newsRepo.List(r.Context(), status)
	if err != nil {
		h.internalError(w, r, err, "failed to list news")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// GetNews returns one news item
func (h *Handler) GetNews(w http.ResponseWriter, r *http.Request) {
	item, ok := h.loadNews(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// CreateNews stores a new news item authored by the session user
func (h *Handler) CreateNews(w http.ResponseWriter, r *http.Request) {
	var req newsRequest
	if err := decode(r, &req); err != nil {
		h.jsonError(w, r, i18n.ErrorBadRequest, http.StatusBadRequest)
		return
	}

	var publishDate time.Time
	if req.PublishDate != nil {
		publishDate = *req.PublishDate
	}
	item := models.NewNewsItem(req.Title, req.Summary, req.Content, middleware.GetUser(r).Name, req.Status, publishDate)
	item.CoverImage = req.CoverImage
	item.Featured = req.Featured
	if req.Tags != nil {
		item.Tags = req.Tags
	}

	if err := h.newsRepo.Create(r.Context(), item); err != nil {
		h.internalError(w, r, err, "failed to create news item")
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// UpdateNews replaces a news item. A changed title or content is recorded
// as a new version.
func (h *Handler) UpdateNews(w http.ResponseWriter, r *http.Request) {
	item, ok := h.loadNews(w, r)
	if !ok {
		return
	}

	var req newsRequest
	if err := decode(r, &req); err != nil {
		h.jsonError(w, r, i18n.ErrorBadRequest, http.StatusBadRequest)
		return
	}

	now := time.Now().UTC()
	item.Revise(req.Title, req.Content, middleware.GetUser(r).Name, now)
	item.Summary = req.Summary
	item.CoverImage = req.CoverImage
	item.Status = req.Status
	item.Featured = req.Featured
	if req.PublishDate != nil {
		item.PublishDate = req.PublishDate.UTC()
	}
	if req.Tags != nil {
		item.Tags = req.Tags
	}
	item.UpdatedAt = now

	if err := h.newsRepo.Update(r.Context(), item); err != nil {
		h.internalError(w, r, err, "failed to update news item")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// DeleteNews removes a news item
func (h *Handler) DeleteNews(w http.ResponseWriter, r *http.Request) {
	item, ok := h.loadNews(w, r)
	if !ok {
		return
	}

	if err := h.newsRepo.Delete(r.Context(), item.ID); err != nil {
		h.internalError(w, r, err, "failed to delete news item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) loadNews(w http.ResponseWriter, r *http.Request) (*models.NewsItem, bool) {
	id, err := pathID(r)
	if err != nil {
		h.jsonError(w, r, i18n.ErrorNotFound, http.StatusNotFound)
		return nil, false
	}

	item, err := h.newsRepo.GetByID(r.Context(), id)
	if err != nil {
		h.internalError(w, r, err, "failed to load news item")
		return nil, false
	}
	if item == nil {
		h.jsonError(w, r, i18n.ErrorNotFound, http.StatusNotFound)
		return nil, false
	}
	return item, true
}
