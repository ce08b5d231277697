package handlers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/findosh/tourdesk/internal/i18n"
	"github.com/findosh/tourdesk/internal/models"
	"github.com/findosh/tourdesk/internal/storage"
)

// placeFields are the point-of-interest fields shared by places and activities
type placeFields struct {
	Name          string   `json:"name" validate:"required,max=200"`
	Category      string   `json:"category" validate:"required,max=60"`
	Description   string   `json:"description" validate:"max=4000"`
	Address       string   `json:"address" validate:"max=300"`
	Latitude      float64  `json:"latitude" validate:"min=-90,max=90"`
	Longitude     float64  `json:"longitude" validate:"min=-180,max=180"`
	Occupancy     int      `json:"occupancy" validate:"min=0,max=100"`
	FeaturedImage string   `json:"featuredImage" validate:"omitempty,url"`
	Gallery       []string `json:"gallery" validate:"max=30,dive,url"`
	Features      []string `json:"features" validate:"max=30,dive,required,max=60"`
	IsActive      *bool    `json:"isActive"`
}

func (f placeFields) applyTo(p *models.Place) {
	p.Name = f.Name
	p.Category = f.Category
	p.Description = f.Description
	p.Address = f.Address
	p.Latitude = f.Latitude
	p.Longitude = f.Longitude
	p.Occupancy = f.Occupancy
	p.FeaturedImage = f.FeaturedImage
	p.Gallery = f.Gallery
	if p.Gallery == nil {
		p.Gallery = []string{}
	}
	p.Features = f.Features
	if p.Features == nil {
		p.Features = []string{}
	}
	if f.IsActive != nil {
		p.IsActive = *f.IsActive
	}
}

// activities have their own endpoints
type placeRequest struct {
	placeFields
	Type models.PlaceType `json:"type" validate:"required,oneof=restaurant beach viewpoint shop park sports"`
}

type activityRequest struct {
	placeFields
	Price               decimal.Decimal           `json:"price"`
	Duration            int                       `json:"duration" validate:"min=0"`
	MaxCapacity         int                       `json:"maxCapacity" validate:"min=0"`
	RequiresReservation bool                      `json:"requiresReservation"`
	ReservationURL      string                    `json:"reservationUrl" validate:"omitempty,url"`
	Schedule            []models.ActivitySchedule `json:"schedule" validate:"max=50,dive"`
}

func (req activityRequest) applyTo(a *models.Activity) {
	req.placeFields.applyTo(&a.Place)
	a.Price = req.Price
	a.Duration = req.Duration
	a.MaxCapacity = req.MaxCapacity
	a.RequiresReservation = req.RequiresReservation
	a.ReservationURL = req.ReservationURL
	a.Schedule = req.Schedule
	if a.Schedule == nil {
		a.Schedule = []models.ActivitySchedule{}
	}
}

// ListPlaces returns points of interest filtered by ?type, ?category,
// ?occupancy (low|medium|high), ?q and ?active=true
func (h *Handler) ListPlaces(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := storage.PlaceFilter{
		Type:       models.PlaceType(q.Get("type")),
		Category:   q.Get("category"),
		Occupancy:  q.Get("occupancy"),
		Search:     q.Get("q"),
		ActiveOnly: q.Get("active") == "true",
	}

	switch filter.Type {
	case "", models.PlaceActivity, models.PlaceRestaurant, models.PlaceBeach, models.PlaceViewpoint,
		models.PlaceShop, models.PlacePark, models.PlaceSports:
	default:
		h.jsonError(w, r, i18n.ErrorBadRequest, http.StatusBadRequest)
		return
	}
	switch filter.Occupancy {
	case "", models.OccupancyLow, models.OccupancyMedium, models.OccupancyHigh:
	default:
		h.jsonError(w, r, i18n.ErrorBadRequest, http.StatusBadRequest)
		return
	}

	places, err := h.placeRepo.List(r.Context(), filter)
	if err != nil {
		h.internalError(w, r, err, "failed to list places")
		return
	}
	writeJSON(w, http.StatusOK, places)
}

// GetPlace returns one point of interest of any type
func (h *Handler) GetPlace(w http.ResponseWriter, r *http.Request) {
	place, ok := h.loadPlace(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, place)
}

// CreatePlace stores a new point of interest
func (h *Handler) CreatePlace(w http.ResponseWriter, r *http.Request) {
	var req placeRequest
	if err := decode(r, &req); err != nil {
		h.jsonError(w, r, i18n.ErrorBadRequest, http.StatusBadRequest)
		return
	}

	place := models.NewPlace(req.Name, req.Type, req.Category)
	req.placeFields.applyTo(place)

	if err := h.placeRepo.Create(r.Context(), place); err != nil {
		h.internalError(w, r, err, "failed to create place")
		return
	}
	writeJSON(w, http.StatusCreated, place)
}

// UpdatePlace replaces a point of interest. Activities are changed through
// their own endpoint.
func (h *Handler) UpdatePlace(w http.ResponseWriter, r *http.Request) {
	place, ok := h.loadPlace(w, r)
	if !ok {
		return
	}
	if place.Type == models.PlaceActivity {
		h.jsonError(w, r, i18n.ErrorConflict, http.StatusConflict)
		return
	}

	var req placeRequest
	if err := decode(r, &req); err != nil {
		h.jsonError(w, r, i18n.ErrorBadRequest, http.StatusBadRequest)
		return
	}

	req.placeFields.applyTo(place)
	place.Type = req.Type
	place.UpdatedAt = time.Now().UTC()

	if err := h.placeRepo.Update(r.Context(), place); err != nil {
		h.internalError(w, r, err, "failed to update place")
		return
	}
	writeJSON(w, http.StatusOK, place)
}

// DeletePlace removes a point of interest, activities included
func (h *Handler) DeletePlace(w http.ResponseWriter, r *http.Request) {
	place, ok := h.loadPlace(w, r)
	if !ok {
		return
	}

	if err := h.placeRepo.Delete(r.Context(), place.ID); err != nil {
		h.internalError(w, r, err, "failed to delete place")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListActivities returns activities, optionally filtered by ?category
func (h *Handler) ListActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := h.placeRepo.ListActivities(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.internalError(w, r, err, "failed to list activities")
		return
	}
	writeJSON(w, http.StatusOK, activities)
}

// GetActivity returns one activity
func (h *Handler) GetActivity(w http.ResponseWriter, r *http.Request) {
	activity, ok := h.loadActivity(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, activity)
}

// CreateActivity stores a new activity
func (h *Handler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	var req activityRequest
	if err := decode(r, &req); err != nil {
		h.jsonError(w, r, i18n.ErrorBadRequest, http.StatusBadRequest)
		return
	}

	activity := models.NewActivity(req.Name, req.Category, req.Price)
	req.applyTo(activity)
	if err := activity.Validate(); err != nil {
		h.jsonError(w, r, i18n.ErrorBadRequest, http.StatusBadRequest)
		return
	}

	if err := h.placeRepo.CreateActivity(r.Context(), activity); err != nil {
		h.internalError(w, r, err, "failed to create activity")
		return
	}
	writeJSON(w, http.StatusCreated, activity)
}

// UpdateActivity replaces an activity
func (h *Handler) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	activity, ok := h.loadActivity(w, r)
	if !ok {
		return
	}

	var req activityRequest
	if err := decode(r, &req); err != nil {
		h.jsonError(w, r, i18n.ErrorBadRequest, http.StatusBadRequest)
		return
	}

	req.applyTo(activity)
	activity.UpdatedAt = time.Now().UTC()
	if err := activity.Validate(); err != nil {
		h.jsonError(w, r, i18n.ErrorBadRequest, http.StatusBadRequest)
		return
	}

	if err := h.placeRepo.UpdateActivity(r.Context(), activity); err != nil {
		h.internalError(w, r, err, "failed to update activity")
		return
	}
	writeJSON(w, http.StatusOK, activity)
}

// DeleteActivity removes an activity
func (h *Handler) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	activity, ok := h.loadActivity(w, r)
	if !ok {
		return
	}

	if err := h.placeRepo.Delete(r.Context(), activity.ID); err != nil {
		h.internalError(w, r, err, "failed to delete activity")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) loadPlace(w http.ResponseWriter, r *http.Request) (*models.Place, bool) {
	id, err := pathID(r)
	if err != nil {
		h.jsonError(w, r, i18n.ErrorNotFound, http.StatusNotFound)
		return nil, false
	}

	place, err := h.placeRepo.GetByID(r.Context(), id)
	if err != nil {
		h.internalError(w, r, err, "failed to load place")
		return nil, false
	}
	if place == nil {
		h.jsonError(w, r, i18n.ErrorNotFound, http.StatusNotFound)
		return nil, false
	}
	return place, true
}

func (h *Handler) loadActivity(w http.ResponseWriter, r *http.Request) (*models.Activity, bool) {
	id, err := pathID(r)
	if err != nil {
		h.jsonError(w, r, i18n.ErrorNotFound, http.StatusNotFound)
		return nil, false
	}

	activity, err := h.placeRepo.GetActivity(r.Context(), id)
	if err != nil {
		h.internalError(w, r, err, "failed to load activity")
		return nil, false
	}
	if activity == nil {
		h.jsonError(w, r, i18n.ErrorNotFound, http.StatusNotFound)
		return nil, false
	}
	return activity, true
}
