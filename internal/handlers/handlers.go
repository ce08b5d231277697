// Package handlers provides HTTP request handlers
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/findosh/tourdesk/internal/config"
	"github.com/findosh/tourdesk/internal/i18n"
	"github.com/findosh/tourdesk/internal/middleware"
	"github.com/findosh/tourdesk/internal/models"
	"github.com/findosh/tourdesk/internal/services/analytics"
	"github.com/findosh/tourdesk/internal/services/auth"
	"github.com/findosh/tourdesk/internal/storage"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

// Deps are the collaborators the handlers need
type Deps struct {
	Translator    *i18n.Translator
	Guard         *middleware.Guard
	Authenticator auth.Authenticator
	AuthService   *auth.Service
	Users         *storage.UserRepository
	News          *storage.NewsRepository
	Notices       *storage.NoticeRepository
	Places        *storage.PlaceRepository
	Events        *storage.EventRepository
	Notifications *storage.NotificationRepository
	Settings      *storage.SettingsRepository
	Analytics     *analytics.Service
}

// Handler contains all HTTP handlers and dependencies
type Handler struct {
	cfg              *config.Config
	log              zerolog.Logger
	tr               *i18n.Translator
	guard            *middleware.Guard
	authenticator    auth.Authenticator
	authService      *auth.Service
	userRepo         *storage.UserRepository
	newsRepo         *storage.NewsRepository
	noticeRepo       *storage.NoticeRepository
	placeRepo        *storage.PlaceRepository
	eventRepo        *storage.EventRepository
	notificationRepo *storage.NotificationRepository
	settingsRepo     *storage.SettingsRepository
	analytics        *analytics.Service
}

// New creates a new handler with all dependencies
func New(cfg *config.Config, log zerolog.Logger, deps Deps) *Handler {
	guard := deps.Guard
	if guard == nil {
		guard = middleware.NewGuard(deps.Translator)
	}
	authenticator := deps.Authenticator
	if authenticator == nil && deps.AuthService != nil {
		authenticator = deps.AuthService
	}

	return &Handler{
		cfg:              cfg,
		log:              log,
		tr:               deps.Translator,
		guard:            guard,
		authenticator:    authenticator,
		authService:      deps.AuthService,
		userRepo:         deps.Users,
		newsRepo:         deps.News,
		noticeRepo:       deps.Notices,
		placeRepo:        deps.Places,
		eventRepo:        deps.Events,
		notificationRepo: deps.Notifications,
		settingsRepo:     deps.Settings,
		analytics:        deps.Analytics,
	}
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// jsonError writes a JSON error response in the client's language
func (h *Handler) jsonError(w http.ResponseWriter, r *http.Request, key i18n.Key, status int) {
	writeJSON(w, status, map[string]string{"error": h.tr.T(h.guard.Language(r), key)})
}

// internalError logs err and answers 500
func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	h.log.Error().Err(err).Str("path", r.URL.Path).Msg(msg)
	h.jsonError(w, r, i18n.ErrorInternal, http.StatusInternalServerError)
}

// decode reads a JSON body into v and validates its struct tags
func decode(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return models.Validate(v)
}

// pathID parses the {id} URL parameter
func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, errors.New("invalid id")
	}
	return id, nil
}

var errBadTime = errors.New("invalid time")

// queryTime parses an optional RFC 3339 query parameter
func queryTime(r *http.Request, name string) (time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, errBadTime
	}
	return t, nil
}
