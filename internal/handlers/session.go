package handlers

import (
	"errors"
	"net/http"

	"github.com/findosh/tourdesk/internal/i18n"
	"github.com/findosh/tourdesk/internal/middleware"
	"github.com/findosh/tourdesk/internal/models"
	"github.com/findosh/tourdesk/internal/navigation"
	"github.com/findosh/tourdesk/internal/permissions"
	"github.com/findosh/tourdesk/internal/session"
)

type sessionResponse struct {
	Phase       session.Phase            `json:"phase"`
	State       session.State            `json:"state"`
	Permissions permissions.Capabilities `json:"permissions"`
}

func (h *Handler) sessionView(r *http.Request) sessionResponse {
	store := middleware.GetStore(r)
	state := store.State(r.Context())
	return sessionResponse{
		Phase:       session.PhaseOf(state),
		State:       state,
		Permissions: permissions.ForUser(state.CurrentUser),
	}
}

// GetSession returns the client's state, phase and capabilities
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	if middleware.GetStore(r) == nil {
		h.jsonError(w, r, i18n.ErrorInternal, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, h.sessionView(r))
}

type actionRequest struct {
	Type     session.ActionType `json:"type" validate:"required"`
	Language models.Language    `json:"language"`
	Loading  bool               `json:"loading"`
	Theme    session.Theme      `json:"theme"`
}

// SessionAction dispatches a preference action. SET_USER and LOGOUT are
// owned by login and logout and are refused here.
func (h *Handler) SessionAction(w http.ResponseWriter, r *http.Request) {
	store := middleware.GetStore(r)
	if store == nil {
		h.jsonError(w, r, i18n.ErrorInternal, http.StatusInternalServerError)
		return
	}

	var req actionRequest
	if err := decode(r, &req); err != nil {
		h.jsonError(w, r, i18n.ErrorBadRequest, http.StatusBadRequest)
		return
	}
	if req.Type == session.ActionSetUser || req.Type == session.ActionLogout {
		h.jsonError(w, r, i18n.ErrorForbidden, http.StatusForbidden)
		return
	}

	err := store.Dispatch(r.Context(), session.Action{
		Type:     req.Type,
		Language: req.Language,
		Loading:  req.Loading,
		Theme:    req.Theme,
	})
	switch {
	case errors.Is(err, session.ErrUnknownAction), errors.Is(err, session.ErrInvalidPayload):
		h.jsonError(w, r, i18n.ErrorBadRequest, http.StatusBadRequest)
		return
	case err != nil:
		h.internalError(w, r, err, "session action failed")
		return
	}

	writeJSON(w, http.StatusOK, h.sessionView(r))
}

// Permissions returns the capabilities of the session user
func (h *Handler) Permissions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, permissions.ForUser(middleware.GetUser(r)))
}

// Navigation returns the sidebar entries the session user may open
func (h *Handler) Navigation(w http.ResponseWriter, r *http.Request) {
	items := navigation.ForUser(middleware.GetUser(r), h.guard.Language(r), h.tr)
	writeJSON(w, http.StatusOK, items)
}
