package handlers

import (
	"errors"
	"net/http"

	"github.com/findosh/tourdesk/internal/i18n"
	"github.com/findosh/tourdesk/internal/middleware"
	"github.com/findosh/tourdesk/internal/services/auth"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login checks credentials and signs the user into the calling client
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	store := middleware.GetStore(r)
	if store == nil {
		h.jsonError(w, r, i18n.ErrorInternal, http.StatusInternalServerError)
		return
	}

	var req loginRequest
	if err := decode(r, &req); err != nil {
		h.jsonError(w, r, i18n.ErrorBadRequest, http.StatusBadRequest)
		return
	}

	user, err := h.authenticator.Authenticate(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		h.jsonError(w, r, i18n.AuthInvalidCredentials, http.StatusUnauthorized)
		return
	case errors.Is(err, auth.ErrUserInactive):
		h.jsonError(w, r, i18n.AuthInactiveUser, http.StatusForbidden)
		return
	case err != nil:
		h.internalError(w, r, err, "login failed")
		return
	}

	// The in-memory session is set even if the durable write fails
	if err := store.SetUser(r.Context(), user); err != nil {
		h.log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("session not persisted")
	}
	if err := store.SetLanguage(user.Language); err != nil {
		h.log.Warn().Err(err).Str("language", string(user.Language)).Msg("user language ignored")
	}

	h.log.Info().Str("user_id", user.ID.String()).Str("role", string(user.Role)).Msg("user logged in")
	writeJSON(w, http.StatusOK, h.sessionView(r))
}

// Logout signs the calling client out
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	store := middleware.GetStore(r)
	if store == nil {
		h.jsonError(w, r, i18n.ErrorInternal, http.StatusInternalServerError)
		return
	}

	if err := store.Logout(r.Context()); err != nil {
		h.log.Warn().Err(err).Msg("session record not deleted")
	}
	writeJSON(w, http.StatusOK, h.sessionView(r))
}
