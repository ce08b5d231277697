package handlers

import (
	"errors"
	"net/http"

	"github.com/findosh/tourdesk/internal/i18n"
	"github.com/findosh/tourdesk/internal/middleware"
	"github.com/findosh/tourdesk/internal/services/auth"
)

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=72"`
}

// GetProfile returns the stored account of the session user
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.userRepo.GetByID(r.Context(), middleware.GetUser(r).ID)
	if err != nil {
		h.internalError(w, r, err, "failed to load profile")
		return
	}
	if user == nil {
		h.jsonError(w, r, i18n.ErrorNotFound, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// ChangePassword replaces the session user's password after checking the
// current one
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := decode(r, &req); err != nil {
		h.jsonError(w, r, i18n.ErrorBadRequest, http.StatusBadRequest)
		return
	}

	user := middleware.GetUser(r)
	err := h.authService.ChangePassword(r.Context(), user.ID, req.CurrentPassword, req.NewPassword)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		h.jsonError(w, r, i18n.AuthInvalidCredentials, http.StatusBadRequest)
		return
	case errors.Is(err, auth.ErrUserNotFound):
		h.jsonError(w, r, i18n.ErrorNotFound, http.StatusNotFound)
		return
	case err != nil:
		h.internalError(w, r, err, "failed to change password")
		return
	}

	h.log.Info().Str("user_id", user.ID.String()).Msg("password changed")
	w.WriteHeader(http.StatusNoContent)
}
