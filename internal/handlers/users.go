package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/findosh/tourdesk/internal/i18n"
	"github.com/findosh/tourdesk/internal/middleware"
	"github.com/findosh/tourdesk/internal/models"
	"github.com/findosh/tourdesk/internal/services/auth"
)

type userRequest struct {
	Name     string          `json:"name" validate:"required,max=120"`
	Email    string          `json:"email" validate:"required,email"`
	Role     models.Role     `json:"role" validate:"required,oneof=admin editor auditor"`
	Language models.Language `json:"language" validate:"required,oneof=es va en"`
	IsActive *bool           `json:"isActive"`
}

// ListUsers returns every dashboard account
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userRepo.List(r.Context())
	if err != nil {
		h.internalError(w, r, err, "failed to list users")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// CreateUser creates an account with an initial password
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var input auth.CreateUserInput
	if err := decode(r, &input); err != nil {
		h.jsonError(w, r, i18n.ErrorBadRequest, http.StatusBadRequest)
		return
	}

	user, err := h.authService.CreateUser(r.Context(), input)
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		h.jsonError(w, r, i18n.ErrorBadRequest, http.StatusBadRequest)
		return
	case errors.Is(err, auth.ErrEmailExists):
		h.jsonError(w, r, i18n.ErrorConflict, http.StatusConflict)
		return
	case err != nil:
		h.internalError(w, r, err, "failed to create user")
		return
	}

	h.log.Info().
		Str("user_id", user.ID.String()).
		Str("role", string(user.Role)).
		Str("by", middleware.GetUser(r).ID.String()).
		Msg("user created")
	writeJSON(w, http.StatusCreated, user)
}

// UpdateUser replaces a user's profile, role and active flag
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	user, ok := h.loadUser(w, r)
	if !ok {
		return
	}

	var req userRequest
	if err := decode(r, &req); err != nil {
		h.jsonError(w, r, i18n.ErrorBadRequest, http.StatusBadRequest)
		return
	}

	self := middleware.GetUser(r)
	if user.ID == self.ID && req.IsActive != nil && !*req.IsActive {
		h.jsonError(w, r, i18n.ErrorBadRequest, http.StatusBadRequest)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email != user.Email {
		exists, err := h.userRepo.EmailExists(r.Context(), email)
		if err != nil {
			h.internalError(w, r, err, "failed to check email")
			return
		}
		if exists {
			h.jsonError(w, r, i18n.ErrorConflict, http.StatusConflict)
			return
		}
	}

	user.Name = strings.TrimSpace(req.Name)
	user.Email = email
	user.Role = req.Role
	user.Language = req.Language
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := h.userRepo.Update(r.Context(), user); err != nil {
		h.internalError(w, r, err, "failed to update user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// DeactivateUser marks a user inactive. Accounts are never removed, and an
// admin cannot deactivate their own account.
func (h *Handler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	user, ok := h.loadUser(w, r)
	if !ok {
		return
	}
	if user.ID == middleware.GetUser(r).ID {
		h.jsonError(w, r, i18n.ErrorBadRequest, http.StatusBadRequest)
		return
	}

	user.IsActive = false
	if err := h.userRepo.Update(r.Context(), user); err != nil {
		h.internalError(w, r, err, "failed to deactivate user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) loadUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	id, err := pathID(r)
	if err != nil {
		h.jsonError(w, r, i18n.ErrorNotFound, http.StatusNotFound)
		return nil, false
	}

	user, err := h.userRepo.GetByID(r.Context(), id)
	if err != nil {
		h.internalError(w, r, err, "failed to load user")
		return nil, false
	}
	if user == nil {
		h.jsonError(w, r, i18n.ErrorNotFound, http.StatusNotFound)
		return nil, false
	}
	return user, true
}
