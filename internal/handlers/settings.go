package handlers

import (
	"net/http"
	"time"

	"github.com/findosh/tourdesk/internal/i18n"
	"github.com/findosh/tourdesk/internal/models"
)

// GetSettings returns the app-wide settings
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsRepo.Get(r.Context())
	if err != nil {
		h.internalError(w, r, err, "failed to load settings")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// UpdateSettings replaces the settings and applies their translations
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var settings models.Settings
	if err := decode(r, &settings); err != nil {
		h.jsonError(w, r, i18n.ErrorBadRequest, http.StatusBadRequest)
		return
	}
	if err := settings.Validate(); err != nil {
		h.jsonError(w, r, i18n.ErrorBadRequest, http.StatusBadRequest)
		return
	}
	if settings.HomeBlocks == nil {
		settings.HomeBlocks = []models.HomeBlock{}
	}
	if settings.Translations == nil {
		settings.Translations = map[models.Language]map[string]string{}
	}
	settings.UpdatedAt = time.Now().UTC()

	if err := h.settingsRepo.Save(r.Context(), &settings); err != nil {
		h.internalError(w, r, err, "failed to save settings")
		return
	}
	h.tr.SetOverrides(settings.Translations)

	writeJSON(w, http.StatusOK, settings)
}
