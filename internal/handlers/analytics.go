package handlers

import (
	"net/http"

	"github.com/findosh/tourdesk/internal/i18n"
)

// KPIs returns the headline figures of the analytics screen
func (h *Handler) KPIs(w http.ResponseWriter, r *http.Request) {
	if h.analytics == nil {
		h.jsonError(w, r, i18n.ErrorInternal, http.StatusServiceUnavailable)
		return
	}

	kpis, err := h.analytics.KPIs(r.Context(), h.guard.Language(r))
	if err != nil {
		h.internalError(w, r, err, "failed to compute KPIs")
		return
	}
	writeJSON(w, http.StatusOK, kpis)
}
