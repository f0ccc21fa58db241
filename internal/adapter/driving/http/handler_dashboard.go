package httphandler

import "net/http"

// Dashboard returns the landing page summary.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toDashboardResponse(h.dashboard.Summary(r.Context(), h.today())))
}
