package transport

import (
	"net/http"

	"restopos/internal/utils"
)

// GET /reports/dashboard-summary
func (h *Handler) dashboardSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reports.DashboardSummary(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, summary)
}

// GET /reports/sessions
func (h *Handler) sessionReport(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reports.SessionReport(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, rows)
}
