package transport

import (
	"net/http"

	"restopos/internal/utils"
)

// GET /tables?status=
func (h *Handler) listTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.tables.ListTables(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, tables)
}

// GET /tables/{id}
func (h *Handler) getTable(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	t, err := h.tables.GetTable(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, t)
}
