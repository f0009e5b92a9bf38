package transport

import (
	"net/http"

	"restopos/internal/session"
	"restopos/internal/utils"
)

// GET /sessions?skip=&limit=
func (h *Handler) listSessions(w http.ResponseWriter, r *http.Request) {
	offset, err := queryInt(r, "skip", 0)
	if err != nil {
		writeError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", session.DefaultListLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	sessions, err := h.sessions.ListSessions(r.Context(), offset, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, sessions)
}

// POST /sessions
func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	var input session.CreateSessionInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	s, err := h.sessions.CreateSession(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, s)
}

// GET /sessions/{id}
func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s, err := h.sessions.GetSession(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, s)
}

// PUT /sessions/{id}
func (h *Handler) updateSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var input session.UpdateSessionInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	s, err := h.sessions.UpdateSession(r.Context(), id, input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, s)
}
