package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"restopos/internal/apperror"
	"restopos/internal/logger"
	"restopos/internal/middleware"
	"restopos/internal/order"
	"restopos/internal/report"
	"restopos/internal/session"
	"restopos/internal/table"
	"restopos/internal/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Handler serves the POS REST API.
type Handler struct {
	orders   order.Service
	sessions session.Service
	tables   table.Service
	reports  report.Service
}

func NewHandler(orders order.Service, sessions session.Service, tables table.Service, reports report.Service) *Handler {
	return &Handler{
		orders:   orders,
		sessions: sessions,
		tables:   tables,
		reports:  reports,
	}
}

// Register mounts every domain route on r. All of them require an actor.
func (h *Handler) Register(r *mux.Router) {
	api := r.NewRoute().Subrouter()
	api.Use(middleware.RequireActor)

	api.HandleFunc("/orders", h.listOrders).Methods(http.MethodGet)
	api.HandleFunc("/orders", h.createOrder).Methods(http.MethodPost)
	api.HandleFunc("/orders/{id:[0-9]+}", h.getOrder).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id:[0-9]+}", h.updateOrder).Methods(http.MethodPut)
	api.HandleFunc("/orders/{id:[0-9]+}", h.deleteOrder).Methods(http.MethodDelete)

	api.HandleFunc("/sessions", h.listSessions).Methods(http.MethodGet)
	api.HandleFunc("/sessions", h.createSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id:[0-9]+}", h.getSession).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id:[0-9]+}", h.updateSession).Methods(http.MethodPut)

	api.HandleFunc("/tables", h.listTables).Methods(http.MethodGet)
	api.HandleFunc("/tables/{id:[0-9]+}", h.getTable).Methods(http.MethodGet)

	api.HandleFunc("/reports/dashboard-summary", h.dashboardSummary).Methods(http.MethodGet)
	api.HandleFunc("/reports/sessions", h.sessionReport).Methods(http.MethodGet)
}

func pathID(r *http.Request) (uint, error) {
	id, err := utils.ToUint(mux.Vars(r)["id"])
	if err != nil || id == 0 {
		return 0, apperror.Validation("id must be a positive integer")
	}
	return id, nil
}

// queryInt reads a non-negative integer query parameter, def when absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperror.Validation(name + " must be a non-negative integer")
	}
	return n, nil
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperror.Validation("invalid request body: " + err.Error())
	}
	return nil
}

func statusFor(err error) int {
	switch {
	case apperror.IsNotFound(err):
		return http.StatusNotFound
	case apperror.IsConflict(err):
		return http.StatusConflict
	case apperror.IsValidation(err):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// writeError maps err onto a status code. Internal errors are logged and
// hidden from the caller.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		logger.FromCtx(r.Context()).Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		utils.WriteJSONError(w, "internal server error", code)
		return
	}

	msg := err.Error()
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		msg = appErr.Error()
	}
	utils.WriteJSONError(w, msg, code)
}
