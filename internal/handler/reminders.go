package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/DukeRupert/duesoon/internal/auth"
	"github.com/DukeRupert/duesoon/internal/service"
)

// ReminderHandler serves the reminder API: quota reads and upcoming items
// for authenticated users, and the sweep trigger for internal callers.
type ReminderHandler struct {
	quota  service.QuotaService
	items  service.ItemService
	sweeps service.SweepService
	logger *slog.Logger
}

// NewReminderHandler creates a new ReminderHandler.
func NewReminderHandler(
	quota service.QuotaService,
	items service.ItemService,
	sweeps service.SweepService,
	logger *slog.Logger,
) *ReminderHandler {
	return &ReminderHandler{
		quota:  quota,
		items:  items,
		sweeps: sweeps,
		logger: logger,
	}
}

// Middleware wraps a handler.
type Middleware func(http.Handler) http.Handler

// RegisterRoutes registers the reminder routes. userAuth guards the user
// facing endpoints, internalAuth the sweep trigger.
func (h *ReminderHandler) RegisterRoutes(mux *http.ServeMux, userAuth, internalAuth Middleware) {
	mux.Handle("GET /api/reminders/quota", userAuth(http.HandlerFunc(h.Quota)))
	mux.Handle("GET /api/reminders/upcoming", userAuth(http.HandlerFunc(h.Upcoming)))
	mux.Handle("POST /internal/reminders/sweep", internalAuth(http.HandlerFunc(h.Sweep)))
}

// Quota handles GET /api/reminders/quota.
func (h *ReminderHandler) Quota(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromRequest(r)
	if !ok {
		UnauthorizedResponse(w, r, h.logger, "Authentication required")
		return
	}

	status, err := h.quota.Status(r.Context(), userID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	JSONResponse(w, http.StatusOK, status)
}

// Upcoming handles GET /api/reminders/upcoming.
func (h *ReminderHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromRequest(r)
	if !ok {
		UnauthorizedResponse(w, r, h.logger, "Authentication required")
		return
	}

	items, err := h.items.ListUpcoming(r.Context(), userID)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	JSONResponse(w, http.StatusOK, items)
}

// Sweep handles POST /internal/reminders/sweep. The sweep outlives the
// request: a caller that disconnects must not cut it short.
func (h *ReminderHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	summary, err := h.sweeps.Run(context.WithoutCancel(r.Context()))
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	JSONResponse(w, http.StatusOK, summary)
}

// Health handles GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	JSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
