package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/avashist/upkeep/internal/model"
	"github.com/avashist/upkeep/internal/store"
)

// NotificationsHandler serves an incharge's notifications.
type NotificationsHandler struct {
	DB *sql.DB
}

// List handles GET /api/notifications.
func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	notifications, err := store.ListNotificationsForIncharge(r.Context(), h.DB, claims.GovID)
	if err != nil {
		slog.Error("listing notifications", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list notifications")
		return
	}
	if notifications == nil {
		notifications = []model.Notification{}
	}
	jsonResponse(w, http.StatusOK, notifications)
}
