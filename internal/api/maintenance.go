package api

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/avashist/upkeep/internal/model"
	"github.com/avashist/upkeep/internal/notify"
	"github.com/avashist/upkeep/internal/store"
)

// MaintenanceHandler handles the maintenance request lifecycle.
type MaintenanceHandler struct {
	DB         *sql.DB
	Dispatcher *notify.Dispatcher
}

type createRequestRequest struct {
	UserID           string `json:"userId"`
	ItemID           string `json:"itemId"`
	IssueDescription string `json:"issueDescription"`
}

type updateRequestRequest struct {
	Action            string   `json:"action"`
	RequestID         string   `json:"requestId"`
	TechnicianID      string   `json:"technicianId"`
	ResolutionDetails string   `json:"resolutionDetails"`
	DiscardReason     string   `json:"discardReason"`
	MaintenanceCharge *float64 `json:"maintenanceCharge"`
}

// Create handles POST /api/maintenance/request.
//
// The request is filed by the authenticated caller (whose govId owns the
// record) for the user named in the body; these may differ. The incharge
// for the requester's location is resolved fresh on every call. When no
// incharge exists the request stays persisted and the response is a 404:
// creation is deliberately not rolled back on routing failure.
func (h *MaintenanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil || claims.GovID == "" {
		jsonFailure(w, http.StatusUnauthorized, "no govId")
		return
	}

	var req createRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.UserID == "" || req.ItemID == "" || req.IssueDescription == "" {
		jsonFailure(w, http.StatusBadRequest, "userId, itemId, and issueDescription are required.")
		return
	}

	user, err := store.GetUserByGovID(r.Context(), h.DB, req.UserID)
	if err != nil {
		slog.Error("resolving requester", "error", err)
		jsonFailure(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if user == nil || user.Location == "" {
		jsonFailure(w, http.StatusNotFound,
			fmt.Sprintf("User with id '%s' not found or location is missing.", req.UserID))
		return
	}

	item, err := store.GetItemByItemID(r.Context(), h.DB, req.ItemID)
	if err != nil {
		slog.Error("resolving item", "error", err)
		jsonFailure(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if item == nil {
		jsonFailure(w, http.StatusNotFound,
			fmt.Sprintf("InventoryItem with itemId '%s' does not exist.", req.ItemID))
		return
	}

	newRequest, err := store.CreateRequest(r.Context(), h.DB, claims.GovID, user.ID, item.ID, req.IssueDescription)
	if err != nil {
		slog.Error("creating maintenance request", "error", err)
		jsonFailure(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	incharge, err := store.FindInchargeByLocation(r.Context(), h.DB, user.Location)
	if err != nil {
		slog.Error("resolving incharge", "error", err)
		jsonFailure(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if incharge == nil {
		jsonFailure(w, http.StatusNotFound,
			fmt.Sprintf("No incharge found for location '%s'.", user.Location))
		return
	}

	message := fmt.Sprintf("New maintenance request created by %s having govId %s.", user.Name, req.UserID)
	if _, err := h.Dispatcher.NotifyIncharge(r.Context(), claims.GovID, incharge, message); err != nil {
		slog.Error("creating notification", "error", err)
		jsonFailure(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	slog.Info("maintenance request created", "request", newRequest.ID, "requester", req.UserID, "incharge", incharge.GovID)
	jsonSuccess(w, http.StatusCreated, newRequest)
}

// List handles GET /api/maintenance/request.
func (h *MaintenanceHandler) List(w http.ResponseWriter, r *http.Request) {
	requests, err := store.ListRequests(r.Context(), h.DB)
	if err != nil {
		slog.Error("listing maintenance requests", "error", err)
		jsonFailure(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if requests == nil {
		requests = []model.MaintenanceRequest{}
	}
	jsonSuccess(w, http.StatusOK, requests)
}

// Update handles PUT /api/maintenance/request, applying a lifecycle action.
func (h *MaintenanceHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := store.ApplyAction(r.Context(), h.DB, req.Action, req.RequestID,
		req.TechnicianID, req.ResolutionDetails, req.DiscardReason, req.MaintenanceCharge)
	if errors.Is(err, store.ErrInvalidAction) {
		jsonFailure(w, http.StatusBadRequest, "Invalid action type")
		return
	}
	if err != nil {
		slog.Error("updating maintenance request", "request", req.RequestID, "action", req.Action, "error", err)
		jsonFailure(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	jsonSuccess(w, http.StatusOK, updated)
}
