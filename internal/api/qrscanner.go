package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/avashist/upkeep/internal/model"
	"github.com/avashist/upkeep/internal/store"
	"github.com/avashist/upkeep/internal/tracker"
)

// QRScannerHandler handles item updates driven by the QR scanner flow.
type QRScannerHandler struct {
	DB      *sql.DB
	Tracker *tracker.Client
}

type scannerUpdateRequest struct {
	ItemID            string `json:"itemId"`
	Condition         string `json:"condition"`
	TemporaryLocation string `json:"temporaryLocation"`
}

type scannerUpdateResponse struct {
	Message string      `json:"message"`
	Item    *model.Item `json:"item"`
}

// Update handles PUT /api/qrscanner/update. Behavior branches on the
// caller's role: an incharge overwrites the item's home location (from
// the incharge's own current location) and condition; an ordinary user
// may only record a temporary location, which is also reported to the
// external asset-tracking service. A tracking failure surfaces as the
// operation's failure even though the local item row is already updated;
// there is no compensating rollback.
func (h *QRScannerHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonMessage(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	// Re-read the caller's location: incharge assignments change and the
	// token's copy may be stale.
	caller, err := store.GetUser(r.Context(), h.DB, claims.UserID)
	if err != nil {
		slog.Error("resolving scanner caller", "error", err)
		jsonMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	var callerLocation string
	if caller != nil {
		callerLocation = caller.Location
	}

	var req scannerUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ItemID == "" || (callerLocation == "" && req.TemporaryLocation == "") {
		jsonMessage(w, http.StatusBadRequest, "Item ID and location/temporary location are required")
		return
	}

	item, err := store.GetItemByItemID(r.Context(), h.DB, req.ItemID)
	if err != nil {
		slog.Error("resolving scanner item", "error", err)
		jsonMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if item == nil {
		jsonMessage(w, http.StatusNotFound, "Item not found")
		return
	}

	var updatedItem *model.Item
	switch claims.Role {
	case model.RoleIncharge:
		condition := req.Condition
		if condition == "" {
			condition = item.Condition
		}
		if err := store.SetItemPlacement(r.Context(), h.DB, req.ItemID, callerLocation, condition); err != nil {
			slog.Error("updating item placement", "item", req.ItemID, "error", err)
			jsonMessage(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		updatedItem, err = store.GetItemByItemID(r.Context(), h.DB, req.ItemID)
		if err != nil {
			slog.Error("re-reading item", "item", req.ItemID, "error", err)
			jsonMessage(w, http.StatusInternalServerError, "Internal server error")
			return
		}

	case model.RoleUser:
		if req.TemporaryLocation == "" {
			jsonMessage(w, http.StatusBadRequest, "Temporary location is required")
			return
		}
		if err := store.SetItemTemporaryLocation(r.Context(), h.DB, req.ItemID, req.TemporaryLocation); err != nil {
			slog.Error("updating item temporary location", "item", req.ItemID, "error", err)
			jsonMessage(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		updatedItem, err = store.GetItemByItemID(r.Context(), h.DB, req.ItemID)
		if err != nil {
			slog.Error("re-reading item", "item", req.ItemID, "error", err)
			jsonMessage(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		// The local row is already updated at this point; a tracking
		// failure still fails the request, without rollback.
		if err := h.Tracker.ReportItemLocation(r.Context(), req.ItemID, req.TemporaryLocation); err != nil {
			slog.Warn("asset tracking call failed", "item", req.ItemID, "error", err)
			jsonMessage(w, http.StatusBadGateway, err.Error())
			return
		}
	}

	// Other roles fall through with no update and a null item.
	jsonResponse(w, http.StatusOK, scannerUpdateResponse{
		Message: "Item updated successfully",
		Item:    updatedItem,
	})
}
