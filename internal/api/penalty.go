package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/avashist/upkeep/internal/model"
	"github.com/avashist/upkeep/internal/store"
)

// PenaltyHandler handles the reputation ledger endpoints.
type PenaltyHandler struct {
	DB *sql.DB
}

type ledgerEventRequest struct {
	IsPenalty    bool   `json:"isPenalty"`
	UserID       string `json:"userId"`
	StarsReduced int64  `json:"numberOfStarsReduced"`
	StarsAdded   int64  `json:"numberOfStarsAdded"`
	Reason       string `json:"reason"`
}

// Create handles POST /api/penalty, recording a penalty or an award and
// updating the user's star rating. The response echoes the event payload
// regardless of which branch executed.
func (h *PenaltyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ledgerEventRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := store.GetUserByGovID(r.Context(), h.DB, req.UserID)
	if err != nil {
		slog.Error("resolving ledger user", "error", err)
		jsonError(w, http.StatusInternalServerError, "Failed to award penalty or rewards")
		return
	}
	if user == nil {
		jsonMessage(w, http.StatusNotFound, "User not found!")
		return
	}

	if req.IsPenalty {
		_, err = store.ApplyPenalty(r.Context(), h.DB, user, req.StarsReduced, req.Reason)
	} else {
		_, err = store.ApplyAward(r.Context(), h.DB, user, req.StarsAdded, req.Reason)
	}
	if err != nil {
		slog.Error("applying ledger event", "user", req.UserID, "penalty", req.IsPenalty, "error", err)
		jsonError(w, http.StatusInternalServerError, "Failed to award penalty or rewards")
		return
	}

	// Echo the event data (without the isPenalty discriminator).
	echo := map[string]any{"userId": req.UserID}
	if req.IsPenalty {
		echo["numberOfStarsReduced"] = req.StarsReduced
	} else {
		echo["numberOfStarsAdded"] = req.StarsAdded
	}
	if req.Reason != "" {
		echo["reason"] = req.Reason
	}
	jsonResponse(w, http.StatusCreated, echo)
}

// List handles GET /api/penalty, returning the calling user's penalties.
// Responds 201 on success; existing clients depend on that status.
func (h *PenaltyHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	user, err := store.GetUserByGovID(r.Context(), h.DB, claims.GovID)
	if err != nil {
		slog.Error("resolving penalty user", "error", err)
		jsonError(w, http.StatusInternalServerError, "Failed to find penalties")
		return
	}
	if user == nil {
		jsonMessage(w, http.StatusNotFound, "User not found!")
		return
	}

	penalties, err := store.ListPenaltiesByGovID(r.Context(), h.DB, user.GovID)
	if err != nil {
		slog.Error("listing penalties", "error", err)
		jsonError(w, http.StatusInternalServerError, "Failed to find penalties")
		return
	}
	if penalties == nil {
		penalties = []model.Penalty{}
	}

	jsonResponse(w, http.StatusCreated, penalties)
}
