package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/avashist/upkeep/internal/imaging"
	"github.com/avashist/upkeep/internal/model"
	"github.com/avashist/upkeep/internal/store"
)

// ItemsHandler handles inventory item endpoints.
type ItemsHandler struct {
	DB *sql.DB
}

type createItemRequest struct {
	ItemID   string `json:"itemId"`
	Category string `json:"category"`
	Type     string `json:"type"`
	Location string `json:"location"`
}

type updateItemRequest struct {
	Category  string `json:"category"`
	Type      string `json:"type"`
	Location  string `json:"location"`
	Condition string `json:"condition"`
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	condition := r.URL.Query().Get("condition")
	items, err := store.ListItems(r.Context(), h.DB, condition)
	if err != nil {
		slog.Error("failed to list items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ItemID == "" || req.Category == "" || req.Type == "" || req.Location == "" {
		jsonError(w, http.StatusBadRequest, "itemId, category, type, and location required")
		return
	}

	item, err := store.CreateItem(r.Context(), h.DB, req.ItemID, req.Category, req.Type, req.Location)
	if err != nil {
		jsonError(w, http.StatusConflict, "itemId already exists")
		return
	}

	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /api/items/{itemId}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("itemId")

	item, err := store.GetItemByItemID(r.Context(), h.DB, itemID)
	if err != nil {
		slog.Error("failed to get item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	jsonResponse(w, http.StatusOK, item)
}

// Update handles PUT /api/items/{itemId}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("itemId")

	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Category == "" || req.Type == "" || req.Location == "" {
		jsonError(w, http.StatusBadRequest, "category, type, and location required")
		return
	}

	if req.Condition == "" {
		req.Condition = model.ConditionWorking
	}
	if req.Condition != model.ConditionWorking && req.Condition != model.ConditionDamaged {
		jsonError(w, http.StatusBadRequest, "invalid condition")
		return
	}

	item, err := store.GetItemByItemID(r.Context(), h.DB, itemID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	if err := store.UpdateItem(r.Context(), h.DB, itemID, req.Category, req.Type, req.Location, req.Condition); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update item")
		return
	}

	updated, _ := store.GetItemByItemID(r.Context(), h.DB, itemID)
	jsonResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/items/{itemId}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("itemId")

	if err := store.DeleteItem(r.Context(), h.DB, itemID); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// UploadPhoto handles PUT /api/items/{itemId}/photo.
func (h *ItemsHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("itemId")

	item, err := store.GetItemByItemID(r.Context(), h.DB, itemID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	// Limit to 5 MB.
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "photo file required")
		return
	}
	defer file.Close()

	processed, err := imaging.Process(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.SetItemPhoto(r.Context(), h.DB, itemID, processed.Data, processed.MIME); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to save photo")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "photo uploaded"})
}

// GetPhoto handles GET /api/items/{itemId}/photo.
func (h *ItemsHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("itemId")

	data, mime, err := store.GetItemPhoto(r.Context(), h.DB, itemID)
	if err != nil {
		slog.Error("failed to get item photo", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get photo")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no photo")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}
