package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/photoarc/server/internal/models"
	"github.com/photoarc/server/internal/observability"
	"github.com/photoarc/server/internal/repository"
)

// DataHandler handles the legacy whole-collection endpoints kept for the
// original browser client.
type DataHandler struct {
	store repository.PhotoStore
}

// NewDataHandler creates a new DataHandler
func NewDataHandler(store repository.PhotoStore) *DataHandler {
	return &DataHandler{store: store}
}

// GetData returns the raw photo collection
// @Summary Read the whole collection
// @Tags data
// @Produce json
// @Success 200 {array} models.Photo "All photo records"
// @Router /api/photos/data [get]
func (h *DataHandler) GetData(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Load(r.Context()))
}

// ReplaceData replaces the whole photo collection
// @Summary Replace the whole collection
// @Description Overwrites the stored collection with the supplied JSON array.
// @Tags data
// @Accept json
// @Produce json
// @Param photos body []models.Photo true "Full photo collection"
// @Success 200 {object} models.OKResponse "Collection replaced"
// @Failure 400 {object} models.ErrorResponse "Body is not a JSON array"
// @Failure 500 {object} models.ErrorResponse "Write failure"
// @Router /api/photos/data [post]
func (h *DataHandler) ReplaceData(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		respondError(w, http.StatusBadRequest, "expected array")
		return
	}

	// A bare null also decodes into a nil slice without error, and saving
	// that would wipe the collection. Only a JSON array is acceptable.
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || trimmed[0] != '[' {
		respondError(w, http.StatusBadRequest, "expected array")
		return
	}

	var photos []models.Photo
	if err := json.Unmarshal(raw, &photos); err != nil {
		respondError(w, http.StatusBadRequest, "expected array")
		return
	}

	if err := h.store.Save(r.Context(), photos); err != nil {
		observability.WithContext(r.Context()).Errorf("failed to replace collection: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to write data")
		return
	}
	respondJSON(w, http.StatusOK, models.OKResponse{OK: true})
}
