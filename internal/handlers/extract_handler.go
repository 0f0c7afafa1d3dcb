package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/photoarc/server/internal/models"
	"github.com/photoarc/server/internal/observability"
	"github.com/photoarc/server/internal/services"
)

// ExtractHandler handles the metadata extraction endpoints
type ExtractHandler struct {
	catalog *services.CatalogService
}

// NewExtractHandler creates a new ExtractHandler
func NewExtractHandler(catalog *services.CatalogService) *ExtractHandler {
	return &ExtractHandler{catalog: catalog}
}

// ExtractMetadata extracts EXIF metadata for one image and upserts it
// @Summary Extract metadata for a single image
// @Description Reads EXIF from the named image file and updates or creates the matching photo record by filename.
// @Tags extraction
// @Accept json
// @Produce json
// @Param request body models.ExtractRequest true "Image filename"
// @Success 200 {object} models.ExtractResponse "Extraction result"
// @Failure 400 {object} models.ErrorResponse "Missing filename"
// @Failure 404 {object} models.ErrorResponse "Image file not found"
// @Router /api/photos/extract-metadata [post]
func (h *ExtractHandler) ExtractMetadata(w http.ResponseWriter, r *http.Request) {
	var req models.ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	photo, err := h.catalog.ExtractOne(r.Context(), req.Filename)
	if err != nil {
		respondError(w, errorStatus(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, models.ExtractResponse{
		Success: true,
		Photo:   photo,
		Message: fmt.Sprintf("metadata extracted for %s", req.Filename),
	})
}

// ExtractAllMetadata extracts EXIF metadata for every image in the directory
// @Summary Extract metadata for all images
// @Description Runs extraction for every image file in the configured directory. Per-file failures are reported and do not abort the batch.
// @Tags extraction
// @Produce json
// @Success 200 {object} models.BatchExtractResponse "Batch result with per-file errors"
// @Failure 500 {object} models.ErrorResponse "Directory or storage failure"
// @Router /api/photos/extract-all-metadata [post]
func (h *ExtractHandler) ExtractAllMetadata(w http.ResponseWriter, r *http.Request) {
	result, err := h.catalog.ExtractAll(r.Context())
	if err != nil {
		observability.WithContext(r.Context()).Errorf("batch extraction failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Batch extraction failed.")
		return
	}
	respondJSON(w, http.StatusOK, result)
}
