package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/photoarc/server/internal/models"
	"github.com/photoarc/server/internal/repository"
	"github.com/photoarc/server/internal/services"
)

// PhotoHandler handles the photo CRUD and query endpoints
type PhotoHandler struct {
	store   repository.PhotoStore
	catalog *services.CatalogService
	query   *services.QueryService
}

// NewPhotoHandler creates a new PhotoHandler
func NewPhotoHandler(store repository.PhotoStore, catalog *services.CatalogService, query *services.QueryService) *PhotoHandler {
	return &PhotoHandler{
		store:   store,
		catalog: catalog,
		query:   query,
	}
}

// List returns filtered, paginated photos
// @Summary List photos
// @Description Get photos with optional filters. Filters combine with AND; multi-valued filters match any listed value.
// @Tags photos
// @Produce json
// @Param tags query string false "Comma-separated tags (exact match, any)"
// @Param people query string false "Comma-separated people (exact match, any)"
// @Param location query string false "Substring match against city/state/country/title"
// @Param yearFrom query int false "Inclusive lower bound on capture year"
// @Param yearTo query int false "Inclusive upper bound on capture year"
// @Param precision query string false "Exact dateTakenPrecision match"
// @Param limit query int false "Page size" default(100)
// @Param offset query int false "Page start" default(0)
// @Success 200 {object} models.PhotoListResponse "Filtered photos"
// @Router /api/photos [get]
func (h *PhotoHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filters := services.QueryFilters{
		Tags:      services.SplitCSV(q.Get("tags")),
		People:    services.SplitCSV(q.Get("people")),
		Location:  q.Get("location"),
		Precision: models.DatePrecision(q.Get("precision")),
	}
	if v, err := strconv.Atoi(q.Get("yearFrom")); err == nil {
		filters.YearFrom = &v
	}
	if v, err := strconv.Atoi(q.Get("yearTo")); err == nil {
		filters.YearTo = &v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		filters.Limit = v
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil {
		filters.Offset = v
	}

	photos := h.store.Load(r.Context())
	respondJSON(w, http.StatusOK, h.query.Query(photos, filters))
}

// GetByID returns a single photo
// @Summary Get photo by ID
// @Tags photos
// @Produce json
// @Param id path string true "Photo ID"
// @Success 200 {object} models.Photo "Photo record"
// @Failure 404 {object} models.ErrorResponse "Photo not found"
// @Router /api/photos/{id} [get]
func (h *PhotoHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	photo, err := h.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, errorStatus(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, photo)
}

// Create adds a new photo record
// @Summary Create a photo
// @Description Create a photo from a full record. The id and filename are required; timestamps are stamped by the server.
// @Tags photos
// @Accept json
// @Produce json
// @Param photo body models.Photo true "Photo record"
// @Success 201 {object} models.Photo "Created photo"
// @Failure 400 {object} models.ErrorResponse "Missing id or filename"
// @Failure 409 {object} models.ErrorResponse "Duplicate id"
// @Router /api/photos [post]
func (h *PhotoHandler) Create(w http.ResponseWriter, r *http.Request) {
	var photo models.Photo
	if err := json.NewDecoder(r.Body).Decode(&photo); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	created, err := h.catalog.Create(r.Context(), photo)
	if err != nil {
		respondError(w, errorStatus(err), err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// Update shallow-merges a photo record
// @Summary Update a photo
// @Description Top-level JSON keys present in the body replace the stored field. The id and dateAdded never change.
// @Tags photos
// @Accept json
// @Produce json
// @Param id path string true "Photo ID"
// @Param patch body models.Photo true "Fields to replace"
// @Success 200 {object} models.Photo "Updated photo"
// @Failure 404 {object} models.ErrorResponse "Photo not found"
// @Router /api/photos/{id} [put]
func (h *PhotoHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	updated, err := h.catalog.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		respondError(w, errorStatus(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// Delete removes a photo
// @Summary Delete a photo
// @Tags photos
// @Produce json
// @Param id path string true "Photo ID"
// @Success 200 {object} models.OKResponse "Photo deleted"
// @Failure 404 {object} models.ErrorResponse "Photo not found"
// @Router /api/photos/{id} [delete]
func (h *PhotoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, errorStatus(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, models.OKResponse{OK: true})
}

// Search finds photos by substring
// @Summary Search photos
// @Description Case-insensitive substring search across tags, people, location and filename.
// @Tags photos
// @Produce json
// @Param q query string true "Search text"
// @Success 200 {array} models.Photo "Matching photos"
// @Failure 400 {object} models.ErrorResponse "Missing query"
// @Router /api/photos/search [get]
func (h *PhotoHandler) Search(w http.ResponseWriter, r *http.Request) {
	photos := h.store.Load(r.Context())
	results, err := h.query.Search(photos, r.URL.Query().Get("q"))
	if err != nil {
		respondError(w, errorStatus(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, results)
}

// Helper methods shared by the handler package

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, models.ErrorResponse{Error: message})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrPhotoNotFound), errors.Is(err, models.ErrImageNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrDuplicateID):
		return http.StatusConflict
	case errors.Is(err, models.ErrMissingID),
		errors.Is(err, models.ErrMissingFilename),
		errors.Is(err, models.ErrEmptySearchQuery):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
