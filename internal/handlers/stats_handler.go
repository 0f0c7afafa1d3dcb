package handlers

import (
	"net/http"

	"github.com/photoarc/server/internal/repository"
	"github.com/photoarc/server/internal/services"
)

// StatsHandler handles the aggregation endpoints
type StatsHandler struct {
	store repository.PhotoStore
	stats *services.StatsService
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(store repository.PhotoStore, stats *services.StatsService) *StatsHandler {
	return &StatsHandler{
		store: store,
		stats: stats,
	}
}

// Stats returns collection-wide aggregate counts
// @Summary Archive statistics
// @Description Counts grouped by capture year, date precision and country, plus the grand total.
// @Tags stats
// @Produce json
// @Success 200 {object} models.StatsResponse "Aggregate counts"
// @Router /api/photos/stats [get]
func (h *StatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	photos := h.store.Load(r.Context())
	respondJSON(w, http.StatusOK, h.stats.Stats(photos))
}

// Tags returns the tag frequency table
// @Summary Tag frequencies
// @Tags stats
// @Produce json
// @Success 200 {array} models.TagCount "Tags with counts, most used first"
// @Router /api/tags [get]
func (h *StatsHandler) Tags(w http.ResponseWriter, r *http.Request) {
	photos := h.store.Load(r.Context())
	respondJSON(w, http.StatusOK, h.stats.Tags(photos))
}

// People returns the people frequency table
// @Summary People frequencies
// @Tags stats
// @Produce json
// @Success 200 {array} models.PersonCount "People with counts, most photographed first"
// @Router /api/people [get]
func (h *StatsHandler) People(w http.ResponseWriter, r *http.Request) {
	photos := h.store.Load(r.Context())
	respondJSON(w, http.StatusOK, h.stats.People(photos))
}

// Locations returns the location frequency table
// @Summary Location frequencies
// @Description Frequencies of "city, country" pairs; missing components default to "Unknown".
// @Tags stats
// @Produce json
// @Success 200 {array} models.LocationCount "Locations with counts"
// @Router /api/locations [get]
func (h *StatsHandler) Locations(w http.ResponseWriter, r *http.Request) {
	photos := h.store.Load(r.Context())
	respondJSON(w, http.StatusOK, h.stats.Locations(photos))
}
