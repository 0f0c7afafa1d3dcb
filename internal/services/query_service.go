package services

import (
	"strings"

	"github.com/photoarc/server/internal/models"
)

// QueryFilters are the optional, conjunctive list filters. Multi-valued
// filters (tags, people) match on ANY listed value.
type QueryFilters struct {
	Tags      []string
	People    []string
	Location  string
	YearFrom  *int
	YearTo    *int
	Precision models.DatePrecision
	Limit     int
	Offset    int
}

// QueryService filters and paginates the photo collection. It never
// sorts; presentation order is the client's concern.
type QueryService struct {
	defaultLimit int
	maxLimit     int
}

// NewQueryService creates a QueryService with pagination bounds. Limits
// at or below zero fall back to defaultLimit; requests above maxLimit are
// clamped.
func NewQueryService(defaultLimit, maxLimit int) *QueryService {
	return &QueryService{
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// Query applies all present filters conjunctively, then paginates. Total
// is the post-filter, pre-pagination count.
func (s *QueryService) Query(photos []models.Photo, f QueryFilters) models.PhotoListResponse {
	filtered := make([]models.Photo, 0, len(photos))
	for _, p := range photos {
		if matches(p, f) {
			filtered = append(filtered, p)
		}
	}

	limit := f.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	total := len(filtered)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	return models.PhotoListResponse{
		Photos: filtered[offset:end],
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
}

// Search matches query case-insensitively as a substring of any tag,
// person, location title/city/country, or the filename. Results are
// neither paginated nor sorted.
func (s *QueryService) Search(photos []models.Photo, query string) ([]models.Photo, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, models.ErrEmptySearchQuery
	}

	results := make([]models.Photo, 0)
	for _, p := range photos {
		if searchMatches(p, q) {
			results = append(results, p)
		}
	}
	return results, nil
}

func matches(p models.Photo, f QueryFilters) bool {
	if len(f.Tags) > 0 && !containsAny(p.Tags, f.Tags) {
		return false
	}
	if len(f.People) > 0 && !containsAny(p.People, f.People) {
		return false
	}
	if f.Location != "" && !locationMatches(p.Location, f.Location) {
		return false
	}
	if f.YearFrom != nil || f.YearTo != nil {
		// Stored dates are UTC, so the UTC calendar year is the one
		// the filter compares against.
		year, ok := models.Year(p.DateTaken)
		if !ok {
			return false
		}
		if f.YearFrom != nil && year < *f.YearFrom {
			return false
		}
		if f.YearTo != nil && year > *f.YearTo {
			return false
		}
	}
	if f.Precision != "" && p.DateTakenPrecision != f.Precision {
		return false
	}
	return true
}

// containsAny reports whether any wanted value appears in values,
// case-sensitively.
func containsAny(values, wanted []string) bool {
	for _, w := range wanted {
		for _, v := range values {
			if v == w {
				return true
			}
		}
	}
	return false
}

func locationMatches(loc models.Location, query string) bool {
	q := strings.ToLower(query)
	for _, field := range []string{loc.City, loc.State, loc.Country, loc.Title} {
		if field != "" && strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func searchMatches(p models.Photo, q string) bool {
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	for _, person := range p.People {
		if strings.Contains(strings.ToLower(person), q) {
			return true
		}
	}
	for _, field := range []string{p.Location.Title, p.Location.City, p.Location.Country, p.Filename} {
		if field != "" && strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// SplitCSV splits a comma-separated filter value, dropping empty entries.
func SplitCSV(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
