package services

import (
	"sort"
	"strconv"

	"github.com/photoarc/server/internal/models"
)

// StatsService computes frequency tables and summary stats over the full
// collection.
type StatsService struct{}

// NewStatsService creates a new StatsService.
func NewStatsService() *StatsService {
	return &StatsService{}
}

// Tags returns tag frequencies, most used first.
func (s *StatsService) Tags(photos []models.Photo) []models.TagCount {
	counts := make(map[string]int)
	for _, p := range photos {
		for _, tag := range p.Tags {
			counts[tag]++
		}
	}

	out := make([]models.TagCount, 0, len(counts))
	for tag, count := range counts {
		out = append(out, models.TagCount{Tag: tag, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}

// People returns person frequencies, most photographed first.
func (s *StatsService) People(photos []models.Photo) []models.PersonCount {
	counts := make(map[string]int)
	for _, p := range photos {
		for _, person := range p.People {
			counts[person]++
		}
	}

	out := make([]models.PersonCount, 0, len(counts))
	for person, count := range counts {
		out = append(out, models.PersonCount{Person: person, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Person < out[j].Person
	})
	return out
}

// Locations returns "city, country" frequencies, most visited first.
// Missing components default to "Unknown".
func (s *StatsService) Locations(photos []models.Photo) []models.LocationCount {
	counts := make(map[string]int)
	for _, p := range photos {
		counts[locationKey(p.Location)]++
	}

	out := make([]models.LocationCount, 0, len(counts))
	for loc, count := range counts {
		out = append(out, models.LocationCount{Location: loc, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Location < out[j].Location
	})
	return out
}

// Stats groups the collection by capture year, precision and country in
// one pass and reports the grand total.
func (s *StatsService) Stats(photos []models.Photo) models.StatsResponse {
	stats := models.StatsResponse{
		Total:       len(photos),
		ByYear:      make(map[string]int),
		ByPrecision: make(map[string]int),
		ByCountry:   make(map[string]int),
	}

	for _, p := range photos {
		if year, ok := models.Year(p.DateTaken); ok {
			stats.ByYear[strconv.Itoa(year)]++
		} else {
			stats.ByYear["Unknown"]++
		}

		// Records loaded through the legacy replace endpoint may carry no
		// precision at all.
		precision := p.DateTakenPrecision
		if precision == "" {
			precision = models.PrecisionUnknown
		}
		stats.ByPrecision[string(precision)]++

		country := p.Location.Country
		if country == "" {
			country = "Unknown"
		}
		stats.ByCountry[country]++
	}

	return stats
}

func locationKey(loc models.Location) string {
	city := loc.City
	if city == "" {
		city = "Unknown"
	}
	country := loc.Country
	if country == "" {
		country = "Unknown"
	}
	return city + ", " + country
}
