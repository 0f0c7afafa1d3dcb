package models

import "time"

// PhotoListResponse is returned when listing photos. Total is the
// post-filter, pre-pagination count.
type PhotoListResponse struct {
	Photos []Photo `json:"photos"`
	Total  int     `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}

// StatsResponse aggregates the collection by year, precision and country.
type StatsResponse struct {
	Total       int            `json:"total"`
	ByYear      map[string]int `json:"byYear"`
	ByPrecision map[string]int `json:"byPrecision"`
	ByCountry   map[string]int `json:"byCountry"`
}

// TagCount is one row of the tag frequency table.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// PersonCount is one row of the people frequency table.
type PersonCount struct {
	Person string `json:"person"`
	Count  int    `json:"count"`
}

// LocationCount is one row of the "city, country" frequency table.
type LocationCount struct {
	Location string `json:"location"`
	Count    int    `json:"count"`
}

// ExtractResponse is returned after single-file metadata extraction.
type ExtractResponse struct {
	Success bool   `json:"success"`
	Photo   *Photo `json:"photo,omitempty"`
	Message string `json:"message"`
}

// BatchError reports a single file's failure during batch extraction.
type BatchError struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

// BatchExtractResponse is returned after directory-wide extraction. A
// partial failure still yields Success with the errors listed.
type BatchExtractResponse struct {
	Success     bool         `json:"success"`
	Message     string       `json:"message"`
	Processed   []string     `json:"processed"`
	Errors      []BatchError `json:"errors,omitempty"`
	TotalImages int          `json:"totalImages"`
}

// ExtractRequest is the body for single-file extraction.
type ExtractRequest struct {
	Filename string `json:"filename"`
}

// OKResponse acknowledges a mutation with no other payload.
type OKResponse struct {
	OK bool `json:"ok"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
}
