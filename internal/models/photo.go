package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ISOTimeFormat is the canonical timestamp layout for the archive. All
// stored dates are zero-padded UTC so lexicographic comparison orders them
// chronologically.
const ISOTimeFormat = "2006-01-02T15:04:05.000Z"

// UnknownLocationTitle is the placeholder title for photos without any
// location information. The extraction merge only replaces a location
// carrying this exact title.
const UnknownLocationTitle = "Unknown Location"

// DatePrecision describes how accurate a photo's dateTaken is, from an
// exact EXIF timestamp down to a complete guess.
type DatePrecision string

const (
	PrecisionExact   DatePrecision = "exact"
	PrecisionDay     DatePrecision = "day"
	PrecisionMonth   DatePrecision = "month"
	PrecisionYear    DatePrecision = "year"
	PrecisionDecade  DatePrecision = "decade"
	PrecisionUnknown DatePrecision = "unknown"
)

// Valid reports whether p is one of the known precision values.
func (p DatePrecision) Valid() bool {
	switch p {
	case PrecisionExact, PrecisionDay, PrecisionMonth, PrecisionYear, PrecisionDecade, PrecisionUnknown:
		return true
	}
	return false
}

// Location describes where a photo was taken. Title is always present;
// the other fields are filled in as they become known.
type Location struct {
	Title     string   `json:"title"`
	Address   string   `json:"address,omitempty"`
	City      string   `json:"city,omitempty"`
	State     string   `json:"state,omitempty"`
	Country   string   `json:"country,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Photo is the root archive entity. Dates are ISO-8601 strings in UTC;
// dateTaken's meaning depends on dateTakenPrecision.
type Photo struct {
	ID                 string        `json:"id"`
	Filename           string        `json:"filename"`
	Tags               []string      `json:"tags"`
	Width              int           `json:"width"`
	Height             int           `json:"height"`
	People             []string      `json:"people"`
	Location           Location      `json:"location"`
	DateTaken          string        `json:"dateTaken"`
	DateTakenPrecision DatePrecision `json:"dateTakenPrecision"`
	DateAdded          string        `json:"dateAdded"`
	DateModified       string        `json:"dateModified"`
	Metadata           *Metadata     `json:"metadata,omitempty"`
}

// NewPhotoID synthesizes a unique photo id. Used on the extraction upsert
// path when no existing record matches the filename.
func NewPhotoID() string {
	suffix := strings.SplitN(uuid.New().String(), "-", 2)[0]
	return fmt.Sprintf("img_%d_%s", time.Now().UnixMilli(), suffix)
}

// FormatTime renders t as a canonical archive timestamp.
func FormatTime(t time.Time) string {
	return t.UTC().Format(ISOTimeFormat)
}

// Now returns the current time as a canonical archive timestamp.
func Now() string {
	return FormatTime(time.Now())
}

// Year extracts the UTC calendar year from an archive timestamp. The
// second return is false when the timestamp does not parse.
func Year(isoDate string) (int, bool) {
	t, err := time.Parse(time.RFC3339, isoDate)
	if err != nil {
		return 0, false
	}
	return t.UTC().Year(), true
}

// EstimatedDate builds a timestamp for manually entered approximate dates.
// Unknown components default to mid-year and mid-month so an estimate
// sorts into the middle of its period.
func EstimatedDate(year, month, day int) string {
	if month <= 0 {
		month = 6
	}
	if day <= 0 {
		day = 15
	}
	return FormatTime(time.Date(year, time.Month(month), day, 12, 0, 0, 0, time.UTC))
}

// DecadeEstimate builds a timestamp for a decade-precision guess, pinned
// to the middle of the decade (1985 for "1980s").
func DecadeEstimate(decade int) string {
	return EstimatedDate(decade+5, 0, 0)
}
