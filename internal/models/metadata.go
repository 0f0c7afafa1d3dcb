package models

// Metadata holds everything extracted from an image file. Every field is
// optional; absence means the source EXIF did not carry it.
type Metadata struct {
	EXIF       map[string]string `json:"exif,omitempty"`
	File       *FileInfo         `json:"file,omitempty"`
	Technical  *TechnicalInfo    `json:"technical,omitempty"`
	GPS        *GPSInfo          `json:"gps,omitempty"`
	Camera     *CameraInfo       `json:"camera,omitempty"`
	Timestamps *TimestampInfo    `json:"timestamps,omitempty"`
	Processing *ProcessingInfo   `json:"processing,omitempty"`
}

// FileInfo describes the image file on disk.
type FileInfo struct {
	Size     int64  `json:"size,omitempty"`
	Created  string `json:"created,omitempty"`
	Modified string `json:"modified,omitempty"`
	Format   string `json:"format,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
}

// Resolution is the pixel density recorded by the camera.
type Resolution struct {
	X    float64 `json:"x,omitempty"`
	Y    float64 `json:"y,omitempty"`
	Unit string  `json:"unit,omitempty"`
}

// TechnicalInfo holds image-level technical specifications.
type TechnicalInfo struct {
	ColorSpace  string      `json:"colorSpace,omitempty"`
	Orientation int         `json:"orientation,omitempty"`
	Resolution  *Resolution `json:"resolution,omitempty"`
	Compression string      `json:"compression,omitempty"`
	BitDepth    int         `json:"bitDepth,omitempty"`
}

// GPSInfo holds raw GPS data from EXIF.
type GPSInfo struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Altitude  *float64 `json:"altitude,omitempty"`
	Direction *float64 `json:"direction,omitempty"`
	Timestamp string   `json:"timestamp,omitempty"`
}

// CameraInfo holds camera body, lens and exposure settings.
type CameraInfo struct {
	Make         string   `json:"make,omitempty"`
	Model        string   `json:"model,omitempty"`
	Software     string   `json:"software,omitempty"`
	Lens         string   `json:"lens,omitempty"`
	FocalLength  *float64 `json:"focalLength,omitempty"`
	Aperture     *float64 `json:"aperture,omitempty"`
	ShutterSpeed string   `json:"shutterSpeed,omitempty"`
	ISO          *int     `json:"iso,omitempty"`
	Flash        *bool    `json:"flash,omitempty"`
	WhiteBalance string   `json:"whiteBalance,omitempty"`
	ExposureMode string   `json:"exposureMode,omitempty"`
	MeteringMode string   `json:"meteringMode,omitempty"`
}

// TimestampInfo keeps the raw EXIF date strings before normalization.
type TimestampInfo struct {
	DateTimeOriginal string `json:"dateTimeOriginal,omitempty"`
	DateTime         string `json:"dateTime,omitempty"`
	CreateDate       string `json:"createDate,omitempty"`
	ModifyDate       string `json:"modifyDate,omitempty"`
	Digitized        string `json:"digitized,omitempty"`
}

// ProcessingInfo records extraction provenance.
type ProcessingInfo struct {
	ExtractedAt      string `json:"extractedAt,omitempty"`
	ExtractorVersion string `json:"extractorVersion,omitempty"`
	Source           string `json:"source,omitempty"`
}
