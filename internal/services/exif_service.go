package services

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"github.com/photoarc/server/internal/models"
	"github.com/photoarc/server/internal/observability"
)

const extractorVersion = "1.0.0"

// exifTimeLayout matches EXIF date strings such as "2023:12:25 10:30:00";
// the colon-separated date prefix parses directly with this layout.
const exifTimeLayout = "2006:01:02 15:04:05"

// captureTimeFields are checked in priority order for the capture time.
var captureTimeFields = []exif.FieldName{
	exif.DateTimeOriginal,
	exif.DateTimeDigitized,
	exif.DateTime,
}

// rawTagDenylist drops noisy or binary tags from the raw EXIF map:
// color-matrix and profile blobs, maker notes, embedded thumbnails.
var rawTagDenylist = []string{
	"MakerNote",
	"UserComment",
	"ColorMatrix",
	"Profile",
	"Thumb",
	"CFAPattern",
}

// EXIFService normalizes raw EXIF tags into the archive's metadata record.
// It never returns an error: an unreadable or EXIF-less file yields a
// minimal fallback record marked with processing source "fallback".
type EXIFService struct{}

// NewEXIFService creates a new EXIFService.
func NewEXIFService() *EXIFService {
	return &EXIFService{}
}

// Extract reads the image at imagePath and returns a partial photo record:
// dimensions, capture date with precision, GPS-derived location, and the
// full metadata block. Tags and people are always empty; auto-tagging is
// not this component's job and camera facts belong under metadata.camera.
// Extraction failures are recovered into a minimal fallback record, never
// an error.
func (s *EXIFService) Extract(imagePath, filename string) models.Photo {
	photo, err := s.ExtractStrict(imagePath, filename)
	if err != nil {
		observability.Debugf("extraction fell back for %s: %v", filename, err)
		photo.Metadata.Processing.Source = "fallback"
	}
	return photo
}

// ExtractStrict is Extract without the recovery: the returned error is
// non-nil when the file could not be opened or carries no parsable EXIF,
// alongside the same fallback record Extract would return. Batch callers
// use it to report per-file failures.
func (s *EXIFService) ExtractStrict(imagePath, filename string) (models.Photo, error) {
	now := time.Now().UTC()

	photo := models.Photo{
		Filename:           filename,
		Tags:               []string{},
		People:             []string{},
		Location:           models.Location{Title: models.UnknownLocationTitle},
		DateTaken:          models.FormatTime(now),
		DateTakenPrecision: models.PrecisionUnknown,
		Metadata: &models.Metadata{
			File: fileInfo(imagePath, filename),
			Processing: &models.ProcessingInfo{
				ExtractedAt:      models.FormatTime(now),
				ExtractorVersion: extractorVersion,
				Source:           "exif",
			},
		},
	}

	f, err := os.Open(imagePath)
	if err != nil {
		return photo, fmt.Errorf("open %s: %w", filename, err)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		// No EXIF data or unsupported format
		return photo, fmt.Errorf("decode EXIF in %s: %w", filename, err)
	}

	photo.Metadata.EXIF = rawTags(x)
	photo.Metadata.Camera = cameraInfo(x)
	photo.Metadata.Technical = technicalInfo(x)
	photo.Metadata.Timestamps = timestampInfo(x)

	if ts, ok := captureTime(x); ok {
		photo.DateTaken = models.FormatTime(ts)
		photo.DateTakenPrecision = models.PrecisionExact
	}

	photo.Width = dimension(x, exif.PixelXDimension, exif.ImageWidth)
	photo.Height = dimension(x, exif.PixelYDimension, exif.ImageLength)

	if lat, lng, err := x.LatLong(); err == nil {
		photo.Metadata.GPS = gpsInfo(x, lat, lng)
		photo.Location = models.Location{
			Title:     GPSTitle(lat, lng),
			Latitude:  &lat,
			Longitude: &lng,
		}
	}

	return photo, nil
}

// GPSTitle renders coordinates as the fixed 6-decimal "lat, lon" title
// used when no human-readable location is known.
func GPSTitle(lat, lng float64) string {
	return fmt.Sprintf("%.6f, %.6f", lat, lng)
}

// tagCollector gathers the raw tag mapping during an EXIF walk.
type tagCollector struct {
	tags map[string]string
}

func (c *tagCollector) Walk(name exif.FieldName, tag *tiff.Tag) error {
	n := string(name)
	for _, blocked := range rawTagDenylist {
		if strings.Contains(n, blocked) {
			return nil
		}
	}
	c.tags[n] = strings.Trim(tag.String(), `"`)
	return nil
}

func rawTags(x *exif.Exif) map[string]string {
	c := &tagCollector{tags: make(map[string]string)}
	x.Walk(c)
	return c.tags
}

func captureTime(x *exif.Exif) (time.Time, bool) {
	for _, field := range captureTimeFields {
		tag, err := x.Get(field)
		if err != nil {
			continue
		}
		val, err := tag.StringVal()
		if err != nil {
			continue
		}
		if ts, err := time.Parse(exifTimeLayout, strings.TrimSpace(val)); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func dimension(x *exif.Exif, primary, fallback exif.FieldName) int {
	if v, ok := tagInt(x, primary); ok {
		return v
	}
	if v, ok := tagInt(x, fallback); ok {
		return v
	}
	return 0
}

func cameraInfo(x *exif.Exif) *models.CameraInfo {
	cam := &models.CameraInfo{
		Make:     tagString(x, exif.Make),
		Model:    tagString(x, exif.Model),
		Software: tagString(x, exif.Software),
		Lens:     tagString(x, exif.LensModel),
	}

	if fl, ok := tagRat(x, exif.FocalLength); ok {
		cam.FocalLength = &fl
	}
	if ap, ok := tagRat(x, exif.FNumber); ok {
		cam.Aperture = &ap
	}
	cam.ShutterSpeed = shutterSpeed(x)
	if iso, ok := tagInt(x, exif.ISOSpeedRatings); ok {
		cam.ISO = &iso
	}
	if flash, ok := tagInt(x, exif.Flash); ok {
		fired := flash&1 == 1
		cam.Flash = &fired
	}
	if wb, ok := tagInt(x, exif.WhiteBalance); ok {
		cam.WhiteBalance = whiteBalanceName(wb)
	}
	if em, ok := tagInt(x, exif.ExposureMode); ok {
		cam.ExposureMode = exposureModeName(em)
	}
	if mm, ok := tagInt(x, exif.MeteringMode); ok {
		cam.MeteringMode = meteringModeName(mm)
	}

	return cam
}

func shutterSpeed(x *exif.Exif) string {
	tag, err := x.Get(exif.ExposureTime)
	if err != nil {
		return ""
	}
	rat, err := tag.Rat(0)
	if err != nil {
		return ""
	}
	num := rat.Num().Int64()
	denom := rat.Denom().Int64()
	if denom == 0 {
		return ""
	}
	switch {
	case denom == 1:
		return fmt.Sprintf("%ds", num)
	case num == 1:
		return fmt.Sprintf("1/%ds", denom)
	default:
		return fmt.Sprintf("%d/%ds", num, denom)
	}
}

func technicalInfo(x *exif.Exif) *models.TechnicalInfo {
	tech := &models.TechnicalInfo{}

	if cs, ok := tagInt(x, exif.ColorSpace); ok {
		if cs == 1 {
			tech.ColorSpace = "sRGB"
		} else {
			tech.ColorSpace = "Uncalibrated"
		}
	}
	if o, ok := tagInt(x, exif.Orientation); ok && o >= 1 && o <= 8 {
		tech.Orientation = o
	}

	xr, xok := tagRat(x, exif.XResolution)
	yr, yok := tagRat(x, exif.YResolution)
	if xok || yok {
		res := &models.Resolution{X: xr, Y: yr}
		if unit, ok := tagInt(x, exif.ResolutionUnit); ok {
			switch unit {
			case 2:
				res.Unit = "inches"
			case 3:
				res.Unit = "cm"
			}
		}
		tech.Resolution = res
	}

	if comp, ok := tagInt(x, exif.Compression); ok {
		switch comp {
		case 1:
			tech.Compression = "Uncompressed"
		case 6:
			tech.Compression = "JPEG"
		default:
			tech.Compression = fmt.Sprintf("%d", comp)
		}
	}
	if bits, ok := tagInt(x, exif.BitsPerSample); ok {
		tech.BitDepth = bits
	}

	return tech
}

func timestampInfo(x *exif.Exif) *models.TimestampInfo {
	return &models.TimestampInfo{
		DateTimeOriginal: tagString(x, exif.DateTimeOriginal),
		DateTime:         tagString(x, exif.DateTime),
		Digitized:        tagString(x, exif.DateTimeDigitized),
	}
}

func gpsInfo(x *exif.Exif, lat, lng float64) *models.GPSInfo {
	gps := &models.GPSInfo{
		Latitude:  &lat,
		Longitude: &lng,
	}

	if tag, err := x.Get(exif.GPSAltitude); err == nil {
		if rat, err := tag.Rat(0); err == nil && rat.Denom().Int64() != 0 {
			alt := float64(rat.Num().Int64()) / float64(rat.Denom().Int64())
			// GPSAltitudeRef 1 means below sea level
			if refTag, err := x.Get(exif.GPSAltitudeRef); err == nil {
				if ref, err := refTag.Int(0); err == nil && ref == 1 {
					alt = -alt
				}
			}
			gps.Altitude = &alt
		}
	}
	if dir, ok := tagRat(x, exif.GPSImgDirection); ok {
		gps.Direction = &dir
	}

	return gps
}

func fileInfo(imagePath, filename string) *models.FileInfo {
	ext := strings.ToLower(filepath.Ext(filename))
	info := &models.FileInfo{
		Format:   strings.TrimPrefix(strings.ToUpper(ext), "."),
		MimeType: mime.TypeByExtension(ext),
	}
	if st, err := os.Stat(imagePath); err == nil {
		info.Size = st.Size()
		info.Modified = models.FormatTime(st.ModTime())
	}
	return info
}

func tagString(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	val, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(val)
}

func tagInt(x *exif.Exif, name exif.FieldName) (int, bool) {
	tag, err := x.Get(name)
	if err != nil {
		return 0, false
	}
	val, err := tag.Int(0)
	if err != nil {
		return 0, false
	}
	return val, true
}

func tagRat(x *exif.Exif, name exif.FieldName) (float64, bool) {
	tag, err := x.Get(name)
	if err != nil {
		return 0, false
	}
	rat, err := tag.Rat(0)
	if err != nil || rat.Denom().Int64() == 0 {
		return 0, false
	}
	return float64(rat.Num().Int64()) / float64(rat.Denom().Int64()), true
}

func whiteBalanceName(v int) string {
	switch v {
	case 0:
		return "Auto"
	case 1:
		return "Manual"
	default:
		return ""
	}
}

func exposureModeName(v int) string {
	switch v {
	case 0:
		return "Auto"
	case 1:
		return "Manual"
	case 2:
		return "Auto bracket"
	default:
		return ""
	}
}

func meteringModeName(v int) string {
	switch v {
	case 1:
		return "Average"
	case 2:
		return "Center-weighted"
	case 3:
		return "Spot"
	case 5:
		return "Pattern"
	default:
		return ""
	}
}
