package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/photoarc/server/internal/models"
	"github.com/photoarc/server/internal/observability"
	"github.com/photoarc/server/internal/repository"
)

// imageExtensions are the files the batch extractor considers.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".tiff": true,
	".tif":  true,
	".bmp":  true,
	".heic": true,
	".heif": true,
}

// autoTagDenylist drops tags that look like auto-inserted camera or
// device markers during the extraction merge. Matching is by substring,
// plus the "Software:" prefix convention.
var autoTagDenylist = []string{
	"Apple",
	"Canon",
	"Nikon",
	"Sony",
	"Samsung",
	"Fujifilm",
	"Olympus",
	"Panasonic",
	"GoPro",
	"DJI",
}

// CatalogService owns mutations of the photo collection: CRUD stamping
// and the extraction upsert. Every operation runs a full load-modify-save
// cycle against the store; overlapping mutations race and the last save
// wins, which is accepted for a single-user archive.
type CatalogService struct {
	store      repository.PhotoStore
	exif       *EXIFService
	imagesPath string
	metrics    *observability.ArchiveMetrics
}

// NewCatalogService creates a CatalogService reading image files from
// imagesPath. metrics may be nil.
func NewCatalogService(store repository.PhotoStore, exif *EXIFService, imagesPath string, metrics *observability.ArchiveMetrics) *CatalogService {
	return &CatalogService{
		store:      store,
		exif:       exif,
		imagesPath: imagesPath,
		metrics:    metrics,
	}
}

// Get returns the photo with the given id.
func (s *CatalogService) Get(ctx context.Context, id string) (*models.Photo, error) {
	photos := s.store.Load(ctx)
	for i := range photos {
		if photos[i].ID == id {
			return &photos[i], nil
		}
	}
	return nil, models.ErrPhotoNotFound
}

// Create appends a new photo. The caller supplies the full record
// including its id; the server enforces id uniqueness and stamps both
// timestamps to now.
func (s *CatalogService) Create(ctx context.Context, photo models.Photo) (*models.Photo, error) {
	if strings.TrimSpace(photo.ID) == "" {
		return nil, models.ErrMissingID
	}
	if strings.TrimSpace(photo.Filename) == "" {
		return nil, models.ErrMissingFilename
	}

	photos := s.store.Load(ctx)
	for _, p := range photos {
		if p.ID == photo.ID {
			return nil, models.ErrDuplicateID
		}
	}

	now := models.Now()
	normalize(&photo, now)
	photo.DateAdded = now
	photo.DateModified = now

	photos = append(photos, photo)
	if err := s.store.Save(ctx, photos); err != nil {
		return nil, err
	}

	observability.WithContext(ctx).Infof("photo created: %s (%s)", photo.ID, photo.Filename)
	s.metrics.RecordMutation(ctx, "create", 1)
	return &photo, nil
}

// Update applies a shallow merge: top-level JSON keys present in patch
// replace the stored field wholesale. The id and dateAdded are pinned and
// dateModified is refreshed.
func (s *CatalogService) Update(ctx context.Context, id string, patch map[string]json.RawMessage) (*models.Photo, error) {
	photos := s.store.Load(ctx)
	idx := -1
	for i := range photos {
		if photos[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, models.ErrPhotoNotFound
	}

	merged, err := shallowMerge(photos[idx], patch)
	if err != nil {
		return nil, err
	}
	merged.ID = photos[idx].ID
	merged.DateAdded = photos[idx].DateAdded
	merged.DateModified = models.Now()
	normalize(&merged, merged.DateTaken)

	photos[idx] = merged
	if err := s.store.Save(ctx, photos); err != nil {
		return nil, err
	}

	observability.WithContext(ctx).Infof("photo updated: %s", id)
	s.metrics.RecordMutation(ctx, "update", 0)
	return &photos[idx], nil
}

// Delete removes the photo with the given id. Removal is immediate and
// unconditional when the id exists.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	photos := s.store.Load(ctx)
	idx := -1
	for i := range photos {
		if photos[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.ErrPhotoNotFound
	}

	photos = append(photos[:idx], photos[idx+1:]...)
	if err := s.store.Save(ctx, photos); err != nil {
		return err
	}

	observability.WithContext(ctx).Infof("photo deleted: %s", id)
	s.metrics.RecordMutation(ctx, "delete", -1)
	return nil
}

// ExtractOne runs metadata extraction for a single image file and upserts
// the result into the collection by filename. EXIF failures degrade to a
// fallback record; only a missing file is an error.
func (s *CatalogService) ExtractOne(ctx context.Context, filename string) (*models.Photo, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, models.ErrMissingFilename
	}

	ctx, span := observability.StartServiceSpan(ctx, "catalog", "extract")
	defer span.End()
	span.SetAttributes(observability.Filename(filename))

	imagePath := filepath.Join(s.imagesPath, filepath.Base(filename))
	if _, err := os.Stat(imagePath); err != nil {
		observability.RecordError(span, models.ErrImageNotFound)
		return nil, models.ErrImageNotFound
	}

	start := time.Now()
	extracted := s.exif.Extract(imagePath, filepath.Base(filename))
	s.metrics.RecordExtraction(ctx, extracted.Metadata.Processing.Source != "fallback", time.Since(start))

	photos := s.store.Load(ctx)
	photos, photo := upsertExtracted(photos, extracted)
	if err := s.store.Save(ctx, photos); err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	span.SetAttributes(observability.PhotoID(photo.ID), observability.Duration(time.Since(start)))
	observability.SetSuccess(span)

	observability.WithContext(ctx).Infof("metadata extracted for %s -> %s", filename, photo.ID)
	return photo, nil
}

// ExtractAll runs extraction for every image file in the images
// directory. A single file's failure is recorded and does not abort the
// batch; the collection is saved once at the end.
func (s *CatalogService) ExtractAll(ctx context.Context) (models.BatchExtractResponse, error) {
	ctx, span := observability.StartServiceSpan(ctx, "catalog", "extract_all")
	defer span.End()

	entries, err := os.ReadDir(s.imagesPath)
	if err != nil {
		err = fmt.Errorf("read images directory: %w", err)
		observability.RecordError(span, err)
		return models.BatchExtractResponse{}, err
	}

	var filenames []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			filenames = append(filenames, e.Name())
		}
	}
	sort.Strings(filenames)

	photos := s.store.Load(ctx)
	processed := make([]string, 0, len(filenames))
	var batchErrors []models.BatchError

	for _, name := range filenames {
		start := time.Now()
		extracted, err := s.exif.ExtractStrict(filepath.Join(s.imagesPath, name), name)
		s.metrics.RecordExtraction(ctx, err == nil, time.Since(start))
		if err != nil {
			observability.WithContext(ctx).Warnf("batch extraction failed for %s: %v", name, err)
			observability.AddEvent(span, "extraction_failed", observability.Filename(name))
			batchErrors = append(batchErrors, models.BatchError{Filename: name, Error: err.Error()})
			continue
		}
		photos, _ = upsertExtracted(photos, extracted)
		processed = append(processed, name)
	}

	if err := s.store.Save(ctx, photos); err != nil {
		observability.RecordError(span, err)
		return models.BatchExtractResponse{}, err
	}

	observability.SetSuccess(span)
	return models.BatchExtractResponse{
		Success:     true,
		Message:     fmt.Sprintf("processed %d of %d images", len(processed), len(filenames)),
		Processed:   processed,
		Errors:      batchErrors,
		TotalImages: len(filenames),
	}, nil
}

// upsertExtracted reconciles a freshly extracted record with the
// collection, matching on filename. The returned pointer addresses the
// record inside the returned slice.
func upsertExtracted(photos []models.Photo, extracted models.Photo) ([]models.Photo, *models.Photo) {
	now := models.Now()

	for i := range photos {
		if photos[i].Filename == extracted.Filename {
			mergeExtracted(&photos[i], extracted, now)
			return photos, &photos[i]
		}
	}

	extracted.ID = models.NewPhotoID()
	extracted.DateAdded = now
	extracted.DateModified = now
	normalize(&extracted, now)
	photos = append(photos, extracted)
	return photos, &photos[len(photos)-1]
}

// mergeExtracted refreshes machine-derived fields on an existing record
// while preserving user-entered content.
func mergeExtracted(existing *models.Photo, extracted models.Photo, now string) {
	if extracted.Width != 0 {
		existing.Width = extracted.Width
	}
	if extracted.Height != 0 {
		existing.Height = extracted.Height
	}
	if extracted.DateTaken != "" {
		existing.DateTaken = extracted.DateTaken
		existing.DateTakenPrecision = extracted.DateTakenPrecision
	}

	// One-way cleanup of auto-inserted camera markers; no new tags are
	// ever added here.
	existing.Tags = cleanAutoTags(existing.Tags)

	// People are user-entered and never touched by extraction.

	// First GPS fix wins: only a placeholder location gets replaced.
	if existing.Location.Title == models.UnknownLocationTitle {
		existing.Location = extracted.Location
	}

	existing.Metadata = extracted.Metadata
	existing.DateModified = now
}

// cleanAutoTags filters out tags matching the camera/device denylist.
func cleanAutoTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if isAutoTag(tag) {
			continue
		}
		out = append(out, tag)
	}
	return out
}

func isAutoTag(tag string) bool {
	if strings.HasPrefix(tag, "Software:") {
		return true
	}
	for _, vendor := range autoTagDenylist {
		if strings.Contains(tag, vendor) {
			return true
		}
	}
	return false
}

// shallowMerge overlays the patch's top-level keys onto the existing
// record through its JSON representation.
func shallowMerge(existing models.Photo, patch map[string]json.RawMessage) (models.Photo, error) {
	raw, err := json.Marshal(existing)
	if err != nil {
		return models.Photo{}, err
	}

	base := make(map[string]json.RawMessage)
	if err := json.Unmarshal(raw, &base); err != nil {
		return models.Photo{}, err
	}
	for k, v := range patch {
		base[k] = v
	}

	combined, err := json.Marshal(base)
	if err != nil {
		return models.Photo{}, err
	}

	var merged models.Photo
	if err := json.Unmarshal(combined, &merged); err != nil {
		return models.Photo{}, err
	}
	return merged, nil
}

// normalize enforces the record invariants: slices are never nil, the
// location title is always present, the precision is always a known
// value, and dateTaken is never empty.
func normalize(photo *models.Photo, fallbackDate string) {
	if photo.Tags == nil {
		photo.Tags = []string{}
	}
	if photo.People == nil {
		photo.People = []string{}
	}
	if photo.Location.Title == "" {
		if photo.Location.Latitude != nil && photo.Location.Longitude != nil {
			photo.Location.Title = GPSTitle(*photo.Location.Latitude, *photo.Location.Longitude)
		} else {
			photo.Location.Title = models.UnknownLocationTitle
		}
	}
	if !photo.DateTakenPrecision.Valid() {
		photo.DateTakenPrecision = models.PrecisionUnknown
	}
	if photo.DateTaken == "" {
		if fallbackDate != "" {
			photo.DateTaken = fallbackDate
		} else {
			photo.DateTaken = models.Now()
		}
	}
}
