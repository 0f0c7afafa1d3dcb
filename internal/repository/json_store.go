package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/photoarc/server/internal/models"
	"github.com/photoarc/server/internal/observability"
)

// JSONPhotoStore persists the whole collection as a single JSON array and
// rewrites it wholesale on every mutation. That trade-off assumes a
// personal archive of at most a few thousand records; there is no index,
// no incremental write, and no isolation between concurrent writers
// beyond the atomicity of the final rename (last save wins).
type JSONPhotoStore struct {
	path string
}

// NewJSONPhotoStore creates a store backed by the JSON file at path. The
// parent directory is created if missing.
func NewJSONPhotoStore(path string) (*JSONPhotoStore, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return nil, err
	}
	return &JSONPhotoStore{path: absPath}, nil
}

// Path returns the canonical file location.
func (s *JSONPhotoStore) Path() string {
	return s.path
}

// Load reads the persisted collection. A missing file, a read error, or
// malformed JSON all degrade to an empty collection; the condition is
// logged rather than surfaced so reads never crash.
func (s *JSONPhotoStore) Load(ctx context.Context) []models.Photo {
	ctx, span := observability.StartStoreSpan(ctx, "load")
	defer span.End()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			observability.WithContext(ctx).Warnf("failed to read photo collection %s: %v", s.path, err)
		}
		return []models.Photo{}
	}

	var photos []models.Photo
	if err := json.Unmarshal(data, &photos); err != nil {
		observability.WithContext(ctx).Errorf("failed to parse photo collection %s: %v", s.path, err)
		return []models.Photo{}
	}
	if photos == nil {
		photos = []models.Photo{}
	}
	return photos
}

// Save serializes the full collection to a sibling temp file and renames
// it over the canonical path, so a reader never observes a partial write.
func (s *JSONPhotoStore) Save(ctx context.Context, photos []models.Photo) error {
	ctx, span := observability.StartStoreSpan(ctx, "save")
	defer span.End()

	if photos == nil {
		photos = []models.Photo{}
	}

	data, err := json.MarshalIndent(photos, "", "  ")
	if err != nil {
		observability.RecordError(span, err)
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		observability.RecordError(span, err)
		return err
	}

	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		observability.RecordError(span, err)
		return err
	}

	observability.WithContext(ctx).Debugf("saved %d photos to %s", len(photos), s.path)
	return nil
}
