package services

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photoarc/server/internal/models"
	"github.com/photoarc/server/internal/repository"
)

func setupCatalog(t *testing.T) (*CatalogService, *repository.JSONPhotoStore, string) {
	t.Helper()

	tempDir := t.TempDir()
	imagesDir := filepath.Join(tempDir, "images")
	require.NoError(t, os.MkdirAll(imagesDir, 0755))

	store, err := repository.NewJSONPhotoStore(filepath.Join(tempDir, "photos.json"))
	require.NoError(t, err)

	svc := NewCatalogService(store, NewEXIFService(), imagesDir, nil)
	return svc, store, imagesDir
}

func catalogPhoto(id, filename string) models.Photo {
	return models.Photo{
		ID:       id,
		Filename: filename,
		Tags:     []string{"sunset"},
		People:   []string{"Alice"},
	}
}

func TestCatalogService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("stamps both timestamps to now", func(t *testing.T) {
		svc, _, _ := setupCatalog(t)

		created, err := svc.Create(ctx, catalogPhoto("img_1", "a.jpg"))

		require.NoError(t, err)
		assert.NotEmpty(t, created.DateAdded)
		assert.Equal(t, created.DateAdded, created.DateModified)
	})

	t.Run("rejects missing id", func(t *testing.T) {
		svc, _, _ := setupCatalog(t)

		_, err := svc.Create(ctx, catalogPhoto("", "a.jpg"))
		assert.ErrorIs(t, err, models.ErrMissingID)
	})

	t.Run("rejects missing filename", func(t *testing.T) {
		svc, _, _ := setupCatalog(t)

		_, err := svc.Create(ctx, catalogPhoto("img_1", ""))
		assert.ErrorIs(t, err, models.ErrMissingFilename)
	})

	t.Run("rejects duplicate id", func(t *testing.T) {
		svc, _, _ := setupCatalog(t)

		_, err := svc.Create(ctx, catalogPhoto("img_1", "a.jpg"))
		require.NoError(t, err)

		_, err = svc.Create(ctx, catalogPhoto("img_1", "b.jpg"))
		assert.ErrorIs(t, err, models.ErrDuplicateID)
	})

	t.Run("normalizes missing fields", func(t *testing.T) {
		svc, _, _ := setupCatalog(t)

		created, err := svc.Create(ctx, models.Photo{
			ID:                 "img_1",
			Filename:           "a.jpg",
			DateTakenPrecision: "bogus",
		})

		require.NoError(t, err)
		assert.NotNil(t, created.Tags)
		assert.NotNil(t, created.People)
		assert.Equal(t, models.UnknownLocationTitle, created.Location.Title)
		assert.Equal(t, models.PrecisionUnknown, created.DateTakenPrecision)
		assert.NotEmpty(t, created.DateTaken)
	})

	t.Run("titles a GPS-only location with coordinates", func(t *testing.T) {
		svc, _, _ := setupCatalog(t)

		lat, lng := -33.865143, 151.209900
		created, err := svc.Create(ctx, models.Photo{
			ID:       "img_1",
			Filename: "a.jpg",
			Location: models.Location{Latitude: &lat, Longitude: &lng},
		})

		require.NoError(t, err)
		assert.Equal(t, "-33.865143, 151.209900", created.Location.Title)
	})
}

func TestCatalogService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the stored photo", func(t *testing.T) {
		svc, _, _ := setupCatalog(t)
		_, err := svc.Create(ctx, catalogPhoto("img_1", "a.jpg"))
		require.NoError(t, err)

		photo, err := svc.Get(ctx, "img_1")
		require.NoError(t, err)
		assert.Equal(t, "a.jpg", photo.Filename)
	})

	t.Run("returns not found for unknown id", func(t *testing.T) {
		svc, _, _ := setupCatalog(t)

		_, err := svc.Get(ctx, "img_missing")
		assert.ErrorIs(t, err, models.ErrPhotoNotFound)
	})
}

func TestCatalogService_Update(t *testing.T) {
	ctx := context.Background()

	patch := func(t *testing.T, body string) map[string]json.RawMessage {
		t.Helper()
		var m map[string]json.RawMessage
		require.NoError(t, json.Unmarshal([]byte(body), &m))
		return m
	}

	t.Run("replaces patched top-level fields wholesale", func(t *testing.T) {
		svc, _, _ := setupCatalog(t)
		_, err := svc.Create(ctx, catalogPhoto("img_1", "a.jpg"))
		require.NoError(t, err)

		updated, err := svc.Update(ctx, "img_1", patch(t, `{"tags":["replaced"]}`))

		require.NoError(t, err)
		assert.Equal(t, []string{"replaced"}, updated.Tags)
		assert.Equal(t, []string{"Alice"}, updated.People)
	})

	t.Run("pins id and dateAdded", func(t *testing.T) {
		svc, _, _ := setupCatalog(t)
		created, err := svc.Create(ctx, catalogPhoto("img_1", "a.jpg"))
		require.NoError(t, err)

		updated, err := svc.Update(ctx, "img_1", patch(t, `{"id":"img_evil","dateAdded":"1970-01-01T00:00:00.000Z"}`))

		require.NoError(t, err)
		assert.Equal(t, "img_1", updated.ID)
		assert.Equal(t, created.DateAdded, updated.DateAdded)
	})

	t.Run("refreshes dateModified", func(t *testing.T) {
		svc, _, _ := setupCatalog(t)
		created, err := svc.Create(ctx, catalogPhoto("img_1", "a.jpg"))
		require.NoError(t, err)

		updated, err := svc.Update(ctx, "img_1", patch(t, `{"tags":[]}`))

		require.NoError(t, err)
		assert.GreaterOrEqual(t, updated.DateModified, created.DateModified)
	})

	t.Run("returns not found for unknown id", func(t *testing.T) {
		svc, _, _ := setupCatalog(t)

		_, err := svc.Update(ctx, "img_missing", patch(t, `{"tags":[]}`))
		assert.ErrorIs(t, err, models.ErrPhotoNotFound)
	})
}

func TestCatalogService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the photo", func(t *testing.T) {
		svc, _, _ := setupCatalog(t)
		_, err := svc.Create(ctx, catalogPhoto("img_1", "a.jpg"))
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, "img_1"))

		_, err = svc.Get(ctx, "img_1")
		assert.ErrorIs(t, err, models.ErrPhotoNotFound)
	})

	t.Run("returns not found for unknown id", func(t *testing.T) {
		svc, _, _ := setupCatalog(t)

		err := svc.Delete(ctx, "img_missing")
		assert.ErrorIs(t, err, models.ErrPhotoNotFound)
	})
}

func TestCatalogService_ExtractOne(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects missing filename", func(t *testing.T) {
		svc, _, _ := setupCatalog(t)

		_, err := svc.ExtractOne(ctx, "  ")
		assert.ErrorIs(t, err, models.ErrMissingFilename)
	})

	t.Run("returns not found for a nonexistent image", func(t *testing.T) {
		svc, _, _ := setupCatalog(t)

		_, err := svc.ExtractOne(ctx, "missing.jpg")
		assert.ErrorIs(t, err, models.ErrImageNotFound)
	})

	t.Run("creates a fallback record for an EXIF-less file", func(t *testing.T) {
		svc, _, imagesDir := setupCatalog(t)
		require.NoError(t, os.WriteFile(filepath.Join(imagesDir, "plain.jpg"), []byte("not a real jpeg"), 0644))

		photo, err := svc.ExtractOne(ctx, "plain.jpg")

		require.NoError(t, err)
		assert.Contains(t, photo.ID, "img_")
		assert.Equal(t, "plain.jpg", photo.Filename)
		assert.Equal(t, models.PrecisionUnknown, photo.DateTakenPrecision)
		assert.Equal(t, models.UnknownLocationTitle, photo.Location.Title)
		require.NotNil(t, photo.Metadata)
		assert.Equal(t, "fallback", photo.Metadata.Processing.Source)
	})

	t.Run("strips any directory components from the filename", func(t *testing.T) {
		svc, _, imagesDir := setupCatalog(t)
		require.NoError(t, os.WriteFile(filepath.Join(imagesDir, "plain.jpg"), []byte("x"), 0644))

		photo, err := svc.ExtractOne(ctx, "../../plain.jpg")

		require.NoError(t, err)
		assert.Equal(t, "plain.jpg", photo.Filename)
	})

	t.Run("merges into an existing record by filename", func(t *testing.T) {
		svc, _, imagesDir := setupCatalog(t)
		require.NoError(t, os.WriteFile(filepath.Join(imagesDir, "plain.jpg"), []byte("x"), 0644))

		existing := models.Photo{
			ID:       "img_keep",
			Filename: "plain.jpg",
			Tags:     []string{"Apple iPhone", "sunset"},
			People:   []string{"Alice"},
			Location: models.Location{Title: "Bondi Beach", Country: "Australia"},
		}
		_, err := svc.Create(ctx, existing)
		require.NoError(t, err)

		photo, err := svc.ExtractOne(ctx, "plain.jpg")

		require.NoError(t, err)
		assert.Equal(t, "img_keep", photo.ID)
		assert.Equal(t, []string{"sunset"}, photo.Tags)
		assert.Equal(t, []string{"Alice"}, photo.People)
		assert.Equal(t, "Bondi Beach", photo.Location.Title)
	})
}

func TestCatalogService_ExtractAll(t *testing.T) {
	ctx := context.Background()

	t.Run("reports an empty directory", func(t *testing.T) {
		svc, _, _ := setupCatalog(t)

		result, err := svc.ExtractAll(ctx)

		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Zero(t, result.TotalImages)
		assert.Empty(t, result.Processed)
	})

	t.Run("records per-file failures without aborting", func(t *testing.T) {
		svc, _, imagesDir := setupCatalog(t)
		require.NoError(t, os.WriteFile(filepath.Join(imagesDir, "broken.jpg"), []byte("nope"), 0644))

		result, err := svc.ExtractAll(ctx)

		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, 1, result.TotalImages)
		assert.Empty(t, result.Processed)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "broken.jpg", result.Errors[0].Filename)
	})

	t.Run("ignores non-image files", func(t *testing.T) {
		svc, _, imagesDir := setupCatalog(t)
		require.NoError(t, os.WriteFile(filepath.Join(imagesDir, "notes.txt"), []byte("hi"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(imagesDir, ".DS_Store"), []byte{0}, 0644))

		result, err := svc.ExtractAll(ctx)

		require.NoError(t, err)
		assert.Zero(t, result.TotalImages)
	})
}

func TestMergeExtracted(t *testing.T) {
	now := models.Now()

	base := func() models.Photo {
		return models.Photo{
			ID:                 "img_1",
			Filename:           "a.jpg",
			Tags:               []string{"sunset"},
			People:             []string{"Alice"},
			Width:              100,
			Height:             50,
			Location:           models.Location{Title: "Bondi Beach"},
			DateTaken:          "2020-01-01T00:00:00.000Z",
			DateTakenPrecision: models.PrecisionDay,
		}
	}

	t.Run("replaces dimensions only when extracted", func(t *testing.T) {
		existing := base()
		mergeExtracted(&existing, models.Photo{Width: 4000, Height: 3000}, now)
		assert.Equal(t, 4000, existing.Width)
		assert.Equal(t, 3000, existing.Height)

		existing = base()
		mergeExtracted(&existing, models.Photo{}, now)
		assert.Equal(t, 100, existing.Width)
		assert.Equal(t, 50, existing.Height)
	})

	t.Run("replaces date and precision together", func(t *testing.T) {
		existing := base()
		mergeExtracted(&existing, models.Photo{
			DateTaken:          "2023-05-05T08:00:00.000Z",
			DateTakenPrecision: models.PrecisionExact,
		}, now)

		assert.Equal(t, "2023-05-05T08:00:00.000Z", existing.DateTaken)
		assert.Equal(t, models.PrecisionExact, existing.DateTakenPrecision)
	})

	t.Run("keeps the manual date when extraction found none", func(t *testing.T) {
		existing := base()
		mergeExtracted(&existing, models.Photo{}, now)

		assert.Equal(t, "2020-01-01T00:00:00.000Z", existing.DateTaken)
		assert.Equal(t, models.PrecisionDay, existing.DateTakenPrecision)
	})

	t.Run("keeps a curated location", func(t *testing.T) {
		lat, lng := 1.0, 2.0
		existing := base()
		mergeExtracted(&existing, models.Photo{
			Location: models.Location{Title: "1.000000, 2.000000", Latitude: &lat, Longitude: &lng},
		}, now)

		assert.Equal(t, "Bondi Beach", existing.Location.Title)
	})

	t.Run("replaces an unknown location with a GPS fix", func(t *testing.T) {
		lat, lng := 1.0, 2.0
		existing := base()
		existing.Location = models.Location{Title: models.UnknownLocationTitle}
		mergeExtracted(&existing, models.Photo{
			Location: models.Location{Title: "1.000000, 2.000000", Latitude: &lat, Longitude: &lng},
		}, now)

		assert.Equal(t, "1.000000, 2.000000", existing.Location.Title)
	})

	t.Run("strips auto tags but never adds", func(t *testing.T) {
		existing := base()
		existing.Tags = []string{"Software: Photoshop", "Canon EOS", "holiday"}
		mergeExtracted(&existing, models.Photo{Tags: []string{}}, now)

		assert.Equal(t, []string{"holiday"}, existing.Tags)
	})

	t.Run("never touches people", func(t *testing.T) {
		existing := base()
		mergeExtracted(&existing, models.Photo{People: []string{"Stranger"}}, now)

		assert.Equal(t, []string{"Alice"}, existing.People)
	})

	t.Run("always replaces metadata", func(t *testing.T) {
		existing := base()
		existing.Metadata = &models.Metadata{EXIF: map[string]string{"old": "1"}}
		fresh := &models.Metadata{EXIF: map[string]string{"new": "2"}}
		mergeExtracted(&existing, models.Photo{Metadata: fresh}, now)

		assert.Equal(t, fresh, existing.Metadata)
	})
}
