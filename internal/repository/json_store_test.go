package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photoarc/server/internal/models"
)

func setupTestStore(t *testing.T) *JSONPhotoStore {
	t.Helper()
	store, err := NewJSONPhotoStore(filepath.Join(t.TempDir(), "photos.json"))
	require.NoError(t, err)
	return store
}

func testPhoto(id, filename string) models.Photo {
	return models.Photo{
		ID:                 id,
		Filename:           filename,
		Tags:               []string{},
		People:             []string{},
		Location:           models.Location{Title: models.UnknownLocationTitle},
		DateTaken:          "2023-06-15T12:00:00.000Z",
		DateTakenPrecision: models.PrecisionExact,
		DateAdded:          "2023-06-15T12:00:00.000Z",
		DateModified:       "2023-06-15T12:00:00.000Z",
	}
}

func TestJSONPhotoStore_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("returns empty collection when no file exists", func(t *testing.T) {
		store := setupTestStore(t)

		photos := store.Load(ctx)
		assert.NotNil(t, photos)
		assert.Empty(t, photos)
	})

	t.Run("returns empty collection for malformed JSON", func(t *testing.T) {
		store := setupTestStore(t)
		require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0644))

		photos := store.Load(ctx)
		assert.Empty(t, photos)
	})

	t.Run("returns empty collection for a null document", func(t *testing.T) {
		store := setupTestStore(t)
		require.NoError(t, os.WriteFile(store.Path(), []byte("null"), 0644))

		photos := store.Load(ctx)
		assert.NotNil(t, photos)
		assert.Empty(t, photos)
	})
}

func TestJSONPhotoStore_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("round-trips the collection preserving order", func(t *testing.T) {
		store := setupTestStore(t)

		photos := []models.Photo{
			testPhoto("img_1", "a.jpg"),
			testPhoto("img_2", "b.jpg"),
			testPhoto("img_3", "c.jpg"),
		}
		require.NoError(t, store.Save(ctx, photos))

		loaded := store.Load(ctx)
		require.Len(t, loaded, 3)
		assert.Equal(t, photos, loaded)
	})

	t.Run("persists nil as an empty array", func(t *testing.T) {
		store := setupTestStore(t)

		require.NoError(t, store.Save(ctx, nil))

		data, err := os.ReadFile(store.Path())
		require.NoError(t, err)
		assert.JSONEq(t, "[]", string(data))
	})

	t.Run("leaves no temp file behind", func(t *testing.T) {
		store := setupTestStore(t)

		require.NoError(t, store.Save(ctx, []models.Photo{testPhoto("img_1", "a.jpg")}))

		_, err := os.Stat(store.Path() + ".tmp")
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("overwrites the previous collection wholesale", func(t *testing.T) {
		store := setupTestStore(t)

		require.NoError(t, store.Save(ctx, []models.Photo{
			testPhoto("img_1", "a.jpg"),
			testPhoto("img_2", "b.jpg"),
		}))
		require.NoError(t, store.Save(ctx, []models.Photo{
			testPhoto("img_3", "c.jpg"),
		}))

		loaded := store.Load(ctx)
		require.Len(t, loaded, 1)
		assert.Equal(t, "img_3", loaded[0].ID)
	})
}

func TestNewJSONPhotoStore(t *testing.T) {
	t.Run("creates the parent directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "deeper", "photos.json")

		store, err := NewJSONPhotoStore(path)
		require.NoError(t, err)

		_, err = os.Stat(filepath.Dir(store.Path()))
		assert.NoError(t, err)
	})
}
