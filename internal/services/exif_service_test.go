package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photoarc/server/internal/models"
)

func TestEXIFService_Extract(t *testing.T) {
	svc := NewEXIFService()

	t.Run("falls back for a file without EXIF", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "plain.jpg")
		require.NoError(t, os.WriteFile(path, []byte("definitely not a jpeg"), 0644))

		photo := svc.Extract(path, "plain.jpg")

		assert.Equal(t, "plain.jpg", photo.Filename)
		assert.Zero(t, photo.Width)
		assert.Zero(t, photo.Height)
		assert.Equal(t, models.PrecisionUnknown, photo.DateTakenPrecision)
		assert.NotEmpty(t, photo.DateTaken)
		assert.Equal(t, models.UnknownLocationTitle, photo.Location.Title)

		require.NotNil(t, photo.Metadata)
		require.NotNil(t, photo.Metadata.Processing)
		assert.Equal(t, "fallback", photo.Metadata.Processing.Source)
		assert.NotEmpty(t, photo.Metadata.Processing.ExtractedAt)
	})

	t.Run("falls back for a missing file", func(t *testing.T) {
		photo := svc.Extract(filepath.Join(t.TempDir(), "ghost.jpg"), "ghost.jpg")

		assert.Equal(t, "ghost.jpg", photo.Filename)
		assert.Equal(t, "fallback", photo.Metadata.Processing.Source)
	})

	t.Run("records file facts even without EXIF", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "plain.jpg")
		content := []byte("twelve bytes")
		require.NoError(t, os.WriteFile(path, content, 0644))

		photo := svc.Extract(path, "plain.jpg")

		require.NotNil(t, photo.Metadata.File)
		assert.Equal(t, int64(len(content)), photo.Metadata.File.Size)
		assert.Equal(t, "JPG", photo.Metadata.File.Format)
		assert.Equal(t, "image/jpeg", photo.Metadata.File.MimeType)
		assert.NotEmpty(t, photo.Metadata.File.Modified)
	})

	t.Run("starts with empty tags and people", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "plain.jpg")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

		photo := svc.Extract(path, "plain.jpg")

		assert.NotNil(t, photo.Tags)
		assert.Empty(t, photo.Tags)
		assert.NotNil(t, photo.People)
		assert.Empty(t, photo.People)
	})
}

func TestEXIFService_ExtractStrict(t *testing.T) {
	svc := NewEXIFService()

	t.Run("surfaces the open error", func(t *testing.T) {
		_, err := svc.ExtractStrict(filepath.Join(t.TempDir(), "ghost.jpg"), "ghost.jpg")
		assert.Error(t, err)
	})

	t.Run("surfaces the decode error but still returns a usable record", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "plain.jpg")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

		photo, err := svc.ExtractStrict(path, "plain.jpg")

		assert.Error(t, err)
		assert.Equal(t, "plain.jpg", photo.Filename)
		assert.Equal(t, "exif", photo.Metadata.Processing.Source)
	})
}

func TestGPSTitle(t *testing.T) {
	t.Run("formats coordinates to six decimals", func(t *testing.T) {
		assert.Equal(t, "-33.865143, 151.209900", GPSTitle(-33.865143, 151.2099))
	})

	t.Run("handles the origin", func(t *testing.T) {
		assert.Equal(t, "0.000000, 0.000000", GPSTitle(0, 0))
	})
}
