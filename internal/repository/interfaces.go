package repository

import (
	"context"

	"github.com/photoarc/server/internal/models"
)

// PhotoStore owns the canonical photo collection. Load never fails the
// caller: unreadable or unparsable state degrades to an empty collection.
type PhotoStore interface {
	Load(ctx context.Context) []models.Photo
	Save(ctx context.Context, photos []models.Photo) error
}
