package models

// ArchiveError is a typed domain error with a stable message.
type ArchiveError struct {
	Message string
}

func (e ArchiveError) Error() string {
	return e.Message
}

var (
	ErrPhotoNotFound    = ArchiveError{"photo not found"}
	ErrDuplicateID      = ArchiveError{"photo id already exists"}
	ErrMissingID        = ArchiveError{"photo id is required"}
	ErrMissingFilename  = ArchiveError{"filename is required"}
	ErrEmptySearchQuery = ArchiveError{"search query cannot be empty"}
	ErrImageNotFound    = ArchiveError{"image file not found"}
)
