package file

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/rental-marketplace-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "file not found")
	ErrThumbnailMissing   = apperror.New(http.StatusNotFound, "thumbnail not available for this file")
	ErrFileTooLarge       = apperror.New(http.StatusBadRequest, "file is too large")
	ErrFileTypeNotAllowed = apperror.New(http.StatusBadRequest, "file type is not allowed")
	ErrInvalidImage       = apperror.New(http.StatusBadRequest, "file is not a valid image")
)

// File is an uploaded object tracked in the database.
type File struct {
	ID            string
	UserID        string
	Filename      string
	StoragePath   string  // relative to the storage root
	ThumbnailPath *string // nil for non-images
	ContentType   string
	Size          int64
	CreatedAt     time.Time
}

// FileURL returns the public URL for accessing a file by its ID.
func FileURL(id string) string {
	return "/v1/files/" + id
}

// ThumbnailURL returns the public URL for accessing a file's thumbnail by its ID.
func ThumbnailURL(id string) string {
	return "/v1/files/" + id + "/thumbnail"
}
