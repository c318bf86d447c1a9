package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Get when no object exists at the given path.
var ErrNotFound = errors.New("object not found")

// Storage stores listing photos and their thumbnails under relative paths.
type Storage interface {
	Save(ctx context.Context, path string, content io.Reader) error
	// Get returns ErrNotFound (wrapped) when the object is missing.
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	// Delete is a no-op for missing objects.
	Delete(ctx context.Context, path string) error
}
