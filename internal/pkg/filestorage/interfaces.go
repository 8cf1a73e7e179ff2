package filestorage

import (
	"context"
	"io"
	"path"

	"github.com/google/uuid"
	"github.com/yigit/eventhub/internal/app/models"
)

// ObjectStore persists file contents under opaque keys
type ObjectStore interface {
	// Put writes the object, replacing any existing one with the same key
	Put(ctx context.Context, key string, r io.Reader) error

	// Open returns a reader for the object or apperrors.ErrFileNotFound
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object. Missing objects are not an error.
	Delete(ctx context.Context, key string) error

	// PublicURL returns the URL under which a public object is served
	PublicURL(key string) string
}

// NewKey builds a unique key of the form <visibility>/<kind>/<uuid><ext>
func NewKey(p Profile, ext string) string {
	visibility := "public"
	if p.Visibility == models.VisibilityPrivate {
		visibility = "private"
	}
	return path.Join(visibility, p.Dir(), uuid.New().String()+ext)
}
