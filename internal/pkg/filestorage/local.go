package filestorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yigit/eventhub/internal/pkg/apperrors"
	"github.com/yigit/eventhub/internal/pkg/logger"
)

// PublicMount is the URL prefix public objects are served under
const PublicMount = "/uploads"

// LocalStorage stores objects on the local filesystem.
// Keys under public/ are served statically from PublicMount.
type LocalStorage struct {
	basePath string
	baseURL  string
}

// NewLocalStorage creates the storage root if needed.
// baseURL is prepended to public URLs; it may be empty for relative URLs.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	for _, dir := range []string{"public", "private"} {
		if err := os.MkdirAll(filepath.Join(basePath, dir), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
		}
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// PublicDir is the directory served at PublicMount
func (ls *LocalStorage) PublicDir() string {
	return filepath.Join(ls.basePath, "public")
}

func (ls *LocalStorage) resolve(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if key == "" || filepath.IsAbs(clean) || clean == "." || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(ls.basePath, clean), nil
}

// Put writes the object through a temporary file so readers never see partial content
func (ls *LocalStorage) Put(ctx context.Context, key string, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dst, err := ls.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write file content: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("failed to move file into place: %w", err)
	}

	logger.Debug().Str("key", key).Msg("Object stored")
	return nil
}

// Open opens the object for reading
func (ls *LocalStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	p, err := ls.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

// Delete removes the object. Deleting a missing object succeeds.
func (ls *LocalStorage) Delete(_ context.Context, key string) error {
	p, err := ls.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn().Str("key", key).Msg("File to delete does not exist")
			return nil
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// PublicURL maps public/<rest> to <baseURL>/uploads/<rest>
func (ls *LocalStorage) PublicURL(key string) string {
	return ls.baseURL + PublicMount + "/" + strings.TrimPrefix(key, "public/")
}
