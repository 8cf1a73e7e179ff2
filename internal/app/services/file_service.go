package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/yigit/eventhub/internal/app/models"
	"github.com/yigit/eventhub/internal/app/models/dto"
	"github.com/yigit/eventhub/internal/pkg/apperrors"
	"github.com/yigit/eventhub/internal/pkg/auth"
	"github.com/yigit/eventhub/internal/pkg/filestorage"
	"github.com/yigit/eventhub/internal/pkg/metrics"
)

// Upload outcomes reported to metrics
const (
	uploadStored   = "stored"
	uploadRejected = "rejected"
	uploadFailed   = "error"
)

// Upload is a file received from a client and the record it belongs to
type Upload struct {
	Kind         filestorage.UploadKind
	FileName     string
	Content      io.Reader
	ResourceType models.FileResourceType
	ResourceID   int64
	UploadedBy   int64
}

// FileService validates, stores and serves uploaded files
type FileService interface {
	Upload(ctx context.Context, upload Upload) (*models.File, error)
	Get(ctx context.Context, id int64) (*models.File, error)
	URL(file *models.File) (string, error)
	Response(file *models.File) (dto.FileResponse, error)
	Open(ctx context.Context, id int64, token string) (*models.File, io.ReadCloser, error)
	Delete(ctx context.Context, file *models.File) error
	DeleteQuietly(ctx context.Context, fileID *int64)
}

type fileServiceImpl struct {
	files         FileStore
	objects       filestorage.ObjectStore
	signer        *auth.URLSigner
	metrics       *metrics.Metrics
	publicBaseURL string
	logger        zerolog.Logger
}

// NewFileService creates a new FileService. m may be nil.
func NewFileService(
	files FileStore,
	objects filestorage.ObjectStore,
	signer *auth.URLSigner,
	m *metrics.Metrics,
	publicBaseURL string,
	logger zerolog.Logger,
) FileService {
	return &fileServiceImpl{
		files:         files,
		objects:       objects,
		signer:        signer,
		metrics:       m,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger,
	}
}

// Upload runs validation and optimization, writes the object and records its metadata
func (s *fileServiceImpl) Upload(ctx context.Context, upload Upload) (*models.File, error) {
	file, err := s.upload(ctx, upload)
	switch {
	case err == nil:
		s.metrics.ObserveUpload(string(upload.Kind), uploadStored)
	case isClientError(err):
		s.metrics.ObserveUpload(string(upload.Kind), uploadRejected)
	default:
		s.metrics.ObserveUpload(string(upload.Kind), uploadFailed)
	}
	return file, err
}

func (s *fileServiceImpl) upload(ctx context.Context, upload Upload) (*models.File, error) {
	profile, err := filestorage.ProfileFor(upload.Kind)
	if err != nil {
		return nil, err
	}
	if upload.Content == nil {
		return nil, apperrors.NewValidationError("file is required")
	}

	// One byte past the limit is enough to report the file as too large
	data, err := io.ReadAll(io.LimitReader(upload.Content, profile.MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	header := data
	if len(header) > filestorage.SniffLen {
		header = header[:filestorage.SniffLen]
	}
	mime, err := filestorage.Validate(profile, upload.FileName, int64(len(data)), header)
	if err != nil {
		return nil, err
	}

	data, mime, err = filestorage.Optimize(profile, data, mime)
	if err != nil {
		return nil, err
	}

	key := filestorage.NewKey(profile, filestorage.ExtensionFor(mime))
	if err := s.objects.Put(ctx, key, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	file := &models.File{
		FileName:     cleanFileName(upload.FileName),
		StorageKey:   key,
		FileSize:     int64(len(data)),
		MimeType:     mime,
		Kind:         string(profile.Kind),
		ResourceType: upload.ResourceType,
		ResourceID:   upload.ResourceID,
		UploadedBy:   upload.UploadedBy,
		Visibility:   profile.Visibility,
	}
	if profile.Visibility == models.VisibilityPublic {
		publicURL := s.objects.PublicURL(key)
		file.PublicURL = &publicURL
	}

	if err := s.files.Create(ctx, file); err != nil {
		if delErr := s.objects.Delete(ctx, key); delErr != nil {
			s.logger.Error().Err(delErr).Str("key", key).Msg("Failed to remove object after metadata error")
		}
		return nil, err
	}

	s.logger.Info().
		Int64("fileID", file.ID).
		Str("kind", file.Kind).
		Int64("size", file.FileSize).
		Msg("File uploaded")
	return file, nil
}

const maxFileNameBytes = 255

func cleanFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "file"
	}
	name = strings.ToValidUTF8(name, "")
	if len(name) > maxFileNameBytes {
		// keep the tail so the extension survives, starting on a rune boundary
		start := len(name) - maxFileNameBytes
		for start < len(name) && !utf8.RuneStart(name[start]) {
			start++
		}
		name = name[start:]
	}
	return name
}

func isClientError(err error) bool {
	return apperrors.Is(err, apperrors.ErrValidationFailed,
		apperrors.ErrBadRequest, apperrors.ErrPayloadTooLarge, apperrors.ErrUnsupportedMediaType)
}

func (s *fileServiceImpl) Get(ctx context.Context, id int64) (*models.File, error) {
	return s.files.GetByID(ctx, id)
}

// URL returns the public URL of a public file or a fresh signed download URL for a private one
func (s *fileServiceImpl) URL(file *models.File) (string, error) {
	if !file.IsPrivate() && file.PublicURL != nil {
		return *file.PublicURL, nil
	}

	token, _, err := s.signer.Sign(file.ID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/api/v1/files/%d/download?token=%s", s.publicBaseURL, file.ID, url.QueryEscape(token)), nil
}

func (s *fileServiceImpl) Response(file *models.File) (dto.FileResponse, error) {
	u, err := s.URL(file)
	if err != nil {
		return dto.FileResponse{}, err
	}
	return dto.NewFileResponse(file, u), nil
}

// Open returns a file's content. Private files require a valid signed token.
func (s *fileServiceImpl) Open(ctx context.Context, id int64, token string) (*models.File, io.ReadCloser, error) {
	file, err := s.files.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if file.IsPrivate() {
		if token == "" {
			return nil, nil, apperrors.NewCustomError(apperrors.ErrTokenInvalid, "download token is required")
		}
		if err := s.signer.Verify(token, file.ID); err != nil {
			return nil, nil, err
		}
	}

	rc, err := s.objects.Open(ctx, file.StorageKey)
	if err != nil {
		return nil, nil, err
	}
	return file, rc, nil
}

// Delete removes the object and its metadata row
func (s *fileServiceImpl) Delete(ctx context.Context, file *models.File) error {
	if err := s.objects.Delete(ctx, file.StorageKey); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	if err := s.files.Delete(ctx, file.ID); err != nil && !errors.Is(err, apperrors.ErrFileNotFound) {
		return err
	}
	return nil
}

// DeleteQuietly deletes a replaced file, logging instead of failing
func (s *fileServiceImpl) DeleteQuietly(ctx context.Context, fileID *int64) {
	if fileID == nil {
		return
	}
	file, err := s.files.GetByID(ctx, *fileID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrFileNotFound) {
			s.logger.Warn().Err(err).Int64("fileID", *fileID).Msg("Could not load replaced file")
		}
		return
	}
	if err := s.Delete(ctx, file); err != nil {
		s.logger.Warn().Err(err).Int64("fileID", *fileID).Msg("Could not delete replaced file")
	}
}
