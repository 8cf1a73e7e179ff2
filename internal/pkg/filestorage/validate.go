package filestorage

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/yigit/eventhub/internal/pkg/apperrors"
)

// SniffLen is how many leading bytes Validate needs to detect the content type
const SniffLen = 3072

// Validate checks an upload against the kind's profile and returns the detected MIME type.
// header holds the first bytes of the file, at least SniffLen when the file is that long.
func Validate(p Profile, filename string, size int64, header []byte) (string, error) {
	if size <= 0 || len(header) == 0 {
		return "", apperrors.NewValidationError("file is empty")
	}
	if size > p.MaxSize {
		return "", apperrors.NewCustomError(apperrors.ErrPayloadTooLarge,
			fmt.Sprintf("file exceeds the %d MB limit", p.MaxSize/mib))
	}

	ext := strings.ToLower(filepath.Ext(filename))
	expected, ok := p.Extensions[ext]
	if !ok {
		return "", apperrors.NewCustomError(apperrors.ErrUnsupportedMediaType,
			fmt.Sprintf("file type %q is not allowed, expected one of %s", ext, strings.Join(allowedExtensions(p), ", ")))
	}

	detected := mimetype.Detect(header)
	if !detected.Is(expected) {
		return "", apperrors.NewCustomError(apperrors.ErrUnsupportedMediaType, "file content does not match its extension")
	}

	return expected, nil
}

func allowedExtensions(p Profile) []string {
	exts := make([]string, 0, len(p.Extensions))
	for ext := range p.Extensions {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// ExtensionFor returns the canonical file extension for a stored MIME type
func ExtensionFor(mime string) string {
	switch mime {
	case MimeJPEG:
		return ".jpg"
	case MimePNG:
		return ".png"
	case MimeWebP:
		return ".webp"
	case MimePDF:
		return ".pdf"
	default:
		return ""
	}
}
