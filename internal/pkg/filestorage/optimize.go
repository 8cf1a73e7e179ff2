package filestorage

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/yigit/eventhub/internal/pkg/apperrors"
	_ "golang.org/x/image/webp"
)

const (
	jpegQuality = 85
	maxPixels   = 50_000_000
)

// Optimize fits an image into the profile bounds. Images that already fit and
// non-image kinds are returned unchanged. PNG stays PNG, everything else is re-encoded as JPEG.
func Optimize(p Profile, data []byte, mime string) ([]byte, string, error) {
	if !p.IsImage() {
		return data, mime, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", apperrors.NewValidationError("image could not be decoded")
	}
	if cfg.Width*cfg.Height > maxPixels {
		return nil, "", apperrors.NewCustomError(apperrors.ErrPayloadTooLarge, "image dimensions are too large")
	}
	if cfg.Width <= p.MaxWidth && cfg.Height <= p.MaxHeight {
		return data, mime, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", apperrors.NewValidationError("image could not be decoded")
	}
	resized := imaging.Fit(img, p.MaxWidth, p.MaxHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if mime == MimePNG {
		if err := imaging.Encode(&buf, resized, imaging.PNG); err != nil {
			return nil, "", fmt.Errorf("failed to encode png: %w", err)
		}
		return buf.Bytes(), MimePNG, nil
	}

	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, "", fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), MimeJPEG, nil
}
