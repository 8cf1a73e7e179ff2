package filestorage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/eventhub/internal/app/models"
	"github.com/yigit/eventhub/internal/pkg/apperrors"
)

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(w, h)))
	return buf.Bytes()
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(w, h), nil))
	return buf.Bytes()
}

func mustProfile(t *testing.T, kind UploadKind) Profile {
	t.Helper()
	p, err := ProfileFor(kind)
	require.NoError(t, err)
	return p
}

func TestProfileFor(t *testing.T) {
	p := mustProfile(t, KindCompanyDocument)
	assert.Equal(t, models.VisibilityPrivate, p.Visibility)
	assert.False(t, p.IsImage())
	assert.Equal(t, "company-document", p.Dir())

	_, err := ProfileFor("RESUME")
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	assert.Equal(t, int64(10<<20), MaxUploadSize())
}

func TestValidate(t *testing.T) {
	avatar := mustProfile(t, KindAvatar)
	doc := mustProfile(t, KindCompanyDocument)
	pngData := pngBytes(t, 10, 10)
	pdfData := []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n")

	tests := []struct {
		name     string
		profile  Profile
		filename string
		size     int64
		header   []byte
		wantMime string
		wantErr  error
	}{
		{"valid png", avatar, "me.PNG", int64(len(pngData)), pngData, MimePNG, nil},
		{"valid pdf", doc, "license.pdf", int64(len(pdfData)), pdfData, MimePDF, nil},
		{"empty", avatar, "me.png", 0, nil, "", apperrors.ErrValidationFailed},
		{"too large", avatar, "me.png", 3 << 20, pngData, "", apperrors.ErrPayloadTooLarge},
		{"bad extension", avatar, "me.gif", int64(len(pngData)), pngData, "", apperrors.ErrUnsupportedMediaType},
		{"pdf not allowed for avatar", avatar, "me.pdf", int64(len(pdfData)), pdfData, "", apperrors.ErrUnsupportedMediaType},
		{"content mismatch", avatar, "me.jpg", int64(len(pngData)), pngData, "", apperrors.ErrUnsupportedMediaType},
		{"script renamed", doc, "evil.pdf", 20, []byte("#!/bin/sh\nrm -rf /\n"), "", apperrors.ErrUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mime, err := Validate(tt.profile, tt.filename, tt.size, tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMime, mime)
		})
	}
}

func TestValidate_MismatchMessage(t *testing.T) {
	data := pngBytes(t, 4, 4)
	_, err := Validate(mustProfile(t, KindEventBanner), "banner.jpeg", int64(len(data)), data)
	msg, ok := apperrors.UserMessage(err)
	require.True(t, ok)
	assert.Equal(t, "file content does not match its extension", msg)
}

func TestOptimize(t *testing.T) {
	avatar := mustProfile(t, KindAvatar)

	t.Run("within bounds keeps original bytes", func(t *testing.T) {
		data := pngBytes(t, 100, 50)
		out, mime, err := Optimize(avatar, data, MimePNG)
		require.NoError(t, err)
		assert.Equal(t, data, out)
		assert.Equal(t, MimePNG, mime)
	})

	t.Run("png is resized and stays png", func(t *testing.T) {
		out, mime, err := Optimize(avatar, pngBytes(t, 1024, 512), MimePNG)
		require.NoError(t, err)
		assert.Equal(t, MimePNG, mime)

		cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
		require.NoError(t, err)
		assert.Equal(t, "png", format)
		assert.Equal(t, 256, cfg.Width)
		assert.Equal(t, 128, cfg.Height)
	})

	t.Run("jpeg is resized to fit banner bounds", func(t *testing.T) {
		out, mime, err := Optimize(mustProfile(t, KindEventBanner), jpegBytes(t, 3200, 800), MimeJPEG)
		require.NoError(t, err)
		assert.Equal(t, MimeJPEG, mime)

		cfg, _, err := image.DecodeConfig(bytes.NewReader(out))
		require.NoError(t, err)
		assert.Equal(t, 1600, cfg.Width)
		assert.Equal(t, 400, cfg.Height)
	})

	t.Run("documents pass through", func(t *testing.T) {
		data := []byte("%PDF-1.4")
		out, mime, err := Optimize(mustProfile(t, KindCompanyDocument), data, MimePDF)
		require.NoError(t, err)
		assert.Equal(t, data, out)
		assert.Equal(t, MimePDF, mime)
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, _, err := Optimize(avatar, []byte("not an image"), MimePNG)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}

func TestNewKey(t *testing.T) {
	key := NewKey(mustProfile(t, KindCompanyLogo), ".png")
	assert.True(t, strings.HasPrefix(key, "public/company-logo/"), key)
	assert.True(t, strings.HasSuffix(key, ".png"), key)

	key = NewKey(mustProfile(t, KindCompanyDocument), ".pdf")
	assert.True(t, strings.HasPrefix(key, "private/company-document/"), key)
}

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/")
	require.NoError(t, err)

	key := "public/avatar/abc.png"
	require.NoError(t, store.Put(ctx, key, strings.NewReader("content")))

	rc, err := store.Open(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))

	assert.Equal(t, "http://localhost:8080/uploads/avatar/abc.png", store.PublicURL(key))

	require.NoError(t, store.Delete(ctx, key))
	require.NoError(t, store.Delete(ctx, key))

	_, err = store.Open(ctx, key)
	assert.ErrorIs(t, err, apperrors.ErrFileNotFound)

	assert.Error(t, store.Put(ctx, "../escape.txt", strings.NewReader("x")))
	assert.Error(t, store.Put(ctx, "", strings.NewReader("x")))
}
