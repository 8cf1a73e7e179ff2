package filestorage

import (
	"fmt"
	"strings"

	"github.com/yigit/eventhub/internal/app/models"
	"github.com/yigit/eventhub/internal/pkg/apperrors"
)

// UploadKind names a validation profile applied to an upload
type UploadKind string

const (
	KindAvatar          UploadKind = "AVATAR"
	KindCompanyLogo     UploadKind = "COMPANY_LOGO"
	KindCompanyBanner   UploadKind = "COMPANY_BANNER"
	KindEventBanner     UploadKind = "EVENT_BANNER"
	KindCompanyDocument UploadKind = "COMPANY_DOCUMENT"
)

const (
	MimeJPEG = "image/jpeg"
	MimePNG  = "image/png"
	MimeWebP = "image/webp"
	MimePDF  = "application/pdf"

	mib = 1 << 20
)

var imageExtensions = map[string]string{
	".jpg":  MimeJPEG,
	".jpeg": MimeJPEG,
	".png":  MimePNG,
	".webp": MimeWebP,
}

var documentExtensions = map[string]string{
	".pdf":  MimePDF,
	".jpg":  MimeJPEG,
	".jpeg": MimeJPEG,
	".png":  MimePNG,
}

// Profile describes what an upload kind accepts and how it is stored
type Profile struct {
	Kind       UploadKind
	Extensions map[string]string
	MaxSize    int64
	// MaxWidth and MaxHeight are zero for kinds that are not resized
	MaxWidth   int
	MaxHeight  int
	Visibility models.FileVisibility
}

// IsImage reports whether uploads of this kind are resized images
func (p Profile) IsImage() bool {
	return p.MaxWidth > 0 && p.MaxHeight > 0
}

// Dir is the directory segment used in storage keys
func (p Profile) Dir() string {
	return strings.ToLower(strings.ReplaceAll(string(p.Kind), "_", "-"))
}

var profiles = map[UploadKind]Profile{
	KindAvatar: {
		Kind: KindAvatar, Extensions: imageExtensions, MaxSize: 2 * mib,
		MaxWidth: 256, MaxHeight: 256, Visibility: models.VisibilityPublic,
	},
	KindCompanyLogo: {
		Kind: KindCompanyLogo, Extensions: imageExtensions, MaxSize: 2 * mib,
		MaxWidth: 512, MaxHeight: 512, Visibility: models.VisibilityPublic,
	},
	KindCompanyBanner: {
		Kind: KindCompanyBanner, Extensions: imageExtensions, MaxSize: 5 * mib,
		MaxWidth: 1600, MaxHeight: 600, Visibility: models.VisibilityPublic,
	},
	KindEventBanner: {
		Kind: KindEventBanner, Extensions: imageExtensions, MaxSize: 5 * mib,
		MaxWidth: 1600, MaxHeight: 600, Visibility: models.VisibilityPublic,
	},
	KindCompanyDocument: {
		Kind: KindCompanyDocument, Extensions: documentExtensions, MaxSize: 10 * mib,
		Visibility: models.VisibilityPrivate,
	},
}

// ProfileFor returns the profile of kind
func ProfileFor(kind UploadKind) (Profile, error) {
	p, ok := profiles[kind]
	if !ok {
		return Profile{}, apperrors.NewBadRequestError(fmt.Sprintf("unknown upload kind %q", kind))
	}
	return p, nil
}

// MaxUploadSize is the largest size accepted by any kind
func MaxUploadSize() int64 {
	var max int64
	for _, p := range profiles {
		if p.MaxSize > max {
			max = p.MaxSize
		}
	}
	return max
}
