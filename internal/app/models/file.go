package models

import "time"

// FileResourceType names the record a file belongs to
type FileResourceType string

const (
	FileResourceUser    FileResourceType = "USER"
	FileResourceCompany FileResourceType = "COMPANY"
	FileResourceEvent   FileResourceType = "EVENT"
)

// FileVisibility controls whether a file is served statically or only through signed URLs
type FileVisibility string

const (
	VisibilityPublic  FileVisibility = "PUBLIC"
	VisibilityPrivate FileVisibility = "PRIVATE"
)

// File represents an uploaded object and its metadata
type File struct {
	ID           int64            `json:"id" db:"id"`
	FileName     string           `json:"fileName" db:"file_name"`
	StorageKey   string           `json:"-" db:"storage_key"`
	PublicURL    *string          `json:"publicUrl,omitempty" db:"public_url"`
	FileSize     int64            `json:"fileSize" db:"file_size"`
	MimeType     string           `json:"mimeType" db:"mime_type"`
	Kind         string           `json:"kind" db:"kind"`
	ResourceType FileResourceType `json:"resourceType" db:"resource_type"`
	ResourceID   int64            `json:"resourceId" db:"resource_id"`
	UploadedBy   int64            `json:"uploadedBy" db:"uploaded_by"`
	Visibility   FileVisibility   `json:"visibility" db:"visibility"`
	CreatedAt    time.Time        `json:"createdAt" db:"created_at"`
}

// IsPrivate reports whether the file requires a signed URL
func (f *File) IsPrivate() bool {
	return f.Visibility == VisibilityPrivate
}
