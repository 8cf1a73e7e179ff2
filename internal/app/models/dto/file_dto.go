package dto

import (
	"time"

	"github.com/yigit/eventhub/internal/app/models"
)

// FileResponse represents the response for a file
type FileResponse struct {
	ID         int64     `json:"id" example:"123"`
	FileName   string    `json:"fileName" example:"logo.png"`
	URL        string    `json:"url" example:"http://localhost:8080/uploads/public/company_logo/7b0c.png"`
	FileSize   int64     `json:"fileSize" example:"1048576"`
	MimeType   string    `json:"mimeType" example:"image/png"`
	Kind       string    `json:"kind" example:"COMPANY_LOGO"`
	Visibility string    `json:"visibility" example:"PUBLIC"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewFileResponse maps a file model and its resolved URL
func NewFileResponse(file *models.File, url string) FileResponse {
	return FileResponse{
		ID:         file.ID,
		FileName:   file.FileName,
		URL:        url,
		FileSize:   file.FileSize,
		MimeType:   file.MimeType,
		Kind:       file.Kind,
		Visibility: string(file.Visibility),
		CreatedAt:  file.CreatedAt,
	}
}
