package dto

import "github.com/yigit/eventhub/internal/app/models"

// ResumeRequest is the body of resume create and update calls
type ResumeRequest struct {
	Title    string            `json:"title" binding:"required,max=120"`
	Template string            `json:"template" binding:"omitempty,oneof=classic modern"`
	Data     models.ResumeData `json:"data"`
}
