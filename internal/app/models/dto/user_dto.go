package dto

import (
	"time"

	"github.com/yigit/eventhub/internal/app/models"
)

// UserResponse represents user information returned by the API
type UserResponse struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	Role         string     `json:"role"`
	IsActive     bool       `json:"isActive"`
	AvatarFileID *int64     `json:"avatarFileId,omitempty"`
	AvatarURL    string     `json:"avatarUrl,omitempty"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// NewUserResponse maps a user model to its response shape
func NewUserResponse(user *models.User, avatarURL string) UserResponse {
	return UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Role:         string(user.RoleType),
		IsActive:     user.IsActive,
		AvatarFileID: user.AvatarFileID,
		AvatarURL:    avatarURL,
		LastLoginAt:  user.LastLoginAt,
		CreatedAt:    user.CreatedAt,
	}
}

// UpdateProfileRequest represents profile update data
type UpdateProfileRequest struct {
	FirstName string `json:"firstName" binding:"required,max=100"`
	LastName  string `json:"lastName" binding:"required,max=100"`
}

// UpdateUserStatusRequest activates or deactivates an account
type UpdateUserStatusRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// UserFilterRequest represents user filtering parameters
type UserFilterRequest struct {
	Role     string `form:"role" binding:"omitempty,oneof=USER COMPANY ADMIN"`
	IsActive *bool  `form:"isActive"`
	Search   string `form:"search" binding:"max=100"`
}

// ToFilter converts query parameters into a repository filter
func (r UserFilterRequest) ToFilter(page, size int) models.UserFilter {
	filter := models.UserFilter{IsActive: r.IsActive, Search: r.Search, Page: page, Size: size}
	if r.Role != "" {
		role := models.RoleType(r.Role)
		filter.Role = &role
	}
	return filter
}
