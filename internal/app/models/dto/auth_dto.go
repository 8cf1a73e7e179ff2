package dto

import "github.com/yigit/eventhub/internal/app/models"

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest represents a self-service registration
type RegisterRequest struct {
	Email     string          `json:"email" binding:"required,email,max=254"`
	Password  string          `json:"password" binding:"required,min=8,max=72,strongpassword"`
	FirstName string          `json:"firstName" binding:"required,max=100"`
	LastName  string          `json:"lastName" binding:"required,max=100"`
	RoleType  models.RoleType `json:"roleType" binding:"required,oneof=USER COMPANY"`
}

// RefreshTokenRequest carries a refresh token for rotation or logout
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken           string `json:"accessToken"`
	TokenType             string `json:"tokenType" example:"Bearer"`
	ExpiresIn             int64  `json:"expiresIn"`
	RefreshToken          string `json:"refreshToken,omitempty"`
	RefreshTokenExpiresIn int64  `json:"refreshTokenExpiresIn,omitempty"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  UserResponse  `json:"user"`
}
