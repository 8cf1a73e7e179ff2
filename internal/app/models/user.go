package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID           int64      `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	Password     string     `json:"-" db:"password"` // bcrypt hash
	FirstName    string     `json:"firstName" db:"first_name"`
	LastName     string     `json:"lastName" db:"last_name"`
	RoleType     RoleType   `json:"roleType" db:"role_type"`
	IsActive     bool       `json:"isActive" db:"is_active"`
	AvatarFileID *int64     `json:"avatarFileId,omitempty" db:"avatar_file_id"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
}

// FullName returns "First Last"
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// UserFilter narrows the admin user listing
type UserFilter struct {
	Role     *RoleType
	IsActive *bool
	Search   string
	Page     int
	Size     int
}

// RefreshToken is a row of the 'refresh_tokens' table
type RefreshToken struct {
	Token      string    `db:"token"`
	UserID     int64     `db:"user_id"`
	ExpiryDate time.Time `db:"expiry_date"`
	IsRevoked  bool      `db:"is_revoked"`
	CreatedAt  time.Time `db:"created_at"`
}
