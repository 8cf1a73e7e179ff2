package models

import "strings"

// RoleType defines the user role type
type RoleType string

const (
	RoleUser    RoleType = "USER"
	RoleCompany RoleType = "COMPANY"
	RoleAdmin   RoleType = "ADMIN"
)

// IsValid reports whether r is a known role
func (r RoleType) IsValid() bool {
	switch r {
	case RoleUser, RoleCompany, RoleAdmin:
		return true
	}
	return false
}

// IsSelfService reports whether users may register themselves with this role
func (r RoleType) IsSelfService() bool {
	return r == RoleUser || r == RoleCompany
}

// Slugify lowercases s and collapses every run of non-alphanumeric characters into a single '-'.
func Slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
