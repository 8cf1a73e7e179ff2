package validation

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// Slug pattern produced by models.Slugify
	SlugPattern = `^[a-z0-9]+(-[a-z0-9]+)*$`

	// Phone numbers: digits, spaces, dashes, parentheses, optional leading plus
	PhonePattern = `^\+?[0-9 ()\-]{6,25}$`

	PasswordMinLength = 8
	PasswordMaxLength = 72

	NameMinLength = 2
	NameMaxLength = 150
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Slug  *regexp.Regexp
	Phone *regexp.Regexp
}{
	Slug:  regexp.MustCompile(SlugPattern),
	Phone: regexp.MustCompile(PhonePattern),
}

// IsStrongPassword reports whether password has the minimum length and
// contains at least one letter and one digit
func IsStrongPassword(password string) bool {
	if len(password) < PasswordMinLength || len(password) > PasswordMaxLength {
		return false
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

// IsHTTPURL reports whether raw is an absolute http or https URL with a host
func IsHTTPURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}

// IsPhone reports whether raw looks like a phone number
func IsPhone(raw string) bool {
	return CompiledPatterns.Phone.MatchString(strings.TrimSpace(raw))
}

// Register adds the custom tags used in request DTOs to v:
// strongpassword, weburl (empty allowed) and phone (empty allowed).
func Register(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"strongpassword": func(fl validator.FieldLevel) bool {
			return IsStrongPassword(fl.Field().String())
		},
		"weburl": func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			return value == "" || IsHTTPURL(value)
		},
		"phone": func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			return value == "" || IsPhone(value)
		},
	}

	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}
