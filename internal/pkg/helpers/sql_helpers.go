package helpers

import "strings"

// NullableString trims s and returns nil when nothing is left
func NullableString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// StringValue dereferences s, returning "" for nil
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// EscapeLike escapes the LIKE wildcards in s so it matches literally
func EscapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// ContainsPattern returns an ILIKE pattern matching s anywhere in a column
func ContainsPattern(s string) string {
	return "%" + EscapeLike(strings.TrimSpace(s)) + "%"
}
