package utils

import "strings"

// NewNullString returns nil for blank input, a trimmed pointer otherwise.
// Useful for fields that are optional and should be NULL in DB if not provided.
func NewNullString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// DerefString returns the pointed-to string or "".
func DerefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
