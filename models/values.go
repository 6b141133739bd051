package models

import "strings"

// NullableString returns nil for nil or whitespace-only input.
func NullableString(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// StringPtr returns a pointer to s, or nil when s is blank.
func StringPtr(s string) *string {
	return NullableString(&s)
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// NonNil returns list, or an empty list when list is nil.
func NonNil[S ~[]string](list S) []string {
	if list == nil {
		return []string{}
	}
	return []string(list)
}
