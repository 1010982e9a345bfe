package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Widths of the bounded text columns
const (
	MaxEmailLength       = 255
	MaxGradeNameLength   = 100
	MaxChapterNameLength = 200
	MaxBookNameLength    = 200
)

// ParseID parses a structurally valid entity identifier
func ParseID(raw string) (uuid.UUID, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// ExceedsLength reports whether s holds more than max characters
func ExceedsLength(s string, max int) bool {
	return utf8.RuneCountInString(s) > max
}

// IsBlank reports whether s is empty after trimming whitespace
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// AnyBlank reports whether any of values is blank
func AnyBlank(values ...string) bool {
	for _, v := range values {
		if IsBlank(v) {
			return true
		}
	}
	return false
}

// NormalizeEmail trims and lower-cases an email so lookups are case-insensitive
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// OptionalText trims s and maps an empty result to nil
func OptionalText(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
