package service

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

const maxNameLength = 255

// sanitizeString collapses whitespace and trims the result.
func sanitizeString(value string) string {
	value = whitespaceRegex.ReplaceAllString(value, " ")
	return strings.TrimSpace(value)
}

// normalizeName returns the canonical form of a station or line name.
func normalizeName(field, name string) (string, error) {
	name = sanitizeString(name)
	if name == "" {
		return "", invalid(field, "is required")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", invalid(field, "is too long")
	}
	return name, nil
}

// normalizeColor lowercases the colour and strips all whitespace.
func normalizeColor(color string) string {
	return strings.ToLower(whitespaceRegex.ReplaceAllString(color, ""))
}

// sameName compares two already normalised names case-insensitively.
func sameName(a, b string) bool {
	return strings.EqualFold(a, b)
}

// nameKey is the lookup key under which sameName treats names as equal.
func nameKey(name string) string {
	return strings.ToLower(sanitizeString(name))
}
