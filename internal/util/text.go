package util

import "strings"

// SanitizePostgresText drops invalid UTF-8 and NUL bytes, which text
// columns reject.
func SanitizePostgresText(value string) string {
	if value == "" {
		return value
	}

	sanitized := strings.ToValidUTF8(value, "")
	return strings.ReplaceAll(sanitized, "\x00", "")
}

// NormalizeSearchTerm sanitizes a user supplied search term and collapses
// runs of whitespace to single blanks.
func NormalizeSearchTerm(term string) string {
	return strings.Join(strings.Fields(SanitizePostgresText(term)), " ")
}
