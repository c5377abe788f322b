package provider

import "strings"

// normalizeStr trims and lowercases a free-text attribute, matching the
// Python original's expr.normalize_str.
func normalizeStr(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// nullIfEmpty returns nil for an empty string, otherwise a pointer to s.
// Matches expr.null_if_empty_str: an empty cell is schema-valid but
// semantically absent (§7).
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
