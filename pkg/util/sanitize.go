package util

import "strings"

// SanitizeName cleans a store or employee name for use as a storage
// path segment. Only letters, digits, spaces, hyphens and underscores
// survive; the result is trimmed and internal spaces become
// underscores.
func SanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	return strings.ReplaceAll(strings.TrimSpace(b.String()), " ", "_")
}
