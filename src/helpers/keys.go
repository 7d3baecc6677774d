package helpers

import "strings"

// SanitizeKey maps a visitor key onto the characters safe in a file name.
// Dots and colons (IPv4/IPv6 separators) become underscores, as does any
// other rune outside [A-Za-z0-9_-]. The result is stable under reapplication.
func SanitizeKey(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
