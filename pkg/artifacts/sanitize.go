package artifacts

import "strings"

const (
	defaultStem = "default"
	maxStemLen  = 96
)

// Sanitize turns untrusted text into a file stem made only of [a-z0-9_].
// ASCII capitals are lowered and every other rune becomes an underscore, so
// separators and dots never survive. The result is never empty, at most
// maxStemLen bytes long, and Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if b.Len() >= maxStemLen {
			break
		}
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r - 'A' + 'a')
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return defaultStem
	}
	return b.String()
}
