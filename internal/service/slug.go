package service

import (
	"strings"
	"unicode"
)

// Slugify lowercases s, drops everything but letters, digits, '_', '-' and
// whitespace, then collapses separator runs into one '-'.
func Slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pendingDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		case r == '-' || r == '_' || unicode.IsSpace(r):
			pendingDash = true
		}
	}
	return b.String()
}
