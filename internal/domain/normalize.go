package domain

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeHumanName trims leading/trailing whitespace and collapses internal whitespace runs.
// Hangul is composed to NFC so names typed on different platforms compare equal.
func NormalizeHumanName(s string) string {
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}

// SanitizeName removes characters that are unsafe to echo into markup.
// The second result reports whether anything was removed.
func SanitizeName(s string) (string, bool) {
	out := strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', '"', '\'', '&':
			return -1
		}
		return r
	}, s)
	return out, out != s
}
