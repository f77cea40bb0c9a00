// Package answer holds the canonical comparison between a typed answer and
// the stored translation. Only storage implementations should call it.
package answer

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Normalize brings text to its comparison form: NFC, case folded,
// trimmed and with inner whitespace runs collapsed to a single space.
func Normalize(s string) string {
	s = norm.NFC.String(s)
	s = cases.Fold().String(s)
	return strings.Join(strings.Fields(s), " ")
}

// Match reports whether the given answer matches the expected translation
func Match(expected, given string) bool {
	g := Normalize(given)
	if g == "" {
		return false
	}
	return Normalize(expected) == g
}
