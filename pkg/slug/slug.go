// Package slug derives URL-safe tokens from free-text store names.
//
// Make is a pure function: it never touches the database and carries no
// uniqueness guarantee. Collision handling (the "-2", "-3" suffixes) lives
// in the store service, which owns the read path needed to count existing
// slugs.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Make converts a name into a lowercase, hyphen-separated token.
//
// The transformation lower-cases the input, strips diacritics via NFD
// decomposition, collapses every run of non-alphanumeric characters into a
// single hyphen, and trims leading and trailing hyphens. Letters with no
// ASCII decomposition are treated as separators.
//
// Make is idempotent: Make(Make(x)) == Make(x). An all-punctuation input
// yields the empty string, which callers must reject as invalid.
func Make(name string) string {
	decomposed := norm.NFD.String(strings.ToLower(name))

	var b strings.Builder
	b.Grow(len(name))
	pendingSep := false

	for _, r := range decomposed {
		// Drop combining marks left over from decomposition (é -> e + mark).
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}

	return b.String()
}
