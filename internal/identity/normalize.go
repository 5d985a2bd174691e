// Package identity decides when two show entries describe the same
// production.
package identity

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Normalize reduces a show or theater name to its comparison form: Unicode
// case folded, punctuation and symbols removed, interior whitespace collapsed
// to single spaces, leading and trailing whitespace trimmed. Normalize is
// idempotent.
func Normalize(name string) string {
	// cases.Fold carries state across Transform calls, so a caser is not
	// safe for concurrent use. Build one per call.
	folded := cases.Fold().String(name)

	var builder strings.Builder
	builder.Grow(len(folded))
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			builder.WriteRune(r)
		case unicode.IsSpace(r):
			builder.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(builder.String()), " ")
}
