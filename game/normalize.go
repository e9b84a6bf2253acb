package game

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes free text for answer comparison: trim, lower-case,
// strip combining marks (so "oración" == "oracion"), collapse whitespace runs
// to single spaces. Structural input like the room 10 comma list must be
// split before normalizing each token, never normalized whole.
func Normalize(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	stripper := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(stripper, text); err == nil {
		text = stripped
	}
	return strings.Join(strings.Fields(text), " ")
}
