package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var whitespace = regexp.MustCompile(`\s+`)

// NormalizeWhitespace trims and collapses whitespace to single spaces.
func NormalizeWhitespace(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// StripAccents removes combining marks, so "Ruzafa Señorial" becomes "Ruzafa Senorial".
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// FoldAnswer canonicalizes a questionnaire answer: lower case, no accents,
// whitespace and underscores collapsed to single dashes.
// "  Hijos Pequeños " and "hijos_pequenos" both fold to "hijos-pequenos".
func FoldAnswer(s string) string {
	s = strings.ToLower(StripAccents(s))
	s = strings.ReplaceAll(s, "_", " ")
	s = NormalizeWhitespace(s)
	return strings.ReplaceAll(s, " ", "-")
}
