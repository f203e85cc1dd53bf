// Package answer canonicalizes user input and expected answers and compares them.
package answer

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// combiningMarks is the Combining Diacritical Marks block, U+0300 to U+036F.
var combiningMarks = &unicode.RangeTable{
	R16: []unicode.Range16{{Lo: 0x0300, Hi: 0x036f, Stride: 1}},
}

var umlautReplacer = strings.NewReplacer("ü", "u", "Ü", "U")

// NormalizeScript removes every whitespace character.
func NormalizeScript(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s))
}

// StripDiacritics decomposes s, drops combining marks, folds ü to u and lowercases.
func StripDiacritics(s string) string {
	s = umlautReplacer.Replace(s)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(combiningMarks)))
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return strings.ToLower(stripped)
}

// NormalizePhonetic strips diacritics and keeps only ASCII letters, digits and underscores.
func NormalizePhonetic(s string) string {
	return strings.Map(func(r rune) rune {
		if isWordRune(r) {
			return r
		}
		return -1
	}, StripDiacritics(s))
}

// MatchScript compares two hanzi strings ignoring whitespace.
func MatchScript(input, target string) bool {
	return NormalizeScript(input) == NormalizeScript(target)
}

// MatchPhonetic compares two romanizations ignoring tone marks, case, spacing and punctuation.
func MatchPhonetic(input, target string) bool {
	return NormalizePhonetic(input) == NormalizePhonetic(target)
}

// MatchTokens compares two token sequences joined by single spaces, ignoring
// tone marks and case.
func MatchTokens(input, target []string) bool {
	return StripDiacritics(joinTokens(input)) == StripDiacritics(joinTokens(target))
}

func joinTokens(tokens []string) string {
	return strings.TrimSpace(strings.Join(tokens, " "))
}

func isWordRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
