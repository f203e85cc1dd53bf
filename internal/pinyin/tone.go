// Package pinyin helps with typing and generating tone-marked pinyin.
package pinyin

import (
	"strings"
	"unicode"
)

// toneTable maps each base vowel to its forms for tones 0 (bare) to 4.
var toneTable = map[rune][5]rune{
	'a': {'a', 'ā', 'á', 'ǎ', 'à'},
	'e': {'e', 'ē', 'é', 'ě', 'è'},
	'i': {'i', 'ī', 'í', 'ǐ', 'ì'},
	'o': {'o', 'ō', 'ó', 'ǒ', 'ò'},
	'u': {'u', 'ū', 'ú', 'ǔ', 'ù'},
	'ü': {'ü', 'ǖ', 'ǘ', 'ǚ', 'ǜ'},
	'A': {'A', 'Ā', 'Á', 'Ǎ', 'À'},
	'E': {'E', 'Ē', 'É', 'Ě', 'È'},
	'I': {'I', 'Ī', 'Í', 'Ǐ', 'Ì'},
	'O': {'O', 'Ō', 'Ó', 'Ǒ', 'Ò'},
	'U': {'U', 'Ū', 'Ú', 'Ǔ', 'Ù'},
	'Ü': {'Ü', 'Ǖ', 'Ǘ', 'Ǚ', 'Ǜ'},
}

// baseOf maps every known vowel form, plus the v/V stand-ins for ü, to its bare base.
var baseOf = func() map[rune]rune {
	m := map[rune]rune{'v': 'ü', 'V': 'Ü'}
	for base, forms := range toneTable {
		for _, r := range forms {
			m[r] = base
		}
	}
	return m
}()

// ToneVariant returns vowel rendered with tone 0 to 5, where 5 is the
// neutral tone and renders bare. It reports false for non-vowels.
func ToneVariant(vowel rune, tone int) (rune, bool) {
	base, ok := baseOf[vowel]
	if !ok || tone < 0 || tone > 5 {
		return vowel, false
	}
	if tone == 5 {
		tone = 0
	}
	return toneTable[base][tone], true
}

// IsVowel reports whether r is a pinyin vowel in any tone, or v/V.
func IsVowel(r rune) bool {
	_, ok := baseOf[r]
	return ok
}

// ApplyToneNumber re-tones the nearest vowel left of cursor. A tone digit
// 1-5 directly before the cursor is removed first, so typing "ni3" yields
// "nǐ". cursor counts runes and is clamped to the text. The text comes back
// unchanged when tone is out of range or no vowel precedes the cursor.
func ApplyToneNumber(text string, cursor, tone int) (string, int) {
	rs := []rune(text)
	cursor = max(0, min(cursor, len(rs)))
	if tone < 0 || tone > 5 {
		return text, cursor
	}

	end := cursor
	hasDigit := end > 0 && rs[end-1] >= '1' && rs[end-1] <= '5'
	if hasDigit {
		end--
	}

	pos := -1
	for i := end - 1; i >= 0; i-- {
		if IsVowel(rs[i]) {
			pos = i
			break
		}
	}
	if pos < 0 {
		return text, cursor
	}

	rs[pos], _ = ToneVariant(rs[pos], tone)
	if hasDigit {
		rs = append(rs[:end], rs[end+1:]...)
		cursor--
	}
	return string(rs), cursor
}

// ConvertNumbered rewrites numbered pinyin such as "ni3 hao3" or "lv4" into
// tone marks. The mark goes on a or e when present, on the o of "ou", and
// otherwise on the last vowel of the syllable. Digits that follow a syllable
// without vowels are left as they are.
func ConvertNumbered(s string) string {
	rs := []rune(s)
	var out strings.Builder
	out.Grow(len(s))

	start := 0
	for i, r := range rs {
		switch {
		case unicode.IsLetter(r):
			continue
		case r >= '1' && r <= '5' && i > start:
			if syllable, ok := markSyllable(rs[start:i], int(r-'0')); ok {
				out.WriteString(syllable)
				start = i + 1
				continue
			}
		}
		out.WriteString(string(rs[start : i+1]))
		start = i + 1
	}
	out.WriteString(string(rs[start:]))

	return out.String()
}

// markSyllable applies tone to one syllable, spelling v as ü.
func markSyllable(syllable []rune, tone int) (string, bool) {
	rs := make([]rune, len(syllable))
	for i, r := range syllable {
		switch r {
		case 'v':
			r = 'ü'
		case 'V':
			r = 'Ü'
		}
		rs[i] = r
	}

	pos := tonePosition(rs)
	if pos < 0 {
		return "", false
	}
	rs[pos], _ = ToneVariant(rs[pos], tone)
	return string(rs), true
}

// tonePosition returns the index of the vowel that carries the tone mark, or -1.
func tonePosition(rs []rune) int {
	last := -1
	for i, r := range rs {
		switch lowerBase(r) {
		case 'a', 'e':
			return i
		case 0:
			continue
		}
		last = i
	}
	for i := 0; i+1 < len(rs); i++ {
		if lowerBase(rs[i]) == 'o' && lowerBase(rs[i+1]) == 'u' {
			return i
		}
	}
	return last
}

// lowerBase returns the lowercase bare vowel of r, or 0 for non-vowels.
func lowerBase(r rune) rune {
	base, ok := baseOf[r]
	if !ok {
		return 0
	}
	return unicode.ToLower(base)
}
