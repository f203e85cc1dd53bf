package answer

// Matcher applies the answer comparison rules for each answer shape.
type Matcher struct {
	// AcceptVariantScript also accepts the traditional or simplified
	// counterpart of a hanzi target.
	AcceptVariantScript bool
}

// Script compares a typed hanzi answer with the target.
func (m Matcher) Script(input, target string) bool {
	if MatchScript(input, target) {
		return true
	}
	return m.AcceptVariantScript && MatchScriptVariant(input, target)
}

// Phonetic compares a typed pinyin answer with the target.
func (m Matcher) Phonetic(input, target string) bool {
	return MatchPhonetic(input, target)
}

// Tokens compares a reordered token sequence with the original order.
func (m Matcher) Tokens(input, target []string) bool {
	return MatchTokens(input, target)
}
