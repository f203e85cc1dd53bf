package loader

import "strings"

// FieldIndex maps canonical fields to the column holding them.
// Unmapped fields are absent.
type FieldIndex map[Field]int

// headerAliases lists accepted header spellings per field, highest priority first.
var headerAliases = []struct {
	field   Field
	aliases []string
}{
	{FieldType, []string{"type", "category"}},
	{FieldChinese, []string{"chinese", "hanzi", "han zi", "character", "characters", "word"}},
	{FieldPinyin, []string{"pinyin"}},
	{FieldEnglish, []string{"english", "meaning", "gloss", "definition"}},
	{FieldExample, []string{"example sentence", "example", "chinese sentence", "sentence"}},
	{FieldExamplePinyin, []string{"pinyin (sentence)", "sentence pinyin", "pinyin sentence"}},
	{FieldExampleEnglish, []string{"english (sentence)", "sentence english", "translation", "sentence translation"}},
	{FieldLiteral, []string{"literal translation", "literal", "gloss (literal)"}},
}

// NormalizeHeader lowercases a header cell, trims it and collapses inner whitespace.
func NormalizeHeader(raw string) string {
	raw = strings.TrimPrefix(raw, "\ufeff")
	return strings.Join(strings.Fields(strings.ToLower(raw)), " ")
}

// ResolveHeaders maps a header row onto canonical fields.
// For each field the first alias present in the row wins; matching is exact after normalization.
func ResolveHeaders(headers []string) FieldIndex {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = NormalizeHeader(h)
	}

	idx := make(FieldIndex, len(headerAliases))
	for _, entry := range headerAliases {
		for _, alias := range entry.aliases {
			if col := indexOf(normalized, alias); col >= 0 {
				idx[entry.field] = col
				break
			}
		}
	}
	return idx
}

// Mapped returns the mapped fields in canonical order.
func (fi FieldIndex) Mapped() []Field {
	var out []Field
	for _, f := range Fields {
		if _, ok := fi[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

func indexOf(values []string, target string) int {
	for i, v := range values {
		if v == target {
			return i
		}
	}
	return -1
}
