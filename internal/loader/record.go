package loader

// Field is one of the canonical vocabulary columns every header variant maps onto.
type Field int

const (
	FieldType Field = iota
	FieldChinese
	FieldPinyin
	FieldEnglish
	FieldExample
	FieldExamplePinyin
	FieldExampleEnglish
	FieldLiteral
)

// Fields lists the canonical fields in alias-table order.
var Fields = []Field{
	FieldType,
	FieldChinese,
	FieldPinyin,
	FieldEnglish,
	FieldExample,
	FieldExamplePinyin,
	FieldExampleEnglish,
	FieldLiteral,
}

var fieldNames = map[Field]string{
	FieldType:           "type",
	FieldChinese:        "chinese",
	FieldPinyin:         "pinyin",
	FieldEnglish:        "english",
	FieldExample:        "example",
	FieldExamplePinyin:  "example_pinyin",
	FieldExampleEnglish: "example_english",
	FieldLiteral:        "literal",
}

// String returns the canonical key of the field.
func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return "unknown"
}

// ParseField converts a canonical key back to a Field.
func ParseField(s string) (Field, bool) {
	for f, name := range fieldNames {
		if name == s {
			return f, true
		}
	}
	return 0, false
}

// Record is a single vocabulary entry.
// A Record is only produced when Chinese and English are both non-empty.
type Record struct {
	ID             int    `json:"id"`
	Type           string `json:"type"`
	Chinese        string `json:"chinese"`
	Pinyin         string `json:"pinyin"`
	English        string `json:"english"`
	Example        string `json:"example"`
	ExamplePinyin  string `json:"example_pinyin"`
	ExampleEnglish string `json:"example_english"`
	Literal        string `json:"literal"`
}

// Value returns the value of the given canonical field.
func (r Record) Value(f Field) string {
	switch f {
	case FieldType:
		return r.Type
	case FieldChinese:
		return r.Chinese
	case FieldPinyin:
		return r.Pinyin
	case FieldEnglish:
		return r.English
	case FieldExample:
		return r.Example
	case FieldExamplePinyin:
		return r.ExamplePinyin
	case FieldExampleEnglish:
		return r.ExampleEnglish
	case FieldLiteral:
		return r.Literal
	default:
		return ""
	}
}

func (r *Record) set(f Field, v string) {
	switch f {
	case FieldType:
		r.Type = v
	case FieldChinese:
		r.Chinese = v
	case FieldPinyin:
		r.Pinyin = v
	case FieldEnglish:
		r.English = v
	case FieldExample:
		r.Example = v
	case FieldExamplePinyin:
		r.ExamplePinyin = v
	case FieldExampleEnglish:
		r.ExampleEnglish = v
	case FieldLiteral:
		r.Literal = v
	}
}
