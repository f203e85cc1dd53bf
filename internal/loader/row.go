package loader

import "strings"

// IsBlankRow reports whether every cell of the row is empty after trimming.
func IsBlankRow(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// NormalizeRow extracts the canonical fields of one row.
// It returns false when chinese or english ends up empty.
func NormalizeRow(fields []string, idx FieldIndex, ordinal int) (Record, bool) {
	rec := Record{ID: ordinal}
	for _, f := range Fields {
		col, ok := idx[f]
		if !ok || col < 0 || col >= len(fields) {
			continue
		}
		rec.set(f, strings.TrimSpace(strings.ToValidUTF8(fields[col], "\uFFFD")))
	}

	if rec.Chinese == "" || rec.English == "" {
		return Record{}, false
	}
	return rec, true
}
