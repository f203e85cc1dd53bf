package loader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

// Stats summarizes a single parse. Only the record count is user facing;
// the rest feeds debug logging and the CLI.
type Stats struct {
	Delimiter rune     `json:"-"`
	Headers   []string `json:"headers"`
	Mapped    []Field  `json:"-"`
	Rows      int      `json:"rows"`
	Blank     int      `json:"blank"`
	Dropped   int      `json:"dropped"`
	Malformed int      `json:"malformed"`
	Records   int      `json:"records"`
}

// MappedNames returns the canonical keys of the mapped fields.
func (s Stats) MappedNames() []string {
	names := make([]string, len(s.Mapped))
	for i, f := range s.Mapped {
		names[i] = f.String()
	}
	return names
}

// Parse turns raw delimited text into vocabulary records.
// The first line decides the delimiter and holds the headers. Unreadable
// input yields no records rather than an error.
func Parse(raw []byte) ([]Record, Stats) {
	var stats Stats

	raw = DecodeText(raw)
	first, ok := FirstLine(raw)
	if !ok || strings.TrimSpace(first) == "" {
		return nil, stats
	}
	stats.Delimiter = DetectDelimiter(first)

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.Comma = stats.Delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil || len(headers) == 0 {
		return nil, stats
	}
	stats.Headers = headers

	idx := ResolveHeaders(headers)
	stats.Mapped = idx.Mapped()

	var records []Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				stats.Malformed++
				continue
			}
			break
		}

		stats.Rows++
		if IsBlankRow(row) {
			stats.Blank++
			continue
		}

		rec, ok := NormalizeRow(row, idx, len(records))
		if !ok {
			stats.Dropped++
			continue
		}
		records = append(records, rec)
	}

	stats.Records = len(records)
	return records, stats
}
