package loader

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// candidateDelimiters are checked in this order when sniffing the first line.
var candidateDelimiters = []rune{'\t', ',', ';', '|'}

// StripBOM removes a leading UTF-8 byte order mark.
func StripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, utf8BOM)
}

// DecodeText strips a UTF-8 byte order mark and returns valid UTF-8.
// Input that is not UTF-8 is read as GB18030, the superset of GBK and GB2312
// that spreadsheet exports on Chinese systems use. Bytes that still fail to
// decode become U+FFFD.
func DecodeText(data []byte) []byte {
	data = StripBOM(data)
	if utf8.Valid(data) {
		return data
	}
	if decoded, err := simplifiedchinese.GB18030.NewDecoder().Bytes(data); err == nil && utf8.Valid(decoded) {
		return decoded
	}
	return bytes.ToValidUTF8(data, []byte("\uFFFD"))
}

// FirstLine returns the first line of data without its line terminator.
// It reports false when data is empty.
func FirstLine(data []byte) (string, bool) {
	if len(data) == 0 {
		return "", false
	}
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	return string(bytes.TrimSuffix(line, []byte{'\r'})), true
}

// DetectDelimiter returns the candidate delimiter occurring most often in sample.
// Comma is returned when the highest count is shared or nothing matches.
func DetectDelimiter(sample string) rune {
	best := ','
	bestCount := 0
	tied := false

	for _, d := range candidateDelimiters {
		count := strings.Count(sample, string(d))
		switch {
		case count > bestCount:
			best, bestCount, tied = d, count, false
		case count == bestCount && count > 0:
			tied = true
		}
	}

	if bestCount == 0 || tied {
		return ','
	}
	return best
}

// DelimiterName returns a printable name for a delimiter rune.
func DelimiterName(d rune) string {
	switch d {
	case '\t':
		return "tab"
	case ',':
		return "comma"
	case ';':
		return "semicolon"
	case '|':
		return "pipe"
	default:
		return string(d)
	}
}
