// Package search looks up records of the active dataset by hanzi, pinyin or meaning.
package search

import (
	"strings"
	"unicode"

	"github.com/palemoky/chinese-trainer/internal/answer"
	"github.com/palemoky/chinese-trainer/internal/loader"
	"github.com/palemoky/chinese-trainer/internal/pinyin"
)

// Engine handles all search operations over one record list
type Engine struct {
	entries []entry
}

// entry caches the normalized search keys of a record
type entry struct {
	record  loader.Record
	chinese string
	example string
	pinyin  string
	reading string
	abbr    string
	english string
}

// NewEngine indexes records. Pinyin keys come from the record and from the
// hanzi reading, so records without a pinyin column are still found.
func NewEngine(records []loader.Record) *Engine {
	entries := make([]entry, len(records))
	for i, r := range records {
		entries[i] = entry{
			record:  r,
			chinese: answer.NormalizeScript(r.Chinese),
			example: answer.NormalizeScript(r.Example),
			pinyin:  answer.NormalizePhonetic(r.Pinyin),
			reading: answer.NormalizePhonetic(pinyin.FromHanziNoTone(r.Chinese)),
			abbr:    pinyin.Initials(r.Chinese),
			english: strings.ToLower(r.English),
		}
	}
	return &Engine{entries: entries}
}

// SearchType defines the type of search
type SearchType string

const (
	SearchTypeAll     SearchType = "all"
	SearchTypeChinese SearchType = "chinese"
	SearchTypePinyin  SearchType = "pinyin"
	SearchTypeEnglish SearchType = "english"
)

// ParseSearchType maps a request value onto a SearchType; unknown values search everything.
func ParseSearchType(s string) SearchType {
	switch t := SearchType(strings.ToLower(strings.TrimSpace(s))); t {
	case SearchTypeChinese, SearchTypePinyin, SearchTypeEnglish:
		return t
	default:
		return SearchTypeAll
	}
}

// SearchParams contains search parameters
type SearchParams struct {
	Query      string
	SearchType SearchType
	Page       int
	PageSize   int
}

// SearchResult contains search results
type SearchResult struct {
	Records    []loader.Record `json:"records"`
	TotalCount int             `json:"total_count"`
	HasMore    bool            `json:"has_more"`
}

// Search performs a search based on the given parameters.
// An empty query matches nothing.
func (e *Engine) Search(params SearchParams) *SearchResult {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = 20
	}

	match := e.matcher(params)
	hits := []loader.Record{}
	if strings.TrimSpace(params.Query) != "" {
		for _, en := range e.entries {
			if match(en) {
				hits = append(hits, en.record)
			}
		}
	}

	start := len(hits)
	if params.Page-1 <= len(hits)/params.PageSize {
		start = min((params.Page-1)*params.PageSize, len(hits))
	}
	end := min(start+params.PageSize, len(hits))

	return &SearchResult{
		Records:    hits[start:end],
		TotalCount: len(hits),
		HasMore:    end < len(hits),
	}
}

func (e *Engine) matcher(params SearchParams) func(entry) bool {
	query := params.Query
	script := answer.NormalizeScript(query)
	phonetic := answer.NormalizePhonetic(query)
	english := strings.ToLower(strings.TrimSpace(query))

	byChinese := func(en entry) bool {
		return script != "" && (strings.Contains(en.chinese, script) || strings.Contains(en.example, script))
	}
	byPinyin := func(en entry) bool {
		return phonetic != "" && (strings.Contains(en.pinyin, phonetic) ||
			strings.Contains(en.reading, phonetic) ||
			strings.HasPrefix(en.abbr, phonetic))
	}
	byEnglish := func(en entry) bool {
		return english != "" && strings.Contains(en.english, english)
	}

	switch params.SearchType {
	case SearchTypeChinese:
		return byChinese
	case SearchTypePinyin:
		return byPinyin
	case SearchTypeEnglish:
		return byEnglish
	default: // SearchTypeAll
		if isPinyinQuery(query) {
			return func(en entry) bool { return byPinyin(en) || byEnglish(en) }
		}
		return byChinese
	}
}

// isPinyinQuery checks if a query string is pinyin
func isPinyinQuery(s string) bool {
	if s == "" {
		return false
	}

	letterCount := 0
	totalCount := 0

	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		totalCount++
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			letterCount++
		}
	}

	// If more than 50% are ASCII letters, consider it pinyin
	return totalCount > 0 && float64(letterCount)/float64(totalCount) > 0.5
}
