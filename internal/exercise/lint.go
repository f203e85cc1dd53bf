package exercise

import (
	"strings"

	"github.com/palemoky/chinese-trainer/internal/answer"
	"github.com/palemoky/chinese-trainer/internal/loader"
	"github.com/palemoky/chinese-trainer/internal/pinyin"
)

// IssueCode classifies a lint finding.
type IssueCode string

const (
	// IssueMissingPinyin: produce-phonetic cannot be answered.
	IssueMissingPinyin IssueCode = "missing_pinyin"
	// IssuePinyinMismatch: the syllables differ from the dictionary reading.
	IssuePinyinMismatch IssueCode = "pinyin_mismatch"
	// IssueBlankNotFound: the example does not contain the word, so nothing is blanked.
	IssueBlankNotFound IssueCode = "blank_not_found"
	// IssueShortExample: reorder falls back to match-meaning.
	IssueShortExample IssueCode = "short_example"
)

// Issue is a problem found in one record.
type Issue struct {
	RecordID   int       `json:"record_id"`
	Chinese    string    `json:"chinese"`
	Code       IssueCode `json:"code"`
	Suggestion string    `json:"suggestion,omitempty"`
}

// Lint reports records that produce degraded or ungradable exercises.
func Lint(records []loader.Record) []Issue {
	var issues []Issue
	add := func(r loader.Record, code IssueCode, suggestion string) {
		issues = append(issues, Issue{RecordID: r.ID, Chinese: r.Chinese, Code: code, Suggestion: suggestion})
	}

	for _, r := range records {
		reading := pinyin.FromHanzi(r.Chinese)
		switch {
		case strings.TrimSpace(r.Pinyin) == "":
			add(r, IssueMissingPinyin, reading)
		case reading != "" && answer.NormalizePhonetic(r.Pinyin) != answer.NormalizePhonetic(reading):
			add(r, IssuePinyinMismatch, reading)
		}

		if r.Example != "" && !strings.Contains(r.Example, r.Chinese) {
			add(r, IssueBlankNotFound, "")
		}
		if len(ReorderSource(r)) < minReorderTokens {
			add(r, IssueShortExample, "")
		}
	}
	return issues
}
