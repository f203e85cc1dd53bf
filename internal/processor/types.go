package processor

import (
	"fmt"
	"strings"

	"github.com/palemoky/chinese-trainer/internal/answer"
	"github.com/palemoky/chinese-trainer/internal/database"
	"github.com/palemoky/chinese-trainer/internal/loader"
)

// LibraryWriter stores parsed datasets.
type LibraryWriter interface {
	BatchInsertLibrary(datasets []*database.LibraryDataset, batchSize int) error
}

// Script selects the hanzi form imported records are normalized to.
type Script int

const (
	ScriptAsIs Script = iota
	ScriptSimplified
	ScriptTraditional
)

// ParseScript parses "", "as-is", "simplified" or "traditional".
func ParseScript(s string) (Script, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "as-is":
		return ScriptAsIs, nil
	case "simplified":
		return ScriptSimplified, nil
	case "traditional":
		return ScriptTraditional, nil
	default:
		return ScriptAsIs, fmt.Errorf("unknown script %q", s)
	}
}

func (s Script) String() string {
	switch s {
	case ScriptSimplified:
		return "simplified"
	case ScriptTraditional:
		return "traditional"
	default:
		return "as-is"
	}
}

// convert rewrites text into the script. ScriptAsIs returns text unchanged.
func (s Script) convert(text string) (string, error) {
	switch s {
	case ScriptSimplified:
		return answer.ToSimplified(text)
	case ScriptTraditional:
		return answer.ToTraditional(text)
	default:
		return text, nil
	}
}

// Result summarizes an import run.
type Result struct {
	Files    int `json:"files"`
	Imported int `json:"imported"`
	Records  int `json:"records"`
	Failed   int `json:"failed"`
}

// fileWork is one file queued for a worker.
type fileWork struct {
	loader.SourceFile
	Index int
}
