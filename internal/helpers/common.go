// Package helpers holds request parsing shared by the HTTP handlers and the CLI.
package helpers

import (
	"slices"
	"strings"

	"github.com/palemoky/chinese-trainer/internal/dataset"
	"github.com/palemoky/chinese-trainer/internal/exercise"
	"github.com/palemoky/chinese-trainer/internal/session"
)

// ParseTypeFilter trims a type filter. Blank selects every type.
func ParseTypeFilter(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return dataset.TypeAll
	}
	return s
}

// ParseKindNames converts kind names. A nil slice enables every kind; an
// empty non-nil slice stays empty so the lesson start reports no data.
func ParseKindNames(names []string) ([]exercise.Kind, error) {
	if names == nil {
		return slices.Clone(exercise.AllKinds), nil
	}
	return exercise.ParseKinds(names)
}

// LessonCount returns fallback for a zero request. Other values pass through
// for the trainer to clamp.
func LessonCount(requested, fallback int) int {
	if requested == 0 {
		return fallback
	}
	return requested
}

// LessonOptions builds trainer options from raw request values.
func LessonOptions(typeFilter string, count int, kinds []string, defaultCount int) (session.Options, error) {
	parsed, err := ParseKindNames(kinds)
	if err != nil {
		return session.Options{}, err
	}
	return session.Options{
		TypeFilter: ParseTypeFilter(typeFilter),
		Count:      LessonCount(count, defaultCount),
		Kinds:      parsed,
	}, nil
}
