// Package exercise builds drill lessons from vocabulary records and grades answers.
package exercise

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the closed set of exercise types.
type Kind int

const (
	MatchMeaning Kind = iota
	ProduceScript
	ProducePhonetic
	ConstructFromBlank
	ReorderTokens
)

// AllKinds lists every exercise kind.
var AllKinds = []Kind{MatchMeaning, ProduceScript, ProducePhonetic, ConstructFromBlank, ReorderTokens}

// ErrUnknownKind is returned when parsing an unrecognized kind name.
var ErrUnknownKind = errors.New("unknown exercise kind")

var kindNames = [...]string{
	MatchMeaning:       "match_meaning",
	ProduceScript:      "produce_script",
	ProducePhonetic:    "produce_phonetic",
	ConstructFromBlank: "construct_from_blank",
	ReorderTokens:      "reorder_tokens",
}

// legacyKindNames are the short names used by older clients.
var legacyKindNames = map[string]Kind{
	"mc_cn_en":     MatchMeaning,
	"type_en_cn":   ProduceScript,
	"type_pinyin":  ProducePhonetic,
	"fill_blank":   ConstructFromBlank,
	"order_pinyin": ReorderTokens,
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	return k >= 0 && int(k) < len(kindNames)
}

// ParseKind converts a wire or legacy name to a Kind.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	if k, ok := legacyKindNames[s]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// ParseKinds parses a list of names, dropping duplicates.
func ParseKinds(names []string) ([]Kind, error) {
	kinds := make([]Kind, 0, len(names))
	seen := make(map[Kind]bool, len(names))
	for _, name := range names {
		k, err := ParseKind(name)
		if err != nil {
			return nil, err
		}
		if !seen[k] {
			seen[k] = true
			kinds = append(kinds, k)
		}
	}
	return kinds, nil
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
