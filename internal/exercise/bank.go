package exercise

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/palemoky/chinese-trainer/internal/answer"
	"github.com/palemoky/chinese-trainer/internal/loader"
)

// minFoils is the smallest foil count requested for short words.
const minFoils = 3

// Tile is one selectable token. Key identifies the tile within an exercise.
type Tile struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// Bank is a shuffled character bank for building a word.
type Bank struct {
	// Targets are the characters of the word in order, duplicates kept.
	Targets []string
	// Tiles holds targets keyed t<i> and foils keyed e<i>, shuffled.
	Tiles []Tile
}

// BuildCharacterBank returns the target characters of word plus foils drawn
// from the distinct characters of pool. It reports false when word has no
// characters once whitespace is removed.
func BuildCharacterBank(rng *rand.Rand, word string, pool []loader.Record) (Bank, bool) {
	targets := splitChars(answer.NormalizeScript(word))
	if len(targets) == 0 {
		return Bank{}, false
	}

	seen := make(map[string]bool)
	var foils []string
	for _, r := range pool {
		for _, ch := range splitChars(answer.NormalizeScript(r.Chinese)) {
			if slices.Contains(targets, ch) || seen[ch] {
				continue
			}
			seen[ch] = true
			foils = append(foils, ch)
		}
	}
	Shuffle(rng, foils)
	foils = foils[:min(len(foils), max(len(targets), minFoils))]

	tiles := make([]Tile, 0, len(targets)+len(foils))
	for i, ch := range targets {
		tiles = append(tiles, Tile{Key: fmt.Sprintf("t%d", i), Text: ch})
	}
	for i, ch := range foils {
		tiles = append(tiles, Tile{Key: fmt.Sprintf("e%d", i), Text: ch})
	}
	Shuffle(rng, tiles)

	return Bank{Targets: targets, Tiles: tiles}, true
}

func splitChars(s string) []string {
	chars := make([]string, 0, len(s))
	for _, r := range s {
		chars = append(chars, string(r))
	}
	return chars
}
