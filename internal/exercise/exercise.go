package exercise

import (
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/palemoky/chinese-trainer/internal/answer"
	"github.com/palemoky/chinese-trainer/internal/loader"
)

// BlankMarker replaces the target word in a construct-from-blank sentence.
const BlankMarker = "____"

// minReorderTokens is the fewest tokens a reorder exercise needs.
const minReorderTokens = 3

// distractorCount is the number of wrong options in a match-meaning exercise.
const distractorCount = 3

// Exercise is a rendered instance: plain field values for the presentation
// layer plus the hidden targets used for grading.
type Exercise struct {
	// Kind is the kind actually presented; it differs from Requested when the
	// requested kind degraded to match-meaning.
	Kind      Kind `json:"kind"`
	Requested Kind `json:"requested_kind"`
	RecordID  int  `json:"record_id"`

	Prompt  string   `json:"prompt,omitempty"`
	Pinyin  string   `json:"pinyin,omitempty"`
	Type    string   `json:"type,omitempty"`
	Hint    string   `json:"hint,omitempty"`
	Options []string `json:"options,omitempty"`

	Sentence        string `json:"sentence,omitempty"`
	SentenceEnglish string `json:"sentence_english,omitempty"`
	Slots           int    `json:"slots,omitempty"`
	Tiles           []Tile `json:"tiles,omitempty"`

	// Speak is the hanzi text offered for speech playback.
	Speak string `json:"speak,omitempty"`

	record loader.Record
	tokens []string
}

// Record returns the vocabulary record behind the exercise.
func (e *Exercise) Record() loader.Record {
	return e.record
}

// Prepare renders an instance, applying the degradations to match-meaning
// for blank-fill without a target word and for reorder with fewer than three tokens.
func Prepare(rng *rand.Rand, inst Instance, pool []loader.Record) *Exercise {
	rec := inst.Record
	ex := &Exercise{
		Kind:      inst.Kind,
		Requested: inst.Kind,
		RecordID:  rec.ID,
		Speak:     rec.Chinese,
		record:    rec,
	}

	switch inst.Kind {
	case MatchMeaning:
		prepareMatchMeaning(rng, ex, pool)
	case ProduceScript:
		// Speaking the target would give the answer away.
		ex.Prompt = rec.English
		ex.Speak = ""
	case ProducePhonetic:
		ex.Prompt = rec.Chinese
		ex.Hint = rec.English
	case ConstructFromBlank:
		bank, ok := BuildCharacterBank(rng, rec.Chinese, pool)
		if !ok {
			prepareMatchMeaning(rng, ex, pool)
			break
		}
		ex.Sentence = blankOut(rec.Example, rec.Chinese)
		ex.SentenceEnglish = rec.ExampleEnglish
		ex.Slots = len(bank.Targets)
		ex.Tiles = bank.Tiles
		if rec.Example != "" {
			ex.Speak = rec.Example
		}
	case ReorderTokens:
		tokens := ReorderSource(rec)
		if len(tokens) < minReorderTokens {
			prepareMatchMeaning(rng, ex, pool)
			break
		}
		ex.Prompt = rec.Example
		ex.tokens = tokens
		ex.Tiles = shuffledTokenTiles(rng, tokens)
	default:
		prepareMatchMeaning(rng, ex, pool)
	}

	return ex
}

func prepareMatchMeaning(rng *rand.Rand, ex *Exercise, pool []loader.Record) {
	rec := ex.record
	ex.Kind = MatchMeaning
	ex.Prompt = rec.Chinese
	ex.Pinyin = rec.Pinyin
	ex.Type = rec.Type

	options := append([]string{rec.English}, SampleDistractors(rng, rec.English, pool, loader.FieldEnglish, distractorCount)...)
	Shuffle(rng, options)
	ex.Options = options
}

// ReorderSource returns the whitespace separated tokens of the example pinyin,
// or of the example translation when the pinyin is blank.
func ReorderSource(rec loader.Record) []string {
	base := rec.ExamplePinyin
	if strings.TrimSpace(base) == "" {
		base = rec.ExampleEnglish
	}
	return strings.Fields(base)
}

// blankOut replaces the first occurrence of word in sentence with BlankMarker.
// A sentence without the word is returned unchanged; an empty one becomes the marker.
func blankOut(sentence, word string) string {
	switch {
	case sentence == "":
		return BlankMarker
	case word != "" && strings.Contains(sentence, word):
		return strings.Replace(sentence, word, BlankMarker, 1)
	default:
		return sentence
	}
}

func shuffledTokenTiles(rng *rand.Rand, tokens []string) []Tile {
	shuffled := make([]string, len(tokens))
	copy(shuffled, tokens)
	Shuffle(rng, shuffled)

	tiles := make([]Tile, len(shuffled))
	for i, tok := range shuffled {
		tiles[i] = Tile{Key: strconv.Itoa(i), Text: tok}
	}
	return tiles
}

// Answer is a user response: typed text, or tile keys in the order picked.
type Answer struct {
	Text  string   `json:"text"`
	Tiles []string `json:"tiles"`
}

// Verdict is the graded outcome of an answer.
type Verdict struct {
	Correct  bool          `json:"correct"`
	Kind     Kind          `json:"kind"`
	Expected string        `json:"expected"`
	Record   loader.Record `json:"record"`
}

// Check grades a against the exercise.
func (e *Exercise) Check(a Answer, m answer.Matcher) Verdict {
	rec := e.record
	v := Verdict{Kind: e.Kind, Record: rec}

	switch e.Kind {
	case MatchMeaning:
		v.Expected = rec.English
		v.Correct = a.Text == rec.English
	case ProduceScript:
		v.Expected = rec.Chinese
		v.Correct = m.Script(a.Text, rec.Chinese)
	case ProducePhonetic:
		v.Expected = rec.Pinyin
		v.Correct = m.Phonetic(a.Text, rec.Pinyin)
	case ConstructFromBlank:
		v.Expected = rec.Chinese
		if picked, ok := e.resolveTiles(a.Tiles); ok {
			v.Correct = answer.MatchScript(strings.Join(picked, ""), rec.Chinese)
		}
	case ReorderTokens:
		v.Expected = strings.Join(e.tokens, " ")
		if picked, ok := e.resolveTiles(a.Tiles); ok {
			v.Correct = m.Tokens(picked, e.tokens)
		}
	}

	return v
}

// resolveTiles maps tile keys to their text. Unknown or repeated keys fail.
func (e *Exercise) resolveTiles(keys []string) ([]string, bool) {
	byKey := make(map[string]string, len(e.Tiles))
	for _, t := range e.Tiles {
		byKey[t.Key] = t.Text
	}

	used := make(map[string]bool, len(keys))
	picked := make([]string, 0, len(keys))
	for _, k := range keys {
		text, ok := byKey[k]
		if !ok || used[k] {
			return nil, false
		}
		used[k] = true
		picked = append(picked, text)
	}
	return picked, true
}
