// Package dataset turns raw vocabulary files into active datasets and decides
// which one a session trains on.
package dataset

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"slices"

	"github.com/palemoky/chinese-trainer/internal/loader"
)

// Source records where the active dataset came from.
type Source string

const (
	SourceUploaded    Source = "uploaded"
	SourceFileDefault Source = "file-default"
	SourceSample      Source = "built-in-sample"
)

// TypeAll passes every record through a type filter.
const TypeAll = "All"

// TypeOther is the category shown for records without a type.
const TypeOther = "Other"

// Dataset is an ordered, immutable set of vocabulary records.
type Dataset struct {
	Records     []loader.Record `json:"records"`
	Source      Source          `json:"source"`
	Fingerprint string          `json:"fingerprint"`
}

// Len returns the number of records.
func (d Dataset) Len() int {
	return len(d.Records)
}

// Empty reports whether the dataset has no records.
func (d Dataset) Empty() bool {
	return len(d.Records) == 0
}

// New builds a dataset from already normalized records.
func New(records []loader.Record, source Source) Dataset {
	return Dataset{
		Records:     records,
		Source:      source,
		Fingerprint: Fingerprint(records),
	}
}

// Ingest parses raw bytes into a dataset. Unusable input gives an empty dataset.
func Ingest(raw []byte, source Source) (Dataset, loader.Stats) {
	records, stats := loader.Parse(raw)
	return New(records, source), stats
}

// Fingerprint returns the first 8 hex characters of the SHA-1 of the JSON
// encoded record list.
func Fingerprint(records []loader.Record) string {
	if records == nil {
		records = []loader.Record{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding plain string and int fields cannot fail.
	_ = enc.Encode(records)

	sum := sha1.Sum(bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}))
	return hex.EncodeToString(sum[:])[:8]
}

// Types returns "All" and every distinct type label, sorted together.
// Records without a type are listed as "Other".
func Types(records []loader.Record) []string {
	seen := map[string]bool{TypeAll: true}
	types := []string{TypeAll}
	for _, r := range records {
		t := TypeOf(r)
		if !seen[t] {
			seen[t] = true
			types = append(types, t)
		}
	}
	slices.Sort(types)
	return types
}

// TypeOf returns the category used for type filtering.
func TypeOf(r loader.Record) string {
	if r.Type == "" {
		return TypeOther
	}
	return r.Type
}

var sampleRecords = []loader.Record{
	{
		ID:             0,
		Type:           "Adjective",
		Chinese:        "大",
		Pinyin:         "dà",
		English:        "big",
		Example:        "这个苹果很大。",
		ExamplePinyin:  "Zhè ge píngguǒ hěn dà.",
		ExampleEnglish: "This apple is very big.",
		Literal:        "This apple very big.",
	},
	{
		ID:             1,
		Type:           "Adjective",
		Chinese:        "多",
		Pinyin:         "duō",
		English:        "many",
		Example:        "桌子上有很多书。",
		ExamplePinyin:  "Zhuōzi shàng yǒu hěn duō shū.",
		ExampleEnglish: "There are many books on the table.",
		Literal:        "Table on has very many books.",
	},
}

// Sample returns the built-in two record dataset.
func Sample() Dataset {
	return New(slices.Clone(sampleRecords), SourceSample)
}
