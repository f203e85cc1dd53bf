package dataset

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/chinese-trainer/internal/loader"
)

var hex8 = regexp.MustCompile(`^[0-9a-f]{8}$`)

func TestIngest(t *testing.T) {
	ds, stats := Ingest([]byte("chinese,pinyin,english\n大,dà,big\n"), SourceUploaded)

	require.Equal(t, 1, ds.Len())
	assert.Equal(t, loader.Record{ID: 0, Chinese: "大", Pinyin: "dà", English: "big"}, ds.Records[0])
	assert.Equal(t, SourceUploaded, ds.Source)
	assert.Equal(t, "90d40ecd", ds.Fingerprint)
	assert.Equal(t, 1, stats.Records)
}

func TestIngestEmpty(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{"nil", nil},
		{"empty", []byte{}},
		{"bom only", []byte("\xEF\xBB\xBF")},
		{"no matching headers", []byte("foo,bar\n1,2\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, _ := Ingest(tt.input, SourceUploaded)
			assert.True(t, ds.Empty())
			assert.Equal(t, "97d170e1", ds.Fingerprint)
		})
	}
}

func TestIngestIsIdempotent(t *testing.T) {
	raw := []byte("Type\tHanzi\tPinyin\tMeaning\nAdjective\t大\tdà\tbig\nAdjective\t多\tduō\tmany\n")

	first, _ := Ingest(raw, SourceUploaded)
	second, _ := Ingest(raw, SourceUploaded)

	assert.Equal(t, first.Fingerprint, second.Fingerprint)
	assert.Equal(t, first.Records, second.Records)
}

func TestFingerprint(t *testing.T) {
	sample := Sample()
	assert.Equal(t, "cbae2d89", sample.Fingerprint)
	assert.Regexp(t, hex8, sample.Fingerprint)

	changed := Sample().Records
	changed[1].English = "much"
	assert.NotEqual(t, sample.Fingerprint, Fingerprint(changed))

	assert.Equal(t, Fingerprint(nil), Fingerprint([]loader.Record{}))
}

func TestSample(t *testing.T) {
	ds := Sample()

	require.Equal(t, 2, ds.Len())
	assert.Equal(t, SourceSample, ds.Source)
	assert.Equal(t, "大", ds.Records[0].Chinese)
	assert.Equal(t, "big", ds.Records[0].English)
	assert.Equal(t, "多", ds.Records[1].Chinese)
	assert.Equal(t, "many", ds.Records[1].English)

	// Mutating a returned sample must not leak into the next call.
	ds.Records[0].English = "changed"
	assert.Equal(t, "big", Sample().Records[0].English)
}

func TestTypes(t *testing.T) {
	records := []loader.Record{
		{Type: "Verb"},
		{Type: "Adjective"},
		{Type: ""},
		{Type: "Verb"},
	}

	assert.Equal(t, []string{"Adjective", "All", "Other", "Verb"}, Types(records))
	assert.Equal(t, []string{"All"}, Types(nil))
}
