package exercise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/chinese-trainer/internal/loader"
)

func TestGenerateLesson(t *testing.T) {
	tests := []struct {
		name      string
		pool      []loader.Record
		requested int
		kinds     []Kind
		wantLen   int
		wantErr   error
	}{
		{"capped at twice the pool", samplePool(), 10, AllKinds, 4, nil},
		{"requested below cap", widePool(20), 10, AllKinds, 10, nil},
		{"maximum count", widePool(20), 50, []Kind{MatchMeaning}, 40, nil},
		{"empty pool", nil, 10, AllKinds, 0, ErrNoData},
		{"no kinds", samplePool(), 10, nil, 0, ErrNoData},
		{"zero requested", samplePool(), 0, AllKinds, 0, ErrNoData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lesson, err := GenerateLesson(newRand(1), tt.pool, tt.requested, tt.kinds)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, lesson)
				return
			}
			require.NoError(t, err)
			assert.Len(t, lesson, tt.wantLen)
			for _, inst := range lesson {
				assert.Contains(t, tt.kinds, inst.Kind)
				assert.Contains(t, tt.pool, inst.Record)
			}
		})
	}
}

func TestGenerateLessonIsSeedable(t *testing.T) {
	pool := widePool(10)
	first, err := GenerateLesson(newRand(99), pool, 10, AllKinds)
	require.NoError(t, err)
	second, err := GenerateLesson(newRand(99), pool, 10, AllKinds)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestClampCount(t *testing.T) {
	tests := []struct {
		input int
		want  int
	}{
		{0, DefaultCount},
		{1, MinCount},
		{-3, MinCount},
		{5, 5},
		{17, 17},
		{50, 50},
		{500, MaxCount},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampCount(tt.input), "ClampCount(%d)", tt.input)
	}
}

func TestBuildPool(t *testing.T) {
	records := []loader.Record{
		{ID: 0, Type: "Adjective", Chinese: "大", English: "big"},
		{ID: 1, Type: "", Chinese: "书", English: "book"},
		{ID: 2, Type: "Verb", Chinese: "吃", English: "eat"},
		{ID: 3, Type: "Adjective", Chinese: "多", English: "many"},
	}

	tests := []struct {
		filter  string
		wantIDs []int
	}{
		{"All", []int{0, 1, 2, 3}},
		{"", []int{0, 1, 2, 3}},
		{"Adjective", []int{0, 3}},
		{"Other", []int{1}},
		{"adjective", nil},
		{"Noun", nil},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			var ids []int
			for _, r := range BuildPool(records, tt.filter) {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}
