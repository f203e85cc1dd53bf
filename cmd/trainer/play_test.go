package main

import (
	"bytes"
	"context"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/chinese-trainer/internal/answer"
	"github.com/palemoky/chinese-trainer/internal/dataset"
	"github.com/palemoky/chinese-trainer/internal/exercise"
	"github.com/palemoky/chinese-trainer/internal/session"
)

func newSampleTrainer(t *testing.T) *session.Trainer {
	t.Helper()
	trainer := session.NewTrainer(nil, answer.Matcher{}, rand.New(rand.NewPCG(3, 3^0x9e3779b97f4a7c15)))
	trainer.SetDataset(context.Background(), dataset.Sample())
	return trainer
}

func TestParseAnswer(t *testing.T) {
	tests := []struct {
		name string
		ex   *exercise.Exercise
		line string
		want exercise.Answer
	}{
		{
			name: "option number",
			ex:   &exercise.Exercise{Kind: exercise.MatchMeaning, Options: []string{"big", "many"}},
			line: "2",
			want: exercise.Answer{Text: "many"},
		},
		{
			name: "option out of range",
			ex:   &exercise.Exercise{Kind: exercise.MatchMeaning, Options: []string{"big", "many"}},
			line: "3",
			want: exercise.Answer{Text: "3"},
		},
		{
			name: "tone numbers",
			ex:   &exercise.Exercise{Kind: exercise.ProducePhonetic},
			line: "ni3 hao3",
			want: exercise.Answer{Text: "nǐ hǎo"},
		},
		{
			name: "tile keys",
			ex:   &exercise.Exercise{Kind: exercise.ReorderTokens},
			line: "2 0  1",
			want: exercise.Answer{Tiles: []string{"2", "0", "1"}},
		},
		{
			name: "script",
			ex:   &exercise.Exercise{Kind: exercise.ProduceScript},
			line: "大",
			want: exercise.Answer{Text: "大"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseAnswer(tt.ex, tt.line))
		})
	}
}

func TestPlayerSkipsToTheEnd(t *testing.T) {
	trainer := newSampleTrainer(t)
	snap, err := trainer.Start(context.Background(), session.Options{Count: 5, Kinds: exercise.AllKinds})
	require.NoError(t, err)

	var out bytes.Buffer
	p := newPlayer(strings.NewReader(strings.Repeat(":skip\n", snap.Total)), &out, trainer)
	require.NoError(t, p.run(context.Background(), snap))

	assert.Contains(t, out.String(), "[1/4]")
	assert.Contains(t, out.String(), "Lesson complete.")
	assert.Contains(t, out.String(), "total xp 0")
}

func TestPlayerAnswers(t *testing.T) {
	trainer := newSampleTrainer(t)
	snap, err := trainer.Start(context.Background(), session.Options{Count: 5, Kinds: []exercise.Kind{exercise.ProduceScript}})
	require.NoError(t, err)

	var out bytes.Buffer

	// Answer the first exercise correctly, then quit
	p := newPlayer(strings.NewReader(snap.Exercise.Record().Chinese+"\n:quit\n"), &out, trainer)
	require.NoError(t, p.run(context.Background(), snap))

	assert.Contains(t, out.String(), "Correct! +10 xp")
	assert.Contains(t, out.String(), "total xp 10, streak 1")
	assert.NotContains(t, out.String(), "Lesson complete.")
}

func TestPlayerStopsAtEOF(t *testing.T) {
	trainer := newSampleTrainer(t)
	snap, err := trainer.Start(context.Background(), session.Options{Count: 5, Kinds: []exercise.Kind{exercise.ProducePhonetic}})
	require.NoError(t, err)

	var out bytes.Buffer
	p := newPlayer(strings.NewReader("wrong\n"), &out, trainer)
	require.NoError(t, p.run(context.Background(), snap))

	assert.Contains(t, out.String(), "Wrong. Answer:")
	assert.Contains(t, out.String(), "hearts left: 2")
}
