// Package session drives a single learner through lessons: hearts, XP,
// streak and the exercise cursor.
package session

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/palemoky/chinese-trainer/internal/answer"
	"github.com/palemoky/chinese-trainer/internal/dataset"
	"github.com/palemoky/chinese-trainer/internal/exercise"
	"github.com/palemoky/chinese-trainer/internal/loader"
	"github.com/palemoky/chinese-trainer/internal/logger"
)

const (
	// MaxHearts is the number of wrong answers a lesson tolerates.
	MaxHearts = 3
	// XPPerCorrect is awarded for every correct answer.
	XPPerCorrect = 10
)

var (
	ErrNoLesson        = errors.New("no lesson in progress")
	ErrAlreadyAnswered = errors.New("current exercise already answered")
	ErrNotAnswered     = errors.New("current exercise not answered yet")
	ErrLessonOver      = errors.New("lesson is over")
)

// Options selects the records and exercise kinds of a new lesson.
type Options struct {
	TypeFilter string          `json:"type"`
	Count      int             `json:"count"`
	Kinds      []exercise.Kind `json:"kinds"`
}

// Snapshot is a read-only view of the trainer state.
type Snapshot struct {
	LessonID string             `json:"lesson_id,omitempty"`
	Position int                `json:"position"`
	Total    int                `json:"total"`
	Hearts   int                `json:"hearts"`
	LessonXP int                `json:"lesson_xp"`
	Answered bool               `json:"answered"`
	Finished bool               `json:"finished"`
	Progress Progress           `json:"progress"`
	Exercise *exercise.Exercise `json:"exercise,omitempty"`
}

// Outcome is the result of answering the current exercise.
type Outcome struct {
	Verdict  exercise.Verdict `json:"verdict"`
	Hearts   int              `json:"hearts"`
	LessonXP int              `json:"lesson_xp"`
	Finished bool             `json:"finished"`
	Progress Progress         `json:"progress"`
}

type lesson struct {
	id        string
	instances []exercise.Instance
	pool      []loader.Record
	cursor    int
	hearts    int
	xp        int
	answered  bool
	finished  bool
	current   *exercise.Exercise
}

// Trainer owns the active dataset, at most one lesson and the running score.
// It is safe for concurrent use.
type Trainer struct {
	mu       sync.Mutex
	data     dataset.Dataset
	scores   ScoreStore
	matcher  answer.Matcher
	rng      *rand.Rand
	progress Progress
	lesson   *lesson
}

// NewTrainer creates a trainer with no dataset. A nil rng seeds one randomly.
func NewTrainer(scores ScoreStore, matcher answer.Matcher, rng *rand.Rand) *Trainer {
	if scores == nil {
		scores = NewMemoryScoreStore()
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Trainer{scores: scores, matcher: matcher, rng: rng}
}

// SetDataset swaps the active dataset, drops any lesson and loads the score
// stored for the new fingerprint.
func (t *Trainer) SetDataset(ctx context.Context, ds dataset.Dataset) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.data = ds
	t.lesson = nil

	p, err := t.scores.LoadProgress(ctx, ds.Fingerprint)
	if err != nil {
		logger.Warn("Failed to load progress",
			zap.String("fingerprint", ds.Fingerprint),
			zap.Error(err),
		)
		p = Progress{}
	}
	t.progress = p
}

// Dataset returns the active dataset.
func (t *Trainer) Dataset() dataset.Dataset {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.data
}

// Progress returns the running score for the active dataset.
func (t *Trainer) Progress() Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.progress
}

// Start generates a new lesson and resets hearts, lesson XP and the cursor.
// When no lesson can be built the previous state is kept and
// exercise.ErrNoData is returned.
func (t *Trainer) Start(_ context.Context, opts Options) (Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	pool := exercise.BuildPool(t.data.Records, opts.TypeFilter)
	instances, err := exercise.GenerateLesson(t.rng, pool, exercise.ClampCount(opts.Count), opts.Kinds)
	if err != nil {
		return Snapshot{}, err
	}

	l := &lesson{
		id:        uuid.NewString(),
		instances: instances,
		pool:      pool,
		hearts:    MaxHearts,
	}
	l.current = exercise.Prepare(t.rng, instances[0], pool)
	t.lesson = l

	logger.Debug("Lesson started",
		zap.String("lesson_id", l.id),
		zap.Int("instances", len(instances)),
		zap.Int("pool", len(pool)),
		zap.String("type", opts.TypeFilter),
	)
	return t.snapshot(), nil
}

// Sprint starts a short review lesson of exercise.SprintCount instances.
func (t *Trainer) Sprint(ctx context.Context, opts Options) (Snapshot, error) {
	opts.Count = exercise.SprintCount
	return t.Start(ctx, opts)
}

// Current returns the state of the lesson in progress.
func (t *Trainer) Current() (Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.lesson == nil {
		return Snapshot{}, ErrNoLesson
	}
	return t.snapshot(), nil
}

// Answer grades a against the current exercise. A correct answer adds XP and
// extends the streak; a wrong one costs a heart and resets the streak. The
// lesson ends when the hearts run out.
func (t *Trainer) Answer(ctx context.Context, a exercise.Answer) (Outcome, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	l := t.lesson
	switch {
	case l == nil:
		return Outcome{}, ErrNoLesson
	case l.finished:
		return Outcome{}, ErrLessonOver
	case l.answered:
		return Outcome{}, ErrAlreadyAnswered
	}

	verdict := l.current.Check(a, t.matcher)
	l.answered = true

	if verdict.Correct {
		t.progress.XP += XPPerCorrect
		t.progress.Streak++
		l.xp += XPPerCorrect
		if err := t.scores.SaveProgress(ctx, t.data.Fingerprint, t.progress); err != nil {
			logger.Warn("Failed to save progress",
				zap.String("fingerprint", t.data.Fingerprint),
				zap.Error(err),
			)
		}
	} else {
		l.hearts--
		t.progress.Streak = 0
		if l.hearts <= 0 {
			l.finished = true
		}
	}

	return Outcome{
		Verdict:  verdict,
		Hearts:   l.hearts,
		LessonXP: l.xp,
		Finished: l.finished,
		Progress: t.progress,
	}, nil
}

// Next moves past an answered exercise. Moving past the last one finishes
// the lesson.
func (t *Trainer) Next() (Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	l := t.lesson
	switch {
	case l == nil:
		return Snapshot{}, ErrNoLesson
	case l.finished:
		return Snapshot{}, ErrLessonOver
	case !l.answered:
		return Snapshot{}, ErrNotAnswered
	}

	t.advance()
	return t.snapshot(), nil
}

// Skip moves on without grading: no XP is awarded and no heart is lost.
func (t *Trainer) Skip() (Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	l := t.lesson
	switch {
	case l == nil:
		return Snapshot{}, ErrNoLesson
	case l.finished:
		return Snapshot{}, ErrLessonOver
	}

	t.advance()
	return t.snapshot(), nil
}

func (t *Trainer) advance() {
	l := t.lesson
	l.answered = false
	if l.cursor >= len(l.instances)-1 {
		l.finished = true
		l.current = nil
		logger.Debug("Lesson finished", zap.String("lesson_id", l.id), zap.Int("lesson_xp", l.xp))
		return
	}
	l.cursor++
	l.current = exercise.Prepare(t.rng, l.instances[l.cursor], l.pool)
}

func (t *Trainer) snapshot() Snapshot {
	s := Snapshot{Progress: t.progress}
	l := t.lesson
	if l == nil {
		return s
	}

	s.LessonID = l.id
	s.Position = l.cursor + 1
	s.Total = len(l.instances)
	s.Hearts = l.hearts
	s.LessonXP = l.xp
	s.Answered = l.answered
	s.Finished = l.finished
	if !l.finished {
		s.Exercise = l.current
	}
	return s
}
