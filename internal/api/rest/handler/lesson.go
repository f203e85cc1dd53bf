package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/palemoky/chinese-trainer/internal/audio"
	"github.com/palemoky/chinese-trainer/internal/exercise"
	"github.com/palemoky/chinese-trainer/internal/helpers"
	"github.com/palemoky/chinese-trainer/internal/session"
)

// LessonHandler handles lesson requests against the single trainer session
type LessonHandler struct {
	trainer      *session.Trainer
	speaker      audio.Speaker
	defaultCount int
}

// NewLessonHandler creates a new lesson handler. A nil speaker stays silent.
func NewLessonHandler(trainer *session.Trainer, speaker audio.Speaker, defaultCount int) *LessonHandler {
	if speaker == nil {
		speaker = audio.NopSpeaker{}
	}
	return &LessonHandler{
		trainer:      trainer,
		speaker:      speaker,
		defaultCount: defaultCount,
	}
}

// startRequest is the body of POST /lessons. Omitted kinds enable all of them.
type startRequest struct {
	Type  string   `json:"type"`
	Count int      `json:"count"`
	Kinds []string `json:"kinds"`
}

// StartLesson starts a lesson over the active dataset
func (h *LessonHandler) StartLesson(c *gin.Context) {
	h.start(c, h.trainer.Start)
}

// StartSprint starts a short review lesson
func (h *LessonHandler) StartSprint(c *gin.Context) {
	h.start(c, h.trainer.Sprint)
}

func (h *LessonHandler) start(c *gin.Context, begin func(ctx context.Context, opts session.Options) (session.Snapshot, error)) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, http.StatusBadRequest, "invalid lesson request")
		return
	}

	opts, err := helpers.LessonOptions(req.Type, req.Count, req.Kinds, h.defaultCount)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := begin(c.Request.Context(), opts)
	if err != nil {
		respondLessonError(c, err)
		return
	}
	h.speak(c, snap)
	respondOK(c, snap)
}

// CurrentLesson returns the lesson in progress
func (h *LessonHandler) CurrentLesson(c *gin.Context) {
	snap, err := h.trainer.Current()
	if err != nil {
		respondLessonError(c, err)
		return
	}
	respondOK(c, snap)
}

// AnswerExercise grades the current exercise
func (h *LessonHandler) AnswerExercise(c *gin.Context) {
	var a exercise.Answer
	if err := c.ShouldBindJSON(&a); err != nil {
		respondError(c, http.StatusBadRequest, "invalid answer")
		return
	}

	outcome, err := h.trainer.Answer(c.Request.Context(), a)
	if err != nil {
		respondLessonError(c, err)
		return
	}
	respondOK(c, outcome)
}

// NextExercise moves past an answered exercise
func (h *LessonHandler) NextExercise(c *gin.Context) {
	h.move(c, h.trainer.Next)
}

// SkipExercise moves on without grading
func (h *LessonHandler) SkipExercise(c *gin.Context) {
	h.move(c, h.trainer.Skip)
}

func (h *LessonHandler) move(c *gin.Context, step func() (session.Snapshot, error)) {
	snap, err := step()
	if err != nil {
		respondLessonError(c, err)
		return
	}
	h.speak(c, snap)
	respondOK(c, snap)
}

// GetProgress returns XP and streak for the active dataset
func (h *LessonHandler) GetProgress(c *gin.Context) {
	respondOK(c, gin.H{
		"fingerprint": h.trainer.Dataset().Fingerprint,
		"progress":    h.trainer.Progress(),
	})
}

// speak requests playback of the newly presented exercise.
func (h *LessonHandler) speak(c *gin.Context, snap session.Snapshot) {
	if snap.Exercise == nil || snap.Exercise.Speak == "" {
		return
	}
	h.speaker.Speak(c.Request.Context(), snap.Exercise.Speak)
}
