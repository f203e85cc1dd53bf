package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleScript maps the English prompts of the sample dataset to their hanzi.
var sampleScript = map[string]string{"big": "大", "many": "多"}

func setupLessonRouter(t *testing.T) (*gin.Engine, *env) {
	e := setupEnv(t)
	h := NewLessonHandler(e.trainer, e.speaker, 10)

	router := newRouter()
	router.POST("/lessons", h.StartLesson)
	router.POST("/lessons/sprint", h.StartSprint)
	router.GET("/lessons/current", h.CurrentLesson)
	router.POST("/lessons/current/answer", h.AnswerExercise)
	router.POST("/lessons/current/skip", h.SkipExercise)
	router.POST("/lessons/current/next", h.NextExercise)
	router.GET("/progress", h.GetProgress)
	return router, e
}

func currentPrompt(t *testing.T, snap map[string]any) string {
	t.Helper()
	ex, ok := snap["exercise"].(map[string]any)
	require.True(t, ok, "snapshot has no exercise")
	return ex["prompt"].(string)
}

func TestStartLesson(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantTotal  float64
		wantCode   string
	}{
		{
			name:       "defaults",
			path:       "/lessons",
			wantStatus: http.StatusOK,
			wantTotal:  4,
		},
		{
			name:       "script only",
			path:       "/lessons",
			body:       `{"type":"Adjective","count":5,"kinds":["produce_script"]}`,
			wantStatus: http.StatusOK,
			wantTotal:  4,
		},
		{
			name:       "sprint",
			path:       "/lessons/sprint",
			body:       `{"kinds":["match_meaning"]}`,
			wantStatus: http.StatusOK,
			wantTotal:  4,
		},
		{
			name:       "no kinds",
			path:       "/lessons",
			body:       `{"kinds":[]}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "NO_DATA",
		},
		{
			name:       "type without records",
			path:       "/lessons",
			body:       `{"type":"Verb"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "NO_DATA",
		},
		{
			name:       "unknown kind",
			path:       "/lessons",
			body:       `{"kinds":["dictation"]}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body",
			path:       "/lessons",
			body:       `{"count":`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := setupLessonRouter(t)

			w := performJSON(router, http.MethodPost, tt.path, tt.body)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())

			if tt.wantStatus != http.StatusOK {
				if tt.wantCode != "" {
					assert.Equal(t, tt.wantCode, decode(t, w)["code"])
				}
				return
			}

			snap := decodeData(t, w)
			assert.Equal(t, tt.wantTotal, snap["total"])
			assert.EqualValues(t, 1, snap["position"])
			assert.EqualValues(t, 3, snap["hearts"])
			assert.NotEmpty(t, snap["lesson_id"])
		})
	}
}

func TestStartLessonFailureKeepsLesson(t *testing.T) {
	router, _ := setupLessonRouter(t)

	w := performJSON(router, http.MethodPost, "/lessons", `{"kinds":["produce_script"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	lessonID := decodeData(t, w)["lesson_id"]

	w = performJSON(router, http.MethodPost, "/lessons", `{"type":"Verb"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = performJSON(router, http.MethodGet, "/lessons/current", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, lessonID, decodeData(t, w)["lesson_id"])
}

func TestLessonFlow(t *testing.T) {
	router, e := setupLessonRouter(t)

	w := performJSON(router, http.MethodGet, "/lessons/current", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performJSON(router, http.MethodPost, "/lessons", `{"kinds":["produce_script"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	snap := decodeData(t, w)
	total := int(snap["total"].(float64))

	// Script exercises do not speak their target
	assert.Empty(t, e.speaker.spoken())

	w = performJSON(router, http.MethodPost, "/lessons/current/next", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	for i := range total {
		w = performJSON(router, http.MethodGet, "/lessons/current", "")
		require.Equal(t, http.StatusOK, w.Code)
		prompt := currentPrompt(t, decodeData(t, w))

		body := fmt.Sprintf(`{"text":%q}`, sampleScript[prompt])
		w = performJSON(router, http.MethodPost, "/lessons/current/answer", body)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		outcome := decodeData(t, w)
		verdict := outcome["verdict"].(map[string]any)
		assert.Equal(t, true, verdict["correct"])
		assert.EqualValues(t, (i+1)*10, outcome["lesson_xp"])

		w = performJSON(router, http.MethodPost, "/lessons/current/answer", body)
		assert.Equal(t, http.StatusConflict, w.Code)

		w = performJSON(router, http.MethodPost, "/lessons/current/next", "")
		require.Equal(t, http.StatusOK, w.Code)
	}

	w = performJSON(router, http.MethodGet, "/lessons/current", "")
	require.Equal(t, http.StatusOK, w.Code)
	snap = decodeData(t, w)
	assert.Equal(t, true, snap["finished"])
	assert.NotContains(t, snap, "exercise")

	w = performJSON(router, http.MethodPost, "/lessons/current/skip", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = performJSON(router, http.MethodGet, "/progress", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "cbae2d89", data["fingerprint"])
	progress := data["progress"].(map[string]any)
	assert.EqualValues(t, total*10, progress["xp"])
	assert.EqualValues(t, total, progress["streak"])
}

func TestLessonWrongAnswersEndLesson(t *testing.T) {
	router, _ := setupLessonRouter(t)

	w := performJSON(router, http.MethodPost, "/lessons", `{"kinds":["produce_script"]}`)
	require.Equal(t, http.StatusOK, w.Code)

	for hearts := 2; hearts >= 0; hearts-- {
		w = performJSON(router, http.MethodPost, "/lessons/current/answer", `{"text":"错"}`)
		require.Equal(t, http.StatusOK, w.Code)
		outcome := decodeData(t, w)
		assert.EqualValues(t, hearts, outcome["hearts"])
		assert.Equal(t, hearts == 0, outcome["finished"])

		if hearts > 0 {
			require.Equal(t, http.StatusOK, performJSON(router, http.MethodPost, "/lessons/current/next", "").Code)
		}
	}

	w = performJSON(router, http.MethodPost, "/lessons/current/answer", `{"text":"大"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSkipExerciseSpeaks(t *testing.T) {
	router, e := setupLessonRouter(t)

	w := performJSON(router, http.MethodPost, "/lessons", `{"kinds":["produce_phonetic"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	first := currentPrompt(t, decodeData(t, w))

	w = performJSON(router, http.MethodPost, "/lessons/current/skip", "")
	require.Equal(t, http.StatusOK, w.Code)
	snap := decodeData(t, w)
	assert.EqualValues(t, 2, snap["position"])
	assert.EqualValues(t, 0, snap["lesson_xp"])
	assert.EqualValues(t, 3, snap["hearts"])

	spoken := e.speaker.spoken()
	require.Len(t, spoken, 2)
	assert.Equal(t, first, spoken[0])
	assert.Equal(t, currentPrompt(t, snap), spoken[1])
}

func TestAnswerExerciseBadBody(t *testing.T) {
	router, _ := setupLessonRouter(t)

	require.Equal(t, http.StatusOK, performJSON(router, http.MethodPost, "/lessons", "").Code)

	w := performJSON(router, http.MethodPost, "/lessons/current/answer", `{"tiles":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
