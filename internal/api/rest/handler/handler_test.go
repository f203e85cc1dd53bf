package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math/rand/v2"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/chinese-trainer/internal/answer"
	"github.com/palemoky/chinese-trainer/internal/database"
	"github.com/palemoky/chinese-trainer/internal/dataset"
	"github.com/palemoky/chinese-trainer/internal/session"
	"github.com/palemoky/chinese-trainer/internal/testutil"
)

// env bundles the services behind the handlers under test.
type env struct {
	db      *database.DB
	repo    *database.Repository
	service *dataset.Service
	trainer *session.Trainer
	speaker *recordingSpeaker
}

func setupEnv(t *testing.T) *env {
	t.Helper()

	db, repo := testutil.SetupTestDB(t)
	service := dataset.NewService(repo, "")
	trainer := session.NewTrainer(repo, answer.Matcher{}, rand.New(rand.NewPCG(7, 7^0x9e3779b97f4a7c15)))

	ctx := context.Background()
	ds, err := service.Active(ctx)
	require.NoError(t, err)
	trainer.SetDataset(ctx, ds)

	return &env{db: db, repo: repo, service: service, trainer: trainer, speaker: &recordingSpeaker{}}
}

type recordingSpeaker struct {
	mu    sync.Mutex
	texts []string
}

func (s *recordingSpeaker) Speak(_ context.Context, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts = append(s.texts, text)
}

func (s *recordingSpeaker) spoken() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.texts...)
}

func performRequest(r http.Handler, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func performJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	if body == "" {
		return performRequest(r, method, path, nil, "")
	}
	return performRequest(r, method, path, strings.NewReader(body), "application/json")
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	data, ok := decode(t, w)["data"].(map[string]any)
	require.True(t, ok, "response has no data object: %s", w.Body.String())
	return data
}

func multipartUpload(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func newRouter() *gin.Engine {
	return testutil.SetupTestGin()
}
