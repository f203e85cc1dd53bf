package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/chinese-trainer/internal/database"
	"github.com/palemoky/chinese-trainer/internal/dataset"
	"github.com/palemoky/chinese-trainer/internal/testutil"
)

func setupLibraryRouter(t *testing.T) (*gin.Engine, *env, string) {
	e := setupEnv(t)

	records := testutil.Records()
	data, err := database.EncodeRecords(records)
	require.NoError(t, err)

	fingerprint := dataset.Fingerprint(records)
	require.NoError(t, e.repo.UpsertLibraryDataset(context.Background(), &database.LibraryDataset{
		Fingerprint: fingerprint,
		Name:        "starter",
		Path:        "vocab/starter.csv",
		Delimiter:   "comma",
		RecordCount: len(records),
		Records:     data,
	}))

	h := NewLibraryHandler(e.repo, e.service, e.trainer)
	router := newRouter()
	router.GET("/library", h.ListLibrary)
	router.DELETE("/library/:fingerprint", h.DeleteDataset)
	router.POST("/library/:fingerprint/activate", h.ActivateDataset)
	return router, e, fingerprint
}

func TestListLibrary(t *testing.T) {
	router, _, fingerprint := setupLibraryRouter(t)

	w := performJSON(router, http.MethodGet, "/library", "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	items, ok := resp["data"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)

	item := items[0].(map[string]any)
	assert.Equal(t, fingerprint, item["fingerprint"])
	assert.Equal(t, "starter", item["name"])
	assert.Equal(t, "vocab/starter.csv", item["path"])
	assert.EqualValues(t, 4, item["record_count"])
	assert.NotContains(t, item, "records")

	pagination := resp["pagination"].(map[string]any)
	assert.EqualValues(t, 1, pagination["total"])
	assert.EqualValues(t, 1, pagination["total_pages"])
}

func TestActivateDataset(t *testing.T) {
	router, e, fingerprint := setupLibraryRouter(t)

	tests := []struct {
		name        string
		fingerprint string
		wantStatus  int
		wantCode    string
	}{
		{name: "invalid fingerprint", fingerprint: "not-hex!", wantStatus: http.StatusBadRequest, wantCode: "INVALID_ID"},
		{name: "uppercase fingerprint", fingerprint: "ABCDEF12", wantStatus: http.StatusBadRequest, wantCode: "INVALID_ID"},
		{name: "unknown fingerprint", fingerprint: "00000000", wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "activate", fingerprint: fingerprint, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performJSON(router, http.MethodPost, "/library/"+tt.fingerprint+"/activate", "")
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())

			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decode(t, w)["code"])
				assert.Equal(t, "cbae2d89", e.trainer.Dataset().Fingerprint)
				return
			}

			data := decodeData(t, w)
			assert.Equal(t, fingerprint, data["fingerprint"])
			assert.EqualValues(t, 4, data["count"])
			assert.Equal(t, fingerprint, e.trainer.Dataset().Fingerprint)
		})
	}

	// The activated dataset survives a restart through the snapshot
	restarted := dataset.NewService(e.repo, "")
	ds, err := restarted.Active(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fingerprint, ds.Fingerprint)
}

func TestDeleteDataset(t *testing.T) {
	router, e, fingerprint := setupLibraryRouter(t)

	tests := []struct {
		name        string
		fingerprint string
		wantStatus  int
		wantCode    string
	}{
		{name: "invalid fingerprint", fingerprint: "not-hex!", wantStatus: http.StatusBadRequest, wantCode: "INVALID_ID"},
		{name: "delete", fingerprint: fingerprint, wantStatus: http.StatusNoContent},
		{name: "already deleted", fingerprint: fingerprint, wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performJSON(router, http.MethodDelete, "/library/"+tt.fingerprint, "")
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decode(t, w)["code"])
			}
		})
	}

	count, err := e.repo.CountLibrary(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)

	w := performJSON(router, http.MethodPost, "/library/"+fingerprint+"/activate", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "cbae2d89", e.trainer.Dataset().Fingerprint)
}
