package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/palemoky/chinese-trainer/internal/dataset"
	apierrors "github.com/palemoky/chinese-trainer/internal/errors"
	"github.com/palemoky/chinese-trainer/internal/logger"
	"github.com/palemoky/chinese-trainer/internal/search"
	"github.com/palemoky/chinese-trainer/internal/session"
)

// DatasetHandler handles the active dataset: inspection, upload, reset and search
type DatasetHandler struct {
	service   *dataset.Service
	trainer   *session.Trainer
	maxUpload int64
	cache     ScoreCache
	engines   search.Cache
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(service *dataset.Service, trainer *session.Trainer, maxUpload int64) *DatasetHandler {
	return &DatasetHandler{
		service:   service,
		trainer:   trainer,
		maxUpload: maxUpload,
	}
}

// SetScoreCache makes a dataset reset drop cached scores
func (h *DatasetHandler) SetScoreCache(cache ScoreCache) {
	h.cache = cache
}

// GetDataset returns the source, fingerprint, size and types of the active dataset
func (h *DatasetHandler) GetDataset(c *gin.Context) {
	ds, err := h.service.Active(c.Request.Context())
	if err != nil {
		logger.Error("Failed to resolve dataset", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to load dataset")
		return
	}
	respondOK(c, formatDataset(ds))
}

// UploadDataset ingests the multipart "file" field. An upload without usable
// records leaves the active dataset as it was and reports accepted=false.
func (h *DatasetHandler) UploadDataset(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondAPIError(c, apierrors.TooLarge(h.maxUpload))
			return
		}
		respondError(c, http.StatusBadRequest, "form field 'file' is required")
		return
	}

	f, err := header.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "failed to open upload")
		return
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		respondError(c, http.StatusBadRequest, "failed to read upload")
		return
	}

	log := logger.With(zap.String("file", header.Filename), zap.Int("bytes", len(raw)))

	ctx := c.Request.Context()
	sel, err := h.service.Upload(ctx, raw)
	if err != nil {
		log.Error("Failed to store upload", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to store dataset")
		return
	}
	if sel.Persist {
		h.trainer.SetDataset(ctx, sel.Dataset)
	}
	log.Info("Dataset uploaded",
		zap.Bool("accepted", sel.Persist),
		zap.String("source", string(sel.Dataset.Source)),
		zap.Int("records", sel.Dataset.Len()),
	)

	data := gin.H{
		"accepted": sel.Persist,
		"dataset":  formatDataset(sel.Dataset),
	}
	if sel.UploadStats != nil {
		data["stats"] = formatStats(*sel.UploadStats)
	}
	respondOK(c, data)
}

// ResetDataset forgets the uploaded dataset and falls back to the default file or the sample
func (h *DatasetHandler) ResetDataset(c *gin.Context) {
	ctx := c.Request.Context()
	ds, err := h.service.Reset(ctx)
	if err != nil {
		logger.Error("Failed to reset dataset", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to reset dataset")
		return
	}
	if h.cache != nil {
		h.cache.ClearCache()
	}
	h.trainer.SetDataset(ctx, ds)
	respondOK(c, formatDataset(ds))
}

// ListRecords pages through the active dataset. With ?q= it searches instead,
// narrowed by ?by=chinese|pinyin|english.
func (h *DatasetHandler) ListRecords(c *gin.Context) {
	ds := h.trainer.Dataset()
	pagination := ParsePagination(c)

	query := c.Query("q")
	if query == "" {
		start, end := pagination.Window(ds.Len())
		c.JSON(http.StatusOK, NewPaginationResponse(ds.Records[start:end], pagination, ds.Len()))
		return
	}

	result := h.engines.Engine(ds).Search(search.SearchParams{
		Query:      query,
		SearchType: search.ParseSearchType(c.Query("by")),
		Page:       pagination.Page,
		PageSize:   pagination.PageSize,
	})
	c.JSON(http.StatusOK, NewPaginationResponse(result.Records, pagination, result.TotalCount))
}
