package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/palemoky/chinese-trainer/internal/database"
	"github.com/palemoky/chinese-trainer/internal/dataset"
	apierrors "github.com/palemoky/chinese-trainer/internal/errors"
	"github.com/palemoky/chinese-trainer/internal/logger"
	"github.com/palemoky/chinese-trainer/internal/session"
)

// LibraryStore holds datasets imported by the CLI
type LibraryStore interface {
	ListLibrary(ctx context.Context) ([]database.LibraryDataset, error)
	GetLibraryDataset(ctx context.Context, fingerprint string) (*database.LibraryDataset, error)
	DeleteLibraryDataset(ctx context.Context, fingerprint string) error
}

// LibraryHandler handles imported dataset requests
type LibraryHandler struct {
	store   LibraryStore
	service *dataset.Service
	trainer *session.Trainer
}

// NewLibraryHandler creates a new library handler
func NewLibraryHandler(store LibraryStore, service *dataset.Service, trainer *session.Trainer) *LibraryHandler {
	return &LibraryHandler{
		store:   store,
		service: service,
		trainer: trainer,
	}
}

// ListLibrary retrieves a paginated list of imported datasets
func (h *LibraryHandler) ListLibrary(c *gin.Context) {
	pagination := ParsePagination(c)

	datasets, err := h.store.ListLibrary(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to retrieve library")
		return
	}

	start, end := pagination.Window(len(datasets))
	data := make([]map[string]any, 0, end-start)
	for i := start; i < end; i++ {
		data = append(data, formatLibraryDataset(&datasets[i]))
	}

	c.JSON(http.StatusOK, NewPaginationResponse(data, pagination, len(datasets)))
}

// ActivateDataset makes an imported dataset the active one
func (h *LibraryHandler) ActivateDataset(c *gin.Context) {
	fingerprint, ok := parseFingerprint(c, "fingerprint")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	entry, err := h.store.GetLibraryDataset(ctx, fingerprint)
	if err != nil {
		respondAPIError(c, apierrors.FromDomain(err, "failed to fetch dataset"))
		return
	}

	records, err := entry.DecodeRecords()
	if err != nil {
		logger.Error("Corrupt library dataset", zap.String("fingerprint", fingerprint), zap.Error(err))
		respondAPIError(c, apierrors.Internal("stored dataset is unreadable"))
		return
	}

	ds, err := h.service.Activate(ctx, records)
	if err != nil {
		logger.Error("Failed to activate dataset", zap.String("fingerprint", fingerprint), zap.Error(err))
		respondAPIError(c, apierrors.Internal("failed to activate dataset"))
		return
	}
	h.trainer.SetDataset(ctx, ds)

	respondOK(c, formatDataset(ds))
}

// DeleteDataset removes an imported dataset. The active dataset is left alone,
// even when it was activated from this entry.
func (h *LibraryHandler) DeleteDataset(c *gin.Context) {
	fingerprint, ok := parseFingerprint(c, "fingerprint")
	if !ok {
		return
	}

	if err := h.store.DeleteLibraryDataset(c.Request.Context(), fingerprint); err != nil {
		respondAPIError(c, apierrors.FromDomain(err, "failed to delete dataset"))
		return
	}

	logger.Info("Deleted library dataset", zap.String("fingerprint", fingerprint))
	c.Status(http.StatusNoContent)
}
