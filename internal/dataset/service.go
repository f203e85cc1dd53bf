package dataset

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/palemoky/chinese-trainer/internal/loader"
	"github.com/palemoky/chinese-trainer/internal/logger"
)

// Service owns the active dataset of the single training session.
type Service struct {
	mu          sync.Mutex
	store       SnapshotStore
	defaultFile string
	active      *Dataset
}

// NewService creates a dataset service. defaultFile may be empty.
func NewService(store SnapshotStore, defaultFile string) *Service {
	return &Service{store: store, defaultFile: defaultFile}
}

// Active returns the current dataset, resolving it on first use.
func (s *Service) Active(ctx context.Context) (Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		return *s.active, nil
	}

	sel, err := s.resolve(ctx, nil)
	if err != nil {
		return Dataset{}, err
	}
	return sel.Dataset, nil
}

// Upload ingests raw bytes. When they yield at least one record the result
// becomes the active dataset and is persisted; otherwise the previous
// precedence applies and Selection.Persist is false.
func (s *Service) Upload(ctx context.Context, raw []byte) (Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if raw == nil {
		raw = []byte{}
	}
	sel, err := s.resolve(ctx, raw)
	if err != nil {
		return Selection{}, err
	}

	if sel.UploadStats != nil {
		logger.Debug("Parsed upload",
			zap.String("delimiter", loader.DelimiterName(sel.UploadStats.Delimiter)),
			zap.Strings("mapped", sel.UploadStats.MappedNames()),
			zap.Int("rows", sel.UploadStats.Rows),
			zap.Int("blank", sel.UploadStats.Blank),
			zap.Int("dropped", sel.UploadStats.Dropped),
			zap.Int("malformed", sel.UploadStats.Malformed),
			zap.Int("records", sel.UploadStats.Records),
		)
	}
	return sel, nil
}

// Reset clears the stored snapshot and falls back to the default file or the sample.
func (s *Service) Reset(ctx context.Context) (Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.ClearSnapshot(ctx); err != nil {
		return Dataset{}, fmt.Errorf("failed to clear snapshot: %w", err)
	}
	s.active = nil

	sel, err := s.resolve(ctx, nil)
	if err != nil {
		return Dataset{}, err
	}
	return sel.Dataset, nil
}

// Activate makes an already normalized record list the active dataset and
// persists it like an upload.
func (s *Service) Activate(ctx context.Context, records []loader.Record) (Dataset, error) {
	if len(records) == 0 {
		return Dataset{}, fmt.Errorf("cannot activate an empty record list")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.SaveSnapshot(ctx, records); err != nil {
		return Dataset{}, fmt.Errorf("failed to save snapshot: %w", err)
	}

	ds := New(records, SourceUploaded)
	s.active = &ds
	logger.Info("Activated dataset", zap.String("fingerprint", ds.Fingerprint), zap.Int("records", ds.Len()))
	return ds, nil
}

// resolve runs the precedence function and caches the winner. Callers hold mu.
func (s *Service) resolve(ctx context.Context, uploaded []byte) (Selection, error) {
	stored, err := s.store.LoadSnapshot(ctx)
	if err != nil {
		return Selection{}, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var defaultFile []byte
	if s.defaultFile != "" {
		data, ok, err := loader.ReadFile(s.defaultFile)
		if err != nil {
			logger.Warn("Failed to read default dataset file", zap.String("path", s.defaultFile), zap.Error(err))
		} else if ok {
			defaultFile = data
		}
	}

	sel := Select(Sources{Uploaded: uploaded, Stored: stored, DefaultFile: defaultFile})
	if sel.Persist {
		if err := s.store.SaveSnapshot(ctx, sel.Dataset.Records); err != nil {
			return Selection{}, fmt.Errorf("failed to save snapshot: %w", err)
		}
	}

	s.active = &sel.Dataset
	logger.Debug("Selected dataset",
		zap.String("source", string(sel.Dataset.Source)),
		zap.String("fingerprint", sel.Dataset.Fingerprint),
		zap.Int("records", sel.Dataset.Len()),
	)
	return sel, nil
}
