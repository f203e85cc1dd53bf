package dataset

import (
	"context"
	"slices"
	"sync"

	"github.com/palemoky/chinese-trainer/internal/loader"
)

// SnapshotStore persists the most recently uploaded record list.
// LoadSnapshot returns nil records when nothing is stored.
type SnapshotStore interface {
	LoadSnapshot(ctx context.Context) ([]loader.Record, error)
	SaveSnapshot(ctx context.Context, records []loader.Record) error
	ClearSnapshot(ctx context.Context) error
}

// MemorySnapshotStore keeps the snapshot in process memory.
type MemorySnapshotStore struct {
	mu      sync.RWMutex
	records []loader.Record
}

// NewMemorySnapshotStore creates an empty in-memory snapshot store.
func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{}
}

func (s *MemorySnapshotStore) LoadSnapshot(_ context.Context) ([]loader.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.records), nil
}

func (s *MemorySnapshotStore) SaveSnapshot(_ context.Context, records []loader.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = slices.Clone(records)
	return nil
}

func (s *MemorySnapshotStore) ClearSnapshot(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	return nil
}
