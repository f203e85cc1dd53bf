package session

import (
	"context"
	"sync"
)

// Progress is the running score kept per dataset fingerprint.
type Progress struct {
	XP     int `json:"xp"`
	Streak int `json:"streak"`
}

// ScoreStore persists Progress keyed by dataset fingerprint.
// LoadProgress returns a zero Progress for an unknown fingerprint.
type ScoreStore interface {
	LoadProgress(ctx context.Context, fingerprint string) (Progress, error)
	SaveProgress(ctx context.Context, fingerprint string, p Progress) error
}

// MemoryScoreStore keeps scores in process memory.
type MemoryScoreStore struct {
	mu     sync.RWMutex
	scores map[string]Progress
}

// NewMemoryScoreStore creates an empty in-memory score store.
func NewMemoryScoreStore() *MemoryScoreStore {
	return &MemoryScoreStore{scores: make(map[string]Progress)}
}

func (s *MemoryScoreStore) LoadProgress(_ context.Context, fingerprint string) (Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scores[fingerprint], nil
}

func (s *MemoryScoreStore) SaveProgress(_ context.Context, fingerprint string, p Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores[fingerprint] = p
	return nil
}
