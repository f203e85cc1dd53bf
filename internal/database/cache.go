package database

import (
	"context"
	"sync"

	"github.com/palemoky/chinese-trainer/internal/session"
)

// CachedRepository wraps Repository with a write-through progress cache
type CachedRepository struct {
	*Repository

	progressCache   map[string]session.Progress
	progressCacheMu sync.RWMutex
}

// NewCachedRepository creates a new cached repository
func NewCachedRepository(repo *Repository) *CachedRepository {
	return &CachedRepository{
		Repository:    repo,
		progressCache: make(map[string]session.Progress),
	}
}

// LoadProgress gets the score for a fingerprint with caching
func (r *CachedRepository) LoadProgress(ctx context.Context, fingerprint string) (session.Progress, error) {
	// Try to get from cache first
	r.progressCacheMu.RLock()
	if p, ok := r.progressCache[fingerprint]; ok {
		r.progressCacheMu.RUnlock()
		return p, nil
	}
	r.progressCacheMu.RUnlock()

	// Not in cache, get from database
	p, err := r.Repository.LoadProgress(ctx, fingerprint)
	if err != nil {
		return session.Progress{}, err
	}

	r.progressCacheMu.Lock()
	r.progressCache[fingerprint] = p
	r.progressCacheMu.Unlock()

	return p, nil
}

// SaveProgress writes the score to the database, then to the cache
func (r *CachedRepository) SaveProgress(ctx context.Context, fingerprint string, p session.Progress) error {
	if err := r.Repository.SaveProgress(ctx, fingerprint, p); err != nil {
		return err
	}

	r.progressCacheMu.Lock()
	r.progressCache[fingerprint] = p
	r.progressCacheMu.Unlock()

	return nil
}

// ClearCache clears all caches
func (r *CachedRepository) ClearCache() {
	r.progressCacheMu.Lock()
	r.progressCache = make(map[string]session.Progress)
	r.progressCacheMu.Unlock()
}

// GetCacheStats returns statistics about cache usage
func (r *CachedRepository) GetCacheStats() map[string]int {
	r.progressCacheMu.RLock()
	progressCount := len(r.progressCache)
	r.progressCacheMu.RUnlock()

	return map[string]int{
		"progress": progressCount,
	}
}
