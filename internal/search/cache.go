package search

import (
	"sync"

	"github.com/palemoky/chinese-trainer/internal/dataset"
)

// Cache keeps the index of the most recently searched dataset
type Cache struct {
	mu          sync.Mutex
	engine      *Engine
	fingerprint string
}

// Engine returns an index of ds, rebuilding it when the fingerprint changed
func (c *Cache) Engine(ds dataset.Dataset) *Engine {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.engine == nil || c.fingerprint != ds.Fingerprint {
		c.engine = NewEngine(ds.Records)
		c.fingerprint = ds.Fingerprint
	}
	return c.engine
}
