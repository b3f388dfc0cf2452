package services

import (
	"sync"

	"inkpress/models"
)

// ManuscriptCache is a read-through cache keyed by manuscript id. It is
// filled on reads and invalidated on every successful transition; nothing
// mutates a cached value in place.
type ManuscriptCache struct {
	mu      sync.RWMutex
	entries map[uint]models.Manuscript
}

func NewManuscriptCache() *ManuscriptCache {
	return &ManuscriptCache{entries: make(map[uint]models.Manuscript)}
}

func (c *ManuscriptCache) Get(id uint) (*models.Manuscript, bool) {
	c.mu.RLock()
	entry, ok := c.entries[id]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	copied := entry
	return &copied, true
}

func (c *ManuscriptCache) Put(manuscript *models.Manuscript) {
	c.mu.Lock()
	c.entries[manuscript.ID] = *manuscript
	c.mu.Unlock()
}

func (c *ManuscriptCache) Invalidate(id uint) {
	c.mu.Lock()
	delete(c.entries, id)
	c.mu.Unlock()
}
