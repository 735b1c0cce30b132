package repo

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/simplelru"
	"github.com/yourname/fileshare_lite/internal/models"
)

// DefaultCapacity is the number of selections kept when no capacity is configured.
const DefaultCapacity = 100

// SelectionCache keeps the most recently used selections in memory.
// One mutex guards the map and recency list; nothing under it touches the disk.
type SelectionCache struct {
	mu  sync.Mutex
	lru *simplelru.LRU[string, models.Selection]
}

// NewSelectionCache creates a cache holding at most capacity selections.
// onEvict, if set, is called with the id of every entry dropped for space.
func NewSelectionCache(capacity int, onEvict func(id string)) (*SelectionCache, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("selection cache capacity must be positive, got %d", capacity)
	}

	var cb simplelru.EvictCallback[string, models.Selection]
	if onEvict != nil {
		cb = func(id string, _ models.Selection) { onEvict(id) }
	}

	l, err := simplelru.NewLRU[string, models.Selection](capacity, cb)
	if err != nil {
		return nil, err
	}

	return &SelectionCache{lru: l}, nil
}

// Insert stores files under a fresh id, evicting the least recently used
// selection when the cache is full.
func (c *SelectionCache) Insert(files []string) models.Selection {
	sel := models.Selection{ID: uuid.NewString(), Files: files}.Clone()
	if sel.Files == nil {
		sel.Files = []string{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(sel.ID, sel)

	return sel.Clone()
}

// Lookup returns a copy of the selection and marks it most recently used.
func (c *SelectionCache) Lookup(id string) (models.Selection, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sel, ok := c.lru.Get(id)
	if !ok {
		return models.Selection{}, false
	}
	return sel.Clone(), true
}

// Len returns the number of cached selections.
func (c *SelectionCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
