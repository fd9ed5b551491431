package bikeroute

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// defaultTileCacheCapacity is the target tile cache size from §4.2.
const defaultTileCacheCapacity = 200

// tileCache is a bounded cache of parsed tiles, shared read-only across the
// forward and backward expansions of a single query (§4.2, §5). Eviction is
// FIFO on insertion order: the underlying hashicorp/golang-lru/v2.Cache is
// only ever read through Peek, never Get, so recency never changes from
// insertion order and its least-recently-used eviction degenerates exactly
// to FIFO — adequate because the search's working set is spatially local.
type tileCache struct {
	tilesRoot string

	mu    sync.Mutex
	cache *lru.Cache[uint32, *Tile]
}

func newTileCache(tilesRoot string, capacity int) (*tileCache, error) {
	if capacity <= 0 {
		capacity = defaultTileCacheCapacity
	}
	c, err := lru.New[uint32, *Tile](capacity)
	if err != nil {
		return nil, fmt.Errorf("%w: tile cache: %v", ErrAllocationFailure, err)
	}
	return &tileCache{tilesRoot: tilesRoot, cache: c}, nil
}

// Get returns the parsed tile for id, loading and parsing it on miss.
// Malformed or missing tiles propagate their error to the caller; the
// caller decides whether that is fatal (origin/destination tile) or
// degrades to "edge unusable" (a neighbour tile discovered mid-search,
// §7).
func (c *tileCache) Get(id uint32) (*Tile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t, ok := c.cache.Peek(id); ok {
		return t, nil
	}

	raw, err := loadTileBytes(c.tilesRoot, id)
	if err != nil {
		return nil, err
	}
	t, err := parseTile(id, raw)
	if err != nil {
		return nil, err
	}

	c.cache.Add(id, t)
	return t, nil
}

// Len reports the number of resident tiles, exposed for diagnostics
// (internal/diagserver) and tests.
func (c *tileCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Len()
}
