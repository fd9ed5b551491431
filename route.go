package bikeroute

import (
	"context"
	"sync"
)

// LatLon is one point of a reconstructed route (§6 output: "a sequence of
// (lat, lon) pairs, origin-first").
type LatLon struct {
	Lat float64
	Lon float64
}

// RouteRequest is the engine's invocation surface (§6). Only the four
// coordinates are required; the remaining options are optional pointers so
// callers (notably the CLI, via gotidy/ptr) can distinguish "not supplied"
// from an explicit zero value. Unset options fall back to DefaultProfile's
// values.
type RouteRequest struct {
	OriginLat float64
	OriginLon float64
	DestLat   float64
	DestLon   float64

	BicycleType  *int
	UseRoads     *float64
	AvoidPushing *bool
	AvoidCars    *bool

	// VisitedTableSize overrides the production visited-map size (§4.5);
	// zero means use the default. Exists for tests and small deployments,
	// not part of the documented invocation surface.
	VisitedTableSize int
}

// RouteResult is the engine's output (§6): the reconstructed path as
// (lat, lon) pairs, the four traffic-exposure distance totals, and the
// total route distance.
type RouteResult struct {
	Path            []LatLon
	Stats           Stats
	TotalDistanceKM float64
	Iterations      int
}

// profile builds the effective RiderProfile for this request, applying
// DefaultProfile's values (§6) to any option left unset.
func (r RouteRequest) profile() RiderProfile {
	p := DefaultProfile()
	if r.BicycleType != nil {
		p.BicycleType = *r.BicycleType
	}
	if r.UseRoads != nil {
		p.UseRoads = *r.UseRoads
	}
	if r.AvoidPushing != nil {
		p.AvoidPushing = *r.AvoidPushing
	}
	if r.AvoidCars != nil {
		p.AvoidCars = *r.AvoidCars
	}
	return p
}

// Engine is the entry point of the routing core (§2). One Engine owns a
// shared tile cache and may serve any number of sequential route requests;
// each request builds its own query context (§5 — single-threaded per
// query, no state shared between concurrent queries beyond the read-only
// tile cache).
type Engine struct {
	ga    *graphAccessor
	cache *tileCache

	mu             sync.Mutex
	lastIterations int
}

// NewEngine opens a tile store rooted at tilesRoot with the default cache
// capacity (§4.2).
func NewEngine(tilesRoot string) (*Engine, error) {
	return NewEngineWithCacheCapacity(tilesRoot, defaultTileCacheCapacity)
}

// NewEngineWithCacheCapacity is like NewEngine but overrides the tile
// cache's capacity, mainly for tests and memory-constrained deployments.
func NewEngineWithCacheCapacity(tilesRoot string, capacity int) (*Engine, error) {
	cache, err := newTileCache(tilesRoot, capacity)
	if err != nil {
		return nil, err
	}
	return &Engine{ga: newGraphAccessor(cache), cache: cache}, nil
}

// CacheLen reports the number of tiles currently resident in the shared
// tile cache, for diagnostics (internal/diagserver).
func (eng *Engine) CacheLen() int {
	return eng.cache.Len()
}

// LastIterationCount reports the iteration count of the most recent Route
// call that returned a route, for diagnostics (internal/diagserver). Calls
// that return an error leave it unchanged; it is 0 before any query has
// succeeded.
func (eng *Engine) LastIterationCount() int {
	eng.mu.Lock()
	defer eng.mu.Unlock()
	return eng.lastIterations
}

// Route resolves origin and destination to graph nodes, runs the
// bidirectional A* driver, and reports the reconstructed path with its
// traffic-exposure statistics (§2 data flow, §6 output, §7 error kinds).
func (eng *Engine) Route(ctx context.Context, req RouteRequest) (*RouteResult, error) {
	profile := req.profile()

	origin, err := nearestNode(eng.ga, req.OriginLat, req.OriginLon)
	if err != nil {
		return nil, err
	}
	dest, err := nearestNode(eng.ga, req.DestLat, req.DestLon)
	if err != nil {
		return nil, err
	}

	visitedSize := req.VisitedTableSize
	if visitedSize <= 0 {
		visitedSize = visitedTableSize
	}

	q := newQueryContext(eng.ga, profile, visitedSize, req.OriginLat, req.OriginLon, req.DestLat, req.DestLon)
	states, err := q.search(ctx, origin, dest)
	if err != nil {
		return nil, err
	}

	stats, err := pathStats(eng.ga, states)
	if err != nil {
		return nil, err
	}

	path := make([]LatLon, 0, len(states))
	for _, s := range states {
		_, node, err := eng.ga.node(s)
		if err != nil {
			return nil, err
		}
		path = append(path, LatLon{Lat: node.Lat, Lon: node.Lon})
	}

	eng.mu.Lock()
	eng.lastIterations = q.IterationCount()
	eng.mu.Unlock()

	return &RouteResult{
		Path:            path,
		Stats:           stats,
		TotalDistanceKM: stats.CarFreeKM + stats.SeparatedKM + stats.WithCarsKM + stats.PushingKM,
		Iterations:      q.IterationCount(),
	}, nil
}
