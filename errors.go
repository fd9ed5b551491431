package bikeroute

import "errors"

// Error kinds reported by the engine. These are sentinel values, not
// exceptions: every fallible operation returns one of these (wrapped with
// context via fmt.Errorf's %w) or nil.
var (
	// ErrTileNotFound means the origin or destination tile file is absent
	// on disk. Fatal to the query that triggered it.
	ErrTileNotFound = errors.New("bikeroute: tile not found")

	// ErrMalformedTile means a tile file is shorter than its header, or its
	// declared node/edge/transition counts overflow the file. Fatal when it
	// is the origin or destination tile; individual malformed edges
	// discovered mid-search are skipped instead (see search.go).
	ErrMalformedTile = errors.New("bikeroute: malformed tile")

	// ErrNoNearbyNode means no node in the tile containing a requested
	// coordinate has any outgoing edge.
	ErrNoNearbyNode = errors.New("bikeroute: no nearby node")

	// ErrNoPath means the search exhausted both frontiers, or reached its
	// iteration budget, without ever recording a meeting point.
	ErrNoPath = errors.New("bikeroute: no path")

	// ErrAllocationFailure means the tile cache could not be created
	// (newTileCache). Heap, visited-map and path allocations do not report
	// this error.
	ErrAllocationFailure = errors.New("bikeroute: allocation failure")
)
