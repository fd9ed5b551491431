package bikeroute

import "fmt"

// graphAccessor resolves nodes to their outgoing edges and edge endpoints
// to global (tile, node) handles, loading tiles through the shared cache on
// demand (§2, §9). It holds no per-direction state; both the forward and
// backward expansions in search.go use the same accessor.
type graphAccessor struct {
	cache *tileCache
}

func newGraphAccessor(cache *tileCache) *graphAccessor {
	return &graphAccessor{cache: cache}
}

// node resolves a GraphId to its parsed Node, loading the owning tile on
// demand. Only level-2 ids are supported by this core (§3).
func (g *graphAccessor) node(id GraphId) (*Tile, Node, error) {
	if id.Level != tileLevel {
		return nil, Node{}, fmt.Errorf("%w: unsupported level %d", ErrMalformedTile, id.Level)
	}
	tile, err := g.cache.Get(id.TileID)
	if err != nil {
		return nil, Node{}, err
	}
	node, ok := tile.Node(int(id.NodeID))
	if !ok {
		return tile, Node{}, fmt.Errorf("%w: tile %d node %d out of range", ErrMalformedTile, id.TileID, id.NodeID)
	}
	return tile, node, nil
}

// edgeEnd resolves a directed edge's end descriptor to a global GraphId,
// requiring end-level == 2 (§4.6 step 1).
func edgeEnd(e DirectedEdge) (GraphId, bool) {
	end := e.End()
	if end.Level != tileLevel {
		return GraphId{}, false
	}
	return end, true
}
