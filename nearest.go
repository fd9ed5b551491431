package bikeroute

import (
	"fmt"
	"math"
)

const earthRadiusMeters = 6371000.0

// haversineMeters returns the great-circle distance between two
// coordinates, in metres.
func haversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMeters * c
}

// nearestNode locates the graph node nearest (lat, lon), preferring a node
// that has at least one bike- or ped-accessible outgoing edge (§4.7).
// Among nodes with edge_count > 0, the overall nearest and the nearest
// accessible node are both tracked; the accessible one wins when it is
// within 500m, or within 2x the overall best's distance, otherwise the
// overall nearest is used (it will simply fail expansion later).
func nearestNode(ga *graphAccessor, lat, lon float64) (GraphId, error) {
	tileID := tileIDForPoint(lat, lon)
	tile, err := ga.cache.Get(tileID)
	if err != nil {
		return GraphId{}, err
	}

	var (
		haveOverall    bool
		overallDist    float64
		overallID      GraphId
		haveAccessible bool
		accessibleDist float64
		accessibleID   GraphId
	)

	for i := 0; uint32(i) < tile.NodeCount; i++ {
		node, ok := tile.Node(i)
		if !ok || node.EdgeCount == 0 {
			continue
		}
		d := haversineMeters(lat, lon, node.Lat, node.Lon)
		id := GraphId{Level: tileLevel, TileID: tileID, NodeID: uint32(i)}

		if !haveOverall || d < overallDist {
			haveOverall, overallDist, overallID = true, d, id
		}

		if nodeHasAccessibleEdge(tile, node) {
			if !haveAccessible || d < accessibleDist {
				haveAccessible, accessibleDist, accessibleID = true, d, id
			}
		}
	}

	if !haveOverall {
		return GraphId{}, fmt.Errorf("%w: tile %d has no node with outgoing edges", ErrNoNearbyNode, tileID)
	}

	if haveAccessible && (accessibleDist < 500 || accessibleDist <= 2*overallDist) {
		return accessibleID, nil
	}
	return overallID, nil
}

// nodeHasAccessibleEdge reports whether any of node's outgoing edges
// admits bicycles or pedestrians.
func nodeHasAccessibleEdge(tile *Tile, node Node) bool {
	for i := uint32(0); i < node.EdgeCount; i++ {
		e, ok := tile.Edge(int(node.EdgeIndex + i))
		if !ok {
			continue
		}
		if e.HasBike() || e.HasPed() {
			return true
		}
	}
	return false
}
