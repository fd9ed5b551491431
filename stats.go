package bikeroute

import "fmt"

// Stats holds the four distance totals reported alongside a path (§6),
// in kilometres.
type Stats struct {
	CarFreeKM   float64
	SeparatedKM float64
	WithCarsKM  float64
	PushingKM   float64
}

// classifyEdge buckets an edge into exactly one traffic-exposure category
// (§4.8), checked in the spec's stated order.
func classifyEdge(e DirectedEdge) string {
	if e.HasPed() && !e.HasBike() {
		return "pushing"
	}

	uc := e.UseClass()
	switch uc {
	case UseCycleway, UsePath, UseFootway, UseMountainBike:
		if !e.HasCar() {
			return "car_free"
		}
	case UseTrack, UseLivingStreet, UseServiceRoad:
		return "car_free"
	}

	if e.CycleLane() >= 2 {
		return "separated"
	}
	if e.HasCar() {
		return "with_cars"
	}
	return "car_free"
}

// pathStats walks consecutive state pairs in path, locates the connecting
// edge in each state's outgoing set by matching the end descriptor, and
// accumulates its length into the matching bucket (§4.8).
func pathStats(ga *graphAccessor, path []GraphId) (Stats, error) {
	var s Stats

	for i := 0; i+1 < len(path); i++ {
		cur, next := path[i], path[i+1]

		tile, node, err := ga.node(cur)
		if err != nil {
			return Stats{}, err
		}

		edge, ok := findConnectingEdge(tile, node, next)
		if !ok {
			return Stats{}, fmt.Errorf("%w: no edge from %+v to %+v", ErrMalformedTile, cur, next)
		}

		km := float64(edge.LengthMeters()) / 1000
		switch classifyEdge(edge) {
		case "pushing":
			s.PushingKM += km
		case "separated":
			s.SeparatedKM += km
		case "with_cars":
			s.WithCarsKM += km
		default:
			s.CarFreeKM += km
		}
	}

	return s, nil
}

func findConnectingEdge(tile *Tile, node Node, next GraphId) (DirectedEdge, bool) {
	for k := uint32(0); k < node.EdgeCount; k++ {
		e, ok := tile.Edge(int(node.EdgeIndex + k))
		if !ok {
			continue
		}
		end := e.End()
		if end.TileID == next.TileID && end.NodeID == next.NodeID {
			return e, true
		}
	}
	return DirectedEdge{}, false
}
