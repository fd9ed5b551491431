package bikeroute

import (
	"context"
	"fmt"
)

// Package doc for the search driver's known limitation (§9 "Directionality
// approximation"): every edge is treated as bidirectional for the bicycle
// profile in both the forward and backward expansions — access masks are
// read as (forward|reverse) rather than consulted per direction. This is a
// deliberate, documented approximation inherited from the source engine,
// not a bug. A future revision should consult forward/reverse access masks
// separately per expansion direction.

const (
	minIterBudget = 1_000_000
	maxIterBudget = 6_000_000
	iterPerKM     = 30_000
)

// searchDirection holds the per-direction state of the bidirectional
// search (§4.6, §5): its own frontier queue and visited map, plus the
// coordinates of the *opposing* root, to which its heuristic is computed.
type searchDirection struct {
	queue        *frontierQueue
	visited      *visitedMap
	opponent     *visitedMap
	oppRootLat   float64
	oppRootLon   float64
}

// queryContext owns all per-query mutable state: the shared tile cache, a
// graph accessor over it, two frontier queues and two visited maps (§9
// "Global mutable state" — wrapped in one context object owned by a single
// query, rather than process-wide arrays).
type queryContext struct {
	ga      *graphAccessor
	profile RiderProfile

	fwd *searchDirection
	bwd *searchDirection

	bestTotal    float64
	meetingState GraphId
	meetingFound bool

	iterations int
	maxIter    int
}

// newQueryContext allocates a fresh query context. visitedSize lets tests
// use a much smaller table than the §4.5 production size.
func newQueryContext(ga *graphAccessor, profile RiderProfile, visitedSize int, originLat, originLon, destLat, destLon float64) *queryContext {
	distanceKM := haversineMeters(originLat, originLon, destLat, destLon) / 1000

	maxIter := int(iterPerKM * distanceKM)
	if maxIter < minIterBudget {
		maxIter = minIterBudget
	}
	if maxIter > maxIterBudget {
		maxIter = maxIterBudget
	}

	fwd := &searchDirection{
		queue:    newFrontierQueue(),
		visited:  newVisitedMap(visitedSize),
		oppRootLat: destLat,
		oppRootLon: destLon,
	}
	bwd := &searchDirection{
		queue:    newFrontierQueue(),
		visited:  newVisitedMap(visitedSize),
		oppRootLat: originLat,
		oppRootLon: originLon,
	}
	fwd.opponent = bwd.visited
	bwd.opponent = fwd.visited

	return &queryContext{
		ga:      ga,
		profile: profile,
		fwd:     fwd,
		bwd:     bwd,
		maxIter: maxIter,
	}
}

// vMax is twice the rider's nominal cruising speed, the admissible
// heuristic's speed bound (§4.6).
func vMax(bicycleType int) float64 {
	return 2 * baseSpeedKMH(bicycleType)
}

// heuristic is the admissible, consistent time-cost lower bound from a
// node to a root, in seconds (§4.6).
func heuristic(lat, lon, rootLat, rootLon float64, bicycleType int) float64 {
	return haversineMeters(lat, lon, rootLat, rootLon) * (3.6 / vMax(bicycleType))
}

// search runs the bidirectional A* driver (§4.6) from origin to dest and
// returns the reconstructed path. ctx is used only for cooperative
// cancellation between iterations (§5: no suspension points inside a
// single expansion).
func (q *queryContext) search(ctx context.Context, origin, dest GraphId) ([]GraphId, error) {
	originTile, originNode, err := q.ga.node(origin)
	if err != nil {
		return nil, err
	}
	destTile, destNode, err := q.ga.node(dest)
	if err != nil {
		return nil, err
	}
	_ = originTile
	_ = destTile

	q.fwd.queue.push(frontierEntry{
		f: heuristic(originNode.Lat, originNode.Lon, q.fwd.oppRootLat, q.fwd.oppRootLon, q.profile.BicycleType),
		g: 0, dist: 0, state: origin, parent: nullState, parentEdge: -1,
	})
	q.fwd.visited.insert(origin, 0, nullState, -1)

	q.bwd.queue.push(frontierEntry{
		f: heuristic(destNode.Lat, destNode.Lon, q.bwd.oppRootLat, q.bwd.oppRootLon, q.profile.BicycleType),
		g: 0, dist: 0, state: dest, parent: nullState, parentEdge: -1,
	})
	q.bwd.visited.insert(dest, 0, nullState, -1)

	q.checkMeeting(origin, q.fwd, 0)
	q.checkMeeting(dest, q.bwd, 0)

	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("bikeroute: %w", ctx.Err())
		default:
		}

		if q.meetingFound {
			fMin, fOk := q.fwd.queue.peekF()
			bMin, bOk := q.bwd.queue.peekF()
			if !fOk || !bOk || fMin+bMin >= q.bestTotal {
				return q.reconstructPath(origin, dest)
			}
		}

		if q.fwd.queue.Len() == 0 && q.bwd.queue.Len() == 0 {
			if q.meetingFound {
				return q.reconstructPath(origin, dest)
			}
			return nil, ErrNoPath
		}

		if q.iterations >= q.maxIter {
			if q.meetingFound {
				return q.reconstructPath(origin, dest)
			}
			return nil, ErrNoPath
		}

		if q.fwd.queue.Len() > 0 {
			q.expandOne(q.fwd)
			q.iterations++
		}
		if q.bwd.queue.Len() > 0 {
			q.expandOne(q.bwd)
			q.iterations++
		}
	}
}

// checkMeeting records a candidate meeting point if state has already been
// recorded by the opposing direction, keeping the cheapest total seen so
// far (§4.6).
func (q *queryContext) checkMeeting(state GraphId, dir *searchDirection, g float64) {
	other, ok := dir.opponent.find(state)
	if !ok {
		return
	}
	total := g + other.g
	if !q.meetingFound || total < q.bestTotal {
		q.meetingFound = true
		q.bestTotal = total
		q.meetingState = state
	}
}

// expandOne pops and expands a single frontier entry for direction dir
// (§4.6 "Expansion").
func (q *queryContext) expandOne(dir *searchDirection) {
	entry, ok := dir.queue.pop()
	if !ok {
		return
	}

	best, ok := dir.visited.find(entry.state)
	if ok && entry.g > best.g {
		return // stale entry, discard
	}

	q.checkMeeting(entry.state, dir, entry.g)

	tile, node, err := q.ga.node(entry.state)
	if err != nil {
		return // malformed node mid-search: no outgoing edges, not fatal (§7)
	}

	for k := uint32(0); k < node.EdgeCount; k++ {
		edge, ok := tile.Edge(int(node.EdgeIndex + k))
		if !ok {
			continue
		}

		end, ok := edgeEnd(edge)
		if !ok {
			continue
		}
		if !edge.HasBike() && !edge.HasPed() {
			continue
		}
		if !surfaceAllowed(edge, q.profile.BicycleType) {
			continue
		}

		cost := edgeCost(edge, q.profile) * pedestrianMultiplier(edge, q.profile.AvoidPushing)
		newG := entry.g + cost

		if existing, ok := dir.visited.find(end); ok && existing.g <= newG {
			continue
		}

		endTile, endNode, err := q.ga.node(end)
		if err != nil {
			continue // neighbour tile unusable: skip this edge, not fatal (§7)
		}
		_ = endTile

		h := heuristic(endNode.Lat, endNode.Lon, dir.oppRootLat, dir.oppRootLon, q.profile.BicycleType)

		if !dir.visited.insert(end, newG, entry.state, int(node.EdgeIndex+k)) {
			continue // probe budget exhausted for this slot; drop like a failed relaxation
		}

		dir.queue.push(frontierEntry{
			f:          newG + h,
			g:          newG,
			dist:       entry.dist + float64(edge.LengthMeters()),
			state:      end,
			parent:     entry.state,
			parentEdge: int(node.EdgeIndex + k),
		})

		q.checkMeeting(end, dir, newG)
	}
}

// reconstructPath walks predecessor pointers from the meeting point back
// to origin (via visited_fwd) and forward to destination (via
// visited_bwd), then concatenates (§4.6).
func (q *queryContext) reconstructPath(origin, dest GraphId) ([]GraphId, error) {
	m := q.meetingState

	var fwdHalf []GraphId
	cur := m
	for {
		fwdHalf = append(fwdHalf, cur)
		if cur == origin {
			break
		}
		e, ok := q.fwd.visited.find(cur)
		if !ok || e.parent.isNull() && cur != origin {
			return nil, fmt.Errorf("%w: broken forward predecessor chain", ErrNoPath)
		}
		if e.parent.isNull() {
			break
		}
		cur = e.parent
	}
	for i, j := 0, len(fwdHalf)-1; i < j; i, j = i+1, j-1 {
		fwdHalf[i], fwdHalf[j] = fwdHalf[j], fwdHalf[i]
	}

	mEntry, ok := q.bwd.visited.find(m)
	if !ok {
		return nil, fmt.Errorf("%w: meeting point missing from backward visited map", ErrNoPath)
	}

	var bwdHalf []GraphId
	cur = mEntry.parent
	for !cur.isNull() {
		bwdHalf = append(bwdHalf, cur)
		if cur == dest {
			break
		}
		e, ok := q.bwd.visited.find(cur)
		if !ok {
			return nil, fmt.Errorf("%w: broken backward predecessor chain", ErrNoPath)
		}
		cur = e.parent
	}

	path := make([]GraphId, 0, len(fwdHalf)+len(bwdHalf))
	path = append(path, fwdHalf...)
	path = append(path, bwdHalf...)
	return path, nil
}

// IterationCount exposes the number of pops performed by the last search
// (§8 scenario 5's test hook for budget termination).
func (q *queryContext) IterationCount() int {
	return q.iterations
}
