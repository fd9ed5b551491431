package bikeroute

import "hash/fnv"

// visitedTableSize is a prime near 2*10^6 (§4.5).
const visitedTableSize = 1_999_993

// probeBudget bounds linear-probe search length per operation, a liveness
// safeguard against pathological probe chains stalling the search (§4.5,
// §9). Capping the probe length is a documented limitation: under
// adversarial load it can silently drop entries rather than growing the
// table. insert() reports this via its ok return so callers can treat it
// like any other relaxation failure instead of aborting the query.
const probeBudget = 2000

// visitedEntry is the value half of the visited map (§3, §4.5).
type visitedEntry struct {
	g          float64
	parent     GraphId
	parentEdge int
	occupied   bool
	state      GraphId // stored to disambiguate probe-chain collisions
}

// visitedMap is an open-addressed hash table from (tile,node) to
// (best-g, predecessor, predecessor-edge), one per search direction
// (§4.5). The relaxation check ("is new_g better than what's stored") is
// the caller's responsibility; visitedMap only stores and retrieves.
type visitedMap struct {
	slots []visitedEntry
	size  int
	count int
}

// newVisitedMap allocates a table of the given size (a prime near 2*10^6
// in production, per §4.5; tests use smaller sizes to keep fixtures
// cheap).
func newVisitedMap(size int) *visitedMap {
	return &visitedMap{slots: make([]visitedEntry, size), size: size}
}

// fnv1aFold hashes (tile,node) with FNV-1a and folds to the table size
// (§4.5).
func fnv1aFold(tileID, nodeID uint32, size int) int {
	h := fnv.New64a()
	var buf [8]byte
	buf[0] = byte(tileID)
	buf[1] = byte(tileID >> 8)
	buf[2] = byte(tileID >> 16)
	buf[3] = byte(tileID >> 24)
	buf[4] = byte(nodeID)
	buf[5] = byte(nodeID >> 8)
	buf[6] = byte(nodeID >> 16)
	buf[7] = byte(nodeID >> 24)
	_, _ = h.Write(buf[:])
	return int(h.Sum64() % uint64(size))
}

// find locates the entry for state, probing up to probeBudget slots.
func (m *visitedMap) find(state GraphId) (visitedEntry, bool) {
	start := fnv1aFold(state.TileID, state.NodeID, m.size)
	for i := 0; i < probeBudget; i++ {
		idx := (start + i) % m.size
		slot := m.slots[idx]
		if !slot.occupied {
			return visitedEntry{}, false
		}
		if slot.state == state {
			return slot, true
		}
	}
	return visitedEntry{}, false
}

// insert stores (state, g, parent, parentEdge), overwriting an existing
// entry for the same state or occupying the first free slot within the
// probe budget. ok is false if neither an existing entry nor a free slot
// was found within probeBudget probes (§4.5, §9 open question): the
// caller should treat this exactly like a failed relaxation, not abort the
// query.
func (m *visitedMap) insert(state GraphId, g float64, parent GraphId, parentEdge int) bool {
	start := fnv1aFold(state.TileID, state.NodeID, m.size)
	for i := 0; i < probeBudget; i++ {
		idx := (start + i) % m.size
		slot := &m.slots[idx]
		if !slot.occupied || slot.state == state {
			if !slot.occupied {
				m.count++
			}
			slot.occupied = true
			slot.state = state
			slot.g = g
			slot.parent = parent
			slot.parentEdge = parentEdge
			return true
		}
	}
	return false
}

// len reports the number of occupied slots, for diagnostics and tests.
func (m *visitedMap) len() int {
	return m.count
}
