package bikeroute

import "testing"

func TestVisitedFindInsertRoundTrip(t *testing.T) {
	m := newVisitedMap(101)
	state := GraphId{Level: tileLevel, TileID: 5, NodeID: 9}

	if _, ok := m.find(state); ok {
		t.Fatal("find on empty map should report ok=false")
	}

	if ok := m.insert(state, 12.5, nullState, -1); !ok {
		t.Fatal("insert should succeed on an empty table")
	}

	entry, ok := m.find(state)
	if !ok || entry.g != 12.5 {
		t.Fatalf("find after insert: entry=%+v ok=%v", entry, ok)
	}
	if m.len() != 1 {
		t.Fatalf("len() = %d, want 1", m.len())
	}
}

func TestVisitedOverwriteSameState(t *testing.T) {
	m := newVisitedMap(101)
	state := GraphId{Level: tileLevel, TileID: 1, NodeID: 1}

	m.insert(state, 10, nullState, -1)
	m.insert(state, 5, nullState, -1)

	entry, ok := m.find(state)
	if !ok || entry.g != 5 {
		t.Fatalf("overwrite did not take effect: entry=%+v", entry)
	}
	if m.len() != 1 {
		t.Fatalf("overwriting the same state must not grow len(), got %d", m.len())
	}
}

// TestVisitedProbeBudgetExhausted resolves the §9 open question on the
// probe cap: with a single-slot table, a second distinct state can never
// find a free slot, and insert must report failure rather than silently
// dropping or corrupting the first entry.
func TestVisitedProbeBudgetExhausted(t *testing.T) {
	m := newVisitedMap(1)
	a := GraphId{Level: tileLevel, TileID: 1, NodeID: 1}
	b := GraphId{Level: tileLevel, TileID: 2, NodeID: 2}

	if ok := m.insert(a, 1, nullState, -1); !ok {
		t.Fatal("first insert into a size-1 table should succeed")
	}
	if ok := m.insert(b, 2, nullState, -1); ok {
		t.Fatal("second distinct state in a size-1 table must fail (table full)")
	}

	entry, ok := m.find(a)
	if !ok || entry.g != 1 {
		t.Fatalf("failed insert of b must not disturb a's entry: %+v", entry)
	}
}
