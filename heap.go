package bikeroute

import "container/heap"

// frontierEntry is one entry in a search frontier (§3 "Frontier entry").
type frontierEntry struct {
	f, g     float64
	dist     float64 // metres travelled so far
	state    GraphId
	parent   GraphId
	parentEdge int
	seq      int // insertion order, for deterministic tie-breaking (§5)
}

// frontierQueue is a binary min-heap over search frontier entries, keyed on
// f, ties broken by insertion order (§4.4, §5). The search driver owns two
// independent instances, one per direction; stale entries (whose g exceeds
// the visited map's g for that state) are detected and skipped on pop
// rather than decreased in place.
type frontierQueue struct {
	items []frontierEntry
	next  int
}

func newFrontierQueue() *frontierQueue {
	return &frontierQueue{}
}

func (q *frontierQueue) Len() int { return len(q.items) }

func (q *frontierQueue) Less(i, j int) bool {
	if q.items[i].f != q.items[j].f {
		return q.items[i].f < q.items[j].f
	}
	return q.items[i].seq < q.items[j].seq
}

func (q *frontierQueue) Swap(i, j int) {
	q.items[i], q.items[j] = q.items[j], q.items[i]
}

func (q *frontierQueue) Push(x any) {
	q.items = append(q.items, x.(frontierEntry))
}

func (q *frontierQueue) Pop() any {
	old := q.items
	n := len(old)
	item := old[n-1]
	q.items = old[:n-1]
	return item
}

// push inserts an entry, stamping it with the next insertion sequence
// number for tie-breaking.
func (q *frontierQueue) push(e frontierEntry) {
	e.seq = q.next
	q.next++
	heap.Push(q, e)
}

// pop removes and returns the minimum-f entry. ok is false if the queue is
// empty.
func (q *frontierQueue) pop() (frontierEntry, bool) {
	if q.Len() == 0 {
		return frontierEntry{}, false
	}
	return heap.Pop(q).(frontierEntry), true
}

// peekF returns the minimum f currently in the queue, used by the
// termination test (§4.6). ok is false if the queue is empty.
func (q *frontierQueue) peekF() (float64, bool) {
	if q.Len() == 0 {
		return 0, false
	}
	return q.items[0].f, true
}
