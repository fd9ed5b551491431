package bikeroute

import "fmt"

// Header layout (§4.1): fixed 272-byte header, little-endian throughout.
const (
	tileHeaderSize       = 272
	nodeRecordSize        = 32
	transitionRecordSize  = 8
	edgeRecordSize        = 48

	offBaseLon   = 8
	offBaseLat   = 12
	offCounts    = 40 // 8-byte word: node-count[0:21), edge-count[21:42)
	offTransCnt  = 48 // 4-byte word: transition-count[0:22)
)

// Use-class values referenced by the cost model and statistics buckets
// (§4.3, §4.8). Not every OSM/Valhalla use class is meaningful to this
// core; only the ones the spec names get a constant.
const (
	UseRoad         = 0
	UseTrack        = 3
	UseLivingStreet = 10
	UseCycleway     = 20
	UseMountainBike = 21
	UseFootway      = 25
	UseSteps        = 26
	UsePath         = 27
	UseServiceRoad  = 34
	UseFerry        = 41
)

// Tile is one 0.25x0.25 degree cell of the road graph (§3). It owns its raw
// decompressed buffer exclusively; Node and DirectedEdge accessors return
// views that borrow from it and must not outlive it (§9).
type Tile struct {
	ID     uint32
	BaseLat float64
	BaseLon float64

	NodeCount       uint32
	EdgeCount       uint32
	TransitionCount uint32

	raw               []byte
	nodesOffset       int
	transitionsOffset int
	edgesOffset       int
}

// parseTile decodes a tile's header, node table and directed-edge table
// from a raw decompressed buffer (§4.1). Node and DirectedEdge records are
// not materialised eagerly; Node() and Edge() decode on demand from the
// shared raw view.
func parseTile(id uint32, raw []byte) (*Tile, error) {
	if len(raw) < tileHeaderSize {
		return nil, fmt.Errorf("%w: tile %d header truncated (%d bytes)", ErrMalformedTile, id, len(raw))
	}

	r := newBinReader(raw)

	baseLon, ok := r.f32(offBaseLon)
	if !ok {
		return nil, fmt.Errorf("%w: tile %d base longitude out of range", ErrMalformedTile, id)
	}
	baseLat, ok := r.f32(offBaseLat)
	if !ok {
		return nil, fmt.Errorf("%w: tile %d base latitude out of range", ErrMalformedTile, id)
	}

	counts, ok := r.u64(offCounts)
	if !ok {
		return nil, fmt.Errorf("%w: tile %d counts word out of range", ErrMalformedTile, id)
	}
	nodeCount := uint32(bitsOf(counts, 0, 21))
	edgeCount := uint32(bitsOf(counts, 21, 21))

	transWord, ok := r.u32(offTransCnt)
	if !ok {
		return nil, fmt.Errorf("%w: tile %d transition-count word out of range", ErrMalformedTile, id)
	}
	transitionCount := uint32(bitsOf(uint64(transWord), 0, 22))

	nodesOffset := tileHeaderSize
	transitionsOffset := nodesOffset + int(nodeCount)*nodeRecordSize
	edgesOffset := transitionsOffset + int(transitionCount)*transitionRecordSize
	tileEnd := edgesOffset + int(edgeCount)*edgeRecordSize

	if tileEnd < 0 || tileEnd > len(raw) {
		return nil, fmt.Errorf("%w: tile %d declared counts overflow file (need %d, have %d bytes)",
			ErrMalformedTile, id, tileEnd, len(raw))
	}

	return &Tile{
		ID:                id,
		BaseLat:           float64(baseLat),
		BaseLon:           float64(baseLon),
		NodeCount:         nodeCount,
		EdgeCount:         edgeCount,
		TransitionCount:   transitionCount,
		raw:               raw,
		nodesOffset:       nodesOffset,
		transitionsOffset: transitionsOffset,
		edgesOffset:       edgesOffset,
	}, nil
}

// Node is a materialised view of a single node record (§3). Nodes are small
// enough to copy freely, unlike directed edges.
type Node struct {
	Lat, Lon  float64
	EdgeIndex uint32
	EdgeCount uint32
}

// Node decodes the i'th node record. ok is false if i is out of range or
// the record would extend past the raw buffer (treated as absent, §4.1).
func (t *Tile) Node(i int) (Node, bool) {
	if i < 0 || uint32(i) >= t.NodeCount {
		return Node{}, false
	}
	off := t.nodesOffset + i*nodeRecordSize
	r := newBinReader(t.raw)

	wordA, ok := r.u64(off)
	if !ok {
		return Node{}, false
	}
	wordB, ok := r.u64(off + 8)
	if !ok {
		return Node{}, false
	}

	lon := decodeOffsetAxis(t.BaseLon, bitsOf(wordA, 0, 26))
	lat := decodeOffsetAxis(t.BaseLat, bitsOf(wordA, 26, 26))
	edgeIndex := uint32(bitsOf(wordB, 0, 21))
	edgeCount := uint32(bitsOf(wordB, 21, 7))

	if uint64(edgeIndex)+uint64(edgeCount) > uint64(t.EdgeCount) {
		// Invariant violation (§3): treat the span as absent rather than
		// letting a corrupt node hand out out-of-range edge indices.
		edgeIndex, edgeCount = 0, 0
	}

	return Node{Lat: lat, Lon: lon, EdgeIndex: edgeIndex, EdgeCount: edgeCount}, true
}

// decodeOffsetAxis reconstructs one coordinate axis from a packed 26-bit
// offset: the low 4 bits are tenths of a micro-degree, the high 22 bits are
// whole micro-degrees (§3, property P2).
func decodeOffsetAxis(base float64, packed uint64) float64 {
	tenths := packed & 0xF
	micros := packed >> 4
	return base + float64(micros)*1e-6 + float64(tenths)*1e-7
}

// DirectedEdge is a zero-copy view over one 48-byte edge record. It exposes
// the end descriptor and the attribute descriptor as separate accessor
// groups over the same raw bytes (§9 "two projections of the same record"),
// rather than duplicating the record into two parsed structs.
type DirectedEdge struct {
	raw []byte // exactly edgeRecordSize bytes, borrowed from the tile
}

// Edge decodes a view over the i'th directed-edge record. ok is false if i
// is out of range or the record would extend past the raw buffer.
func (t *Tile) Edge(i int) (DirectedEdge, bool) {
	if i < 0 || uint32(i) >= t.EdgeCount {
		return DirectedEdge{}, false
	}
	off := t.edgesOffset + i*edgeRecordSize
	if off+edgeRecordSize > len(t.raw) {
		return DirectedEdge{}, false
	}
	return DirectedEdge{raw: t.raw[off : off+edgeRecordSize]}, true
}

// --- End descriptor (word 0 + low bits of word 1) ---

func (e DirectedEdge) word(n int) uint64 {
	r := newBinReader(e.raw)
	w, _ := r.u64(n * 8)
	return w
}

// End returns the edge's end GraphId: level (3 bits), tile-id (22 bits),
// node-id (21 bits), packed LSB-first into word 0 (§3).
func (e DirectedEdge) End() GraphId {
	w := e.word(0)
	return GraphId{
		Level:  uint8(bitsOf(w, 0, 3)),
		TileID: uint32(bitsOf(w, 3, 22)),
		NodeID: uint32(bitsOf(w, 25, 21)),
	}
}

// ForwardAccess and ReverseAccess are 12-bit mode-access bitmasks packed
// into word 1 (§3).
func (e DirectedEdge) ForwardAccess() uint16 {
	return uint16(bitsOf(e.word(1), 0, 12))
}

func (e DirectedEdge) ReverseAccess() uint16 {
	return uint16(bitsOf(e.word(1), 12, 12))
}

const (
	accessCar  = 0x1
	accessPed  = 0x2
	accessBike = 0x4
)

func (e DirectedEdge) HasBike() bool {
	m := e.ForwardAccess() | e.ReverseAccess()
	return m&accessBike != 0
}

func (e DirectedEdge) HasPed() bool {
	m := e.ForwardAccess() | e.ReverseAccess()
	return m&accessPed != 0
}

func (e DirectedEdge) HasCar() bool {
	m := e.ForwardAccess() | e.ReverseAccess()
	return m&accessCar != 0
}

// --- Attribute descriptor (word 2) ---

// LengthMeters is the edge's geometric length, a 24-bit integer.
func (e DirectedEdge) LengthMeters() uint32 {
	return uint32(bitsOf(e.word(2), 0, 24))
}

// DefaultSpeedKMH is the edge's posted/default speed; 0 means unset and is
// treated as 15 km/h by callers (§3).
func (e DirectedEdge) DefaultSpeedKMH() uint8 {
	return uint8(bitsOf(e.word(2), 24, 8))
}

func (e DirectedEdge) UseClass() uint8 {
	return uint8(bitsOf(e.word(2), 32, 6))
}

func (e DirectedEdge) Classification() uint8 {
	return uint8(bitsOf(e.word(2), 38, 3))
}

func (e DirectedEdge) SurfaceClass() uint8 {
	return uint8(bitsOf(e.word(2), 41, 3))
}

// LaneCount is 0 when unset, treated as 1 by callers (§3).
func (e DirectedEdge) LaneCount() uint8 {
	return uint8(bitsOf(e.word(2), 44, 4))
}

func (e DirectedEdge) CycleLane() uint8 {
	return uint8(bitsOf(e.word(2), 48, 2))
}

func (e DirectedEdge) BikeNetwork() bool {
	return bitsOf(e.word(2), 50, 1) != 0
}

func (e DirectedEdge) UseSidepath() bool {
	return bitsOf(e.word(2), 51, 1) != 0
}

func (e DirectedEdge) Dismount() bool {
	return bitsOf(e.word(2), 52, 1) != 0
}

func (e DirectedEdge) Shoulder() bool {
	return bitsOf(e.word(2), 53, 1) != 0
}

// WeightedGrade is 0..15, 0 treated as 7 (flat) by callers (§3).
func (e DirectedEdge) WeightedGrade() uint8 {
	return uint8(bitsOf(e.word(2), 54, 4))
}
