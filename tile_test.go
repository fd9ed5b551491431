package bikeroute

import (
	"encoding/binary"
	"math"
	"testing"
)

// TestNodeRoundTrip is property P1 for Node records: the packed edge span
// (edge index and edge count) is recovered exactly. Coordinate decoding is
// covered by TestCoordinateReconstruction.
func TestNodeRoundTrip(t *testing.T) {
	baseLat, baseLon := 48.0, -4.0

	nodes := []nodeFixture{
		{Lat: 48.123456, Lon: -4.654321, EdgeIndex: 3, EdgeCount: 2},
	}
	edges := []edgeFixture{{}, {}, {}, {}, {}}

	raw := buildTileBytes(baseLat, baseLon, nodes, edges)
	tile, err := parseTile(7, raw)
	if err != nil {
		t.Fatalf("parseTile: %v", err)
	}

	node, ok := tile.Node(0)
	if !ok {
		t.Fatal("Node(0) not found")
	}
	if node.EdgeIndex != 3 || node.EdgeCount != 2 {
		t.Fatalf("edge span = (%d,%d), want (3,2)", node.EdgeIndex, node.EdgeCount)
	}
}

// TestCoordinateReconstruction is property P2: the decoded coordinate
// equals base + micros*1e-6 + tenths*1e-7 to within 1e-9. Packed offsets
// are unsigned, so every case lies inside the tile (at or north-east of
// its base corner).
func TestCoordinateReconstruction(t *testing.T) {
	baseLat, baseLon := 48.0, -4.0

	cases := []struct{ lat, lon float64 }{
		{48.000000, -4.000000},
		{48.123456, -3.900001},
		{48.249999, -3.750001},
		{48.0000001, -3.9999991},
	}

	for _, c := range cases {
		nodes := []nodeFixture{{Lat: c.lat, Lon: c.lon, EdgeIndex: 0, EdgeCount: 0}}
		raw := buildTileBytes(baseLat, baseLon, nodes, nil)
		tile, err := parseTile(0, raw)
		if err != nil {
			t.Fatalf("parseTile: %v", err)
		}
		node, ok := tile.Node(0)
		if !ok {
			t.Fatal("Node(0) not found")
		}
		if math.Abs(node.Lat-c.lat) > 1e-9 {
			t.Errorf("lat round-trip: got %v, want %v", node.Lat, c.lat)
		}
		if math.Abs(node.Lon-c.lon) > 1e-9 {
			t.Errorf("lon round-trip: got %v, want %v", node.Lon, c.lon)
		}
	}
}

// TestDirectedEdgeRoundTrip is property P1 for DirectedEdge records.
func TestDirectedEdgeRoundTrip(t *testing.T) {
	nodes := []nodeFixture{{Lat: 48.1, Lon: -4.1, EdgeIndex: 0, EdgeCount: 1}}
	edges := []edgeFixture{
		{
			EndLevel: 2, EndTileID: 654321, EndNodeID: 1_000_000,
			Fwd: 0x4 | 0x2, Rev: 0x1,
			Length: 1234, Speed: 30, UseClass: UseCycleway, Class: 5,
			Surface: 3, Lanes: 2, CycleLane: 2,
			Network: true, Sidepath: false, Dismount: true, Shoulder: true,
			Grade: 9,
		},
	}
	raw := buildTileBytes(48.0, -4.0, nodes, edges)
	tile, err := parseTile(1, raw)
	if err != nil {
		t.Fatalf("parseTile: %v", err)
	}

	e, ok := tile.Edge(0)
	if !ok {
		t.Fatal("Edge(0) not found")
	}

	end := e.End()
	if end.Level != 2 || end.TileID != 654321 || end.NodeID != 1_000_000 {
		t.Fatalf("End() = %+v", end)
	}
	if !e.HasBike() || !e.HasPed() || !e.HasCar() {
		t.Fatalf("expected all access modes set via fwd|rev, got bike=%v ped=%v car=%v",
			e.HasBike(), e.HasPed(), e.HasCar())
	}
	if e.LengthMeters() != 1234 {
		t.Fatalf("LengthMeters() = %d, want 1234", e.LengthMeters())
	}
	if e.DefaultSpeedKMH() != 30 {
		t.Fatalf("DefaultSpeedKMH() = %d, want 30", e.DefaultSpeedKMH())
	}
	if e.UseClass() != UseCycleway {
		t.Fatalf("UseClass() = %d, want %d", e.UseClass(), UseCycleway)
	}
	if e.Classification() != 5 {
		t.Fatalf("Classification() = %d, want 5", e.Classification())
	}
	if e.SurfaceClass() != 3 {
		t.Fatalf("SurfaceClass() = %d, want 3", e.SurfaceClass())
	}
	if e.LaneCount() != 2 {
		t.Fatalf("LaneCount() = %d, want 2", e.LaneCount())
	}
	if e.CycleLane() != 2 {
		t.Fatalf("CycleLane() = %d, want 2", e.CycleLane())
	}
	if !e.BikeNetwork() || e.UseSidepath() || !e.Dismount() || !e.Shoulder() {
		t.Fatalf("flag bits mismatch: network=%v sidepath=%v dismount=%v shoulder=%v",
			e.BikeNetwork(), e.UseSidepath(), e.Dismount(), e.Shoulder())
	}
	if e.WeightedGrade() != 9 {
		t.Fatalf("WeightedGrade() = %d, want 9", e.WeightedGrade())
	}
}

func TestParseTileRejectsTruncatedHeader(t *testing.T) {
	_, err := parseTile(1, make([]byte, 10))
	if err == nil {
		t.Fatal("expected an error for a header shorter than 272 bytes")
	}
}

func TestParseTileRejectsOverflowingCounts(t *testing.T) {
	raw := buildTileBytes(48.0, -4.0, nil, nil)
	// Claim far more edges than the buffer actually holds.
	counts := packBits([2]uint64{0, 0}, [2]uint64{1_000_000, 21})
	binary.LittleEndian.PutUint64(raw[offCounts:], counts)

	_, err := parseTile(1, raw)
	if err == nil {
		t.Fatal("expected an error when declared counts overflow the file")
	}
}

func TestNodeOutOfRangeEdgeSpanIsZeroed(t *testing.T) {
	// edge_index + edge_count exceeds the tile's edge_count (0 edges here).
	nodes := []nodeFixture{{Lat: 48.0, Lon: -4.0, EdgeIndex: 5, EdgeCount: 3}}
	raw := buildTileBytes(48.0, -4.0, nodes, nil)
	tile, err := parseTile(1, raw)
	if err != nil {
		t.Fatalf("parseTile: %v", err)
	}
	node, ok := tile.Node(0)
	if !ok {
		t.Fatal("Node(0) not found")
	}
	if node.EdgeIndex != 0 || node.EdgeCount != 0 {
		t.Fatalf("expected out-of-range edge span to be zeroed, got (%d,%d)", node.EdgeIndex, node.EdgeCount)
	}
}
