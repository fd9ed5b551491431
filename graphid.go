package bikeroute

import "math"

// Level-2 fixed grid: 0.25 degree tiles, 1440 columns x 720 rows (§3).
const (
	tileLevel   = 2
	tileSizeDeg = 0.25
	gridCols    = 1440 // 360 / 0.25
	gridRows    = 720  // 180 / 0.25
	nullTileID  = 0
	nullNodeID  = 0
)

// GraphId is a global node handle: (level, tile, node). Only level 2 is
// produced or consumed by this core (§3).
type GraphId struct {
	Level  uint8
	TileID uint32
	NodeID uint32
}

// nullState is the "no predecessor" sentinel used throughout the search
// driver (§3 "Search state").
var nullState = GraphId{Level: tileLevel, TileID: nullTileID, NodeID: nullNodeID}

func (g GraphId) isNull() bool {
	return g.TileID == nullTileID && g.NodeID == nullNodeID
}

// tileIDForPoint projects a coordinate onto the level-2 grid and returns its
// tile id: row*1440 + col, row = floor((lat+90)/0.25), col =
// floor((lon+180)/0.25) (§3).
func tileIDForPoint(lat, lon float64) uint32 {
	row := int(math.Floor((lat + 90) / tileSizeDeg))
	col := int(math.Floor((lon + 180) / tileSizeDeg))

	if row < 0 {
		row = 0
	}
	if row >= gridRows {
		row = gridRows - 1
	}
	if col < 0 {
		col = 0
	}
	if col >= gridCols {
		col = col % gridCols
	}

	return uint32(row*gridCols + col)
}

// tileBaseCorner returns the south-west corner of the tile identified by id,
// the reference point tile headers' declared base lat/lon should match.
func tileBaseCorner(id uint32) (lat, lon float64) {
	row := int(id) / gridCols
	col := int(id) % gridCols
	lat = float64(row)*tileSizeDeg - 90
	lon = float64(col)*tileSizeDeg - 180
	return lat, lon
}
