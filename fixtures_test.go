package bikeroute

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
)

// Fixture builders for synthetic tiles, shared by every white-box test in
// this package. They pack bytes by hand, mirroring exactly what the real
// parser (tile.go) expects, so tests exercise the actual bit layout rather
// than a simplified stand-in.

func packBits(pairs ...[2]uint64) uint64 {
	var w uint64
	for _, p := range pairs {
		w |= p[0] << p[1]
	}
	return w
}

// packOffset is the inverse of decodeOffsetAxis: given a tile's base
// coordinate and a target coordinate, returns the packed 26-bit offset.
func packOffset(base, coord float64) uint64 {
	total := int64(math.Round((coord - base) * 1e7))
	micros := total / 10
	tenths := total % 10
	if tenths < 0 {
		tenths += 10
		micros--
	}
	return (uint64(micros) << 4) | uint64(tenths)
}

type nodeFixture struct {
	Lat, Lon  float64
	EdgeIndex uint32
	EdgeCount uint32
}

type edgeFixture struct {
	EndLevel   uint8
	EndTileID  uint32
	EndNodeID  uint32
	Fwd        uint16
	Rev        uint16
	Length     uint32
	Speed      uint8
	UseClass   uint8
	Class      uint8
	Surface    uint8
	Lanes      uint8
	CycleLane  uint8
	Network    bool
	Sidepath   bool
	Dismount   bool
	Shoulder   bool
	Grade      uint8
}

func boolBit(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func (e edgeFixture) bytes() []byte {
	word0 := packBits(
		[2]uint64{uint64(e.EndLevel), 0},
		[2]uint64{uint64(e.EndTileID), 3},
		[2]uint64{uint64(e.EndNodeID), 25},
	)
	word1 := packBits(
		[2]uint64{uint64(e.Fwd), 0},
		[2]uint64{uint64(e.Rev), 12},
	)
	word2 := packBits(
		[2]uint64{uint64(e.Length), 0},
		[2]uint64{uint64(e.Speed), 24},
		[2]uint64{uint64(e.UseClass), 32},
		[2]uint64{uint64(e.Class), 38},
		[2]uint64{uint64(e.Surface), 41},
		[2]uint64{uint64(e.Lanes), 44},
		[2]uint64{uint64(e.CycleLane), 48},
		[2]uint64{boolBit(e.Network), 50},
		[2]uint64{boolBit(e.Sidepath), 51},
		[2]uint64{boolBit(e.Dismount), 52},
		[2]uint64{boolBit(e.Shoulder), 53},
		[2]uint64{uint64(e.Grade), 54},
	)

	buf := make([]byte, edgeRecordSize)
	binary.LittleEndian.PutUint64(buf[0:8], word0)
	binary.LittleEndian.PutUint64(buf[8:16], word1)
	binary.LittleEndian.PutUint64(buf[16:24], word2)
	return buf
}

func (n nodeFixture) bytes(baseLat, baseLon float64) []byte {
	lonPacked := packOffset(baseLon, n.Lon)
	latPacked := packOffset(baseLat, n.Lat)
	wordA := packBits([2]uint64{lonPacked, 0}, [2]uint64{latPacked, 26})
	wordB := packBits([2]uint64{uint64(n.EdgeIndex), 0}, [2]uint64{uint64(n.EdgeCount), 21})

	buf := make([]byte, nodeRecordSize)
	binary.LittleEndian.PutUint64(buf[0:8], wordA)
	binary.LittleEndian.PutUint64(buf[8:16], wordB)
	return buf
}

// buildTileBytes assembles a complete tile buffer (header + nodes + edges,
// transition count always 0) matching §4.1's layout exactly.
func buildTileBytes(baseLat, baseLon float64, nodes []nodeFixture, edges []edgeFixture) []byte {
	var buf bytes.Buffer
	buf.Write(make([]byte, tileHeaderSize))
	out := buf.Bytes()

	binary.LittleEndian.PutUint32(out[offBaseLon:], math.Float32bits(float32(baseLon)))
	binary.LittleEndian.PutUint32(out[offBaseLat:], math.Float32bits(float32(baseLat)))

	counts := packBits(
		[2]uint64{uint64(len(nodes)), 0},
		[2]uint64{uint64(len(edges)), 21},
	)
	binary.LittleEndian.PutUint64(out[offCounts:], counts)
	binary.LittleEndian.PutUint32(out[offTransCnt:], 0)

	for _, n := range nodes {
		buf.Write(n.bytes(baseLat, baseLon))
	}
	for _, e := range edges {
		buf.Write(e.bytes())
	}

	return buf.Bytes()
}

// writeTileFile gzip-compresses raw and writes it at the §4.2 path
// convention under dir, creating parent directories as needed.
func writeTileFile(dir string, id uint32, raw []byte) error {
	path := tilePath(dir, id)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	zw := gzip.NewWriter(f)
	if _, err := zw.Write(raw); err != nil {
		return err
	}
	return zw.Close()
}

const (
	fwdBike = accessBike
	fwdPed  = accessPed
	fwdCar  = accessCar
	fwdAll  = accessBike | accessPed | accessCar
)
