package bikeroute

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
)

// tilePath builds the on-disk path for a level-2 tile id:
// <tiles_root>/2/<AAA>/<BBB>/<CCC>.gph.gz, each component zero-padded to
// three digits, AAA = id/1e6, BBB = (id/1e3) mod 1e3, CCC = id mod 1e3 (§4.2).
func tilePath(tilesRoot string, id uint32) string {
	aaa := id / 1_000_000
	bbb := (id / 1_000) % 1_000
	ccc := id % 1_000
	return filepath.Join(tilesRoot, "2",
		fmt.Sprintf("%03d", aaa),
		fmt.Sprintf("%03d", bbb),
		fmt.Sprintf("%03d.gph.gz", ccc),
	)
}

// loadTileBytes reads and decompresses the tile file for id under
// tilesRoot. It accepts an uncompressed fallback at the same path minus the
// .gz suffix (§6). The gzip path uses klauspost/compress, a drop-in
// io.Reader-compatible inflater already pulled transitively by this
// module's HTTP stack.
func loadTileBytes(tilesRoot string, id uint32) ([]byte, error) {
	gzPath := tilePath(tilesRoot, id)

	if data, err := readGzipFile(gzPath); err == nil {
		return data, nil
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	plainPath := gzPath[:len(gzPath)-len(".gz")]
	data, err := os.ReadFile(plainPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: tile %d (%s)", ErrTileNotFound, id, plainPath)
		}
		return nil, fmt.Errorf("bikeroute: reading tile %d: %w", id, err)
	}
	return data, nil
}

func readGzipFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("bikeroute: opening gzip stream %s: %w", path, err)
	}
	defer zr.Close()

	data, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("bikeroute: decompressing %s: %w", path, err)
	}
	return data, nil
}
