package emeraldconv

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emeraldconv/emeraldconv/tileset"
)

func writePalette(t *testing.T, dir string, r, g, b uint8) {
	t.Helper()

	require.NoError(t, os.MkdirAll(dir, 0o755))
	pal := fmt.Sprintf("JASC-PAL\r\n0100\r\n2\r\n0 0 0\r\n%d %d %d\r\n", r, g, b)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "00.pal"), []byte(pal), 0o644))
}

// copyTileset duplicates a tileset directory's binary assets under a new
// name so a fixture can carry more than one tileset of the same kind.
func copyTileset(t *testing.T, root, srcKind, srcName, dstKind, dstName string) {
	t.Helper()

	src := filepath.Join(root, "data", "tilesets", srcKind, srcName)
	dst := filepath.Join(root, "data", "tilesets", dstKind, dstName)
	require.NoError(t, os.MkdirAll(dst, 0o755))
	for _, f := range []string{"metatiles.bin", "tiles.bin"} {
		b, err := os.ReadFile(filepath.Join(src, f))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dst, f), b, 0o644))
	}
}

func TestAtlasPalettePinnedToFirstPrimary(t *testing.T) {
	root := writeFixture(t)

	writePalette(t, filepath.Join(root, "data", "tilesets", "primary", "general", "palettes"), 255, 0, 0)

	copyTileset(t, root, "primary", "general", "primary", "building")
	writePalette(t, filepath.Join(root, "data", "tilesets", "primary", "building", "palettes"), 0, 0, 255)

	copyTileset(t, root, "primary", "general", "secondary", "petalburg")
	writePalette(t, filepath.Join(root, "data", "tilesets", "secondary", "petalburg", "palettes"), 0, 255, 0)

	c := newTestConverter(t, root)

	// A secondary tileset loading first must not claim the atlas palette.
	_, err := c.loadTileset("gTileset_Petalburg", true)
	require.NoError(t, err)
	_, err = c.loadTileset("gTileset_General", false)
	require.NoError(t, err)
	_, err = c.loadTileset("gTileset_Building", false)
	require.NoError(t, err)

	first := c.palette()
	require.Len(t, first, 2)
	assert.Equal(t, color.NRGBA{R: 255, A: 0xff}, first[1])

	// Once chosen the palette never changes for the session.
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, c.palette())
	}
}

func TestPaletteFallsBackToGray(t *testing.T) {
	c := newTestConverter(t, writeFixture(t))

	assert.Equal(t, tileset.GrayPalette(), c.palette())
}
