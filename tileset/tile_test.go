package tileset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pack is the inverse of ReadPool for a single tile.
func pack(t TileData) []byte {
	b := make([]byte, BytesPerTile)
	for j := range b {
		b[j] = t[j*2]&0x0f | t[j*2+1]<<4
	}
	return b
}

// asym returns a tile with no flip symmetry.
func asym() TileData {
	var t TileData
	t[0] = 1
	t[1] = 2
	t[TileSize] = 3
	return t
}

func TestReadPool(t *testing.T) {
	want := asym()
	tiles, err := ReadPool(pack(want))
	require.NoError(t, err)
	require.Len(t, tiles, 1)
	assert.Equal(t, want, tiles[0])
}

func TestReadPoolNibbleOrder(t *testing.T) {
	// 0x21 unpacks low nibble first: left pixel 1, right pixel 2.
	b := make([]byte, BytesPerTile)
	b[0] = 0x21

	tiles, err := ReadPool(b)
	require.NoError(t, err)
	assert.Equal(t, byte(1), tiles[0][0])
	assert.Equal(t, byte(2), tiles[0][1])
}

func TestReadPoolRaggedLength(t *testing.T) {
	_, err := ReadPool(make([]byte, BytesPerTile-1))
	assert.ErrorIs(t, err, ErrFormat)
}

func TestFlips(t *testing.T) {
	a := asym()

	h := a.FlipH()
	assert.Equal(t, byte(1), h[TileSize-1])
	assert.Equal(t, byte(2), h[TileSize-2])
	assert.Equal(t, a, h.FlipH())

	v := a.FlipV()
	assert.Equal(t, byte(1), v[(TileSize-1)*TileSize])
	assert.Equal(t, a, v.FlipV())

	assert.Equal(t, a.FlipH().FlipV(), a.FlipV().FlipH())
}

func TestCanonicalOrientation(t *testing.T) {
	a := asym()

	// All four orientations share one canonical form, and the returned
	// flips map the canonical form back to the presented one.
	canon, _, _ := a.canonical()
	for _, o := range []TileData{a, a.FlipH(), a.FlipV(), a.FlipH().FlipV()} {
		got, flipH, flipV := o.canonical()
		assert.Equal(t, canon, got)
		assert.Equal(t, o, got.orient(flipH, flipV))
	}
}

func TestIsEmpty(t *testing.T) {
	var zero TileData
	assert.True(t, zero.IsEmpty())
	assert.False(t, asym().IsEmpty())
}
