package metatile

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(refs [TilesPerMetatile]uint16, behavior, terrain uint8) []byte {
	b := make([]byte, RecordSize)
	for i, r := range refs {
		binary.LittleEndian.PutUint16(b[i*2:], r)
	}
	binary.LittleEndian.PutUint16(b[TilesPerMetatile*2:], uint16(behavior)|uint16(terrain)<<8)
	return b
}

func TestDecode(t *testing.T) {
	// Tile 0x0123 with H-flip and palette 2 in the first slot.
	var refs [TilesPerMetatile]uint16
	refs[0] = 0x0123 | flipHBit | 2<<paletteShift
	refs[5] = 0x0042 | flipVBit

	metatiles, err := Decode(record(refs, 0x21, 0x07))
	require.NoError(t, err)
	require.Len(t, metatiles, 1)

	m := metatiles[0]
	assert.Equal(t, TileRef{TileID: 0x123, FlipH: true, Palette: 2}, m.Tiles[0])
	assert.Equal(t, TileRef{TileID: 0x42, FlipV: true}, m.Tiles[5])
	assert.Equal(t, uint8(0x21), m.Behavior)
	assert.Equal(t, uint8(0x07), m.Terrain)
}

func TestDecodeRaggedLength(t *testing.T) {
	_, err := Decode(make([]byte, RecordSize+1))
	assert.ErrorIs(t, err, ErrFormat)

	_, err = Decode(nil)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestLayerType(t *testing.T) {
	tables := []struct {
		behavior uint8
		want     LayerType
	}{
		{0x00, LayerNormal},
		{0x20, LayerCovered},
		{0x40, LayerSplit},
		{0x1f, LayerNormal},
		{0x3f, LayerCovered},
	}

	for _, table := range tables {
		m := Metatile{Behavior: table.behavior}
		assert.Equal(t, table.want, m.LayerType(), "behavior 0x%02x", table.behavior)
	}
}

func TestQuadrants(t *testing.T) {
	var m Metatile
	for i := range m.Tiles {
		m.Tiles[i].TileID = i
	}

	assert.Equal(t, 0, m.Bottom()[0].TileID)
	assert.Equal(t, 3, m.Bottom()[3].TileID)
	assert.Equal(t, 4, m.Top()[0].TileID)
	assert.Equal(t, 7, m.Top()[3].TileID)
}
