/*
Package metatile decodes the binary metatile record tables of a tileset.

Each record is 18 bytes little-endian: eight packed tile references (the
bottom 2x2 quadrant followed by the top 2x2 quadrant, each row-major)
and one packed attribute word.
*/
package metatile

// Record geometry.
const (
	TilesPerMetatile = 8
	RecordSize       = TilesPerMetatile*2 + 2
)

// Tile reference packing, low to high: tile id, H-flip, V-flip, palette.
const (
	tileIDMask   = 0x03ff
	flipHBit     = 1 << 10
	flipVBit     = 1 << 11
	paletteShift = 12
)

// A map layout pairs a primary and a secondary tileset. Metatile indices
// below PrimaryCount resolve in the primary table; tile ids below
// PrimaryTileCount always address the primary pixel pool.
const (
	PrimaryCount     = 512
	PrimaryTileCount = 512
)

// LayerType selects how a metatile's two quadrants are routed onto the
// output background layers.
type LayerType uint8

const (
	LayerNormal LayerType = iota
	LayerCovered
	LayerSplit
)

func (l LayerType) String() string {
	switch l {
	case LayerNormal:
		return "normal"
	case LayerCovered:
		return "covered"
	case LayerSplit:
		return "split"
	}
	return "unknown"
}

// TileRef is one unpacked source tile reference. TileID indexes the
// tileset pixel pools; the palette index rides along untouched.
type TileRef struct {
	TileID  int
	FlipH   bool
	FlipV   bool
	Palette uint8
}

// Metatile is one decoded record.
type Metatile struct {
	Tiles    [TilesPerMetatile]TileRef
	Behavior uint8
	Terrain  uint8
}

// LayerType derives the layer routing from the behavior bits. It is
// never stored separately in the source data.
func (m *Metatile) LayerType() LayerType {
	return LayerType((m.Behavior >> 5) & 0x3)
}

// Bottom returns the four tile refs of the lower quadrant, row-major.
func (m *Metatile) Bottom() []TileRef {
	return m.Tiles[0:4]
}

// Top returns the four tile refs of the upper quadrant, row-major.
func (m *Metatile) Top() []TileRef {
	return m.Tiles[4:8]
}
