/*
Package tiled holds the output-side data structures: global tile IDs with
their flip bits, tile layers, and the JSON documents for maps and tilesets.
*/
package tiled

// Flip bits occupy the top of a GID, the rest is the tile index.
const (
	GIDHorizontalFlip uint32 = 0x80000000
	GIDVerticalFlip   uint32 = 0x40000000
	GIDMask           uint32 = 0x0fffffff
)

// TileReference names a tile in the shared tileset together with the
// orientation it should be drawn in. A negative TileID is the empty tile.
type TileReference struct {
	TileID int
	FlipH  bool
	FlipV  bool
}

// Empty returns the empty tile reference.
func Empty() TileReference {
	return TileReference{TileID: -1}
}

// IsEmpty reports whether t refers to no tile at all.
func (t TileReference) IsEmpty() bool {
	return t.TileID < 0
}

// ToGID encodes t as a global tile ID. The empty tile encodes to zero,
// which layers use for untouched cells.
func (t TileReference) ToGID(firstGID int) uint32 {
	if t.TileID < 0 {
		return 0
	}
	gid := uint32(t.TileID+firstGID) & GIDMask
	if t.FlipH {
		gid |= GIDHorizontalFlip
	}
	if t.FlipV {
		gid |= GIDVerticalFlip
	}
	return gid
}

// DecodeGID is the inverse of ToGID.
func DecodeGID(gid uint32, firstGID int) TileReference {
	if gid == 0 {
		return Empty()
	}
	return TileReference{
		TileID: int(gid&GIDMask) - firstGID,
		FlipH:  gid&GIDHorizontalFlip != 0,
		FlipV:  gid&GIDVerticalFlip != 0,
	}
}
