package metatile

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrFormat is returned when a metatile blob is structurally invalid.
var ErrFormat = errors.New("metatile: malformed record data")

// Decode unpacks a whole metatile table. The blob must be an exact
// multiple of the record size; a ragged tail is an error, not a truncated
// table.
func Decode(data []byte) ([]Metatile, error) {
	if len(data) == 0 || len(data)%RecordSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrFormat, len(data), RecordSize)
	}

	metatiles := make([]Metatile, len(data)/RecordSize)
	for i := range metatiles {
		record := data[i*RecordSize : (i+1)*RecordSize]
		for j := 0; j < TilesPerMetatile; j++ {
			metatiles[i].Tiles[j] = unpackTileRef(binary.LittleEndian.Uint16(record[j*2:]))
		}
		attributes := binary.LittleEndian.Uint16(record[TilesPerMetatile*2:])
		metatiles[i].Behavior = uint8(attributes)
		metatiles[i].Terrain = uint8(attributes >> 8)
	}

	return metatiles, nil
}

func unpackTileRef(v uint16) TileRef {
	return TileRef{
		TileID:  int(v & tileIDMask),
		FlipH:   v&flipHBit != 0,
		FlipV:   v&flipVBit != 0,
		Palette: uint8(v >> paletteShift),
	}
}
