/*
Package blockdata decodes the packed per-cell map grid. Each cell is one
little-endian u16: metatile index in the low ten bits, collision in bits
10-11, elevation in the top nibble.
*/
package blockdata

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// EntrySize is the byte width of one grid cell.
	EntrySize = 2

	metatileMask   = 0x03ff
	collisionShift = 10
	collisionMask  = 0x3
	elevationShift = 12
)

// BorderEntries is the number of cells in a border block.
const BorderEntries = 4

// ErrFormat is returned when a block buffer does not match the expected
// dimensions.
var ErrFormat = errors.New("blockdata: malformed block data")

// Entry is one decoded grid cell. Elevation 15 marks a bridge and is
// passed through untouched.
type Entry struct {
	Metatile  uint16
	Collision uint8
	Elevation uint8
}

// DecodeEntry unpacks a single cell.
func DecodeEntry(v uint16) Entry {
	return Entry{
		Metatile:  v & metatileMask,
		Collision: uint8(v>>collisionShift) & collisionMask,
		Elevation: uint8(v >> elevationShift),
	}
}

// Decode unpacks a width*height grid. The buffer must hold exactly one
// entry per cell.
func Decode(data []byte, width, height int) ([]Entry, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: invalid dimensions %dx%d", ErrFormat, width, height)
	}
	if len(data)%EntrySize != 0 || len(data)/EntrySize != width*height {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d grid", ErrFormat, len(data), width, height)
	}

	entries := make([]Entry, width*height)
	for i := range entries {
		entries[i] = DecodeEntry(binary.LittleEndian.Uint16(data[i*EntrySize:]))
	}

	return entries, nil
}

// DecodeBorder unpacks the four corner cells of a border block. Some
// layouts pad the file; anything beyond the four entries is ignored.
func DecodeBorder(data []byte) ([]Entry, error) {
	if len(data) < BorderEntries*EntrySize {
		return nil, fmt.Errorf("%w: border block is %d bytes, need %d", ErrFormat, len(data), BorderEntries*EntrySize)
	}
	return Decode(data[:BorderEntries*EntrySize], 2, 2)
}
