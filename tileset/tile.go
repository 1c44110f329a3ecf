/*
Package tileset reads 4bpp tile pixel pools and deduplicates tiles from
every converted map into a single shared tileset. Tiles are compared in
a flip-normalized form so a tile and its mirrored variants share one
entry, with the flips recovered at reference time.
*/
package tileset

import (
	"bytes"
	"errors"
	"fmt"
)

const (
	// TileSize is the pixel width and height of one tile.
	TileSize = 8
	// TilePixels is the pixel count of one tile.
	TilePixels = TileSize * TileSize
	// BytesPerTile is the size of one packed 4bpp tile.
	BytesPerTile = TilePixels / 2
)

// ErrFormat is returned when tile pixel data is structurally invalid.
var ErrFormat = errors.New("tileset: malformed tile data")

// TileData holds one unpacked tile, one 4-bit palette index per pixel,
// row-major. Treated as immutable once read.
type TileData [TilePixels]byte

// ReadPool unpacks a 4bpp pixel pool into individual tiles. Within each
// byte the low nibble is the left pixel.
func ReadPool(data []byte) ([]TileData, error) {
	if len(data)%BytesPerTile != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrFormat, len(data), BytesPerTile)
	}

	tiles := make([]TileData, len(data)/BytesPerTile)
	for i := range tiles {
		block := data[i*BytesPerTile : (i+1)*BytesPerTile]
		for j, b := range block {
			tiles[i][j*2] = b & 0x0f
			tiles[i][j*2+1] = b >> 4
		}
	}

	return tiles, nil
}

// IsEmpty reports whether every pixel is palette index zero.
func (t TileData) IsEmpty() bool {
	for _, p := range t {
		if p != 0 {
			return false
		}
	}
	return true
}

// FlipH returns the tile mirrored left to right.
func (t TileData) FlipH() TileData {
	var out TileData
	for y := 0; y < TileSize; y++ {
		for x := 0; x < TileSize; x++ {
			out[y*TileSize+x] = t[y*TileSize+(TileSize-1-x)]
		}
	}
	return out
}

// FlipV returns the tile mirrored top to bottom.
func (t TileData) FlipV() TileData {
	var out TileData
	for y := 0; y < TileSize; y++ {
		copy(out[y*TileSize:(y+1)*TileSize], t[(TileSize-1-y)*TileSize:(TileSize-y)*TileSize])
	}
	return out
}

func (t TileData) orient(flipH, flipV bool) TileData {
	out := t
	if flipH {
		out = out.FlipH()
	}
	if flipV {
		out = out.FlipV()
	}
	return out
}

// canonical returns the lexicographically smallest of the four
// orientations of t, plus the flips that turn the canonical form back
// into t. Flips are involutions, so the same pair maps both ways.
func (t TileData) canonical() (TileData, bool, bool) {
	best, bestH, bestV := t, false, false
	for _, o := range [...]struct{ h, v bool }{{true, false}, {false, true}, {true, true}} {
		if c := t.orient(o.h, o.v); bytes.Compare(c[:], best[:]) < 0 {
			best, bestH, bestV = c, o.h, o.v
		}
	}
	return best, bestH, bestV
}
