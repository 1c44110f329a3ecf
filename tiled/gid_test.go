package tiled

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGIDRoundTrip(t *testing.T) {
	tables := []TileReference{
		{TileID: 0},
		{TileID: 1},
		{TileID: 1, FlipH: true},
		{TileID: 1, FlipV: true},
		{TileID: 1, FlipH: true, FlipV: true},
		{TileID: 0x0ffffffd, FlipH: true, FlipV: true},
	}

	for _, table := range tables {
		gid := table.ToGID(1)
		assert.Equal(t, table, DecodeGID(gid, 1))
	}
}

func TestGIDEmpty(t *testing.T) {
	assert.Equal(t, uint32(0), Empty().ToGID(1))
	assert.Equal(t, uint32(0), TileReference{TileID: -1, FlipH: true}.ToGID(1))
	assert.True(t, DecodeGID(0, 1).IsEmpty())
}

func TestGIDFlipBits(t *testing.T) {
	gid := TileReference{TileID: 4, FlipH: true}.ToGID(1)
	assert.Equal(t, GIDHorizontalFlip, gid&GIDHorizontalFlip)
	assert.Equal(t, uint32(0), gid&GIDVerticalFlip)
	assert.Equal(t, uint32(5), gid&GIDMask)
}
