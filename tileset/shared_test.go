package tileset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupOrInsertDedup(t *testing.T) {
	s := NewShared()
	a := asym()

	id, _, _, err := s.LookupOrInsert(a)
	require.NoError(t, err)
	assert.Equal(t, 0, id)

	again, _, _, err := s.LookupOrInsert(a)
	require.NoError(t, err)
	assert.Equal(t, id, again)
	assert.Equal(t, 1, s.Len())
}

func TestLookupOrInsertFlipToggle(t *testing.T) {
	s := NewShared()
	a := asym()

	id, flipH, flipV, err := s.LookupOrInsert(a)
	require.NoError(t, err)

	hid, hFlipH, hFlipV, err := s.LookupOrInsert(a.FlipH())
	require.NoError(t, err)
	assert.Equal(t, id, hid)
	assert.Equal(t, !flipH, hFlipH)
	assert.Equal(t, flipV, hFlipV)

	vid, vFlipH, vFlipV, err := s.LookupOrInsert(a.FlipV())
	require.NoError(t, err)
	assert.Equal(t, id, vid)
	assert.Equal(t, flipH, vFlipH)
	assert.Equal(t, !flipV, vFlipV)

	assert.Equal(t, 1, s.Len())
}

func TestLookupOrInsertEmpty(t *testing.T) {
	s := NewShared()

	var zero TileData
	id, flipH, flipV, err := s.LookupOrInsert(zero)
	require.NoError(t, err)
	assert.Equal(t, -1, id)
	assert.False(t, flipH)
	assert.False(t, flipV)
	assert.Equal(t, 0, s.Len())
}

func TestMonotonicIDs(t *testing.T) {
	s := NewShared()

	var tiles []TileData
	for i := byte(1); i <= 5; i++ {
		var td TileData
		td[0] = i
		tiles = append(tiles, td)
	}

	for want, td := range tiles {
		id, _, _, err := s.LookupOrInsert(td)
		require.NoError(t, err)
		assert.Equal(t, want, id)
	}

	// Stored content is retrievable and canonical.
	for id := range tiles {
		_, ok := s.Tile(id)
		assert.True(t, ok)
	}
	_, ok := s.Tile(len(tiles))
	assert.False(t, ok)
}

func TestFinalize(t *testing.T) {
	s := NewShared()
	_, _, _, err := s.LookupOrInsert(asym())
	require.NoError(t, err)

	count, err := s.Finalize()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.True(t, s.Finalized())

	_, err = s.Finalize()
	assert.ErrorIs(t, err, ErrFinalized)

	var other TileData
	other[0] = 9
	_, _, _, err = s.LookupOrInsert(other)
	assert.ErrorIs(t, err, ErrFinalized)

	err = s.AddAnimation(TileAnimation{TileID: 0})
	assert.ErrorIs(t, err, ErrFinalized)
}

func TestAddAnimationFirstWins(t *testing.T) {
	s := NewShared()

	require.NoError(t, s.AddAnimation(TileAnimation{TileID: 3, Frames: []Frame{{TileID: 1, DurationMs: 100}}}))
	require.NoError(t, s.AddAnimation(TileAnimation{TileID: 3, Frames: []Frame{{TileID: 2, DurationMs: 200}}}))
	require.NoError(t, s.AddAnimation(TileAnimation{TileID: 1}))

	anims := s.Animations()
	require.Len(t, anims, 2)
	assert.Equal(t, 1, anims[0].TileID)
	assert.Equal(t, 3, anims[1].TileID)
	assert.Equal(t, 100, anims[1].Frames[0].DurationMs)
}
