package tileset

import (
	"bytes"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPalette(t *testing.T) {
	path := filepath.Join(t.TempDir(), "00.pal")
	require.NoError(t, os.WriteFile(path, []byte("JASC-PAL\r\n0100\r\n3\r\n255 0 255\r\n0 0 0\r\n255 255 255\r\n"), 0o644))

	pal, err := LoadPalette(path)
	require.NoError(t, err)
	require.Len(t, pal, 3)

	// Index zero is transparent regardless of its stated color.
	assert.Equal(t, color.NRGBA{R: 255, B: 255}, pal[0])
	assert.Equal(t, color.NRGBA{A: 0xff}, pal[1])
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 0xff}, pal[2])
}

func TestLoadPaletteBadHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "00.pal")
	require.NoError(t, os.WriteFile(path, []byte("RIFF\n0100\n16\n"), 0o644))

	_, err := LoadPalette(path)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestGrayPalette(t *testing.T) {
	pal := GrayPalette()
	require.Len(t, pal, ColorsPerPalette)
	assert.Equal(t, color.NRGBA{}, pal[0])
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 0xff}, pal[15])
}

func TestWriteAtlas(t *testing.T) {
	s := NewShared()
	for i := byte(1); i <= 3; i++ {
		_, _, _, err := s.LookupOrInsert(frameTile(i))
		require.NoError(t, err)
	}

	// Atlas before finalize is refused.
	var buf bytes.Buffer
	assert.ErrorIs(t, s.WriteAtlas(&buf, GrayPalette()), ErrNotFinalized)

	count, err := s.Finalize()
	require.NoError(t, err)

	require.NoError(t, s.WriteAtlas(&buf, GrayPalette()))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, AtlasBounds(count), img.Bounds())
}
