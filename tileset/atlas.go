package tileset

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/ericpauley/go-quantize/quantize"
)

// AtlasColumns is the tile width of the shared atlas image.
const AtlasColumns = 16

// AtlasBounds returns the pixel size of the atlas for count tiles.
func AtlasBounds(count int) image.Rectangle {
	rows := (count + AtlasColumns - 1) / AtlasColumns
	if rows == 0 {
		rows = 1
	}
	return image.Rect(0, 0, AtlasColumns*TileSize, rows*TileSize)
}

// RenderTile draws one tile through pal into an RGBA image. Palette
// index zero is transparent.
func RenderTile(t TileData, pal color.Palette) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, TileSize, TileSize))
	for y := 0; y < TileSize; y++ {
		for x := 0; x < TileSize; x++ {
			p := int(t[y*TileSize+x])
			if p == 0 || p >= len(pal) {
				continue
			}
			img.Set(x, y, pal[p])
		}
	}
	return img
}

// WriteAtlas renders every canonical tile through pal and encodes the
// atlas as an indexed PNG. The tileset must be finalized first so the
// image and the ids handed out to maps cannot drift. When the rendered
// colors exceed the indexed limit the palette is quantized down.
func (s *Shared) WriteAtlas(w io.Writer, pal color.Palette) error {
	s.mu.Lock()
	if !s.finalized {
		s.mu.Unlock()
		return ErrNotFinalized
	}
	tiles := s.tiles
	s.mu.Unlock()

	rgba := image.NewNRGBA(AtlasBounds(len(tiles)))
	for id, t := range tiles {
		tx := (id % AtlasColumns) * TileSize
		ty := (id / AtlasColumns) * TileSize
		draw.Draw(rgba, image.Rect(tx, ty, tx+TileSize, ty+TileSize), RenderTile(t, pal), image.Point{}, draw.Src)
	}

	out := indexed(rgba)
	return png.Encode(w, out)
}

func indexed(m *image.NRGBA) *image.Paletted {
	seen := make(map[color.NRGBA]struct{})
	exact := make(color.Palette, 0, 256)
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y && exact != nil; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := m.NRGBAAt(x, y)
			if _, ok := seen[c]; ok {
				continue
			}
			if len(exact) == 256 {
				exact = nil
				break
			}
			seen[c] = struct{}{}
			exact = append(exact, c)
		}
	}

	pal := exact
	if pal == nil {
		q := quantize.MedianCutQuantizer{AddTransparent: true}
		pal = q.Quantize(make(color.Palette, 0, 256), m)
	}

	pm := image.NewPaletted(b, pal)
	draw.Draw(pm, b, m, b.Min, draw.Src)
	return pm
}
