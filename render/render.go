/*
Package render composites converted layers into a preview image. It is
a debugging aid, not part of the conversion outputs.
*/
package render

import (
	"errors"
	"image"
	"image/color"
	"image/draw"

	"github.com/anthonynsimon/bild/transform"

	"github.com/emeraldconv/emeraldconv/tiled"
	"github.com/emeraldconv/emeraldconv/tileset"
)

// TileSource hands out canonical tile content by shared tile id.
type TileSource interface {
	Tile(id int) (tileset.TileData, bool)
}

// Map draws the given layers bottom to top and returns the composite.
// Layers must share one size.
func Map(src TileSource, pal color.Palette, firstGID int, layers ...*tiled.LayerData) (*image.NRGBA, error) {
	if len(layers) == 0 {
		return nil, errors.New("render: no layers")
	}

	w, h := layers[0].Width, layers[0].Height
	for _, l := range layers[1:] {
		if l.Width != w || l.Height != h {
			return nil, errors.New("render: layer sizes differ")
		}
	}

	out := image.NewNRGBA(image.Rect(0, 0, w*tileset.TileSize, h*tileset.TileSize))
	for _, l := range layers {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				gid := l.At(x, y)
				if gid == 0 {
					continue
				}

				ref := tiled.DecodeGID(gid, firstGID)
				t, ok := src.Tile(ref.TileID)
				if !ok {
					continue
				}

				var img image.Image = tileset.RenderTile(t, pal)
				if ref.FlipH {
					img = transform.FlipH(img)
				}
				if ref.FlipV {
					img = transform.FlipV(img)
				}

				px, py := x*tileset.TileSize, y*tileset.TileSize
				draw.Draw(out,
					image.Rect(px, py, px+tileset.TileSize, py+tileset.TileSize),
					img, img.Bounds().Min, draw.Over)
			}
		}
	}

	return out, nil
}
