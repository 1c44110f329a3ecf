package emeraldconv

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/emeraldconv/emeraldconv/metatile"
	"github.com/emeraldconv/emeraldconv/tileset"
)

// tilesetAssets is everything read from one tileset directory.
type tilesetAssets struct {
	name      string
	secondary bool
	metatiles []metatile.Metatile
	pool      []tileset.TileData
	palette   color.Palette
}

// loadTileset reads and caches a tileset by its table name, e.g.
// "gTileset_General". Loads race at worst; the first cached copy wins.
func (c *Converter) loadTileset(name string, secondary bool) (*tilesetAssets, error) {
	c.mu.Lock()
	ts, ok := c.tilesets[name]
	c.mu.Unlock()
	if ok {
		return ts, nil
	}

	dir := c.tilesetDir(name, secondary)

	mb, err := os.ReadFile(filepath.Join(dir, "metatiles.bin"))
	if err != nil {
		return nil, err
	}
	metatiles, err := metatile.Decode(mb)
	if err != nil {
		return nil, fmt.Errorf("tileset %s: %w", name, err)
	}

	tb, err := os.ReadFile(filepath.Join(dir, "tiles.bin"))
	if err != nil {
		return nil, err
	}
	pool, err := tileset.ReadPool(tb)
	if err != nil {
		return nil, fmt.Errorf("tileset %s: %w", name, err)
	}

	ts = &tilesetAssets{
		name:      name,
		secondary: secondary,
		metatiles: metatiles,
		pool:      pool,
		palette:   loadFirstPalette(filepath.Join(dir, "palettes")),
	}

	c.mu.Lock()
	if cached, ok := c.tilesets[name]; ok {
		ts = cached
	} else {
		c.tilesets[name] = ts
		// Pin the atlas palette to the first primary palette cached so
		// the atlas and previews come out the same every call.
		if c.atlasPal == nil && !ts.secondary && ts.palette != nil {
			c.atlasPal = ts.palette
		}
	}
	c.mu.Unlock()

	return ts, nil
}

// loadFirstPalette returns the lowest-numbered readable palette in dir,
// or nil. Palettes only color previews and the atlas; they are not part
// of tile identity.
func loadFirstPalette(dir string) color.Palette {
	for i := 0; i < 16; i++ {
		pal, err := tileset.LoadPalette(filepath.Join(dir, fmt.Sprintf("%02d.pal", i)))
		if err == nil {
			return pal
		}
	}
	return nil
}

func (c *Converter) tilesetDir(name string, secondary bool) string {
	kind := "primary"
	if secondary {
		kind = "secondary"
	}
	return filepath.Join(c.cfg.Input, "data", "tilesets", kind, tilesetDirName(name))
}

// tilesetDirName maps a table name like "gTileset_MauvilleGym" to its
// directory name "mauville_gym".
func tilesetDirName(name string) string {
	name = strings.TrimPrefix(name, "gTileset_")

	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// animationKey is the tileset name animation definitions are keyed by.
func animationKey(name string) string {
	return tilesetDirName(name)
}
