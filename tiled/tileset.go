package tiled

// Frame is one step of a tile animation, duration in milliseconds.
type Frame struct {
	TileID   int `json:"tileid"`
	Duration int `json:"duration"`
}

// TilesetTile carries per-tile extras, currently only animations.
type TilesetTile struct {
	ID        int     `json:"id"`
	Animation []Frame `json:"animation,omitempty"`
}

// Tileset is an external tileset document backed by a single atlas image.
type Tileset struct {
	Type        string        `json:"type"`
	Version     string        `json:"version"`
	Name        string        `json:"name"`
	TileWidth   int           `json:"tilewidth"`
	TileHeight  int           `json:"tileheight"`
	TileCount   int           `json:"tilecount"`
	Columns     int           `json:"columns"`
	Image       string        `json:"image"`
	ImageWidth  int           `json:"imagewidth"`
	ImageHeight int           `json:"imageheight"`
	Margin      int           `json:"margin"`
	Spacing     int           `json:"spacing"`
	Tiles       []TilesetTile `json:"tiles,omitempty"`
}

// NewTileset returns a tileset document for an atlas of count 8x8 tiles
// laid out in the given number of columns.
func NewTileset(name, image string, count, columns int) *Tileset {
	rows := (count + columns - 1) / columns
	return &Tileset{
		Type:        "tileset",
		Version:     "1.10",
		Name:        name,
		TileWidth:   8,
		TileHeight:  8,
		TileCount:   count,
		Columns:     columns,
		Image:       image,
		ImageWidth:  columns * 8,
		ImageHeight: rows * 8,
	}
}

// WriteFile writes the tileset document as indented JSON.
func (t *Tileset) WriteFile(path string) error {
	return writeJSON(path, t)
}
