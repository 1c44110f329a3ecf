package tiled

// LayerData is one background layer of a converted map, sized in 8x8
// tiles. Cells left at GID zero are empty. Elevations carries the
// per-tile elevation nibble alongside the GIDs; 15 marks a bridge.
type LayerData struct {
	Name       string
	Width      int
	Height     int
	GIDs       []uint32
	Elevations []uint8
	Visible    bool
	Opacity    float64
}

// NewLayerData returns a full-size layer with every cell empty.
func NewLayerData(name string, width, height int) *LayerData {
	return &LayerData{
		Name:       name,
		Width:      width,
		Height:     height,
		GIDs:       make([]uint32, width*height),
		Elevations: make([]uint8, width*height),
		Visible:    true,
		Opacity:    1.0,
	}
}

// Set places gid at (x, y). Out-of-range coordinates are ignored.
func (l *LayerData) Set(x, y int, gid uint32) {
	if x < 0 || y < 0 || x >= l.Width || y >= l.Height {
		return
	}
	l.GIDs[y*l.Width+x] = gid
}

// At returns the GID at (x, y), or zero when out of range.
func (l *LayerData) At(x, y int) uint32 {
	if x < 0 || y < 0 || x >= l.Width || y >= l.Height {
		return 0
	}
	return l.GIDs[y*l.Width+x]
}

// SetElevation records the elevation nibble for (x, y).
func (l *LayerData) SetElevation(x, y int, elevation uint8) {
	if x < 0 || y < 0 || x >= l.Width || y >= l.Height {
		return
	}
	l.Elevations[y*l.Width+x] = elevation
}
