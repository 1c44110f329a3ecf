package tiled

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
)

// Property is a typed key/value pair attached to maps, layers or objects.
type Property struct {
	Name  string      `json:"name"`
	Type  string      `json:"type"`
	Value interface{} `json:"value"`
}

// BoolProp returns a bool property.
func BoolProp(name string, value bool) Property {
	return Property{Name: name, Type: "bool", Value: value}
}

// IntProp returns an int property.
func IntProp(name string, value int) Property {
	return Property{Name: name, Type: "int", Value: value}
}

// StringProp returns a string property.
func StringProp(name, value string) Property {
	return Property{Name: name, Type: "string", Value: value}
}

// Layer is either a tile layer or an object group in the map document.
type Layer struct {
	Type       string     `json:"type"`
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	Width      int        `json:"width,omitempty"`
	Height     int        `json:"height,omitempty"`
	Data       []uint32   `json:"data,omitempty"`
	Objects    []Object   `json:"objects,omitempty"`
	Visible    bool       `json:"visible"`
	Opacity    float64    `json:"opacity"`
	X          int        `json:"x"`
	Y          int        `json:"y"`
	Properties []Property `json:"properties,omitempty"`
}

// Object is a single placed object, coordinates in pixels.
type Object struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	Rotation   float64    `json:"rotation"`
	Visible    bool       `json:"visible"`
	Properties []Property `json:"properties,omitempty"`
}

// TilesetRef points a map at an external tileset document.
type TilesetRef struct {
	FirstGID int    `json:"firstgid"`
	Source   string `json:"source"`
}

// Map is the top-level map document.
type Map struct {
	Type             string       `json:"type"`
	Version          string       `json:"version"`
	Orientation      string       `json:"orientation"`
	RenderOrder      string       `json:"renderorder"`
	Width            int          `json:"width"`
	Height           int          `json:"height"`
	TileWidth        int          `json:"tilewidth"`
	TileHeight       int          `json:"tileheight"`
	Infinite         bool         `json:"infinite"`
	NextLayerID      int          `json:"nextlayerid"`
	NextObjectID     int          `json:"nextobjectid"`
	CompressionLevel int          `json:"compressionlevel"`
	Layers           []Layer      `json:"layers"`
	Tilesets         []TilesetRef `json:"tilesets"`
	Properties       []Property   `json:"properties,omitempty"`
}

// NewMap returns an orthogonal map document sized in 8x8 tiles.
func NewMap(width, height int) *Map {
	return &Map{
		Type:             "map",
		Version:          "1.10",
		Orientation:      "orthogonal",
		RenderOrder:      "right-down",
		Width:            width,
		Height:           height,
		TileWidth:        8,
		TileHeight:       8,
		CompressionLevel: -1,
	}
}

// AddTileLayer appends l as a tile layer, carrying the elevations along
// as a layer property so nothing decoded from the source is lost.
func (m *Map) AddTileLayer(l *LayerData) {
	m.NextLayerID++
	layer := Layer{
		Type:    "tilelayer",
		ID:      m.NextLayerID,
		Name:    l.Name,
		Width:   l.Width,
		Height:  l.Height,
		Data:    l.GIDs,
		Visible: l.Visible,
		Opacity: l.Opacity,
	}
	if csv := elevationsCSV(l.Elevations); csv != "" {
		layer.Properties = append(layer.Properties, StringProp("elevations", csv))
	}
	m.Layers = append(m.Layers, layer)
}

// AddObjectGroup appends an object group layer and renumbers its objects.
func (m *Map) AddObjectGroup(name string, objects []Object) {
	if len(objects) == 0 {
		return
	}
	m.NextLayerID++
	for i := range objects {
		m.NextObjectID++
		objects[i].ID = m.NextObjectID
		objects[i].Visible = true
	}
	m.Layers = append(m.Layers, Layer{
		Type:    "objectgroup",
		ID:      m.NextLayerID,
		Name:    name,
		Objects: objects,
		Visible: true,
		Opacity: 1.0,
	})
}

// WriteFile writes the map document as indented JSON.
func (m *Map) WriteFile(path string) error {
	return writeJSON(path, m)
}

// elevationsCSV flattens an elevation grid, or returns "" when the grid
// is entirely at ground level and not worth carrying.
func elevationsCSV(elevations []uint8) string {
	any := false
	for _, e := range elevations {
		if e != 0 {
			any = true
			break
		}
	}
	if !any {
		return ""
	}

	var b strings.Builder
	for i, e := range elevations {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(e)))
	}
	return b.String()
}

func writeJSON(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", " ")
	return enc.Encode(v)
}
