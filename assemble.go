package emeraldconv

import (
	"strconv"
	"strings"

	"github.com/emeraldconv/emeraldconv/mapdata"
	"github.com/emeraldconv/emeraldconv/metatile"
	"github.com/emeraldconv/emeraldconv/tiled"
	"github.com/emeraldconv/emeraldconv/tileset"
	"go.uber.org/zap"
)

// assembleLayers turns the decoded block grid into the three background
// layers, each sized 2x the metatile grid because a metatile is a 2x2
// quadrant of 8x8 tiles. Untouched cells stay at GID zero.
func (c *Converter) assembleLayers(cv *conversion) ([3]*tiled.LayerData, error) {
	var layers [3]*tiled.LayerData

	w, h := cv.layout.Width, cv.layout.Height
	bg1 := tiled.NewLayerData("Bg1", 2*w, 2*h)
	bg2 := tiled.NewLayerData("Bg2", 2*w, 2*h)
	bg3 := tiled.NewLayerData("Bg3", 2*w, 2*h)

	unknownLogged := false
	for i, e := range cv.entries {
		x, y := i%w, i/w

		// Every layer carries the cell's elevation, replicated per
		// quadrant cell. 15 is a bridge and passes through verbatim.
		for q := 0; q < 4; q++ {
			bg1.SetElevation(2*x+q%2, 2*y+q/2, e.Elevation)
			bg2.SetElevation(2*x+q%2, 2*y+q/2, e.Elevation)
			bg3.SetElevation(2*x+q%2, 2*y+q/2, e.Elevation)
		}

		mt, ok := cv.metatileAt(e.Metatile)
		if !ok {
			c.log.Debug("metatile index out of range",
				zap.String("map", cv.id),
				zap.Uint16("metatile", e.Metatile))
			continue
		}

		lt := mt.LayerType()
		var bottom, top *tiled.LayerData
		switch lt {
		case metatile.LayerNormal:
			bottom, top = bg2, bg1
		case metatile.LayerCovered:
			bottom, top = bg3, bg2
		case metatile.LayerSplit:
			bottom, top = bg3, bg1
		default:
			if !unknownLogged {
				c.log.Warn("unknown layer type, treating as normal",
					zap.String("map", cv.id),
					zap.Uint8("layer_type", uint8(lt)))
				unknownLogged = true
			}
			bottom, top = bg2, bg1
		}

		for q := 0; q < 4; q++ {
			tx, ty := 2*x+q%2, 2*y+q/2

			ref, err := c.resolveTile(cv, mt.Tiles[q])
			if err != nil {
				return layers, err
			}
			bottom.Set(tx, ty, ref.ToGID(c.cfg.FirstGID))

			ref, err = c.resolveTile(cv, mt.Tiles[4+q])
			if err != nil {
				return layers, err
			}
			top.Set(tx, ty, ref.ToGID(c.cfg.FirstGID))
		}
	}

	layers[0], layers[1], layers[2] = bg1, bg2, bg3
	return layers, nil
}

// metatileAt resolves a block's metatile index against the layout's
// tileset pair: indices below the primary count live in the primary
// table, the rest in the secondary table.
func (cv *conversion) metatileAt(index uint16) (*metatile.Metatile, bool) {
	i := int(index)
	if i < metatile.PrimaryCount {
		if i >= len(cv.primary.metatiles) {
			return nil, false
		}
		return &cv.primary.metatiles[i], true
	}

	i -= metatile.PrimaryCount
	if cv.secondary == nil || i >= len(cv.secondary.metatiles) {
		return nil, false
	}
	return &cv.secondary.metatiles[i], true
}

// resolveTile maps one source tile reference to a shared tile
// reference. Tile ids below the primary pool size address the primary
// pool, the rest the secondary pool. Id zero is the blank VRAM tile and
// all-zero pixel content is likewise empty; both produce GID zero.
func (c *Converter) resolveTile(cv *conversion, ref metatile.TileRef) (tiled.TileReference, error) {
	if ref.TileID == 0 {
		return tiled.Empty(), nil
	}

	var pool []tileset.TileData
	idx := ref.TileID
	if idx < metatile.PrimaryTileCount {
		pool = cv.primary.pool
	} else {
		if cv.secondary == nil {
			return tiled.Empty(), nil
		}
		pool = cv.secondary.pool
		idx -= metatile.PrimaryTileCount
	}
	if idx >= len(pool) {
		return tiled.Empty(), nil
	}

	id, flipH, flipV, err := c.shared.LookupOrInsert(pool[idx])
	if err != nil {
		return tiled.Empty(), err
	}
	if id < 0 {
		return tiled.Empty(), nil
	}

	// The stored tile is flip-normalized; compose the source flips with
	// the normalization flips.
	return tiled.TileReference{
		TileID: id,
		FlipH:  ref.FlipH != flipH,
		FlipV:  ref.FlipV != flipV,
	}, nil
}

// buildMapDocument assembles the output JSON document: tile layers
// bottom to top, pass-through metadata as properties and the event
// lists as object groups.
func (c *Converter) buildMapDocument(cv *conversion, layers [3]*tiled.LayerData) (*tiled.Map, error) {
	doc := tiled.NewMap(2*cv.layout.Width, 2*cv.layout.Height)
	doc.Tilesets = []tiled.TilesetRef{{
		FirstGID: c.cfg.FirstGID,
		Source:   "../tilesets/shared.json",
	}}

	doc.AddTileLayer(layers[2])
	doc.AddTileLayer(layers[1])
	doc.AddTileLayer(layers[0])

	m := cv.meta
	doc.Properties = append(doc.Properties,
		tiled.StringProp("id", m.ID),
		tiled.StringProp("name", m.Name),
		tiled.StringProp("music", m.Music),
		tiled.StringProp("weather", m.Weather),
		tiled.StringProp("map_type", m.MapType),
		tiled.StringProp("battle_scene", m.BattleScene),
		tiled.StringProp("region_map_section", m.RegionMapSection),
		tiled.BoolProp("requires_flash", m.RequiresFlash),
		tiled.BoolProp("show_map_name", m.ShowMapName),
		tiled.BoolProp("allow_cycling", m.AllowCycling),
		tiled.BoolProp("allow_escaping", m.AllowEscaping),
		tiled.BoolProp("allow_running", m.AllowRunning),
	)

	for _, conn := range m.Connections {
		doc.Properties = append(doc.Properties,
			tiled.StringProp("connection_"+conn.Direction,
				conn.Map+":"+strconv.Itoa(conn.Offset)))
	}

	if err := c.addBorderProperties(cv, doc); err != nil {
		return nil, err
	}

	doc.AddObjectGroup("Objects", objectEvents(m.ObjectEvents))
	doc.AddObjectGroup("Warps", warpEvents(m.WarpEvents))
	doc.AddObjectGroup("Triggers", coordEvents(m.CoordEvents))
	doc.AddObjectGroup("Signs", bgEvents(m.BgEvents))

	return doc, nil
}

// addBorderProperties converts the four border corner metatiles and
// records their GIDs as map properties, one CSV string per corner.
func (c *Converter) addBorderProperties(cv *conversion, doc *tiled.Map) error {
	for i, e := range cv.border {
		mt, ok := cv.metatileAt(e.Metatile)
		if !ok {
			continue
		}

		gids := make([]string, metatile.TilesPerMetatile)
		for j, tr := range mt.Tiles {
			ref, err := c.resolveTile(cv, tr)
			if err != nil {
				return err
			}
			gids[j] = strconv.FormatUint(uint64(ref.ToGID(c.cfg.FirstGID)), 10)
		}

		doc.Properties = append(doc.Properties,
			tiled.StringProp("border_"+strconv.Itoa(i), strings.Join(gids, ",")))
	}
	return nil
}

// Event coordinates are in metatiles; one metatile is 16 pixels.
const metatilePixels = 16

func objectEvents(events []mapdata.ObjectEvent) []tiled.Object {
	objects := make([]tiled.Object, 0, len(events))
	for _, e := range events {
		objects = append(objects, tiled.Object{
			Name:   e.GraphicsID,
			Type:   "object",
			X:      float64(e.X * metatilePixels),
			Y:      float64(e.Y * metatilePixels),
			Width:  metatilePixels,
			Height: metatilePixels,
			Properties: []tiled.Property{
				tiled.IntProp("elevation", e.Elevation),
				tiled.StringProp("movement_type", e.MovementType),
				tiled.IntProp("movement_range_x", e.MovementRangeX),
				tiled.IntProp("movement_range_y", e.MovementRangeY),
				tiled.StringProp("trainer_type", e.TrainerType),
				tiled.StringProp("trainer_sight_or_berry_tree_id", string(e.TrainerSightOrBerryTreeID)),
				tiled.StringProp("script", e.Script),
				tiled.StringProp("flag", e.Flag),
			},
		})
	}
	return objects
}

func warpEvents(events []mapdata.Warp) []tiled.Object {
	objects := make([]tiled.Object, 0, len(events))
	for _, e := range events {
		objects = append(objects, tiled.Object{
			Name:   e.DestMap,
			Type:   "warp",
			X:      float64(e.X * metatilePixels),
			Y:      float64(e.Y * metatilePixels),
			Width:  metatilePixels,
			Height: metatilePixels,
			Properties: []tiled.Property{
				tiled.IntProp("elevation", e.Elevation),
				tiled.StringProp("dest_map", e.DestMap),
				tiled.IntProp("dest_warp_id", e.DestWarpID.Int()),
			},
		})
	}
	return objects
}

func coordEvents(events []mapdata.CoordEvent) []tiled.Object {
	objects := make([]tiled.Object, 0, len(events))
	for _, e := range events {
		objects = append(objects, tiled.Object{
			Name:   e.Script,
			Type:   "trigger",
			X:      float64(e.X * metatilePixels),
			Y:      float64(e.Y * metatilePixels),
			Width:  metatilePixels,
			Height: metatilePixels,
			Properties: []tiled.Property{
				tiled.IntProp("elevation", e.Elevation),
				tiled.StringProp("var", e.Var),
				tiled.StringProp("var_value", string(e.VarValue)),
				tiled.StringProp("script", e.Script),
			},
		})
	}
	return objects
}

func bgEvents(events []mapdata.BgEvent) []tiled.Object {
	objects := make([]tiled.Object, 0, len(events))
	for _, e := range events {
		objects = append(objects, tiled.Object{
			Name:   e.Type,
			Type:   "bg",
			X:      float64(e.X * metatilePixels),
			Y:      float64(e.Y * metatilePixels),
			Width:  metatilePixels,
			Height: metatilePixels,
			Properties: []tiled.Property{
				tiled.IntProp("elevation", e.Elevation),
				tiled.StringProp("player_facing_dir", e.PlayerFacingDir),
				tiled.StringProp("script", e.Script),
				tiled.StringProp("item", e.Item),
				tiled.StringProp("flag", e.Flag),
			},
		})
	}
	return objects
}
