/*
Package mapdata loads the JSON side of the input tree: the layouts table
and per-map metadata with its event lists. Everything here is carried
through to the output untouched.
*/
package mapdata

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// FlexString decodes JSON fields that appear as either a string or a
// number in the input tree.
type FlexString string

func (s *FlexString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	var v json.Number
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*s = FlexString(v.String())
	return nil
}

// Int returns the numeric value of s, or zero.
func (s FlexString) Int() int {
	v, err := strconv.Atoi(string(s))
	if err != nil {
		return 0
	}
	return v
}

// Layout describes one map layout: dimensions, tileset pair and the
// binary files holding the grid.
type Layout struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Width             int    `json:"width"`
	Height            int    `json:"height"`
	PrimaryTileset    string `json:"primary_tileset"`
	SecondaryTileset  string `json:"secondary_tileset"`
	BorderFilepath    string `json:"border_filepath"`
	BlockdataFilepath string `json:"blockdata_filepath"`
}

type layoutsFile struct {
	Layouts []Layout `json:"layouts"`
}

// LoadLayouts reads the layouts table and indexes it by layout id.
func LoadLayouts(path string) (map[string]Layout, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file layoutsFile
	if err := json.Unmarshal(b, &file); err != nil {
		return nil, fmt.Errorf("layouts %s: %w", path, err)
	}

	layouts := make(map[string]Layout, len(file.Layouts))
	for _, l := range file.Layouts {
		layouts[l.ID] = l
	}

	return layouts, nil
}

// ObjectEvent is a placed NPC or other overworld object.
type ObjectEvent struct {
	GraphicsID                string     `json:"graphics_id"`
	X                         int        `json:"x"`
	Y                         int        `json:"y"`
	Elevation                 int        `json:"elevation"`
	MovementType              string     `json:"movement_type"`
	MovementRangeX            int        `json:"movement_range_x"`
	MovementRangeY            int        `json:"movement_range_y"`
	TrainerType               string     `json:"trainer_type"`
	TrainerSightOrBerryTreeID FlexString `json:"trainer_sight_or_berry_tree_id"`
	Script                    string     `json:"script"`
	Flag                      string     `json:"flag"`
}

// Warp moves the player to another map.
type Warp struct {
	X          int        `json:"x"`
	Y          int        `json:"y"`
	Elevation  int        `json:"elevation"`
	DestMap    string     `json:"dest_map"`
	DestWarpID FlexString `json:"dest_warp_id"`
}

// CoordEvent is a script trigger tied to a cell.
type CoordEvent struct {
	Type      string     `json:"type"`
	X         int        `json:"x"`
	Y         int        `json:"y"`
	Elevation int        `json:"elevation"`
	Var       string     `json:"var"`
	VarValue  FlexString `json:"var_value"`
	Script    string     `json:"script"`
}

// BgEvent is a sign, hidden item or secret base entrance.
type BgEvent struct {
	Type            string `json:"type"`
	X               int    `json:"x"`
	Y               int    `json:"y"`
	Elevation       int    `json:"elevation"`
	PlayerFacingDir string `json:"player_facing_dir"`
	Script          string `json:"script"`
	Item            string `json:"item"`
	Flag            string `json:"flag"`
}

// Connection links the edge of this map to a neighbour.
type Connection struct {
	Map       string `json:"map"`
	Offset    int    `json:"offset"`
	Direction string `json:"direction"`
}

// Map is the per-map metadata document.
type Map struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Layout           string        `json:"layout"`
	Music            string        `json:"music"`
	RegionMapSection string        `json:"region_map_section"`
	RequiresFlash    bool          `json:"requires_flash"`
	Weather          string        `json:"weather"`
	MapType          string        `json:"map_type"`
	AllowCycling     bool          `json:"allow_cycling"`
	AllowEscaping    bool          `json:"allow_escaping"`
	AllowRunning     bool          `json:"allow_running"`
	ShowMapName      bool          `json:"show_map_name"`
	BattleScene      string        `json:"battle_scene"`
	Connections      []Connection  `json:"connections"`
	ObjectEvents     []ObjectEvent `json:"object_events"`
	WarpEvents       []Warp        `json:"warp_events"`
	CoordEvents      []CoordEvent  `json:"coord_events"`
	BgEvents         []BgEvent     `json:"bg_events"`
}

// LoadMap reads one map.json.
func LoadMap(path string) (*Map, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	m := new(Map)
	if err := json.Unmarshal(b, m); err != nil {
		return nil, fmt.Errorf("map %s: %w", path, err)
	}

	return m, nil
}
