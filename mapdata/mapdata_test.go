package mapdata

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexString(t *testing.T) {
	var m struct {
		A FlexString `json:"a"`
		B FlexString `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": "12", "b": 7}`), &m))
	assert.Equal(t, 12, m.A.Int())
	assert.Equal(t, 7, m.B.Int())
	assert.Equal(t, 0, FlexString("LOCALID_PLAYER").Int())
}

func TestLoadLayouts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layouts.json")
	doc := `{
 "layouts_table_label": "gMapLayouts",
 "layouts": [
  {"id": "LAYOUT_TEST", "name": "Test_Layout", "width": 20, "height": 20,
   "primary_tileset": "gTileset_General", "secondary_tileset": "gTileset_Petalburg",
   "blockdata_filepath": "data/layouts/Test/map.bin",
   "border_filepath": "data/layouts/Test/border.bin"}
 ]
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	layouts, err := LoadLayouts(path)
	require.NoError(t, err)
	require.Len(t, layouts, 1)

	l := layouts["LAYOUT_TEST"]
	assert.Equal(t, 20, l.Width)
	assert.Equal(t, "gTileset_Petalburg", l.SecondaryTileset)
	assert.Equal(t, "data/layouts/Test/map.bin", l.BlockdataFilepath)
}

func TestLoadMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.json")
	doc := `{
 "id": "MAP_TEST", "name": "Test", "layout": "LAYOUT_TEST",
 "music": "MUS_TEST", "weather": "WEATHER_RAIN",
 "warp_events": [{"x": 3, "y": 4, "elevation": 0, "dest_map": "MAP_OTHER", "dest_warp_id": 2}],
 "object_events": [{"graphics_id": "OBJ_EVENT_GFX_BOY", "x": 1, "y": 2, "elevation": 3,
   "trainer_sight_or_berry_tree_id": "0"}]
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	m, err := LoadMap(path)
	require.NoError(t, err)
	assert.Equal(t, "MAP_TEST", m.ID)
	require.Len(t, m.WarpEvents, 1)
	assert.Equal(t, 2, m.WarpEvents[0].DestWarpID.Int())
	require.Len(t, m.ObjectEvents, 1)
	assert.Equal(t, "OBJ_EVENT_GFX_BOY", m.ObjectEvents[0].GraphicsID)
}
