package emeraldconv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Positive(t, cfg.Workers)
	assert.Equal(t, 1, cfg.FirstGID)
	assert.Equal(t, "animations.yaml", cfg.Animations)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emeraldconv.yaml")
	doc := `input: /data/decomp
output: /data/out
workers: 4
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/decomp", cfg.Input)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Unset values keep their defaults.
	assert.Equal(t, 1, cfg.FirstGID)

	// Empty path is just the defaults.
	cfg, err = LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfigPaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Input = "/in"
	cfg.Output = "/out"

	assert.Equal(t, filepath.Join("/in", "data", "maps"), cfg.MapsDir())
	assert.Equal(t, filepath.Join("/in", "data", "layouts", "layouts.json"), cfg.LayoutsPath())
	assert.Equal(t, filepath.Join("/in", "animations.yaml"), cfg.AnimationsPath())
	assert.Equal(t, filepath.Join("/out", "maps"), cfg.OutputMapsDir())

	cfg.Animations = "/abs/animations.yaml"
	assert.Equal(t, "/abs/animations.yaml", cfg.AnimationsPath())
}

func TestTilesetDirName(t *testing.T) {
	assert.Equal(t, "general", tilesetDirName("gTileset_General"))
	assert.Equal(t, "mauville_gym", tilesetDirName("gTileset_MauvilleGym"))
	assert.Equal(t, "route110", tilesetDirName("gTileset_Route110"))
}
