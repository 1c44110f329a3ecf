package emeraldconv

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// LoggingConfig selects the log level and an optional rotating log file.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Config holds the session settings. Values come from defaults, then an
// optional YAML file, then command line flags, in that order.
type Config struct {
	Input      string        `yaml:"input"`
	Output     string        `yaml:"output"`
	Workers    int           `yaml:"workers"`
	FirstGID   int           `yaml:"first_gid"`
	Animations string        `yaml:"animations"`
	Logging    LoggingConfig `yaml:"logging"`
}

// DefaultConfig returns the baseline settings.
func DefaultConfig() *Config {
	return &Config{
		Workers:    runtime.NumCPU(),
		FirstGID:   1,
		Animations: "animations.yaml",
		Logging:    LoggingConfig{Level: "info"},
	}
}

// LoadConfig reads a YAML config file over the defaults. An empty path
// returns the defaults untouched.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.FirstGID <= 0 {
		cfg.FirstGID = 1
	}

	return cfg, nil
}

// MapsDir is where per-map directories live under the input tree.
func (c *Config) MapsDir() string {
	return filepath.Join(c.Input, "data", "maps")
}

// LayoutsPath is the layouts table under the input tree.
func (c *Config) LayoutsPath() string {
	return filepath.Join(c.Input, "data", "layouts", "layouts.json")
}

// AnimationsPath resolves the animation definitions file, relative paths
// anchored at the input tree.
func (c *Config) AnimationsPath() string {
	if filepath.IsAbs(c.Animations) {
		return c.Animations
	}
	return filepath.Join(c.Input, c.Animations)
}

// OutputMapsDir is where converted maps are written.
func (c *Config) OutputMapsDir() string {
	return filepath.Join(c.Output, "maps")
}

// OutputTilesetsDir is where the shared tileset is written.
func (c *Config) OutputTilesetsDir() string {
	return filepath.Join(c.Output, "tilesets")
}
