/*
Package emeraldconv converts the binary map and tileset assets of a ROM
decompilation tree into Tiled-compatible JSON maps backed by a single
shared, deduplicated tileset.

A Converter owns one conversion session: maps are decoded in parallel,
committed to the shared tileset in a fixed order so tile ids are
reproducible, and the session ends by finalizing the tileset and writing
the atlas.
*/
package emeraldconv

import (
	"errors"
	"image/color"
	"sync"

	"go.uber.org/zap"

	"github.com/emeraldconv/emeraldconv/mapdata"
	"github.com/emeraldconv/emeraldconv/tileset"
)

// Session consistency errors. These are fatal; per-map decode failures
// are reported through ConversionResult instead.
var (
	ErrFinalized     = errors.New("emeraldconv: session already finalized")
	ErrUnknownLayout = errors.New("emeraldconv: map references unknown layout")
	ErrUnknownMap    = errors.New("emeraldconv: no such map")
	ErrSessionActive = errors.New("emeraldconv: conversion still in progress")
)

// Converter owns one conversion session over an input tree.
type Converter struct {
	cfg    *Config
	log    *zap.Logger
	shared *tileset.Shared

	layouts map[string]mapdata.Layout
	anims   map[string][]tileset.AnimationDefinition

	mu        sync.Mutex
	tilesets  map[string]*tilesetAssets
	atlasPal  color.Palette
	resolved  map[string]bool
	converted []committedMap
	results   []ConversionResult
	active    int
}

// committedMap keeps what GenerateDefinitions needs after a successful
// commit.
type committedMap struct {
	meta   *mapdata.Map
	layout mapdata.Layout
}

// New opens a conversion session over the input tree named by cfg. The
// layouts table and the animation definitions are loaded up front; maps
// and tilesets are read on demand.
func New(cfg *Config, log *zap.Logger) (*Converter, error) {
	layouts, err := mapdata.LoadLayouts(cfg.LayoutsPath())
	if err != nil {
		return nil, err
	}

	anims, err := tileset.LoadAnimations(cfg.AnimationsPath())
	if err != nil {
		return nil, err
	}

	return &Converter{
		cfg:      cfg,
		log:      log,
		shared:   tileset.NewShared(),
		layouts:  layouts,
		anims:    anims,
		tilesets: make(map[string]*tilesetAssets),
		resolved: make(map[string]bool),
	}, nil
}

// Shared exposes the session's shared tileset, read-only use intended.
func (c *Converter) Shared() *tileset.Shared {
	return c.shared
}

// Results returns a copy of every ConversionResult recorded so far.
func (c *Converter) Results() []ConversionResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]ConversionResult, len(c.results))
	copy(out, c.results)
	return out
}

// palette returns the atlas palette: the first primary tileset palette
// cached this session, else a grayscale ramp. The choice is pinned at
// cache time so repeated calls agree.
func (c *Converter) palette() color.Palette {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.atlasPal != nil {
		return c.atlasPal
	}
	return tileset.GrayPalette()
}
