package emeraldconv

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/emeraldconv/emeraldconv/blockdata"
	"github.com/emeraldconv/emeraldconv/mapdata"
	"github.com/emeraldconv/emeraldconv/render"
	"github.com/emeraldconv/emeraldconv/tileset"
	"go.uber.org/zap"
)

// State tracks a map through its conversion.
type State int

const (
	StatePending State = iota
	StateReading
	StateDecoding
	StateAssembling
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateReading:
		return "reading"
	case StateDecoding:
		return "decoding"
	case StateAssembling:
		return "assembling"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// ConversionResult is the outcome of converting one map. TileCount is
// the number of new canonical tiles the map contributed.
type ConversionResult struct {
	MapID      string
	Success    bool
	Err        error
	Duration   time.Duration
	LayerCount int
	TileCount  int
}

// conversion is the in-flight state of one map. Everything up to and
// including decoding touches no shared state, so decode can run in
// parallel; commit must not.
type conversion struct {
	id      string
	state   State
	err     error
	started time.Time

	meta    *mapdata.Map
	layout  mapdata.Layout
	entries []blockdata.Entry
	border  []blockdata.Entry

	primary   *tilesetAssets
	secondary *tilesetAssets
}

func (cv *conversion) fail(err error) *conversion {
	cv.state = StateFailed
	cv.err = err
	return cv
}

// decodeMap reads and decodes everything one map needs. Failures leave
// the shared tileset untouched.
func (c *Converter) decodeMap(id string) *conversion {
	cv := &conversion{id: id, state: StateReading, started: time.Now()}

	meta, err := mapdata.LoadMap(filepath.Join(c.cfg.MapsDir(), id, "map.json"))
	if err != nil {
		if os.IsNotExist(err) {
			err = fmt.Errorf("%w: %s", ErrUnknownMap, id)
		}
		return cv.fail(err)
	}
	cv.meta = meta

	layout, ok := c.layouts[meta.Layout]
	if !ok {
		return cv.fail(fmt.Errorf("%w: %s wants %q", ErrUnknownLayout, id, meta.Layout))
	}
	cv.layout = layout

	blocks, err := os.ReadFile(filepath.Join(c.cfg.Input, layout.BlockdataFilepath))
	if err != nil {
		return cv.fail(err)
	}

	cv.primary, err = c.loadTileset(layout.PrimaryTileset, false)
	if err != nil {
		return cv.fail(err)
	}
	if layout.SecondaryTileset != "" {
		cv.secondary, err = c.loadTileset(layout.SecondaryTileset, true)
		if err != nil {
			return cv.fail(err)
		}
	}

	cv.state = StateDecoding

	cv.entries, err = blockdata.Decode(blocks, layout.Width, layout.Height)
	if err != nil {
		return cv.fail(fmt.Errorf("map %s: %w", id, err))
	}

	if layout.BorderFilepath != "" {
		bb, err := os.ReadFile(filepath.Join(c.cfg.Input, layout.BorderFilepath))
		if err == nil {
			cv.border, err = blockdata.DecodeBorder(bb)
		}
		if err != nil && !os.IsNotExist(err) {
			return cv.fail(fmt.Errorf("map %s: %w", id, err))
		}
	}

	return cv
}

// commitMap runs the serial half of a conversion: canonicalize every
// tile the map uses, assemble the layers and write the output document.
// Must be called from a single goroutine in a fixed map order so shared
// tile ids are reproducible.
func (c *Converter) commitMap(cv *conversion) ConversionResult {
	if cv.state == StateFailed {
		return c.record(cv, 0)
	}
	if c.shared.Finalized() {
		cv.fail(ErrFinalized)
		return c.record(cv, 0)
	}

	cv.state = StateAssembling
	before := c.shared.Len()

	layers, err := c.assembleLayers(cv)
	if err != nil {
		cv.fail(err)
		return c.record(cv, 0)
	}

	c.resolveTilesetAnimations(cv.primary)
	c.resolveTilesetAnimations(cv.secondary)

	doc, err := c.buildMapDocument(cv, layers)
	if err != nil {
		cv.fail(err)
		return c.record(cv, 0)
	}

	if err := os.MkdirAll(c.cfg.OutputMapsDir(), 0o755); err != nil {
		cv.fail(err)
		return c.record(cv, 0)
	}
	name := cv.id
	if cv.meta.ID != "" {
		name = cv.meta.ID
	}
	out := filepath.Join(c.cfg.OutputMapsDir(), outputName(name)+".json")
	if err := doc.WriteFile(out); err != nil {
		cv.fail(err)
		return c.record(cv, 0)
	}

	cv.state = StateCompleted
	return c.record(cv, c.shared.Len()-before)
}

// record stores the result and, on success, the metadata the definition
// catalog aggregates later.
func (c *Converter) record(cv *conversion, newTiles int) ConversionResult {
	res := ConversionResult{
		MapID:    cv.id,
		Success:  cv.state == StateCompleted,
		Err:      cv.err,
		Duration: time.Since(cv.started),
	}
	if res.Success {
		res.LayerCount = 3
		res.TileCount = newTiles
	}

	c.mu.Lock()
	c.results = append(c.results, res)
	if res.Success {
		c.converted = append(c.converted, committedMap{meta: cv.meta, layout: cv.layout})
	}
	c.mu.Unlock()

	if res.Success {
		c.log.Info("converted map",
			zap.String("map", cv.id),
			zap.Int("new_tiles", newTiles),
			zap.Duration("took", res.Duration))
	} else {
		c.log.Error("map conversion failed",
			zap.String("map", cv.id),
			zap.Error(cv.err))
	}

	return res
}

// resolveTilesetAnimations attaches a tileset's animations to the shared
// tileset the first time that tileset is committed.
func (c *Converter) resolveTilesetAnimations(ts *tilesetAssets) {
	if ts == nil {
		return
	}

	c.mu.Lock()
	done := c.resolved[ts.name]
	c.resolved[ts.name] = true
	c.mu.Unlock()
	if done {
		return
	}

	defs := c.anims[animationKey(ts.name)]
	if len(defs) == 0 {
		return
	}

	if err := tileset.ResolveAnimations(defs, ts.pool, c.shared, c.cfg.Input, ts.secondary, c.log); err != nil {
		c.log.Error("resolving animations failed",
			zap.String("tileset", ts.name),
			zap.Error(err))
	}
}

// ConvertMap converts a single map end to end.
func (c *Converter) ConvertMap(id string) ConversionResult {
	return c.commitMap(c.decodeMap(id))
}

// Preview decodes and assembles one map and renders it to an image
// without committing anything to disk.
func (c *Converter) Preview(id string) (image.Image, error) {
	cv := c.decodeMap(id)
	if cv.err != nil {
		return nil, cv.err
	}

	layers, err := c.assembleLayers(cv)
	if err != nil {
		return nil, err
	}

	// Bottom to top.
	return render.Map(c.shared, c.palette(), c.cfg.FirstGID, layers[2], layers[1], layers[0])
}

// outputName maps "MAP_PETALBURG_CITY" or a directory name to the
// output file stem.
func outputName(id string) string {
	return strings.ToLower(strings.TrimPrefix(id, "MAP_"))
}
