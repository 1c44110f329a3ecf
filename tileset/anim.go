package tileset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// DefaultFrameDurationMs is one animation step at the source engine's
// cadence of eight frames at 60Hz.
const DefaultFrameDurationMs = 133

// AnimationDefinition declares one animated tile run within a tileset's
// pixel pool. Frame pixel data lives outside the pool, one 4bpp file per
// frame under SourceFolder.
type AnimationDefinition struct {
	Name            string `yaml:"name"`
	BaseTile        int    `yaml:"base_tile"`
	NumTiles        int    `yaml:"num_tiles"`
	SourceFolder    string `yaml:"source_folder"`
	FrameDurationMs int    `yaml:"frame_duration_ms"`
	Secondary       bool   `yaml:"secondary"`
	FrameSequence   []int  `yaml:"frame_sequence"`
}

// LoadAnimations reads the animation definitions file, keyed by tileset
// name. A missing file means no animations.
func LoadAnimations(path string) (map[string][]AnimationDefinition, error) {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string][]AnimationDefinition{}, nil
	}
	if err != nil {
		return nil, err
	}

	defs := make(map[string][]AnimationDefinition)
	if err := yaml.Unmarshal(b, &defs); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFormat, path, err)
	}

	return defs, nil
}

// readFrames loads consecutive frame files 0.bin, 1.bin, ... until the
// first missing one. Every frame must hold exactly numTiles tiles.
func readFrames(dir string, numTiles int) ([][]TileData, error) {
	var frames [][]TileData
	for f := 0; ; f++ {
		b, err := os.ReadFile(filepath.Join(dir, strconv.Itoa(f)+".bin"))
		if os.IsNotExist(err) {
			break
		}
		if err != nil {
			return nil, err
		}

		tiles, err := ReadPool(b)
		if err != nil {
			return nil, err
		}
		if len(tiles) != numTiles {
			return nil, fmt.Errorf("%w: frame %d in %s has %d tiles, want %d", ErrFormat, f, dir, len(tiles), numTiles)
		}
		frames = append(frames, tiles)
	}

	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: no frame files in %s", ErrFormat, dir)
	}

	return frames, nil
}

// ResolveAnimations canonicalizes the animated tiles of one tileset and
// attaches per-tile frame sequences to the shared tileset. secondary
// states which kind of tileset the pool belongs to; definitions flagged
// for the other kind address the wrong pool and are skipped. Definitions
// that fail validation are likewise logged and skipped; the rest
// proceed. Frame folders are resolved against root.
func ResolveAnimations(defs []AnimationDefinition, pool []TileData, shared *Shared, root string, secondary bool, log *zap.Logger) error {
	for _, def := range defs {
		if def.Secondary != secondary {
			log.Warn("animation definition does not match tileset kind",
				zap.String("animation", def.Name),
				zap.Bool("secondary", def.Secondary))
			continue
		}
		if err := resolveDefinition(def, pool, shared, root); err != nil {
			if errors.Is(err, ErrFinalized) {
				return err
			}
			log.Warn("skipping animation definition",
				zap.String("animation", def.Name),
				zap.Error(err))
		}
	}
	return nil
}

func resolveDefinition(def AnimationDefinition, pool []TileData, shared *Shared, root string) error {
	if def.NumTiles <= 0 || def.BaseTile < 0 || def.BaseTile+def.NumTiles > len(pool) {
		return fmt.Errorf("%w: animation %q range [%d,%d) outside pool of %d tiles",
			ErrFormat, def.Name, def.BaseTile, def.BaseTile+def.NumTiles, len(pool))
	}

	frames, err := readFrames(filepath.Join(root, def.SourceFolder), def.NumTiles)
	if err != nil {
		return err
	}

	sequence := def.FrameSequence
	if len(sequence) == 0 {
		sequence = make([]int, len(frames))
		for i := range sequence {
			sequence[i] = i
		}
	}
	for _, f := range sequence {
		if f < 0 || f >= len(frames) {
			return fmt.Errorf("%w: animation %q frame sequence references frame %d of %d",
				ErrFormat, def.Name, f, len(frames))
		}
	}

	duration := def.FrameDurationMs
	if duration <= 0 {
		duration = DefaultFrameDurationMs
	}

	for j := 0; j < def.NumTiles; j++ {
		id, _, _, err := shared.LookupOrInsert(pool[def.BaseTile+j])
		if err != nil {
			return err
		}
		if id < 0 {
			continue
		}

		anim := TileAnimation{TileID: id}
		for _, f := range sequence {
			frameID, _, _, err := shared.LookupOrInsert(frames[f][j])
			if err != nil {
				return err
			}
			if frameID < 0 {
				// Blank frame, hold the base tile to keep the timing.
				frameID = id
			}
			anim.Frames = append(anim.Frames, Frame{TileID: frameID, DurationMs: duration})
		}

		if err := shared.AddAnimation(anim); err != nil {
			return err
		}
	}

	return nil
}
