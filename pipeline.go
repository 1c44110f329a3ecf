package emeraldconv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/emeraldconv/emeraldconv/tiled"
	"github.com/emeraldconv/emeraldconv/tileset"
	"go.uber.org/zap"
)

// ScanMaps walks the input tree and returns the ids of every map
// directory, sorted. A map directory is any directory under data/maps
// holding a map.json. Hidden entries are skipped.
func (c *Converter) ScanMaps() ([]string, error) {
	base := c.cfg.MapsDir()

	var ids []string
	err := filepath.Walk(base, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
		if info.Name()[0] == '.' {
			if info.Mode().IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !info.Mode().IsDir() || path == base {
			return nil
		}

		if _, err := os.Stat(filepath.Join(path, "map.json")); err == nil {
			ids = append(ids, filepath.Base(path))
		}
		return filepath.SkipDir
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(ids)
	return ids, nil
}

type decodeJob struct {
	index int
	id    string
}

type decodedMap struct {
	index int
	cv    *conversion
}

// ConvertAll converts every map found by ScanMaps. Decoding runs on a
// pool of workers; commits happen on this goroutine in sorted map order
// so the shared tileset assigns the same ids on every run. A failing
// map is recorded and the batch continues.
func (c *Converter) ConvertAll(ctx context.Context) ([]ConversionResult, error) {
	if c.shared.Finalized() {
		return nil, ErrFinalized
	}

	c.mu.Lock()
	c.active++
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.active--
		c.mu.Unlock()
	}()

	ids, err := c.ScanMaps()
	if err != nil {
		return nil, err
	}

	c.log.Info("converting maps",
		zap.Int("maps", len(ids)),
		zap.Int("workers", c.cfg.Workers))

	jobs := make(chan decodeJob)
	decoded := make(chan *decodedMap)

	go func() {
		defer close(jobs)
		for i, id := range ids {
			select {
			case jobs <- decodeJob{index: i, id: id}:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < c.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				cv := c.decodeMap(j.id)
				select {
				case decoded <- &decodedMap{index: j.index, cv: cv}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(decoded)
	}()

	// Commit strictly in index order; decodes arrive in any order and
	// wait their turn in the reorder buffer.
	results := make([]ConversionResult, 0, len(ids))
	pending := make(map[int]*conversion, c.cfg.Workers)
	next := 0
	for d := range decoded {
		pending[d.index] = d.cv
		for cv, ok := pending[next]; ok; cv, ok = pending[next] {
			delete(pending, next)
			results = append(results, c.commitMap(cv))
			next++
		}
	}

	if err := ctx.Err(); err != nil {
		return results, err
	}
	if next != len(ids) {
		return results, errors.New("emeraldconv: decode stage ended early")
	}

	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
		}
	}
	c.log.Info("batch finished",
		zap.Int("converted", len(results)-failed),
		zap.Int("failed", failed),
		zap.Int("shared_tiles", c.shared.Len()))

	return results, nil
}

// FinalizeSharedTilesets freezes the shared tileset and writes the atlas
// image and tileset document. Finalizing twice is an error, as is
// finalizing while a batch is still committing.
func (c *Converter) FinalizeSharedTilesets() (int, error) {
	c.mu.Lock()
	active := c.active
	c.mu.Unlock()
	if active > 0 {
		return 0, ErrSessionActive
	}

	count, err := c.shared.Finalize()
	if err != nil {
		return 0, ErrFinalized
	}

	if err := os.MkdirAll(c.cfg.OutputTilesetsDir(), 0o755); err != nil {
		return 0, err
	}

	f, err := os.Create(filepath.Join(c.cfg.OutputTilesetsDir(), "shared.png"))
	if err != nil {
		return 0, err
	}
	defer f.Close()

	if err := c.shared.WriteAtlas(f, c.palette()); err != nil {
		return 0, err
	}

	doc := tiled.NewTileset("shared", "shared.png", count, tileset.AtlasColumns)
	for _, a := range c.shared.Animations() {
		t := tiled.TilesetTile{ID: a.TileID}
		for _, fr := range a.Frames {
			t.Animation = append(t.Animation, tiled.Frame{TileID: fr.TileID, Duration: fr.DurationMs})
		}
		doc.Tiles = append(doc.Tiles, t)
	}
	if err := doc.WriteFile(filepath.Join(c.cfg.OutputTilesetsDir(), "shared.json")); err != nil {
		return 0, err
	}

	c.log.Info("shared tileset finalized",
		zap.Int("tiles", count),
		zap.Int("animations", len(doc.Tiles)))

	return count, nil
}
