package tileset

import (
	"crypto/sha1"
	"errors"
	"sort"
	"sync"
)

// Consistency errors from using the shared tileset at the wrong time.
var (
	ErrFinalized    = errors.New("tileset: shared tileset is finalized")
	ErrNotFinalized = errors.New("tileset: shared tileset is not finalized")
)

// Frame is one step of a resolved tile animation.
type Frame struct {
	TileID     int
	DurationMs int
}

// TileAnimation attaches an ordered frame sequence to one shared tile.
type TileAnimation struct {
	TileID int
	Frames []Frame
}

// Shared is the session-wide deduplicating tileset. IDs are assigned
// monotonically in insertion order and never reused; content is stored
// in its canonical orientation and is immutable after insert.
type Shared struct {
	mu          sync.Mutex
	bySignature map[[sha1.Size]byte]int
	tiles       []TileData
	animations  []TileAnimation
	animated    map[int]struct{}
	finalized   bool
}

// NewShared returns an empty shared tileset.
func NewShared() *Shared {
	return &Shared{
		bySignature: make(map[[sha1.Size]byte]int),
		animated:    make(map[int]struct{}),
	}
}

// LookupOrInsert canonicalizes t and returns its shared id plus the
// flips that reproduce the presented orientation from the stored one.
// The all-zero tile is the empty tile: it maps to id -1 and never enters
// the table.
func (s *Shared) LookupOrInsert(t TileData) (int, bool, bool, error) {
	if t.IsEmpty() {
		return -1, false, false, nil
	}

	canon, flipH, flipV := t.canonical()
	sig := sha1.Sum(canon[:])

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finalized {
		return -1, false, false, ErrFinalized
	}

	id, ok := s.bySignature[sig]
	if !ok {
		id = len(s.tiles)
		s.tiles = append(s.tiles, canon)
		s.bySignature[sig] = id
	}

	return id, flipH, flipV, nil
}

// Tile returns the canonical content of a shared tile id.
func (s *Shared) Tile(id int) (TileData, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id < 0 || id >= len(s.tiles) {
		return TileData{}, false
	}
	return s.tiles[id], true
}

// Len returns the number of canonical tiles inserted so far.
func (s *Shared) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tiles)
}

// AddAnimation attaches an animation to a shared tile. A second
// animation for the same tile id is ignored, first writer wins.
func (s *Shared) AddAnimation(a TileAnimation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finalized {
		return ErrFinalized
	}
	if _, ok := s.animated[a.TileID]; ok {
		return nil
	}
	s.animated[a.TileID] = struct{}{}
	s.animations = append(s.animations, a)
	return nil
}

// Animations returns the resolved animations sorted by tile id.
func (s *Shared) Animations() []TileAnimation {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]TileAnimation, len(s.animations))
	copy(out, s.animations)
	sort.Slice(out, func(i, j int) bool { return out[i].TileID < out[j].TileID })
	return out
}

// Finalize freezes the tileset and returns the canonical tile count.
// Any later mutation fails with ErrFinalized.
func (s *Shared) Finalize() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finalized {
		return 0, ErrFinalized
	}
	s.finalized = true
	return len(s.tiles), nil
}

// Finalized reports whether Finalize has been called.
func (s *Shared) Finalized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finalized
}
