package tile

import (
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"s2tile/internal/cell"
	"s2tile/internal/convert"
	"s2tile/internal/geo"
	"s2tile/internal/vector"
)

// Store is a tile index. It splits the input down to IndexMaxZoom up front
// and drills deeper on demand as tiles are requested. It is safe for
// concurrent use.
type Store struct {
	mu     sync.Mutex
	opts   Options
	logger *zap.Logger
	tiles  map[cell.ID]*Tile
	faces  map[geo.Face]bool
}

// NewStore converts lon-lat features with opts.Projection and builds the
// index. A nil logger discards output.
func NewStore(features []vector.Feature, opts Options, logger *zap.Logger) (*Store, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	converted, err := convert.Convert(opts.Projection, features, convert.Options{
		Tolerance: opts.Tolerance,
		MaxZoom:   opts.MaxZoom,
		Layer:     opts.Layer,
	})
	if err != nil {
		return nil, errors.Wrap(err, "convert features")
	}

	s := &Store{
		opts:   opts,
		logger: logger,
		tiles:  make(map[cell.ID]*Tile),
		faces:  make(map[geo.Face]bool),
	}
	for _, f := range converted {
		s.addFeature(f)
	}
	for _, root := range cell.Faces() {
		if err := s.split(root, cell.None, MaxZoomLimit); err != nil {
			return nil, err
		}
	}

	logger.Info("tile index built",
		zap.Stringer("projection", opts.Projection),
		zap.Int("features", len(converted)),
		zap.Int("tiles", len(s.tiles)),
	)
	return s, nil
}

func (s *Store) addFeature(f vector.Feature) {
	face := f.Face
	if s.opts.Projection == convert.WM {
		face = 0
	}
	id, err := cell.FromFace(face)
	if err != nil {
		s.logger.Warn("dropping feature", zap.Any("id", f.ID), zap.Error(err))
		return
	}
	t, ok := s.tiles[id]
	if !ok {
		t = New(id)
		s.tiles[id] = t
		s.faces[face] = true
	}
	t.AddFeature(f, s.opts.Layer)
}

// split works down from start with a stack. Without a target it stops at
// IndexMaxZoom; with one it follows only the tiles containing target, down
// to endZoom.
func (s *Store) split(start, target cell.ID, endZoom int) error {
	stack := []cell.ID{start}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		t, ok := s.tiles[id]
		if !ok || t.IsEmpty() || t.transformed {
			continue
		}
		zoom := id.Level()
		if zoom >= s.opts.MaxZoom ||
			(target == cell.None && zoom >= s.opts.IndexMaxZoom) ||
			(target != cell.None && (zoom > endZoom || !id.Contains(target))) {
			continue
		}

		children, err := Split(t, s.opts.Buffer)
		if err != nil {
			return errors.Wrapf(err, "split %v", id)
		}
		for _, c := range children.All() {
			s.tiles[c.ID] = c
			stack = append(stack, c.ID)
		}
		t.Transform(s.opts.Tolerance, s.opts.MaxZoom, s.opts.Extent)

		s.logger.Debug("split tile",
			zap.Stringer("tile", id),
			zap.Int("zoom", zoom),
			zap.Int("features", t.FeatureCount()),
		)
	}
	return nil
}

// Tile returns the transformed tile id, splitting its nearest stored
// ancestor as needed. It reports false when no data reaches id.
func (s *Store) Tile(id cell.ID) (*Tile, bool) {
	if !id.IsValid() {
		return nil, false
	}
	zoom := id.Level()
	if zoom < s.opts.MinZoom || zoom > s.opts.MaxZoom {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.faces[id.Face()] {
		return nil, false
	}
	p := id
	for {
		if _, ok := s.tiles[p]; ok || p.IsFace() {
			break
		}
		p = p.Parent()
	}
	if err := s.split(p, id, zoom); err != nil {
		s.logger.Error("split failed", zap.Stringer("tile", id), zap.Error(err))
		return nil, false
	}

	t, ok := s.tiles[id]
	if !ok || t.IsEmpty() {
		return nil, false
	}
	// tiles at MaxZoom are never split, so transform them here
	t.Transform(s.opts.Tolerance, s.opts.MaxZoom, s.opts.Extent)
	return t, true
}

// TileWM returns the Web-Mercator tile w
func (s *Store) TileWM(w cell.WMID) (*Tile, bool) {
	id, err := w.ToCell()
	if err != nil {
		return nil, false
	}
	return s.Tile(id)
}

// Faces returns the faces that hold data
func (s *Store) Faces() []geo.Face {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []geo.Face
	for f := range geo.Face(geo.NumFaces) {
		if s.faces[f] {
			out = append(out, f)
		}
	}
	return out
}

// Len returns the number of tiles built so far
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tiles)
}

// Options returns the options the store was built with
func (s *Store) Options() Options {
	return s.opts
}
