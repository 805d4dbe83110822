// Package tile splits unit-square features into a quadtree of tiles and
// transforms each tile's features into tile-local integer coordinates.
package tile

import (
	"maps"
	"math"
	"slices"

	"s2tile/internal/cell"
	"s2tile/internal/simplify"
	"s2tile/internal/vector"
)

// DefaultLayer holds features that name no layer
const DefaultLayer = "default"

// Layer is a named group of features within a tile
type Layer struct {
	Name     string
	Features []vector.Feature
}

// Tile holds the features of one cell. Until Transform runs, geometry is in
// face unit-square coordinates; afterwards it is in tile coordinates.
type Tile struct {
	ID          cell.ID
	Layers      map[string]*Layer
	transformed bool
}

// New creates an empty tile
func New(id cell.ID) *Tile {
	return &Tile{ID: id, Layers: make(map[string]*Layer)}
}

// IsEmpty reports whether no layer holds a feature
func (t *Tile) IsEmpty() bool {
	for _, l := range t.Layers {
		if len(l.Features) > 0 {
			return false
		}
	}
	return true
}

// Transformed reports whether the tile holds tile coordinates
func (t *Tile) Transformed() bool {
	return t.transformed
}

// FeatureCount returns the number of features across every layer
func (t *Tile) FeatureCount() int {
	n := 0
	for _, l := range t.Layers {
		n += len(l.Features)
	}
	return n
}

// LayerNames returns the tile's layer names in sorted order
func (t *Tile) LayerNames() []string {
	return slices.Sorted(maps.Keys(t.Layers))
}

// Layer returns the named layer, creating it on first use
func (t *Tile) Layer(name string) *Layer {
	l, ok := t.Layers[name]
	if !ok {
		l = &Layer{Name: name}
		t.Layers[name] = l
	}
	return l
}

// AddFeature stores f in the layer named by its metadata, else in layer,
// else in DefaultLayer.
func (t *Tile) AddFeature(f vector.Feature, layer string) {
	name, ok := f.Layer()
	switch {
	case ok:
	case layer != "":
		name = layer
	default:
		name = DefaultLayer
	}
	l := t.Layer(name)
	l.Features = append(l.Features, f)
}

// Transform simplifies every feature for the tile's zoom and maps it to
// tile-local coordinates in [0, extent]. Features are replaced, never
// modified, so tiles sharing them are unaffected. A second call is a no-op.
func (t *Tile) Transform(tolerance float64, maxzoom int, extent int) {
	if t.transformed {
		return
	}
	_, zoom, i, j := t.ID.ZoomIJ()
	scale := float64(int64(1) << zoom)
	ext := float64(extent)
	toTile := func(p vector.Point) vector.Point {
		return p.WithXY(
			math.Round(ext*(p.X*scale-float64(i))),
			math.Round(ext*(p.Y*scale-float64(j))),
		)
	}

	for _, l := range t.Layers {
		features := make([]vector.Feature, len(l.Features))
		for k, f := range l.Features {
			g := simplify.Simplify(f.Geometry, tolerance, zoom, maxzoom)
			features[k] = f.WithGeometry(g.Map(toTile))
		}
		l.Features = features
	}
	t.transformed = true
}
