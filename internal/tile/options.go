package tile

import (
	"github.com/pkg/errors"

	"s2tile/internal/convert"
)

// MaxZoomLimit is the deepest zoom a Store will build
const MaxZoomLimit = 20

// ErrOptions is returned for options a Store cannot work with
var ErrOptions = errors.New("invalid tile options")

// Options configures a Store
type Options struct {
	Projection convert.Projection
	// MinZoom is the shallowest zoom Store.Tile serves
	MinZoom int
	// MaxZoom is the deepest zoom tiles are split to
	MaxZoom int
	// IndexMaxZoom is the zoom the index is split to up front
	IndexMaxZoom int
	// Tolerance is the simplification tolerance in tile pixels
	Tolerance float64
	// Buffer is the fraction of a tile's width features keep past its edges
	Buffer float64
	// Extent is the size of the tile coordinate grid
	Extent int
	// Layer is assigned to features whose metadata names none
	Layer string
}

// DefaultOptions returns the options used when none are given
func DefaultOptions() Options {
	return Options{
		Projection:   convert.S2,
		MinZoom:      0,
		MaxZoom:      MaxZoomLimit,
		IndexMaxZoom: 4,
		Tolerance:    3,
		Buffer:       0.0625,
		Extent:       4096,
	}
}

// Validate checks the options against each other
func (o Options) Validate() error {
	if _, err := convert.ParseProjection(string(o.Projection)); err != nil {
		return errors.Wrap(ErrOptions, err.Error())
	}
	switch {
	case o.MaxZoom < 0 || o.MaxZoom > MaxZoomLimit:
		return errors.Wrapf(ErrOptions, "max zoom %d outside 0..%d", o.MaxZoom, MaxZoomLimit)
	case o.MinZoom < 0 || o.MinZoom > o.MaxZoom:
		return errors.Wrapf(ErrOptions, "min zoom %d outside 0..%d", o.MinZoom, o.MaxZoom)
	case o.IndexMaxZoom < 0 || o.IndexMaxZoom > o.MaxZoom:
		return errors.Wrapf(ErrOptions, "index max zoom %d outside 0..%d", o.IndexMaxZoom, o.MaxZoom)
	case o.Tolerance < 0:
		return errors.Wrapf(ErrOptions, "negative tolerance %g", o.Tolerance)
	case o.Buffer < 0 || o.Buffer >= 0.5:
		return errors.Wrapf(ErrOptions, "buffer %g outside [0, 0.5)", o.Buffer)
	case o.Extent <= 0:
		return errors.Wrapf(ErrOptions, "extent %d", o.Extent)
	}
	return nil
}
