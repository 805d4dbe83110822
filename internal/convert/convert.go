// Package convert reprojects lon-lat features into the unit square the
// tiler works in: the Web-Mercator square for WM, or per cube face for S2.
package convert

import (
	"strings"

	"github.com/pkg/errors"

	"s2tile/internal/simplify"
	"s2tile/internal/vector"
)

// Projection selects the tiling scheme
type Projection string

const (
	S2 Projection = "S2"
	WM Projection = "WM"
)

// ErrProjection is returned for a projection other than S2 or WM
var ErrProjection = errors.New("unknown projection")

// ParseProjection reads a projection name, ignoring case
func ParseProjection(name string) (Projection, error) {
	switch p := Projection(strings.ToUpper(strings.TrimSpace(name))); p {
	case S2, WM:
		return p, nil
	}
	return "", errors.Wrapf(ErrProjection, "%q", name)
}

func (p Projection) String() string { return string(p) }

// Options prepares converted features for tiling
type Options struct {
	// Tolerance > 0 ranks vertices for later simplification
	Tolerance float64
	// MaxZoom is the zoom the ranking is computed for
	MaxZoom int
	// Layer is assigned to features that do not name one
	Layer string
}

// Convert projects lon-lat features with p, ranks their vertices for
// simplification and tags their layer. The input is not modified.
func Convert(p Projection, features []vector.Feature, opts Options) ([]vector.Feature, error) {
	var (
		out []vector.Feature
		err error
	)
	switch p {
	case WM:
		out = ToUnitScale(features)
	case S2:
		if out, err = ToS2(features); err != nil {
			return nil, err
		}
	default:
		return nil, errors.Wrapf(ErrProjection, "%q", p)
	}

	maxzoom := opts.MaxZoom
	if maxzoom <= 0 {
		maxzoom = simplify.DefaultMaxZoom
	}
	for i, f := range out {
		if opts.Tolerance > 0 {
			f.Geometry = simplify.BuildSqDists(f.Geometry, opts.Tolerance, maxzoom)
		}
		if _, ok := f.Layer(); !ok && opts.Layer != "" {
			f.Metadata = withLayer(f.Metadata, opts.Layer)
		}
		out[i] = f
	}
	return out, nil
}

func withLayer(meta vector.Values, layer string) vector.Values {
	out := make(vector.Values, len(meta)+1)
	for k, v := range meta {
		out[k] = v
	}
	out[vector.LayerKey] = layer
	return out
}

// FeatureToLonLat maps a feature produced by p back to lon-lat degrees
func FeatureToLonLat(p Projection, f vector.Feature) (vector.Feature, error) {
	var to func(vector.Point) vector.Point
	switch p {
	case WM:
		to = func(pt vector.Point) vector.Point {
			ll := ToLonLat(pt.X, pt.Y)
			return pt.WithXY(ll.Lon, ll.Lat)
		}
	case S2:
		face := f.Face
		if !face.Valid() {
			return vector.Feature{}, errors.Errorf("feature face %d", face)
		}
		to = func(pt vector.Point) vector.Point {
			ll := S2ToLonLat(face, pt.X, pt.Y)
			return pt.WithXY(ll.Lon, ll.Lat)
		}
	default:
		return vector.Feature{}, errors.Wrapf(ErrProjection, "%q", p)
	}
	if f.Geometry == nil {
		return f, nil
	}
	f.Face = 0
	return f.WithGeometry(f.Geometry.Map(to)), nil
}
