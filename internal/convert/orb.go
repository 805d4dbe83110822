package convert

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"

	"s2tile/internal/vector"
)

// FromOrb maps g to lon-lat vector geometries. Collections are flattened
// into one geometry per member; a bound becomes its polygon.
func FromOrb(g orb.Geometry) ([]vector.Geometry, error) {
	switch g := g.(type) {
	case orb.Point:
		return []vector.Geometry{vector.PointGeometry{Coordinates: fromOrbPoint(g)}}, nil
	case orb.MultiPoint:
		return []vector.Geometry{vector.MultiPointGeometry{Coordinates: fromOrbPoints(g)}}, nil
	case orb.LineString:
		return []vector.Geometry{vector.LineStringGeometry{Coordinates: fromOrbPoints(g)}}, nil
	case orb.MultiLineString:
		lines := make([][]vector.Point, len(g))
		for i, l := range g {
			lines[i] = fromOrbPoints(l)
		}
		return []vector.Geometry{vector.MultiLineStringGeometry{Coordinates: lines}}, nil
	case orb.Ring:
		return []vector.Geometry{vector.PolygonGeometry{Coordinates: [][]vector.Point{fromOrbPoints(g)}}}, nil
	case orb.Polygon:
		return []vector.Geometry{vector.PolygonGeometry{Coordinates: fromOrbPolygon(g)}}, nil
	case orb.MultiPolygon:
		polygons := make([][][]vector.Point, len(g))
		for i, p := range g {
			polygons[i] = fromOrbPolygon(p)
		}
		return []vector.Geometry{vector.MultiPolygonGeometry{Coordinates: polygons}}, nil
	case orb.Bound:
		return FromOrb(g.ToPolygon())
	case orb.Collection:
		var out []vector.Geometry
		for i, member := range g {
			geoms, err := FromOrb(member)
			if err != nil {
				return nil, errors.Wrapf(err, "collection member %d", i)
			}
			out = append(out, geoms...)
		}
		return out, nil
	case nil:
		return nil, errors.New("missing geometry")
	}
	return nil, errors.Errorf("unsupported geometry %T", g)
}

func fromOrbPoint(p orb.Point) vector.Point {
	return vector.NewPoint(p.Lon(), p.Lat())
}

func fromOrbPoints[P ~[]orb.Point](points P) []vector.Point {
	out := make([]vector.Point, len(points))
	for i, p := range points {
		out[i] = fromOrbPoint(p)
	}
	return out
}

func fromOrbPolygon(p orb.Polygon) [][]vector.Point {
	rings := make([][]vector.Point, len(p))
	for i, r := range p {
		rings[i] = fromOrbPoints(r)
	}
	return rings
}

// FromGeoJSON turns a feature collection into lon-lat features. A string
// "layer" property is copied into the feature metadata where it selects the
// tile layer.
func FromGeoJSON(fc *geojson.FeatureCollection) ([]vector.Feature, error) {
	var out []vector.Feature
	for i, f := range fc.Features {
		geoms, err := FromOrb(f.Geometry)
		if err != nil {
			return nil, errors.Wrapf(err, "feature %d", i)
		}

		props := make(vector.Values, len(f.Properties))
		for k, v := range f.Properties {
			props[k] = v
		}
		var meta vector.Values
		if layer, ok := props[vector.LayerKey].(string); ok && layer != "" {
			meta = vector.Values{vector.LayerKey: layer}
		}

		for _, g := range geoms {
			out = append(out, vector.Feature{ID: f.ID, Properties: props, Geometry: g, Metadata: meta})
		}
	}
	return out, nil
}

// ParseGeoJSON decodes a GeoJSON FeatureCollection document
func ParseGeoJSON(data []byte) ([]vector.Feature, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.Wrap(err, "decode feature collection")
	}
	return FromGeoJSON(fc)
}

// ToOrb maps g to an orb geometry with X and Y as the coordinates
func ToOrb(g vector.Geometry) (orb.Geometry, error) {
	switch g := g.(type) {
	case vector.PointGeometry:
		return toOrbPoint(g.Coordinates), nil
	case vector.MultiPointGeometry:
		return orb.MultiPoint(toOrbPoints(g.Coordinates)), nil
	case vector.LineStringGeometry:
		return orb.LineString(toOrbPoints(g.Coordinates)), nil
	case vector.MultiLineStringGeometry:
		out := make(orb.MultiLineString, len(g.Coordinates))
		for i, l := range g.Coordinates {
			out[i] = toOrbPoints(l)
		}
		return out, nil
	case vector.PolygonGeometry:
		return toOrbPolygon(g.Coordinates), nil
	case vector.MultiPolygonGeometry:
		out := make(orb.MultiPolygon, len(g.Coordinates))
		for i, p := range g.Coordinates {
			out[i] = toOrbPolygon(p)
		}
		return out, nil
	case nil:
		return nil, errors.New("missing geometry")
	}
	return nil, errors.Errorf("unsupported geometry %T", g)
}

func toOrbPoint(p vector.Point) orb.Point {
	return orb.Point{p.X, p.Y}
}

func toOrbPoints(points []vector.Point) []orb.Point {
	out := make([]orb.Point, len(points))
	for i, p := range points {
		out[i] = toOrbPoint(p)
	}
	return out
}

func toOrbPolygon(rings [][]vector.Point) orb.Polygon {
	out := make(orb.Polygon, len(rings))
	for i, r := range rings {
		out[i] = toOrbPoints(r)
	}
	return out
}

// ToGeoJSON collects features into a feature collection. Properties are
// copied and the layer, if any, is kept as the "layer" property.
func ToGeoJSON(features []vector.Feature) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()
	for i, f := range features {
		g, err := ToOrb(f.Geometry)
		if err != nil {
			return nil, errors.Wrapf(err, "feature %d", i)
		}
		out := geojson.NewFeature(g)
		out.ID = f.ID
		for k, v := range f.Properties {
			out.Properties[k] = v
		}
		if layer, ok := f.Layer(); ok {
			out.Properties[vector.LayerKey] = layer
		}
		fc.Append(out)
	}
	return fc, nil
}
