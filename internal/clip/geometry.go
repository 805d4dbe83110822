package clip

import (
	"s2tile/internal/geo"
	"s2tile/internal/vector"
)

// minRing is the fewest points a closed ring can have
const minRing = 4

// Point keeps g when it lies in [k1, k2) on axis
func Point(g vector.PointGeometry, axis geo.Axis, k1, k2 float64) (vector.PointGeometry, bool) {
	if v := g.Coordinates.Coord(axis); v >= k1 && v < k2 {
		return g, true
	}
	return vector.PointGeometry{}, false
}

// MultiPoint keeps the points of g in [k1, k2) on axis
func MultiPoint(g vector.MultiPointGeometry, axis geo.Axis, k1, k2 float64) (vector.MultiPointGeometry, bool) {
	var points []vector.Point
	bbox := geo.EmptyBBox3D()
	for _, p := range g.Coordinates {
		if v := p.Coord(axis); v >= k1 && v < k2 {
			points = append(points, p)
			vector.ExtendBBox(&bbox, p)
		}
	}
	if len(points) == 0 {
		return vector.MultiPointGeometry{}, false
	}
	return vector.MultiPointGeometry{Coordinates: points, VecBBox: &bbox}, true
}

// LineString clips g to [k1, k2] on axis. One surviving piece stays a
// LineStringGeometry; several become a MultiLineStringGeometry.
func LineString(g vector.LineStringGeometry, axis geo.Axis, k1, k2 float64) (vector.Geometry, bool) {
	var (
		lines   [][]vector.Point
		offsets []float64
		bbox    = geo.EmptyBBox3D()
	)
	for f := range clipLine(g.Coordinates, g.Offset, k1, k2, axis, false) {
		lines = append(lines, f.Line)
		offsets = append(offsets, f.Offset)
		bbox = bbox.Merge(f.BBox)
	}
	switch len(lines) {
	case 0:
		return nil, false
	case 1:
		return vector.LineStringGeometry{Coordinates: lines[0], Offset: offsets[0], VecBBox: &bbox}, true
	}
	return vector.MultiLineStringGeometry{Coordinates: lines, Offsets: offsets, VecBBox: &bbox}, true
}

// MultiLineString clips every line of g to [k1, k2] on axis
func MultiLineString(g vector.MultiLineStringGeometry, axis geo.Axis, k1, k2 float64) (vector.MultiLineStringGeometry, bool) {
	lines, offsets, bbox := clipLines(g.Coordinates, g.Offsets, axis, k1, k2, false)
	if len(lines) == 0 {
		return vector.MultiLineStringGeometry{}, false
	}
	return vector.MultiLineStringGeometry{Coordinates: lines, Offsets: offsets, VecBBox: &bbox}, true
}

// Polygon clips every ring of g to [k1, k2] on axis. The polygon is dropped
// when its outer ring does not survive as a closed ring; holes that collapse
// are dropped on their own.
func Polygon(g vector.PolygonGeometry, axis geo.Axis, k1, k2 float64) (vector.PolygonGeometry, bool) {
	if len(g.Coordinates) == 0 {
		return vector.PolygonGeometry{}, false
	}
	var (
		rings   [][]vector.Point
		offsets []float64
		bbox    = geo.EmptyBBox3D()
	)
	for i, ring := range g.Coordinates {
		for f := range clipLine(ring, offsetAt(g.Offsets, i), k1, k2, axis, true) {
			if len(f.Line) < minRing {
				continue
			}
			rings = append(rings, f.Line)
			offsets = append(offsets, f.Offset)
			bbox = bbox.Merge(f.BBox)
		}
		if i == 0 && len(rings) == 0 {
			return vector.PolygonGeometry{}, false
		}
	}
	return vector.PolygonGeometry{Coordinates: rings, Offsets: offsets, VecBBox: &bbox}, true
}

// MultiPolygon clips every polygon of g to [k1, k2] on axis
func MultiPolygon(g vector.MultiPolygonGeometry, axis geo.Axis, k1, k2 float64) (vector.MultiPolygonGeometry, bool) {
	var (
		polygons [][][]vector.Point
		offsets  [][]float64
		bbox     = geo.EmptyBBox3D()
	)
	for i, polygon := range g.Coordinates {
		var polyOffsets []float64
		if i < len(g.Offsets) {
			polyOffsets = g.Offsets[i]
		}
		clipped, ok := Polygon(vector.PolygonGeometry{Coordinates: polygon, Offsets: polyOffsets}, axis, k1, k2)
		if !ok {
			continue
		}
		polygons = append(polygons, clipped.Coordinates)
		offsets = append(offsets, clipped.Offsets)
		bbox = bbox.Merge(*clipped.VecBBox)
	}
	if len(polygons) == 0 {
		return vector.MultiPolygonGeometry{}, false
	}
	return vector.MultiPolygonGeometry{Coordinates: polygons, Offsets: offsets, VecBBox: &bbox}, true
}

func clipLines(lines [][]vector.Point, initial []float64, axis geo.Axis, k1, k2 float64, isPolygon bool) ([][]vector.Point, []float64, geo.BBox3D) {
	var (
		out     [][]vector.Point
		offsets []float64
		bbox    = geo.EmptyBBox3D()
	)
	for i, line := range lines {
		for f := range clipLine(line, offsetAt(initial, i), k1, k2, axis, isPolygon) {
			out = append(out, f.Line)
			offsets = append(offsets, f.Offset)
			bbox = bbox.Merge(f.BBox)
		}
	}
	return out, offsets, bbox
}

func offsetAt(offsets []float64, i int) float64 {
	if i < len(offsets) {
		return offsets[i]
	}
	return 0
}

// Geometry clips g on axis. Points use the window [k1, k2); lines and
// polygons use the buffered window [k1-buffer, k2+buffer].
func Geometry(g vector.Geometry, axis geo.Axis, k1, k2, buffer float64) (vector.Geometry, bool) {
	k1b, k2b := k1-buffer, k2+buffer
	switch g := g.(type) {
	case vector.PointGeometry:
		return wrap(Point(g, axis, k1, k2))
	case vector.MultiPointGeometry:
		return wrap(MultiPoint(g, axis, k1, k2))
	case vector.LineStringGeometry:
		return LineString(g, axis, k1b, k2b)
	case vector.MultiLineStringGeometry:
		return wrap(MultiLineString(g, axis, k1b, k2b))
	case vector.PolygonGeometry:
		return wrap(Polygon(g, axis, k1b, k2b))
	case vector.MultiPolygonGeometry:
		return wrap(MultiPolygon(g, axis, k1b, k2b))
	}
	return nil, false
}

func wrap[G vector.Geometry](g G, ok bool) (vector.Geometry, bool) {
	if !ok {
		return nil, false
	}
	return g, true
}

// Features clips features to the tile-space window [k1, k2) on axis. k1, k2
// and buffer are divided by scale, the tile count across the face at the
// current zoom. It returns nil when nothing survives.
func Features(features []vector.Feature, scale, k1, k2 float64, axis geo.Axis, buffer float64) []vector.Feature {
	k1 /= scale
	k2 /= scale
	buffer /= scale
	k1b, k2b := k1-buffer, k2+buffer

	var out []vector.Feature
	for _, f := range features {
		if b := f.Geometry.BBox(); b != nil {
			lo, hi := b.Min(axis), b.Max(axis)
			if lo >= k1 && hi < k2 {
				out = append(out, f)
				continue
			}
			if hi < k1 || lo >= k2 {
				continue
			}
		}
		g, ok := Geometry(f.Geometry, axis, k1, k2, buffer)
		if !ok {
			continue
		}
		bbox := vector.ComputeBBox(g)
		if b := g.BBox(); b != nil {
			bbox = *b
		}
		bbox = bbox.Clip(axis, k1b, k2b)
		out = append(out, f.WithGeometry(g.WithBBox(&bbox)))
	}
	return out
}
