package vector

import (
	"iter"

	"s2tile/internal/geo"
)

// Type names a geometry variant
type Type uint8

const (
	TypePoint Type = iota + 1
	TypeMultiPoint
	TypeLineString
	TypeMultiLineString
	TypePolygon
	TypeMultiPolygon
)

func (t Type) String() string {
	switch t {
	case TypePoint:
		return "Point"
	case TypeMultiPoint:
		return "MultiPoint"
	case TypeLineString:
		return "LineString"
	case TypeMultiLineString:
		return "MultiLineString"
	case TypePolygon:
		return "Polygon"
	case TypeMultiPolygon:
		return "MultiPolygon"
	}
	return "Unknown"
}

// Geometry is one of the six geometry variants. VecBBox, when set, bounds
// every vertex and lets clipping accept or reject the whole geometry at once.
type Geometry interface {
	Type() Type
	BBox() *geo.BBox3D
	// WithBBox returns a copy carrying b as its VecBBox
	WithBBox(b *geo.BBox3D) Geometry
	// Points visits every vertex in order
	Points() iter.Seq[Point]
	// Map returns a new geometry of the same shape with f applied to every
	// vertex. The copy has no VecBBox.
	Map(f func(Point) Point) Geometry
}

// PointGeometry is a single position
type PointGeometry struct {
	Coordinates Point
	VecBBox     *geo.BBox3D
}

// MultiPointGeometry is a set of positions
type MultiPointGeometry struct {
	Coordinates []Point
	VecBBox     *geo.BBox3D
}

// LineStringGeometry is a polyline. Offset is the distance from the start of
// the line it was clipped from.
type LineStringGeometry struct {
	Coordinates []Point
	Offset      float64
	VecBBox     *geo.BBox3D
}

// MultiLineStringGeometry is a set of polylines with one offset each
type MultiLineStringGeometry struct {
	Coordinates [][]Point
	Offsets     []float64
	VecBBox     *geo.BBox3D
}

// PolygonGeometry is an outer ring followed by its holes
type PolygonGeometry struct {
	Coordinates [][]Point
	Offsets     []float64
	VecBBox     *geo.BBox3D
}

// MultiPolygonGeometry is a set of polygons
type MultiPolygonGeometry struct {
	Coordinates [][][]Point
	Offsets     [][]float64
	VecBBox     *geo.BBox3D
}

var (
	_ Geometry = PointGeometry{}
	_ Geometry = MultiPointGeometry{}
	_ Geometry = LineStringGeometry{}
	_ Geometry = MultiLineStringGeometry{}
	_ Geometry = PolygonGeometry{}
	_ Geometry = MultiPolygonGeometry{}
)

func (PointGeometry) Type() Type           { return TypePoint }
func (MultiPointGeometry) Type() Type      { return TypeMultiPoint }
func (LineStringGeometry) Type() Type      { return TypeLineString }
func (MultiLineStringGeometry) Type() Type { return TypeMultiLineString }
func (PolygonGeometry) Type() Type         { return TypePolygon }
func (MultiPolygonGeometry) Type() Type    { return TypeMultiPolygon }

func (g PointGeometry) BBox() *geo.BBox3D           { return g.VecBBox }
func (g MultiPointGeometry) BBox() *geo.BBox3D      { return g.VecBBox }
func (g LineStringGeometry) BBox() *geo.BBox3D      { return g.VecBBox }
func (g MultiLineStringGeometry) BBox() *geo.BBox3D { return g.VecBBox }
func (g PolygonGeometry) BBox() *geo.BBox3D         { return g.VecBBox }
func (g MultiPolygonGeometry) BBox() *geo.BBox3D    { return g.VecBBox }

func (g PointGeometry) WithBBox(b *geo.BBox3D) Geometry {
	g.VecBBox = b
	return g
}

func (g MultiPointGeometry) WithBBox(b *geo.BBox3D) Geometry {
	g.VecBBox = b
	return g
}

func (g LineStringGeometry) WithBBox(b *geo.BBox3D) Geometry {
	g.VecBBox = b
	return g
}

func (g MultiLineStringGeometry) WithBBox(b *geo.BBox3D) Geometry {
	g.VecBBox = b
	return g
}

func (g PolygonGeometry) WithBBox(b *geo.BBox3D) Geometry {
	g.VecBBox = b
	return g
}

func (g MultiPolygonGeometry) WithBBox(b *geo.BBox3D) Geometry {
	g.VecBBox = b
	return g
}

func (g PointGeometry) Points() iter.Seq[Point] {
	return func(yield func(Point) bool) {
		yield(g.Coordinates)
	}
}

func (g MultiPointGeometry) Points() iter.Seq[Point] {
	return linePoints(g.Coordinates)
}

func (g LineStringGeometry) Points() iter.Seq[Point] {
	return linePoints(g.Coordinates)
}

func (g MultiLineStringGeometry) Points() iter.Seq[Point] {
	return linesPoints(g.Coordinates)
}

func (g PolygonGeometry) Points() iter.Seq[Point] {
	return linesPoints(g.Coordinates)
}

func (g MultiPolygonGeometry) Points() iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for _, polygon := range g.Coordinates {
			for p := range linesPoints(polygon) {
				if !yield(p) {
					return
				}
			}
		}
	}
}

func linePoints(line []Point) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for _, p := range line {
			if !yield(p) {
				return
			}
		}
	}
}

func linesPoints(lines [][]Point) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for _, line := range lines {
			for _, p := range line {
				if !yield(p) {
					return
				}
			}
		}
	}
}

func (g PointGeometry) Map(f func(Point) Point) Geometry {
	return PointGeometry{Coordinates: f(g.Coordinates)}
}

func (g MultiPointGeometry) Map(f func(Point) Point) Geometry {
	return MultiPointGeometry{Coordinates: MapLine(g.Coordinates, f)}
}

func (g LineStringGeometry) Map(f func(Point) Point) Geometry {
	return LineStringGeometry{Coordinates: MapLine(g.Coordinates, f), Offset: g.Offset}
}

func (g MultiLineStringGeometry) Map(f func(Point) Point) Geometry {
	return MultiLineStringGeometry{Coordinates: mapLines(g.Coordinates, f), Offsets: g.Offsets}
}

func (g PolygonGeometry) Map(f func(Point) Point) Geometry {
	return PolygonGeometry{Coordinates: mapLines(g.Coordinates, f), Offsets: g.Offsets}
}

func (g MultiPolygonGeometry) Map(f func(Point) Point) Geometry {
	polygons := make([][][]Point, len(g.Coordinates))
	for i, polygon := range g.Coordinates {
		polygons[i] = mapLines(polygon, f)
	}
	return MultiPolygonGeometry{Coordinates: polygons, Offsets: g.Offsets}
}

// MapLine returns a new line with f applied to every vertex
func MapLine(line []Point, f func(Point) Point) []Point {
	out := make([]Point, len(line))
	for i, p := range line {
		out[i] = f(p)
	}
	return out
}

func mapLines(lines [][]Point, f func(Point) Point) [][]Point {
	out := make([][]Point, len(lines))
	for i, line := range lines {
		out[i] = MapLine(line, f)
	}
	return out
}

// ComputeBBox returns the bounding box of every vertex of g
func ComputeBBox(g Geometry) geo.BBox3D {
	b := geo.EmptyBBox3D()
	for p := range g.Points() {
		ExtendBBox(&b, p)
	}
	return b
}

// WithComputedBBox returns g carrying the box of its own vertices
func WithComputedBBox(g Geometry) Geometry {
	b := ComputeBBox(g)
	return g.WithBBox(&b)
}

// CountPoints returns the number of vertices in g
func CountPoints(g Geometry) int {
	n := 0
	for range g.Points() {
		n++
	}
	return n
}
