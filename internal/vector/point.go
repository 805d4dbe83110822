// Package vector holds the point, geometry and feature types that the
// clipping, conversion and tiling packages pass between each other.
package vector

import (
	"math"

	"s2tile/internal/geo"
)

// Values is an opaque property or measure payload
type Values map[string]any

// Point represents a vertex. Z and T are optional; T is scratch space for
// the squared simplification distance.
type Point struct {
	X float64
	Y float64
	Z *float64
	M Values
	T *float64
}

// NewPoint creates a 2D point
func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

// NewPoint3D creates a point with an elevation
func NewPoint3D(x, y, z float64) Point {
	return Point{X: x, Y: y, Z: &z}
}

// Clone returns a copy of p that shares no pointers with it. M is copied
// shallowly.
func (p Point) Clone() Point {
	out := Point{X: p.X, Y: p.Y, M: p.M}
	if p.Z != nil {
		z := *p.Z
		out.Z = &z
	}
	if p.T != nil {
		t := *p.T
		out.T = &t
	}
	return out
}

// WithXY returns a copy of p moved to (x, y)
func (p Point) WithXY(x, y float64) Point {
	out := p.Clone()
	out.X, out.Y = x, y
	return out
}

// WithT returns a copy of p carrying simplification distance t
func (p Point) WithT(t float64) Point {
	out := p.Clone()
	out.T = &t
	return out
}

// Distance returns the planar distance between p and o
func (p Point) Distance(o Point) float64 {
	return math.Hypot(o.X-p.X, o.Y-p.Y)
}

// Coord returns the coordinate of p on axis
func (p Point) Coord(axis geo.Axis) float64 {
	if axis == geo.X {
		return p.X
	}
	return p.Y
}

// SameXY reports whether p and o sit at the same planar position
func (p Point) SameXY(o Point) bool {
	return p.X == o.X && p.Y == o.Y
}

// SqDist returns the simplification distance stored on p, or 0
func (p Point) SqDist() float64 {
	if p.T == nil {
		return 0
	}
	return *p.T
}

// LonLat reads p as a lon-lat position
func (p Point) LonLat() geo.LonLat {
	return geo.LonLat{Lon: p.X, Lat: p.Y}
}

// BBoxOf returns the bounding box of points, extending z where present
func BBoxOf(points ...Point) geo.BBox3D {
	b := geo.EmptyBBox3D()
	for _, p := range points {
		ExtendBBox(&b, p)
	}
	return b
}

// ExtendBBox grows b to include p
func ExtendBBox(b *geo.BBox3D, p Point) {
	b.Extend(p.X, p.Y)
	if p.Z != nil {
		b.ExtendZ(*p.Z)
	}
}
