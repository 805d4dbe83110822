package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// BBox is a planar bounding box
type BBox struct {
	Left, Bottom, Right, Top float64
}

// BBoxFromBound converts an orb.Bound
func BBoxFromBound(b orb.Bound) BBox {
	return BBox{Left: b.Min[0], Bottom: b.Min[1], Right: b.Max[0], Top: b.Max[1]}
}

// Bound converts b to an orb.Bound
func (b BBox) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{b.Left, b.Bottom}, Max: orb.Point{b.Right, b.Top}}
}

// Contains checks if (x, y) lies inside b, edges included
func (b BBox) Contains(x, y float64) bool {
	return x >= b.Left && x <= b.Right && y >= b.Bottom && y <= b.Top
}

// BBox3D is a bounding box with an optional z range. An empty box has its
// minimums above its maximums.
type BBox3D struct {
	Left, Bottom, Right, Top, Near, Far float64
}

// EmptyBBox3D returns a box that any Extend call replaces
func EmptyBBox3D() BBox3D {
	return BBox3D{
		Left:   math.MaxFloat64,
		Bottom: math.MaxFloat64,
		Right:  -math.MaxFloat64,
		Top:    -math.MaxFloat64,
		Near:   math.MaxFloat64,
		Far:    -math.MaxFloat64,
	}
}

// UnitBBox3D returns the [0,1] square
func UnitBBox3D() BBox3D {
	return BBox3D{Left: 0, Bottom: 0, Right: 1, Top: 1}
}

// IsEmpty reports whether b has not seen a point
func (b BBox3D) IsEmpty() bool {
	return b.Left > b.Right || b.Bottom > b.Top
}

// Extend grows b to include (x, y)
func (b *BBox3D) Extend(x, y float64) {
	b.Left = math.Min(b.Left, x)
	b.Bottom = math.Min(b.Bottom, y)
	b.Right = math.Max(b.Right, x)
	b.Top = math.Max(b.Top, y)
}

// ExtendZ grows the z range of b to include z
func (b *BBox3D) ExtendZ(z float64) {
	b.Near = math.Min(b.Near, z)
	b.Far = math.Max(b.Far, z)
}

// Merge returns the smallest box containing b and o
func (b BBox3D) Merge(o BBox3D) BBox3D {
	return BBox3D{
		Left:   math.Min(b.Left, o.Left),
		Bottom: math.Min(b.Bottom, o.Bottom),
		Right:  math.Max(b.Right, o.Right),
		Top:    math.Max(b.Top, o.Top),
		Near:   math.Min(b.Near, o.Near),
		Far:    math.Max(b.Far, o.Far),
	}
}

// Min returns the lower edge of b on axis
func (b BBox3D) Min(axis Axis) float64 {
	if axis == X {
		return b.Left
	}
	return b.Bottom
}

// Max returns the upper edge of b on axis
func (b BBox3D) Max(axis Axis) float64 {
	if axis == X {
		return b.Right
	}
	return b.Top
}

// Clip narrows b to [k1, k2] on axis
func (b BBox3D) Clip(axis Axis, k1, k2 float64) BBox3D {
	if axis == X {
		b.Left = math.Max(b.Left, k1)
		b.Right = math.Min(b.Right, k2)
	} else {
		b.Bottom = math.Max(b.Bottom, k1)
		b.Top = math.Min(b.Top, k2)
	}
	return b
}

// BBox drops the z range
func (b BBox3D) BBox() BBox {
	return BBox{Left: b.Left, Bottom: b.Bottom, Right: b.Right, Top: b.Top}
}
