// Package clip cuts geometry against axis-aligned windows. Every function
// is pure: inputs are never modified and each surviving piece is freshly
// allocated.
package clip

import (
	"iter"

	"s2tile/internal/geo"
	"s2tile/internal/vector"
)

// Fragment is one piece of a clipped line. Offset is the distance along the
// input line to the fragment's first point.
type Fragment struct {
	Line   []vector.Point
	Offset float64
	BBox   geo.BBox3D
}

// ClipLine clips line to bbox grown by buffer, first on x then on y. Each
// fragment carries the box of its own points.
func ClipLine(line []vector.Point, bbox geo.BBox, isPolygon bool, offset, buffer float64) iter.Seq[Fragment] {
	return func(yield func(Fragment) bool) {
		for horizontal := range clipLine(line, offset, bbox.Left-buffer, bbox.Right+buffer, geo.X, isPolygon) {
			for f := range clipLine(horizontal.Line, horizontal.Offset, bbox.Bottom-buffer, bbox.Top+buffer, geo.Y, isPolygon) {
				if !yield(f) {
					return
				}
			}
		}
	}
}

// clipLine walks line once and yields the parts inside [k1, k2] on axis.
// Open lines are cut into a fragment per pass through the window; a polygon
// ring stays one fragment and is re-closed at the end.
func clipLine(line []vector.Point, offset, k1, k2 float64, axis geo.Axis, isPolygon bool) iter.Seq[Fragment] {
	return func(yield func(Fragment) bool) {
		if len(line) == 0 {
			return
		}
		var (
			slice      []vector.Point
			bbox       = geo.EmptyBBox3D()
			curOffset  = offset
			accOffset  = offset
			firstEnter bool
		)
		push := func(p vector.Point) {
			slice = append(slice, p)
			vector.ExtendBBox(&bbox, p)
		}
		last := len(line) - 1

		for i := 0; i < last; i++ {
			pa, pb := line[i], line[i+1]
			a, b := pa.Coord(axis), pb.Coord(axis)
			exited := false

			switch {
			case a < k1:
				if b > k1 {
					enter := intersect(pa, pb, axis, k1, incoming(pb, pa))
					push(enter)
					if !firstEnter {
						curOffset = accOffset + pa.Distance(enter)
						firstEnter = true
					}
				}
			case a > k2:
				if b < k2 {
					enter := intersect(pa, pb, axis, k2, incoming(pb, pa))
					push(enter)
					if !firstEnter {
						curOffset = accOffset + pa.Distance(enter)
						firstEnter = true
					}
				}
			default:
				push(pa.Clone())
			}

			if b < k1 && a >= k1 {
				push(intersect(pa, pb, axis, k1, incoming(pb, pa)))
				exited = true
			}
			if b > k2 && a <= k2 {
				push(intersect(pa, pb, axis, k2, incoming(pb, pa)))
				exited = true
			}

			accOffset += pa.Distance(pb)

			if !isPolygon && exited {
				if !yield(Fragment{Line: slice, Offset: curOffset, BBox: bbox}) {
					return
				}
				slice = nil
				bbox = geo.EmptyBBox3D()
				firstEnter = false
			}
		}

		if v := line[last].Coord(axis); v >= k1 && v <= k2 {
			push(line[last].Clone())
		}

		if isPolygon && len(slice) > 1 {
			first := slice[0]
			if !slice[len(slice)-1].SameXY(first) {
				push(first.Clone())
			}
		}

		if len(slice) > 0 {
			yield(Fragment{Line: slice, Offset: curOffset, BBox: bbox})
		}
	}
}

func incoming(b, a vector.Point) vector.Values {
	if b.M != nil {
		return b.M
	}
	return a.M
}

// intersect returns the point where segment a-b crosses k on axis. New
// vertices are always kept by simplification.
func intersect(a, b vector.Point, axis geo.Axis, k float64, m vector.Values) vector.Point {
	var t float64
	p := vector.Point{M: m}
	if axis == geo.X {
		t = (k - a.X) / (b.X - a.X)
		p.X, p.Y = k, a.Y+(b.Y-a.Y)*t
	} else {
		t = (k - a.Y) / (b.Y - a.Y)
		p.X, p.Y = a.X+(b.X-a.X)*t, k
	}

	switch {
	case a.Z != nil && b.Z != nil:
		z := *a.Z + (*b.Z-*a.Z)*t
		p.Z = &z
	case a.Z != nil:
		z := *a.Z
		p.Z = &z
	case b.Z != nil:
		z := *b.Z
		p.Z = &z
	}

	one := 1.0
	p.T = &one
	return p
}
