// Package simplify ranks line vertices by Douglas-Peucker importance once and
// then thins geometry per zoom level by comparing that rank to a tolerance.
package simplify

import (
	"math"
	"slices"

	"s2tile/internal/vector"
)

const (
	// DefaultMaxZoom is the zoom at which tolerances are computed when the
	// caller has no tile index maxzoom of its own
	DefaultMaxZoom = 16

	extent = 4096
)

// BuildSqDists returns a copy of g whose line vertices carry their squared
// simplification distance in T. Endpoints get 1. Points are returned as is.
func BuildSqDists(g vector.Geometry, tolerance float64, maxzoom int) vector.Geometry {
	tol := tolerance / (float64(int64(1)<<maxzoom) * extent)
	sqTol := tol * tol

	switch g := g.(type) {
	case vector.LineStringGeometry:
		g.Coordinates = buildSqDist(g.Coordinates, sqTol)
		return g
	case vector.MultiLineStringGeometry:
		g.Coordinates = buildLines(g.Coordinates, sqTol)
		return g
	case vector.PolygonGeometry:
		g.Coordinates = buildLines(g.Coordinates, sqTol)
		return g
	case vector.MultiPolygonGeometry:
		polygons := make([][][]vector.Point, len(g.Coordinates))
		for i, polygon := range g.Coordinates {
			polygons[i] = buildLines(polygon, sqTol)
		}
		g.Coordinates = polygons
		return g
	}
	return g
}

func buildLines(lines [][]vector.Point, sqTol float64) [][]vector.Point {
	out := make([][]vector.Point, len(lines))
	for i, line := range lines {
		out[i] = buildSqDist(line, sqTol)
	}
	return out
}

func buildSqDist(line []vector.Point, sqTol float64) []vector.Point {
	out := make([]vector.Point, len(line))
	for i, p := range line {
		out[i] = p.Clone()
	}
	if len(out) == 0 {
		return out
	}
	last := len(out) - 1
	one := 1.0
	out[0].T = &one
	rank(out, 0, last, sqTol)
	out[last].T = &one
	return out
}

// rank marks the farthest vertex between first and last and recurses on both
// halves. Ties go to the vertex nearest the middle to bound recursion depth
// on degenerate input.
func rank(line []vector.Point, first, last int, sqTol float64) {
	var (
		maxSqDist   = sqTol
		mid         = (last - first) >> 1
		minPosToMid = last - first
		index       = -1
	)
	a, b := line[first], line[last]

	for i := first; i < last; i++ {
		d := sqSegDist(line[i], a, b)
		if d > maxSqDist {
			index = i
			maxSqDist = d
		} else if d == maxSqDist {
			if posToMid := absInt(i - mid); posToMid < minPosToMid {
				index = i
				minPosToMid = posToMid
			}
		}
	}

	if index < 0 || maxSqDist <= sqTol {
		return
	}
	if index-first > 1 {
		rank(line, first, index, sqTol)
	}
	t := maxSqDist
	line[index].T = &t
	if last-index > 1 {
		rank(line, index, last, sqTol)
	}
}

// sqSegDist returns the squared distance from p to segment a-b
func sqSegDist(p, a, b vector.Point) float64 {
	x, y := a.X, a.Y
	dx, dy := b.X-x, b.Y-y

	if dx != 0 || dy != 0 {
		t := ((p.X-x)*dx + (p.Y-y)*dy) / (dx*dx + dy*dy)
		if t > 1 {
			x, y = b.X, b.Y
		} else if t > 0 {
			x += dx * t
			y += dy * t
		}
	}

	dx, dy = p.X-x, p.Y-y
	return dx*dx + dy*dy
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Simplify returns a copy of g keeping the vertices that matter at zoom.
// At or past maxzoom every vertex is kept. Polygon rings are rewound so that
// outer rings run clockwise and holes counter-clockwise in tile space.
func Simplify(g vector.Geometry, tolerance float64, zoom, maxzoom int) vector.Geometry {
	tol := 0.0
	if zoom < maxzoom {
		tol = tolerance / (float64(int64(1)<<zoom) * extent)
	}

	switch g := g.(type) {
	case vector.LineStringGeometry:
		g.Coordinates = simplifyLine(g.Coordinates, tol, false, false)
		return g
	case vector.MultiLineStringGeometry:
		lines := make([][]vector.Point, len(g.Coordinates))
		for i, line := range g.Coordinates {
			lines[i] = simplifyLine(line, tol, false, false)
		}
		g.Coordinates = lines
		return g
	case vector.PolygonGeometry:
		g.Coordinates = simplifyPolygon(g.Coordinates, tol)
		return g
	case vector.MultiPolygonGeometry:
		polygons := make([][][]vector.Point, len(g.Coordinates))
		for i, polygon := range g.Coordinates {
			polygons[i] = simplifyPolygon(polygon, tol)
		}
		g.Coordinates = polygons
		return g
	}
	return g
}

func simplifyPolygon(rings [][]vector.Point, tol float64) [][]vector.Point {
	out := make([][]vector.Point, len(rings))
	for i, ring := range rings {
		out[i] = simplifyLine(ring, tol, true, i == 0)
	}
	return out
}

// simplifyLine keeps features smaller than the tolerance whole so that they
// do not vanish.
func simplifyLine(line []vector.Point, tol float64, isPolygon, isOuter bool) []vector.Point {
	sqTol := tol * tol

	var out []vector.Point
	switch {
	case tol > 0 && isPolygon && math.Abs(ringArea(line)) < sqTol,
		tol > 0 && !isPolygon && lineLength(line) < tol:
		out = make([]vector.Point, len(line))
		for i, p := range line {
			out[i] = p.Clone()
		}
	default:
		out = make([]vector.Point, 0, len(line))
		for _, p := range line {
			if tol == 0 || p.SqDist() > sqTol {
				out = append(out, p.Clone())
			}
		}
	}

	if isPolygon {
		Rewind(out, isOuter)
	}
	return out
}

func lineLength(line []vector.Point) float64 {
	var l float64
	for i := 1; i < len(line); i++ {
		l += line[i-1].Distance(line[i])
	}
	return l
}

// ringArea returns twice the signed area of ring. It is positive for rings
// that run counter-clockwise on screen, where y grows downwards.
func ringArea(ring []vector.Point) float64 {
	var area float64
	for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
		area += (ring[i].X - ring[j].X) * (ring[i].Y + ring[j].Y)
	}
	return area
}

// Rewind reverses ring in place unless it already runs in the requested
// direction
func Rewind(ring []vector.Point, clockwise bool) {
	if (ringArea(ring) > 0) == clockwise {
		slices.Reverse(ring)
	}
}
