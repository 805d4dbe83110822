package convert

import (
	"s2tile/internal/geo"
	"s2tile/internal/vector"
)

// ToUnitScale projects every vertex into the Web-Mercator unit square and
// sets each geometry's VecBBox to the box of its projected vertices.
// Features without geometry are dropped.
func ToUnitScale(features []vector.Feature) []vector.Feature {
	out := make([]vector.Feature, 0, len(features))
	for _, f := range features {
		if f.Geometry == nil {
			continue
		}
		g := vector.WithComputedBBox(f.Geometry.Map(toUnit))
		f.Face = 0
		out = append(out, f.WithGeometry(g))
	}
	return out
}

func toUnit(p vector.Point) vector.Point {
	x, y := geo.ToUnit(p.LonLat())
	return p.WithXY(x, y)
}

// ToLonLat is the inverse of the unit-square projection
func ToLonLat(x, y float64) geo.LonLat {
	return geo.FromUnit(x, y)
}
