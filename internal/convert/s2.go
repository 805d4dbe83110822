package convert

import (
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"s2tile/internal/clip"
	"s2tile/internal/geo"
	"s2tile/internal/vector"
)

// FaceRule moves an (s, t) position from one face into the frame of a
// neighbouring face: rotate by Rotation degrees, then shift by (DX, DY).
type FaceRule struct {
	Rotation int
	DX, DY   float64
}

// Apply maps (s, t) through r
func (r FaceRule) Apply(s, t float64) (float64, float64) {
	switch r.Rotation {
	case 90:
		s, t = t, 1-s
	case -90:
		s, t = 1-t, s
	}
	return s + r.DX, t + r.DY
}

// FaceRuleSet[target][current] maps positions on face current into the frame
// of face target. Opposite faces have no mirroring, so a feature is only
// placed correctly when it spans at most one face width.
var FaceRuleSet = [geo.NumFaces][geo.NumFaces]FaceRule{
	{{0, 0, 0}, {0, 1, 0}, {90, 0, 1}, {-90, 2, 0}, {-90, -1, 0}, {0, 0, -1}},
	{{0, -1, 0}, {0, 0, 0}, {0, 0, 1}, {-90, 1, 0}, {-90, 2, 0}, {90, 0, -1}},
	{{-90, -1, 0}, {0, 0, -1}, {0, 0, 0}, {0, 1, 0}, {90, 0, 1}, {-90, 2, 0}},
	{{-90, 2, 0}, {90, 0, -1}, {0, -1, 0}, {0, 0, 0}, {0, 0, 1}, {-90, 1, 0}},
	{{90, 0, 1}, {-90, 2, 0}, {-90, -1, 0}, {0, 0, -1}, {0, 0, 0}, {0, 1, 0}},
	{{0, 0, 1}, {-90, 1, 0}, {-90, 2, 0}, {90, 0, -1}, {0, -1, 0}, {0, 0, 0}},
}

// FaceLine is a line fragment clipped to one face's unit square
type FaceLine struct {
	Face geo.Face
	clip.Fragment
}

var unitSquare = geo.BBox{Left: 0, Bottom: 0, Right: 1, Top: 1}

type stPoint struct {
	face geo.Face
	s, t float64
	src  vector.Point
}

func toST(p vector.Point) stPoint {
	face, s, t := geo.XYZToFaceST(p.LonLat().Point())
	return stPoint{face: face, s: s, t: t, src: p}
}

// on returns p in the frame of target
func (p stPoint) on(target geo.Face) vector.Point {
	s, t := p.s, p.t
	if target != p.face {
		s, t = FaceRuleSet[target][p.face].Apply(s, t)
	}
	out := p.src.WithXY(s, t)
	out.T = nil
	return out
}

type faceSet uint8

func (fs faceSet) has(f geo.Face) bool { return fs&(1<<f) != 0 }

type stLine struct {
	points []stPoint
	faces  faceSet
}

func newSTLine(line []vector.Point) stLine {
	out := stLine{points: make([]stPoint, len(line))}
	for i, p := range line {
		out.points[i] = toST(p)
		out.faces |= 1 << out.points[i].face
	}
	return out
}

func (l stLine) on(face geo.Face) []vector.Point {
	out := make([]vector.Point, len(l.points))
	for i, p := range l.points {
		out[i] = p.on(face)
	}
	return out
}

// faceLines clips l, seen from face, to that face's unit square
func (l stLine) faceLines(face geo.Face, isPolygon bool) []FaceLine {
	if !l.faces.has(face) {
		return nil
	}
	var out []FaceLine
	for f := range clip.ClipLine(l.on(face), unitSquare, isPolygon, 0, 0) {
		out = append(out, FaceLine{Face: face, Fragment: f})
	}
	return out
}

// stFeature is a lon-lat feature with every vertex projected once. Points
// and lines use a single group; polygons use one group of rings each.
type stFeature struct {
	feature vector.Feature
	kind    vector.Type
	groups  [][]stLine
	faces   faceSet
}

func newSTFeature(f vector.Feature) (stFeature, error) {
	out := stFeature{feature: f, kind: f.Geometry.Type()}
	group := func(lines ...[]vector.Point) []stLine {
		g := make([]stLine, len(lines))
		for i, line := range lines {
			g[i] = newSTLine(line)
			out.faces |= g[i].faces
		}
		return g
	}

	switch g := f.Geometry.(type) {
	case vector.PointGeometry:
		out.groups = [][]stLine{group([]vector.Point{g.Coordinates})}
	case vector.MultiPointGeometry:
		out.groups = [][]stLine{group(g.Coordinates)}
	case vector.LineStringGeometry:
		out.groups = [][]stLine{group(g.Coordinates)}
	case vector.MultiLineStringGeometry:
		out.groups = [][]stLine{group(g.Coordinates...)}
	case vector.PolygonGeometry:
		out.groups = [][]stLine{group(g.Coordinates...)}
	case vector.MultiPolygonGeometry:
		for _, polygon := range g.Coordinates {
			out.groups = append(out.groups, group(polygon...))
		}
	default:
		return stFeature{}, errors.Errorf("unsupported geometry %T", f.Geometry)
	}
	return out, nil
}

// ToS2 projects lon-lat features onto the cube. A feature yields one output
// per face it touches, holding the part of it inside that face's unit
// square. Faces are converted concurrently; the output is ordered by face.
func ToS2(features []vector.Feature) ([]vector.Feature, error) {
	projected := make([]stFeature, 0, len(features))
	for i, f := range features {
		if f.Geometry == nil {
			continue
		}
		sf, err := newSTFeature(f)
		if err != nil {
			return nil, errors.Wrapf(err, "feature %d", i)
		}
		projected = append(projected, sf)
	}

	var (
		perFace [geo.NumFaces][]vector.Feature
		g       errgroup.Group
	)
	for face := geo.Face(0); face < geo.NumFaces; face++ {
		g.Go(func() error {
			for _, sf := range projected {
				if !sf.faces.has(face) {
					continue
				}
				geom, ok := sf.on(face)
				if !ok {
					continue
				}
				f := sf.feature.WithGeometry(geom)
				f.Face = face
				perFace[face] = append(perFace[face], f)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []vector.Feature
	for _, fs := range perFace {
		out = append(out, fs...)
	}
	return out, nil
}

// on builds the geometry of sf clipped to face
func (sf stFeature) on(face geo.Face) (vector.Geometry, bool) {
	switch sf.kind {
	case vector.TypePoint, vector.TypeMultiPoint:
		var points []vector.Point
		bbox := geo.EmptyBBox3D()
		for _, p := range sf.groups[0][0].points {
			if p.face == face {
				pt := p.on(face)
				points = append(points, pt)
				vector.ExtendBBox(&bbox, pt)
			}
		}
		switch {
		case len(points) == 0:
			return nil, false
		case sf.kind == vector.TypePoint:
			return vector.PointGeometry{Coordinates: points[0], VecBBox: &bbox}, true
		}
		return vector.MultiPointGeometry{Coordinates: points, VecBBox: &bbox}, true

	case vector.TypeLineString, vector.TypeMultiLineString:
		var lines []FaceLine
		for _, l := range sf.groups[0] {
			lines = append(lines, l.faceLines(face, false)...)
		}
		if len(lines) == 0 {
			return nil, false
		}
		coords, offsets, bbox := collect(lines)
		if len(lines) == 1 && sf.kind == vector.TypeLineString {
			return vector.LineStringGeometry{Coordinates: coords[0], Offset: offsets[0], VecBBox: &bbox}, true
		}
		return vector.MultiLineStringGeometry{Coordinates: coords, Offsets: offsets, VecBBox: &bbox}, true

	case vector.TypePolygon:
		rings, ok := facePolygon(sf.groups[0], face)
		if !ok {
			return nil, false
		}
		coords, offsets, bbox := collect(rings)
		return vector.PolygonGeometry{Coordinates: coords, Offsets: offsets, VecBBox: &bbox}, true

	case vector.TypeMultiPolygon:
		var (
			polygons [][][]vector.Point
			offsets  [][]float64
			bbox     = geo.EmptyBBox3D()
		)
		for _, group := range sf.groups {
			rings, ok := facePolygon(group, face)
			if !ok {
				continue
			}
			coords, offs, b := collect(rings)
			polygons = append(polygons, coords)
			offsets = append(offsets, offs)
			bbox = bbox.Merge(b)
		}
		if len(polygons) == 0 {
			return nil, false
		}
		return vector.MultiPolygonGeometry{Coordinates: polygons, Offsets: offsets, VecBBox: &bbox}, true
	}
	return nil, false
}

// facePolygon clips the rings of one polygon to face. Holes follow the outer
// ring onto every face they touch; rings that collapse below 4 points are
// dropped, and without an outer ring there is no polygon.
func facePolygon(rings []stLine, face geo.Face) ([]FaceLine, bool) {
	if len(rings) == 0 {
		return nil, false
	}
	var out []FaceLine
	for i, ring := range rings {
		for _, fl := range ring.faceLines(face, true) {
			if len(fl.Line) >= 4 {
				out = append(out, fl)
			}
		}
		if i == 0 && len(out) == 0 {
			return nil, false
		}
	}
	return out, true
}

func collect(lines []FaceLine) ([][]vector.Point, []float64, geo.BBox3D) {
	coords := make([][]vector.Point, len(lines))
	offsets := make([]float64, len(lines))
	bbox := geo.EmptyBBox3D()
	for i, l := range lines {
		coords[i] = l.Line
		offsets[i] = l.Offset
		bbox = bbox.Merge(l.BBox)
	}
	return coords, offsets, bbox
}

// S2ToLonLat returns the lon-lat position of (s, t) on face
func S2ToLonLat(face geo.Face, s, t float64) geo.LonLat {
	return geo.LonLatFromPoint(geo.FaceSTToXYZ(face, s, t))
}
