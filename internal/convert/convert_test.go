package convert

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"s2tile/internal/geo"
	"s2tile/internal/vector"
)

func lineFeature(coords ...[2]float64) vector.Feature {
	line := make([]vector.Point, len(coords))
	for i, c := range coords {
		line[i] = vector.NewPoint(c[0], c[1])
	}
	return vector.Feature{ID: "line", Geometry: vector.LineStringGeometry{Coordinates: line}}
}

func TestParseProjection(t *testing.T) {
	p, err := ParseProjection(" s2 ")
	require.NoError(t, err)
	assert.Equal(t, S2, p)

	p, err = ParseProjection("wm")
	require.NoError(t, err)
	assert.Equal(t, WM, p)

	_, err = ParseProjection("mercator")
	assert.True(t, errors.Is(err, ErrProjection))
}

func TestToUnitScale(t *testing.T) {
	in := []vector.Feature{
		lineFeature([2]float64{0, 0}, [2]float64{180, 0}, [2]float64{-180, 89}),
		{ID: "empty"},
	}
	out := ToUnitScale(in)
	require.Len(t, out, 1)

	line := out[0].Geometry.(vector.LineStringGeometry)
	assert.InDelta(t, 0.5, line.Coordinates[0].X, 1e-12)
	assert.InDelta(t, 0.5, line.Coordinates[0].Y, 1e-12)
	assert.Equal(t, 1.0, line.Coordinates[1].X)
	assert.Equal(t, 0.0, line.Coordinates[2].X)
	assert.Equal(t, 0.0, line.Coordinates[2].Y, "latitudes past the square clamp to its edge")

	require.NotNil(t, line.VecBBox)
	assert.Equal(t, geo.BBox{Left: 0, Bottom: 0, Right: 1, Top: line.Coordinates[0].Y}, line.VecBBox.BBox())

	// the input is untouched
	assert.Equal(t, 180.0, in[0].Geometry.(vector.LineStringGeometry).Coordinates[1].X)
}

func TestToLonLatInverse(t *testing.T) {
	for _, ll := range []geo.LonLat{{Lon: 0, Lat: 0}, {Lon: -122.4, Lat: 37.8}, {Lon: 151.2, Lat: -33.9}} {
		x, y := geo.ToUnit(ll)
		got := ToLonLat(x, y)
		if diff := cmp.Diff(ll, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestToS2Points(t *testing.T) {
	in := []vector.Feature{
		{ID: 1, Geometry: vector.PointGeometry{Coordinates: vector.NewPoint(90, 0)}},
		{ID: 2, Geometry: vector.MultiPointGeometry{Coordinates: []vector.Point{
			vector.NewPoint(0, 0), vector.NewPoint(90, 0), vector.NewPoint3D(1, 1, 12),
		}}},
	}
	out, err := ToS2(in)
	require.NoError(t, err)
	require.Len(t, out, 3)

	// ordered by face, input order within a face
	assert.Equal(t, geo.Face(0), out[0].Face)
	assert.Equal(t, 2, out[0].ID)
	mp := out[0].Geometry.(vector.MultiPointGeometry)
	require.Len(t, mp.Coordinates, 2)
	assert.InDelta(t, 0.5, mp.Coordinates[0].X, 1e-12)
	assert.InDelta(t, 0.5, mp.Coordinates[0].Y, 1e-12)
	require.NotNil(t, mp.Coordinates[1].Z)
	assert.Equal(t, 12.0, *mp.Coordinates[1].Z)

	assert.Equal(t, geo.Face(1), out[1].Face)
	assert.Equal(t, 1, out[1].ID)
	pt := out[1].Geometry.(vector.PointGeometry)
	assert.InDelta(t, 0.5, pt.Coordinates.X, 1e-12)
	require.NotNil(t, pt.VecBBox)

	assert.Equal(t, geo.Face(1), out[2].Face)
	assert.Equal(t, vector.TypeMultiPoint, out[2].Geometry.Type())
}

func TestToS2LineAcrossFaces(t *testing.T) {
	out, err := ToS2([]vector.Feature{lineFeature([2]float64{40, 0}, [2]float64{50, 0})})
	require.NoError(t, err)
	require.Len(t, out, 2)

	first := out[0].Geometry.(vector.LineStringGeometry)
	second := out[1].Geometry.(vector.LineStringGeometry)
	assert.Equal(t, geo.Face(0), out[0].Face)
	assert.Equal(t, geo.Face(1), out[1].Face)

	require.Len(t, first.Coordinates, 2)
	s := first.Coordinates[0].X
	assert.Greater(t, s, 0.5)
	assert.Equal(t, 1.0, first.Coordinates[1].X)
	assert.InDelta(t, 0.5, first.Coordinates[1].Y, 1e-12)
	assert.Equal(t, 0.0, first.Offset)

	require.Len(t, second.Coordinates, 2)
	assert.Equal(t, 0.0, second.Coordinates[0].X)
	assert.InDelta(t, 1-s, second.Coordinates[1].X, 1e-9, "the faces meet symmetrically about lon 45")
	assert.InDelta(t, 1-s, second.Offset, 1e-9)
}

func TestToS2Polygon(t *testing.T) {
	ring := []vector.Point{
		vector.NewPoint(-1, -1), vector.NewPoint(1, -1), vector.NewPoint(1, 1), vector.NewPoint(-1, 1), vector.NewPoint(-1, -1),
	}
	hole := []vector.Point{
		vector.NewPoint(-0.5, -0.5), vector.NewPoint(-0.5, 0.5), vector.NewPoint(0.5, 0.5), vector.NewPoint(0.5, -0.5), vector.NewPoint(-0.5, -0.5),
	}
	in := []vector.Feature{
		{Geometry: vector.PolygonGeometry{Coordinates: [][]vector.Point{ring, hole}}},
		{Geometry: vector.MultiPolygonGeometry{Coordinates: [][][]vector.Point{{ring}, {hole}}}},
	}
	out, err := ToS2(in)
	require.NoError(t, err)
	require.Len(t, out, 2)

	poly := out[0].Geometry.(vector.PolygonGeometry)
	require.Len(t, poly.Coordinates, 2)
	assert.Len(t, poly.Coordinates[0], 5)
	assert.Len(t, poly.Offsets, 2)
	assert.True(t, poly.Coordinates[0][0].SameXY(poly.Coordinates[0][4]))
	require.NotNil(t, poly.VecBBox)
	assert.Less(t, poly.VecBBox.Left, 0.5)
	assert.Greater(t, poly.VecBBox.Right, 0.5)

	multi := out[1].Geometry.(vector.MultiPolygonGeometry)
	assert.Len(t, multi.Coordinates, 2)
}

func TestToS2Unsupported(t *testing.T) {
	_, err := ToS2([]vector.Feature{{Geometry: unknownGeometry{}}})
	assert.Error(t, err)
}

type unknownGeometry struct{ vector.PointGeometry }

func (unknownGeometry) Type() vector.Type { return 0 }

func TestFaceRuleSet(t *testing.T) {
	for face := range geo.Face(geo.NumFaces) {
		assert.Equal(t, FaceRule{}, FaceRuleSet[face][face])
	}
	s, tt := FaceRule{Rotation: 90, DX: 0, DY: 1}.Apply(0.25, 0.75)
	assert.Equal(t, [2]float64{0.75, 1.75}, [2]float64{s, tt})
	s, tt = FaceRule{Rotation: -90, DX: 2}.Apply(0.25, 0.75)
	assert.Equal(t, [2]float64{2.25, 0.25}, [2]float64{s, tt})
}

func TestS2RoundTrip(t *testing.T) {
	want := geo.LonLat{Lon: 10, Lat: 20}
	out, err := ToS2([]vector.Feature{{Geometry: vector.PointGeometry{Coordinates: vector.NewPoint(want.Lon, want.Lat)}}})
	require.NoError(t, err)
	require.Len(t, out, 1)

	back, err := FeatureToLonLat(S2, out[0])
	require.NoError(t, err)
	assert.Equal(t, geo.Face(0), back.Face)
	got := back.Geometry.(vector.PointGeometry).Coordinates.LonLat()
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	ll := S2ToLonLat(0, 0.5, 0.5)
	assert.InDelta(t, 0, ll.Lon, 1e-12)
	assert.InDelta(t, 0, ll.Lat, 1e-12)
}

func TestWMRoundTrip(t *testing.T) {
	in := lineFeature([2]float64{-122.4, 37.8}, [2]float64{151.2, -33.9})
	back, err := FeatureToLonLat(WM, ToUnitScale([]vector.Feature{in})[0])
	require.NoError(t, err)

	opt := cmpopts.EquateApprox(0, 1e-9)
	got := back.Geometry.(vector.LineStringGeometry).Coordinates
	for i, p := range in.Geometry.(vector.LineStringGeometry).Coordinates {
		if diff := cmp.Diff(p.LonLat(), got[i].LonLat(), opt); diff != "" {
			t.Errorf("vertex %d mismatch (-want +got):\n%s", i, diff)
		}
	}

	_, err = FeatureToLonLat("XY", in)
	assert.True(t, errors.Is(err, ErrProjection))
}

func TestConvert(t *testing.T) {
	roads := lineFeature([2]float64{0, 0}, [2]float64{1, 1}, [2]float64{2, 0})
	roads.Metadata = vector.Values{vector.LayerKey: "roads"}
	in := []vector.Feature{lineFeature([2]float64{0, 0}, [2]float64{1, 0}), roads}

	for _, p := range []Projection{S2, WM} {
		t.Run(p.String(), func(t *testing.T) {
			out, err := Convert(p, in, Options{Tolerance: 3, Layer: "base"})
			require.NoError(t, err)
			require.Len(t, out, 2)

			layer, _ := out[0].Layer()
			assert.Equal(t, "base", layer)
			layer, _ = out[1].Layer()
			assert.Equal(t, "roads", layer)

			line := out[0].Geometry.(vector.LineStringGeometry)
			assert.Equal(t, 1.0, line.Coordinates[0].SqDist())
			assert.Equal(t, 1.0, line.Coordinates[len(line.Coordinates)-1].SqDist())
			assert.NotNil(t, line.VecBBox)
		})
	}
	assert.Nil(t, in[0].Metadata)

	_, err := Convert("XY", in, Options{})
	assert.True(t, errors.Is(err, ErrProjection))
}

func TestFromOrb(t *testing.T) {
	square := orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}
	tests := []struct {
		name   string
		in     orb.Geometry
		types  []vector.Type
		points int
	}{
		{name: "Point", in: orb.Point{1, 2}, types: []vector.Type{vector.TypePoint}, points: 1},
		{name: "MultiPoint", in: orb.MultiPoint{{1, 2}, {3, 4}}, types: []vector.Type{vector.TypeMultiPoint}, points: 2},
		{name: "LineString", in: orb.LineString{{1, 2}, {3, 4}}, types: []vector.Type{vector.TypeLineString}, points: 2},
		{name: "MultiLineString", in: orb.MultiLineString{{{1, 2}, {3, 4}}, {{5, 6}, {7, 8}}}, types: []vector.Type{vector.TypeMultiLineString}, points: 4},
		{name: "Ring", in: square, types: []vector.Type{vector.TypePolygon}, points: 5},
		{name: "Polygon", in: orb.Polygon{square, square}, types: []vector.Type{vector.TypePolygon}, points: 10},
		{name: "MultiPolygon", in: orb.MultiPolygon{{square}, {square}}, types: []vector.Type{vector.TypeMultiPolygon}, points: 10},
		{name: "Bound", in: orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{1, 1}}, types: []vector.Type{vector.TypePolygon}, points: 5},
		{
			name:   "Collection",
			in:     orb.Collection{orb.Point{1, 2}, orb.Collection{orb.LineString{{1, 2}, {3, 4}}}},
			types:  []vector.Type{vector.TypePoint, vector.TypeLineString},
			points: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			geoms, err := FromOrb(tt.in)
			require.NoError(t, err)
			var types []vector.Type
			points := 0
			for _, g := range geoms {
				types = append(types, g.Type())
				points += vector.CountPoints(g)
			}
			assert.Equal(t, tt.types, types)
			assert.Equal(t, tt.points, points)
		})
	}

	_, err := FromOrb(nil)
	assert.Error(t, err)
	_, err = FromOrb(orb.Collection{orb.Point{}, nil})
	assert.Error(t, err)
}

func TestParseGeoJSON(t *testing.T) {
	doc := []byte(`{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "id": 7, "properties": {"name": "a", "layer": "water"},
			 "geometry": {"type": "Point", "coordinates": [10, 20]}},
			{"type": "Feature", "properties": {"name": "b"},
			 "geometry": {"type": "LineString", "coordinates": [[0, 0], [1, 1]]}}
		]
	}`)

	features, err := ParseGeoJSON(doc)
	require.NoError(t, err)
	require.Len(t, features, 2)

	assert.Equal(t, float64(7), features[0].ID)
	layer, ok := features[0].Layer()
	assert.True(t, ok)
	assert.Equal(t, "water", layer)
	assert.Equal(t, "a", features[0].Properties["name"])
	assert.Equal(t, vector.NewPoint(10, 20), features[0].Geometry.(vector.PointGeometry).Coordinates)

	_, ok = features[1].Layer()
	assert.False(t, ok)
	assert.Equal(t, vector.TypeLineString, features[1].Geometry.Type())

	_, err = ParseGeoJSON([]byte(`{"type": "FeatureCollection", "features": [`))
	assert.Error(t, err)
}

func TestToGeoJSON(t *testing.T) {
	hole := []vector.Point{vector.NewPoint(1, 1), vector.NewPoint(2, 1), vector.NewPoint(2, 2), vector.NewPoint(1, 1)}
	features := []vector.Feature{
		{
			ID:         "park",
			Properties: vector.Values{"name": "green"},
			Metadata:   vector.Values{vector.LayerKey: "parks"},
			Geometry: vector.PolygonGeometry{Coordinates: [][]vector.Point{
				{vector.NewPoint(0, 0), vector.NewPoint(4, 0), vector.NewPoint(4, 4), vector.NewPoint(0, 0)},
				hole,
			}},
		},
		lineFeature([2]float64{0, 0}, [2]float64{3, 1}),
	}

	fc, err := ToGeoJSON(features)
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)

	park := fc.Features[0]
	assert.Equal(t, "park", park.ID)
	assert.Equal(t, "green", park.Properties["name"])
	assert.Equal(t, "parks", park.Properties[vector.LayerKey])
	poly, ok := park.Geometry.(orb.Polygon)
	require.True(t, ok)
	require.Len(t, poly, 2)
	assert.Equal(t, orb.Point{2, 2}, poly[1][2])
	assert.Equal(t, orb.LineString{{0, 0}, {3, 1}}, fc.Features[1].Geometry)

	// decoding the encoded collection gives the input back
	data, err := fc.MarshalJSON()
	require.NoError(t, err)
	back, err := ParseGeoJSON(data)
	require.NoError(t, err)
	require.Len(t, back, 2)
	layer, _ := back[0].Layer()
	assert.Equal(t, "parks", layer)
	assert.Equal(t, hole, back[0].Geometry.(vector.PolygonGeometry).Coordinates[1])

	_, err = ToGeoJSON([]vector.Feature{{Geometry: unknownGeometry{}}})
	assert.Error(t, err)
	_, err = ToOrb(nil)
	assert.Error(t, err)
}
