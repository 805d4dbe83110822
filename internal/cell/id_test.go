package cell

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/golang/geo/s2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"s2tile/internal/geo"
)

func randomCell(r *rand.Rand, level int) ID {
	face := geo.Face(r.Intn(geo.NumFaces))
	shift := uint(geo.MaxLevel - level)
	i := (r.Uint32() % geo.LimitIJ) >> shift
	j := (r.Uint32() % geo.LimitIJ) >> shift
	return fromFaceIJLevel(face, i, j, level)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		raw   uint64
		valid bool
	}{
		{name: "Zero", raw: 0, valid: false},
		{name: "Face 0", raw: 1 << 60, valid: true},
		{name: "Face 5 leaf", raw: 5<<61 | 1, valid: true},
		{name: "Face 6", raw: 6<<61 | 1<<60, valid: false},
		{name: "Odd lsb position", raw: 1 << 59, valid: false},
		{name: "Level 1", raw: 1 << 58, valid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.raw)
			if tt.valid {
				require.NoError(t, err)
				require.Equal(t, tt.raw, c.Uint64())
				return
			}
			require.ErrorIs(t, err, ErrInvalidCell)
			require.Equal(t, None, c)
		})
	}
}

func TestFaces(t *testing.T) {
	for f, c := range Faces() {
		require.True(t, c.IsValid())
		require.True(t, c.IsFace())
		require.Equal(t, 0, c.Level())
		require.Equal(t, geo.Face(f), c.Face())
		require.Equal(t, uint64(s2.CellIDFromFace(f)), c.Uint64())
	}
	_, err := FromFace(6)
	require.ErrorIs(t, err, ErrInvalidCell)
	require.Equal(t, -1, None.Level())
}

func TestFromFaceIJRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for n := 0; n < 2000; n++ {
		face := geo.Face(r.Intn(geo.NumFaces))
		level := r.Intn(geo.MaxLevel + 1)
		i := r.Uint32() % (1 << uint(level))
		j := r.Uint32() % (1 << uint(level))

		c, err := FromFaceIJ(face, i, j, level)
		require.NoError(t, err)
		require.Equal(t, level, c.Level())

		gotFace, gotI, gotJ, _ := c.FaceIJOrientationAt(level)
		require.Equal(t, face, gotFace)
		require.Equal(t, i, gotI, "level %d", level)
		require.Equal(t, j, gotJ, "level %d", level)

		_, zoom, zi, zj := c.ZoomIJ()
		require.Equal(t, level, zoom)
		require.Equal(t, i, zi)
		require.Equal(t, j, zj)
	}
}

func TestFromFaceIJErrors(t *testing.T) {
	_, err := FromFaceIJ(6, 0, 0, 0)
	require.ErrorIs(t, err, ErrInvalidCell)
	_, err = FromFaceIJ(0, 0, 0, 31)
	require.ErrorIs(t, err, ErrLevel)
	_, err = FromFaceIJ(0, 4, 0, 2)
	require.ErrorIs(t, err, ErrInvalidCell)
}

func TestLevelAndLSB(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	cells := make([]ID, 0, 200)
	for n := 0; n < 200; n++ {
		cells = append(cells, randomCell(r, r.Intn(geo.MaxLevel+1)))
	}
	for _, a := range cells {
		require.Equal(t, lsbForLevel(a.Level()), a.LSB())
		for _, b := range cells {
			require.Equal(t, a.Level() >= b.Level(), a.LSB() <= b.LSB(), "%v %v", a, b)
		}
	}
}

func TestDistance(t *testing.T) {
	r := rand.New(rand.NewSource(9))
	for n := 0; n < 200; n++ {
		c := randomCell(r, r.Intn(geo.MaxLevel+1))
		got, err := FromDistance(c.Distance(), c.Level())
		require.NoError(t, err)
		require.Equal(t, c, got)
	}
	_, err := FromDistance(0, -1)
	require.ErrorIs(t, err, ErrLevel)
}

func TestFromPointMatchesS2(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for n := 0; n < 1000; n++ {
		p := s2.PointFromLatLng(s2.LatLngFromDegrees(180*r.Float64()-90, 360*r.Float64()-180))
		c := FromPoint(p.Vector)
		require.Equal(t, uint64(s2.CellIDFromPoint(p)), c.Uint64())
		require.True(t, c.IsLeaf())

		want, err := FromS2(s2.CellIDFromPoint(p))
		require.NoError(t, err)
		require.Equal(t, want, c)
		require.Equal(t, s2.CellIDFromPoint(p), c.ToS2())
	}
}

func TestCoordinateRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(13))
	for n := 0; n < 1000; n++ {
		ll := geo.LonLat{Lon: 360*r.Float64() - 180, Lat: 180*r.Float64() - 90}
		c := FromLonLat(ll)
		// within half a leaf diagonal of the cell center
		angle := c.Point().Angle(ll.Point().Normalize())
		require.Less(t, angle.Radians(), s2.MaxDiagMetric.Value(geo.MaxLevel)/2, "%v", ll)
		assert.Less(t, c.LonLat().DistanceMeters(ll), 0.01)
	}
}

func TestPointMatchesS2(t *testing.T) {
	r := rand.New(rand.NewSource(17))
	for n := 0; n < 500; n++ {
		c := randomCell(r, r.Intn(geo.MaxLevel+1))
		want := c.ToS2().Point()
		got := c.Point()
		require.InDelta(t, want.X, got.X, 1e-15)
		require.InDelta(t, want.Y, got.Y, 1e-15)
		require.InDelta(t, want.Z, got.Z, 1e-15)
	}
}

func TestFromFaceST(t *testing.T) {
	c, err := FromFaceST(2, 0.5, 0.5)
	require.NoError(t, err)
	require.Equal(t, geo.Face(2), c.Face())
	require.True(t, c.IsLeaf())

	face, s, tt := c.CenterST()
	require.Equal(t, geo.Face(2), face)
	require.InDelta(t, 0.5, s, 1e-9)
	require.InDelta(t, 0.5, tt, 1e-9)

	_, err = FromFaceST(7, 0, 0)
	require.ErrorIs(t, err, ErrInvalidCell)
}

func TestBoundST(t *testing.T) {
	r := rand.New(rand.NewSource(19))
	for n := 0; n < 200; n++ {
		level := r.Intn(geo.MaxLevel + 1)
		c := randomCell(r, level)
		_, i, j, _ := c.FaceIJOrientationAt(level)
		b := c.BoundST()
		size := SizeST(level)
		require.InDelta(t, float64(i)*size, b.X.Lo, 1e-15)
		require.InDelta(t, float64(j)*size, b.Y.Lo, 1e-15)
		require.InDelta(t, size, b.X.Length(), 1e-15)
	}
}

func BenchmarkFromFaceIJ(b *testing.B) {
	for n := 0; n < b.N; n++ {
		fromFaceIJ(geo.Face(n%6), uint32(n)*7919%geo.LimitIJ, uint32(n)*104729%geo.LimitIJ)
	}
}

func BenchmarkFaceIJOrientation(b *testing.B) {
	c := FromLonLat(geo.LonLat{Lon: -71.0589, Lat: 42.3601})
	for n := 0; n < b.N; n++ {
		c.FaceIJOrientation()
	}
}

func sortedIDs(ids []ID) []ID {
	out := append([]ID(nil), ids...)
	sort.Slice(out, func(a, b int) bool { return out[a].Less(out[b]) })
	return out
}
