package tile

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/sync/errgroup"

	"s2tile/internal/cell"
	"s2tile/internal/convert"
	"s2tile/internal/geo"
	"s2tile/internal/vector"
)

var sanFrancisco = geo.LonLat{Lon: -122.4, Lat: 37.8}

func lonLatFeatures() []vector.Feature {
	return []vector.Feature{
		{ID: "sf", Geometry: vector.PointGeometry{Coordinates: vector.NewPoint(sanFrancisco.Lon, sanFrancisco.Lat)}},
		{
			ID:       "road",
			Metadata: vector.Values{vector.LayerKey: "roads"},
			Geometry: vector.LineStringGeometry{Coordinates: []vector.Point{
				vector.NewPoint(-10, 10), vector.NewPoint(0, 5), vector.NewPoint(10, -10),
			}},
		},
		{
			ID: "park",
			Geometry: vector.PolygonGeometry{Coordinates: [][]vector.Point{{
				vector.NewPoint(2, 48), vector.NewPoint(3, 48), vector.NewPoint(3, 49), vector.NewPoint(2, 49), vector.NewPoint(2, 48),
			}}},
		},
	}
}

func wmOptions() Options {
	opts := DefaultOptions()
	opts.Projection = convert.WM
	opts.IndexMaxZoom = 3
	opts.MaxZoom = 14
	return opts
}

func TestOptionsValidate(t *testing.T) {
	require.NoError(t, DefaultOptions().Validate())

	tests := []struct {
		name   string
		modify func(*Options)
	}{
		{name: "projection", modify: func(o *Options) { o.Projection = "XY" }},
		{name: "max zoom", modify: func(o *Options) { o.MaxZoom = 21 }},
		{name: "min zoom", modify: func(o *Options) { o.MinZoom = 5; o.MaxZoom = 4; o.IndexMaxZoom = 2 }},
		{name: "index max zoom", modify: func(o *Options) { o.IndexMaxZoom = -1 }},
		{name: "tolerance", modify: func(o *Options) { o.Tolerance = -1 }},
		{name: "buffer", modify: func(o *Options) { o.Buffer = 0.5 }},
		{name: "extent", modify: func(o *Options) { o.Extent = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.modify(&opts)
			assert.ErrorIs(t, opts.Validate(), ErrOptions)

			_, err := NewStore(nil, opts, nil)
			assert.ErrorIs(t, err, ErrOptions)
		})
	}
}

func TestStoreIndex(t *testing.T) {
	s, err := NewStore(lonLatFeatures(), wmOptions(), zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.Equal(t, []geo.Face{0}, s.Faces())
	root := cell.Faces()[0]
	require.True(t, s.tiles[root].Transformed())

	// tiles down to the index zoom are built up front; the last level is
	// left untransformed until requested
	x, y := geo.LonLatToTileXY(sanFrancisco, 3)
	w, err := cell.FromZoomXY(3, x, y)
	require.NoError(t, err)
	id, err := w.ToCell()
	require.NoError(t, err)
	stored, ok := s.tiles[id]
	require.True(t, ok)
	assert.False(t, stored.Transformed())
	assert.False(t, stored.IsEmpty())

	rootTile, ok := s.Tile(root)
	require.True(t, ok)
	assert.Equal(t, []string{DefaultLayer, "roads"}, rootTile.LayerNames())
	assert.Len(t, rootTile.Layers[DefaultLayer].Features, 2)
}

func TestStoreDrillDown(t *testing.T) {
	s, err := NewStore(lonLatFeatures(), wmOptions(), nil)
	require.NoError(t, err)
	before := s.Len()

	const zoom = 10
	x, y := geo.LonLatToTileXY(sanFrancisco, zoom)
	w, err := cell.FromZoomXY(zoom, x, y)
	require.NoError(t, err)

	tile, ok := s.TileWM(w)
	require.True(t, ok)
	assert.True(t, tile.Transformed())
	assert.Greater(t, s.Len(), before)

	features := tile.Layers[DefaultLayer].Features
	require.Len(t, features, 1)
	assert.Equal(t, "sf", features[0].ID)

	ux, uy := geo.ToUnit(sanFrancisco)
	p := features[0].Geometry.(vector.PointGeometry).Coordinates
	assert.Equal(t, math.Round(4096*(ux*(1<<zoom)-float64(x))), p.X)
	assert.Equal(t, math.Round(4096*(uy*(1<<zoom)-float64(y))), p.Y)

	again, ok := s.TileWM(w)
	require.True(t, ok)
	assert.Same(t, tile, again)
}

func TestStoreMissingTiles(t *testing.T) {
	s, err := NewStore(lonLatFeatures(), wmOptions(), nil)
	require.NoError(t, err)

	x, y := geo.LonLatToTileXY(geo.LonLat{Lon: 100, Lat: -60}, 8)
	empty, err := cell.FromZoomXY(8, x, y)
	require.NoError(t, err)
	_, ok := s.TileWM(empty)
	assert.False(t, ok, "no data reaches the tile")

	x, y = geo.LonLatToTileXY(sanFrancisco, 15)
	deep, err := cell.FromZoomXY(15, x, y)
	require.NoError(t, err)
	_, ok = s.TileWM(deep)
	assert.False(t, ok, "past max zoom")

	_, ok = s.Tile(cell.None)
	assert.False(t, ok)
	_, ok = s.Tile(cell.Faces()[3])
	assert.False(t, ok, "face without data")
}

func TestStoreS2(t *testing.T) {
	features := []vector.Feature{
		{ID: "origin", Geometry: vector.PointGeometry{Coordinates: vector.NewPoint(0, 0)}},
		{ID: "pole", Geometry: vector.PointGeometry{Coordinates: vector.NewPoint(10, 89)}},
	}
	s, err := NewStore(features, DefaultOptions(), zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, []geo.Face{0, 2}, s.Faces())

	tile, ok := s.Tile(cell.Faces()[0])
	require.True(t, ok)
	p := tile.Layers[DefaultLayer].Features[0].Geometry.(vector.PointGeometry).Coordinates
	assert.Equal(t, [2]float64{2048, 2048}, [2]float64{p.X, p.Y})

	leaf := cell.FromLonLat(geo.LonLat{Lon: 10, Lat: 89})
	id, err := leaf.ParentAt(MaxZoomLimit)
	require.NoError(t, err)
	deep, ok := s.Tile(id)
	require.True(t, ok)
	assert.True(t, deep.Transformed())
	assert.Equal(t, "pole", deep.Layers[DefaultLayer].Features[0].ID)
}

func TestStoreConcurrentTiles(t *testing.T) {
	s, err := NewStore(lonLatFeatures(), wmOptions(), nil)
	require.NoError(t, err)

	var g errgroup.Group
	for zoom := 4; zoom <= 12; zoom++ {
		g.Go(func() error {
			x, y := geo.LonLatToTileXY(sanFrancisco, zoom)
			w, err := cell.FromZoomXY(zoom, x, y)
			if err != nil {
				return err
			}
			if _, ok := s.TileWM(w); !ok {
				t.Errorf("zoom %d tile missing", zoom)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}
