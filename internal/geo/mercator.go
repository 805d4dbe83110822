package geo

import "math"

const (
	earthRadius = 6378137.0
	originShift = math.Pi * earthRadius
	// MaxMercatorLat is the latitude at which the Web-Mercator square ends
	MaxMercatorLat = 85.05112878
	// DefaultTileSize is the pixel size of one tile
	DefaultTileSize = 512.0
)

// ToUnit projects ll into the Web-Mercator unit square. (0, 0) is the
// north-west corner. y is clamped to [0, 1]; x is left unclamped so that
// longitudes past the antimeridian keep their position.
func ToUnit(ll LonLat) (x, y float64) {
	sin := math.Sin(ll.Lat * math.Pi / 180)
	y = 0.5 - 0.25*math.Log((1+sin)/(1-sin))/math.Pi
	if y < 0 {
		y = 0
	} else if y > 1 {
		y = 1
	}
	x = ll.Lon/360 + 0.5
	return x, y
}

// FromUnit is the inverse of ToUnit
func FromUnit(x, y float64) LonLat {
	return LonLat{
		Lon: (x - 0.5) * 360,
		Lat: math.Atan(math.Sinh(math.Pi*(1-2*y))) * 180 / math.Pi,
	}
}

// LonLatToMeters converts ll to EPSG:3857 meters
func LonLatToMeters(ll LonLat) (mx, my float64) {
	// Clamp latitude to Mercator
	lat := math.Max(math.Min(ll.Lat, MaxMercatorLat), -MaxMercatorLat)
	mx = ll.Lon * originShift / 180.0
	my = math.Log(math.Tan((90.0+lat)*math.Pi/360.0)) * earthRadius
	return mx, my
}

// MetersToLonLat converts EPSG:3857 meters back to degrees
func MetersToLonLat(mx, my float64) LonLat {
	return LonLat{
		Lon: mx / originShift * 180,
		Lat: (2*math.Atan(math.Exp(my/earthRadius)) - math.Pi/2) * 180 / math.Pi,
	}
}

// LonLatToPixel returns the global pixel position of ll at zoom
func LonLatToPixel(ll LonLat, zoom int, tileSize float64) (px, py float64) {
	size := tileSize * float64(uint64(1)<<uint(zoom))
	x, y := ToUnit(ll)
	return x * size, y * size
}

// PixelToLonLat is the inverse of LonLatToPixel
func PixelToLonLat(px, py float64, zoom int, tileSize float64) LonLat {
	size := tileSize * float64(uint64(1)<<uint(zoom))
	return FromUnit(px/size, py/size)
}

// LonLatToTileXY returns the Web-Mercator tile at zoom containing ll
func LonLatToTileXY(ll LonLat, zoom int) (x, y uint32) {
	ux, uy := ToUnit(ll)
	// wrap longitudes outside [-180, 180)
	ux -= math.Floor(ux)
	return TileXYFromST(ux, uy, zoom)
}

// TileBounds returns the lon-lat bounds of a Web-Mercator tile
func TileBounds(zoom int, x, y uint32) BBox {
	scale := float64(uint64(1) << uint(zoom))
	nw := FromUnit(float64(x)/scale, float64(y)/scale)
	se := FromUnit(float64(x+1)/scale, float64(y+1)/scale)
	return BBox{Left: nw.Lon, Bottom: se.Lat, Right: se.Lon, Top: nw.Lat}
}
