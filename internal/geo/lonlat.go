package geo

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// Mean earth radius in meters, used for great-circle distances
const earthRadiusMean = 6371000

// LonLat is a WGS84 position in degrees
type LonLat struct {
	Lon float64
	Lat float64
}

func (ll LonLat) String() string {
	return fmt.Sprintf("(%.9f, %.9f)", ll.Lon, ll.Lat)
}

// Point returns the unit-sphere vector for ll
func (ll LonLat) Point() r3.Vector {
	lon := ll.Lon * math.Pi / 180
	lat := ll.Lat * math.Pi / 180
	cosLat := math.Cos(lat)
	return r3.Vector{
		X: math.Cos(lon) * cosLat,
		Y: math.Sin(lon) * cosLat,
		Z: math.Sin(lat),
	}
}

// LonLatFromPoint returns the position of a direction vector. p need not be unit length.
func LonLatFromPoint(p r3.Vector) LonLat {
	return LonLat{
		Lon: math.Atan2(p.Y, p.X) * 180 / math.Pi,
		Lat: math.Atan2(p.Z, math.Sqrt(p.X*p.X+p.Y*p.Y)) * 180 / math.Pi,
	}
}

// Normalized clamps the latitude to [-90, 90] and wraps the longitude into [-180, 180]
func (ll LonLat) Normalized() LonLat {
	lat := math.Max(-90, math.Min(90, ll.Lat))
	lon := math.Remainder(ll.Lon, 360)
	return LonLat{Lon: lon, Lat: lat}
}

// Angle returns the central angle between ll and o
func (ll LonLat) Angle(o LonLat) s1.Angle {
	return ll.Point().Angle(o.Point())
}

// DistanceMeters calculates the haversine distance between ll and o in meters
func (ll LonLat) DistanceMeters(o LonLat) float64 {
	lat1 := ll.Lat * math.Pi / 180
	lat2 := o.Lat * math.Pi / 180
	dlat := lat2 - lat1
	dlon := (o.Lon - ll.Lon) * math.Pi / 180

	a := math.Sin(dlat/2)*math.Sin(dlat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMean * c
}

// LatLng converts ll to the s2 package's representation
func (ll LonLat) LatLng() s2.LatLng {
	return s2.LatLngFromDegrees(ll.Lat, ll.Lon)
}

// LonLatFromLatLng converts an s2.LatLng
func LonLatFromLatLng(l s2.LatLng) LonLat {
	return LonLat{Lon: l.Lng.Degrees(), Lat: l.Lat.Degrees()}
}
