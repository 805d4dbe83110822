package cell

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"s2tile/internal/geo"
)

// FromPoint returns the leaf cell containing the direction p
func FromPoint(p r3.Vector) ID {
	face, u, v := geo.XYZToFaceUV(p)
	return fromFaceIJ(face, geo.STToIJ(geo.UVToST(u)), geo.STToIJ(geo.UVToST(v)))
}

// FromLonLat returns the leaf cell containing ll
func FromLonLat(ll geo.LonLat) ID {
	return FromPoint(ll.Point())
}

// FromFaceST returns the leaf cell containing (s, t) on face. s and t are clamped to [0, 1].
func FromFaceST(face geo.Face, s, t float64) (ID, error) {
	if !face.Valid() {
		return None, errors.Wrapf(ErrInvalidCell, "face %d", face)
	}
	return fromFaceIJ(face, geo.STToIJ(s), geo.STToIJ(t)), nil
}

// CenterSiTi returns the exact center of c on the doubled-resolution grid
func (c ID) CenterSiTi() (face geo.Face, si, ti uint32) {
	face, i, j, _ := c.FaceIJOrientation()
	// For a non-leaf cell the decoded leaf is either (imin+s/2, jmin+s/2) or
	// one step below and left of it; the low bit of i tells which.
	var delta uint32
	if c.IsLeaf() {
		delta = 1
	} else if (uint64(i)^(c.id>>2))&1 != 0 {
		delta = 2
	}
	return face, 2*i + delta, 2*j + delta
}

// CenterST returns the (s, t) center of c
func (c ID) CenterST() (face geo.Face, s, t float64) {
	face, si, ti := c.CenterSiTi()
	return face, geo.SiTiToST(si), geo.SiTiToST(ti)
}

// CenterUV returns the (u, v) center of c
func (c ID) CenterUV() (face geo.Face, u, v float64) {
	face, s, t := c.CenterST()
	return face, geo.STToUV(s), geo.STToUV(t)
}

// PointRaw returns the center of c as a vector on the cube surface
func (c ID) PointRaw() r3.Vector {
	face, si, ti := c.CenterSiTi()
	return geo.FaceSiTiToXYZ(face, si, ti)
}

// Point returns the unit-length center of c
func (c ID) Point() r3.Vector {
	return c.PointRaw().Normalize()
}

// LonLat returns the center of c in degrees
func (c ID) LonLat() geo.LonLat {
	return geo.LonLatFromPoint(c.PointRaw())
}

// SizeIJ returns the edge length of a cell at level in leaf units
func SizeIJ(level int) uint32 {
	return 1 << uint(geo.MaxLevel-level)
}

// SizeST returns the edge length of a cell at level in (s, t) units
func SizeST(level int) float64 {
	return geo.IJToST(SizeIJ(level))
}

// BoundST returns the (s, t) rectangle covered by c
func (c ID) BoundST() r2.Rect {
	_, s, t := c.CenterST()
	size := SizeST(c.Level())
	return r2.RectFromCenterSize(r2.Point{X: s, Y: t}, r2.Point{X: size, Y: size})
}
