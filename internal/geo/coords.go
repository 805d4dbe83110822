package geo

import (
	"math"
	mbits "math/bits"

	"github.com/golang/geo/r3"
)

const (
	// MaxLevel is the number of levels needed to address a leaf cell
	MaxLevel = 30
	// LimitIJ is one past the largest leaf (i, j) coordinate
	LimitIJ = 1 << MaxLevel
	// MaxSiTi is the largest si or ti coordinate
	MaxSiTi = 1 << (MaxLevel + 1)
	// NumFaces is the number of cube faces
	NumFaces = 6
	// NotCenter is the level XYZToFaceSiTi reports for a point that is not a cell center
	NotCenter = MaxLevel + 1
)

// Face identifies one of the six cube faces
type Face uint8

// Valid reports whether f names a cube face
func (f Face) Valid() bool {
	return f < NumFaces
}

// Axis selects the x or y coordinate of a planar point
type Axis int

const (
	X Axis = iota
	Y
)

var faceUVWAxes = [NumFaces][3]r3.Vector{
	{{X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 0}},
	{{X: -1, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 1}, {X: 0, Y: 1, Z: 0}},
	{{X: -1, Y: 0, Z: 0}, {X: 0, Y: -1, Z: 0}, {X: 0, Y: 0, Z: 1}},
	{{X: 0, Y: 0, Z: -1}, {X: 0, Y: -1, Z: 0}, {X: -1, Y: 0, Z: 0}},
	{{X: 0, Y: 0, Z: -1}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: -1, Z: 0}},
	{{X: 0, Y: 1, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 0, Z: -1}},
}

var faceUVWFaces = [NumFaces][3][2]Face{
	{{4, 1}, {5, 2}, {3, 0}},
	{{0, 3}, {5, 2}, {4, 1}},
	{{0, 3}, {1, 4}, {5, 2}},
	{{2, 5}, {1, 4}, {0, 3}},
	{{2, 5}, {3, 0}, {1, 4}},
	{{4, 1}, {3, 0}, {2, 5}},
}

// IJToST converts a leaf coordinate in [0, LimitIJ] to the s or t value of its lower edge
func IJToST(i uint32) float64 {
	return float64(i) / LimitIJ
}

// STToIJ returns the leaf coordinate containing s, clamped to [0, LimitIJ-1]
func STToIJ(s float64) uint32 {
	v := math.Round(LimitIJ*s - 0.5)
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > LimitIJ-1 {
		return LimitIJ - 1
	}
	return uint32(v)
}

// SiTiToST converts an si or ti coordinate in [0, MaxSiTi] to s or t
func SiTiToST(si uint32) float64 {
	return float64(si) / MaxSiTi
}

// STToSiTi returns the si or ti coordinate nearest to s
func STToSiTi(s float64) uint32 {
	v := math.Round(s * MaxSiTi)
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > MaxSiTi {
		return MaxSiTi
	}
	return uint32(v)
}

// FaceUVToXYZ turns face-relative (u, v) into a direction vector, not necessarily unit length
func FaceUVToXYZ(face Face, u, v float64) r3.Vector {
	switch face {
	case 0:
		return r3.Vector{X: 1, Y: u, Z: v}
	case 1:
		return r3.Vector{X: -u, Y: 1, Z: v}
	case 2:
		return r3.Vector{X: -u, Y: -v, Z: 1}
	case 3:
		return r3.Vector{X: -1, Y: -v, Z: -u}
	case 4:
		return r3.Vector{X: v, Y: -1, Z: -u}
	default:
		return r3.Vector{X: v, Y: u, Z: -1}
	}
}

// FaceSTToXYZ is FaceUVToXYZ for cell-space coordinates under the quadratic projection
func FaceSTToXYZ(face Face, s, t float64) r3.Vector {
	return FaceUVToXYZ(face, STToUV(s), STToUV(t))
}

// FaceSiTiToXYZ returns the direction vector of a discrete (si, ti) position
func FaceSiTiToXYZ(face Face, si, ti uint32) r3.Vector {
	return FaceSTToXYZ(face, SiTiToST(si), SiTiToST(ti))
}

// ValidFaceXYZToUV projects p onto face. p must lie in the face's hemisphere.
func ValidFaceXYZToUV(face Face, p r3.Vector) (u, v float64) {
	switch face {
	case 0:
		return p.Y / p.X, p.Z / p.X
	case 1:
		return -p.X / p.Y, p.Z / p.Y
	case 2:
		return -p.X / p.Z, -p.Y / p.Z
	case 3:
		return p.Z / p.X, p.Y / p.X
	case 4:
		return p.Z / p.Y, -p.X / p.Y
	default:
		return -p.Y / p.Z, -p.X / p.Z
	}
}

// FaceXYZToUV projects p onto face, reporting false when p points away from it
func FaceXYZToUV(face Face, p r3.Vector) (u, v float64, ok bool) {
	if face < 3 {
		if component(p, int(face)) <= 0 {
			return 0, 0, false
		}
	} else if component(p, int(face)-3) >= 0 {
		return 0, 0, false
	}
	u, v = ValidFaceXYZToUV(face, p)
	return u, v, true
}

// GetFace returns the face whose axis has the largest absolute component of p
func GetFace(p r3.Vector) Face {
	axis := int(p.LargestComponent())
	if component(p, axis) < 0 {
		return Face(axis + 3)
	}
	return Face(axis)
}

// XYZToFaceUV returns the face containing p and the (u, v) of p on it
func XYZToFaceUV(p r3.Vector) (Face, float64, float64) {
	face := GetFace(p)
	u, v := ValidFaceXYZToUV(face, p)
	return face, u, v
}

// XYZToFaceST is XYZToFaceUV followed by the quadratic uv to st mapping
func XYZToFaceST(p r3.Vector) (Face, float64, float64) {
	face, u, v := XYZToFaceUV(p)
	return face, UVToST(u), UVToST(v)
}

// XYZToFaceSiTi returns the discrete position of p and, when p is exactly the
// center of a cell, that cell's level. Other points report NotCenter.
func XYZToFaceSiTi(p r3.Vector) (face Face, level int, si, ti uint32) {
	face, s, t := XYZToFaceST(p)
	si = STToSiTi(s)
	ti = STToSiTi(t)

	level = MaxLevel - mbits.TrailingZeros32(si|MaxSiTi)
	if level < 0 || level != MaxLevel-mbits.TrailingZeros32(ti|MaxSiTi) {
		return face, NotCenter, si, ti
	}
	// Exact comparison: a cell center is computed the same way p would have been.
	if p == FaceSiTiToXYZ(face, si, ti).Normalize() {
		return face, level, si, ti
	}
	return face, NotCenter, si, ti
}

// FaceXYZToUVW expresses p in the (u, v, w) frame of face
func FaceXYZToUVW(face Face, p r3.Vector) r3.Vector {
	switch face {
	case 0:
		return r3.Vector{X: p.Y, Y: p.Z, Z: p.X}
	case 1:
		return r3.Vector{X: -p.X, Y: p.Z, Z: p.Y}
	case 2:
		return r3.Vector{X: -p.X, Y: -p.Y, Z: p.Z}
	case 3:
		return r3.Vector{X: -p.Z, Y: -p.Y, Z: -p.X}
	case 4:
		return r3.Vector{X: -p.Z, Y: p.X, Z: -p.Y}
	default:
		return r3.Vector{X: p.Y, Y: p.X, Z: -p.Z}
	}
}

// UNorm returns the right-handed normal of the plane u = const on face
func UNorm(face Face, u float64) r3.Vector {
	switch face {
	case 0:
		return r3.Vector{X: u, Y: -1, Z: 0}
	case 1:
		return r3.Vector{X: 1, Y: u, Z: 0}
	case 2:
		return r3.Vector{X: 1, Y: 0, Z: u}
	case 3:
		return r3.Vector{X: -u, Y: 0, Z: 1}
	case 4:
		return r3.Vector{X: 0, Y: -u, Z: 1}
	default:
		return r3.Vector{X: 0, Y: -1, Z: -u}
	}
}

// VNorm returns the right-handed normal of the plane v = const on face
func VNorm(face Face, v float64) r3.Vector {
	switch face {
	case 0:
		return r3.Vector{X: -v, Y: 0, Z: 1}
	case 1:
		return r3.Vector{X: 0, Y: -v, Z: 1}
	case 2:
		return r3.Vector{X: 0, Y: -1, Z: -v}
	case 3:
		return r3.Vector{X: v, Y: -1, Z: 0}
	case 4:
		return r3.Vector{X: 1, Y: v, Z: 0}
	default:
		return r3.Vector{X: 1, Y: 0, Z: v}
	}
}

// UVWAxis returns axis 0 (u), 1 (v) or 2 (w, the face normal) of face
func UVWAxis(face Face, axis int) r3.Vector {
	return faceUVWAxes[face%NumFaces][axis%3]
}

// Norm returns the unit normal of face
func Norm(face Face) r3.Vector {
	return UVWAxis(face, 2)
}

// UVWFace returns the face reached by leaving face along axis in the negative
// (direction 0) or positive (direction 1) sense
func UVWFace(face Face, axis, direction int) Face {
	return faceUVWFaces[face%NumFaces][axis%3][direction&1]
}

// TileXYFromST returns the tile at zoom containing (s, t)
func TileXYFromST(s, t float64, zoom int) (x, y uint32) {
	scale := float64(uint64(1) << uint(zoom))
	maxTile := scale - 1
	return uint32(math.Max(0, math.Min(maxTile, math.Floor(s*scale)))),
		uint32(math.Max(0, math.Min(maxTile, math.Floor(t*scale))))
}

func component(p r3.Vector, axis int) float64 {
	switch axis {
	case 0:
		return p.X
	case 1:
		return p.Y
	default:
		return p.Z
	}
}
