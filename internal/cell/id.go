// Package cell implements 64-bit hierarchical cell ids laid out along a
// Hilbert curve over the six faces of a cube.
//
// An id holds a 3-bit face, 2 bits per level of Hilbert position and a
// trailing sentinel 1 bit whose position gives the level:
//
//	id = face<<61 | pos<<(2*(30-level)+1) | 1<<(2*(30-level))
package cell

import (
	mbits "math/bits"

	"github.com/pkg/errors"

	"s2tile/internal/bits"
	"s2tile/internal/geo"
)

const (
	faceBits = 3
	posBits  = 2*geo.MaxLevel + 1
	maxSize  = geo.LimitIJ

	// ids at or past wrapOffset belong to no face
	wrapOffset = uint64(geo.NumFaces) << posBits
)

// ID is a validated cell id. The zero value is None, the only invalid ID a
// caller can hold; every exported constructor rejects anything else.
type ID struct {
	id uint64
}

// None is the zero ID. It is not a valid cell.
var None ID

// New validates a raw 64-bit id
func New(v uint64) (ID, error) {
	c := ID{v}
	if !c.IsValid() {
		return None, errors.Wrapf(ErrInvalidCell, "%#016x", v)
	}
	return c, nil
}

// FromFace returns the level 0 cell covering face
func FromFace(face geo.Face) (ID, error) {
	if !face.Valid() {
		return None, errors.Wrapf(ErrInvalidCell, "face %d", face)
	}
	return fromFace(face), nil
}

// Faces returns the six level 0 cells in face order
func Faces() [geo.NumFaces]ID {
	var out [geo.NumFaces]ID
	for f := range out {
		out[f] = fromFace(geo.Face(f))
	}
	return out
}

func fromFace(face geo.Face) ID {
	return ID{uint64(face)<<posBits + lsbForLevel(0)}
}

// FromFaceIJ returns the cell at level containing (i, j) on face, where i and j
// are cell coordinates at that level in [0, 2^level)
func FromFaceIJ(face geo.Face, i, j uint32, level int) (ID, error) {
	if !face.Valid() {
		return None, errors.Wrapf(ErrInvalidCell, "face %d", face)
	}
	if level < 0 || level > geo.MaxLevel {
		return None, errors.Wrapf(ErrLevel, "level %d", level)
	}
	if limit := uint64(1) << uint(level); uint64(i) >= limit || uint64(j) >= limit {
		return None, errors.Wrapf(ErrInvalidCell, "(%d, %d) outside level %d", i, j, level)
	}
	return fromFaceIJLevel(face, i, j, level), nil
}

func fromFaceIJLevel(face geo.Face, i, j uint32, level int) ID {
	shift := uint(geo.MaxLevel - level)
	return fromFaceIJ(face, i<<shift, j<<shift).parent(level)
}

// fromFaceIJ encodes a leaf cell by feeding 4-bit groups of i and j, high
// groups first, through the Hilbert position table.
func fromFaceIJ(face geo.Face, i, j uint32) ID {
	n := uint64(face) << (posBits - 1)
	orientation := int(face) & bits.SwapMask
	for k := 7; k >= 0; k-- {
		p := bits.Pos(bits.Key(bits.Nibble(i, k), bits.Nibble(j, k), orientation))
		n |= uint64(p>>2) << (uint(k) * 2 * bits.NibbleBits)
		orientation = p & bits.OrientationMask
	}
	return ID{n*2 + 1}
}

// FromDistance returns the cell at level whose position along the whole
// curve (faces included) is distance
func FromDistance(distance uint64, level int) (ID, error) {
	if level < 0 || level > geo.MaxLevel {
		return None, errors.Wrapf(ErrLevel, "level %d", level)
	}
	shift := uint(2 * (geo.MaxLevel - level))
	return New(distance<<(shift+1) + 1<<shift)
}

// Distance is the inverse of FromDistance at the cell's own level
func (c ID) Distance() uint64 {
	return c.id >> (2*uint(geo.MaxLevel-c.Level()) + 1)
}

// Uint64 returns the raw id
func (c ID) Uint64() uint64 {
	return c.id
}

// Less orders ids along the Hilbert curve
func (c ID) Less(o ID) bool {
	return c.id < o.id
}

// Face returns the cube face of c
func (c ID) Face() geo.Face {
	return geo.Face(c.id >> posBits)
}

// Pos returns the position of the cell center along the curve on its face
func (c ID) Pos() uint64 {
	return c.id & (^uint64(0) >> faceBits)
}

// LSB returns the lowest set bit, 1<<(2*(30-level))
func (c ID) LSB() uint64 {
	return c.id & -c.id
}

func lsbForLevel(level int) uint64 {
	return 1 << uint(2*(geo.MaxLevel-level))
}

// Level returns the subdivision level of c, or -1 for None
func (c ID) Level() int {
	if c.id == 0 {
		return -1
	}
	return geo.MaxLevel - mbits.TrailingZeros64(c.id)>>1
}

// IsValid reports whether c is a cell on one of the six faces
func (c ID) IsValid() bool {
	return c.Face() < geo.NumFaces && c.LSB()&0x1555555555555555 != 0
}

// IsLeaf reports whether c is at level 30
func (c ID) IsLeaf() bool {
	return c.id&1 != 0
}

// IsFace reports whether c is a level 0 cell
func (c ID) IsFace() bool {
	return c.id&(lsbForLevel(0)-1) == 0 && c.id != 0
}

// FaceIJOrientation decodes c into its face, the leaf (i, j) nearest its
// center and the Hilbert orientation of c itself.
func (c ID) FaceIJOrientation() (face geo.Face, i, j uint32, orientation int) {
	face = c.Face()
	orientation = int(face) & bits.SwapMask
	// the top group holds only 2 bits of each coordinate
	nbits := geo.MaxLevel - 7*bits.NibbleBits
	for k := 7; k >= 0; k-- {
		mask := uint64(1)<<(2*uint(nbits)) - 1
		pos := int(c.id>>(uint(k)*2*bits.NibbleBits+1)&mask) << 2
		ni, nj, o := bits.Split(bits.IJ(pos | orientation))
		i += ni << (uint(k) * bits.NibbleBits)
		j += nj << (uint(k) * bits.NibbleBits)
		orientation = o
		nbits = bits.NibbleBits
	}

	// Below the level, the suffix 10*: the "10" leaves the orientation alone and
	// every "00" pair flips the swap bit.
	if c.LSB()&0x1111111111111110 != 0 {
		orientation ^= bits.SwapMask
	}
	return face, i, j, orientation
}

// FaceIJOrientationAt is FaceIJOrientation with (i, j) reduced to cell
// coordinates at level
func (c ID) FaceIJOrientationAt(level int) (face geo.Face, i, j uint32, orientation int) {
	face, i, j, orientation = c.FaceIJOrientation()
	if level >= 0 && level < geo.MaxLevel {
		shift := uint(geo.MaxLevel - level)
		i >>= shift
		j >>= shift
	}
	return face, i, j, orientation
}

// ZoomIJ returns the face, level and cell coordinates of c at its own level
func (c ID) ZoomIJ() (face geo.Face, zoom int, i, j uint32) {
	zoom = c.Level()
	face, i, j, _ = c.FaceIJOrientationAt(zoom)
	return face, zoom, i, j
}
