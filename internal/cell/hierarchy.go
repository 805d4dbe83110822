package cell

import (
	"github.com/pkg/errors"

	"s2tile/internal/bits"
	"s2tile/internal/geo"
)

// Parent returns the cell one level up, or None for a face cell
func (c ID) Parent() ID {
	if c.Level() <= 0 {
		return None
	}
	n := c.LSB() << 2
	return ID{c.id&-n | n}
}

// ParentAt returns the ancestor of c at level, which must not exceed c's own level
func (c ID) ParentAt(level int) (ID, error) {
	if level < 0 || level > c.Level() {
		return None, errors.Wrapf(ErrLevel, "parent level %d of %v", level, c)
	}
	return c.parent(level), nil
}

func (c ID) parent(level int) ID {
	n := lsbForLevel(level)
	return ID{c.id&-n | n}
}

// Child returns the child at Hilbert position pos (0..3)
func (c ID) Child(pos int) (ID, error) {
	if c.id == 0 {
		return None, errors.Wrap(ErrInvalidCell, "child of None")
	}
	if c.IsLeaf() {
		return None, errors.Wrapf(ErrLeafCell, "%v", c)
	}
	if pos < 0 || pos > 3 {
		return None, errors.Wrapf(ErrChildPosition, "%d", pos)
	}
	return c.child(pos), nil
}

func (c ID) child(pos int) ID {
	n := c.LSB() >> 2
	return ID{c.id - 3*n + 2*uint64(pos)*n}
}

// ChildPosition returns the Hilbert position (0..3) of c's level ancestor within
// its own parent. level must be in 1..c.Level().
func (c ID) ChildPosition(level int) int {
	return int(c.id>>(2*uint(geo.MaxLevel-level)+1)) & 3
}

// Children returns the four children in spatial order bottom-left,
// bottom-right, top-left, top-right.
func (c ID) Children() ([4]ID, error) {
	var out [4]ID
	if c.id == 0 {
		return out, errors.Wrap(ErrInvalidCell, "children of None")
	}
	if c.IsLeaf() {
		return out, errors.Wrapf(ErrLeafCell, "%v", c)
	}
	_, _, _, orientation := c.FaceIJOrientation()
	for k, ij := range spatialOrder {
		out[k] = c.child(bits.IJToPos(orientation, ij))
	}
	return out, nil
}

// quadrants (i<<1|j) in bottom-left, bottom-right, top-left, top-right order
var spatialOrder = [4]int{0b00, 0b10, 0b01, 0b11}

// ChildrenIJ returns the children of the cell at (face, level, i, j) in the same
// order as Children
func ChildrenIJ(face geo.Face, level int, i, j uint32) ([4]ID, error) {
	if _, err := FromFaceIJ(face, i, j, level); err != nil {
		return [4]ID{}, err
	}
	if level >= geo.MaxLevel {
		return [4]ID{}, errors.Wrapf(ErrLeafCell, "level %d", level)
	}
	return childrenIJ(face, level, i, j), nil
}

func childrenIJ(face geo.Face, level int, i, j uint32) [4]ID {
	i, j = i<<1, j<<1
	level++
	return [4]ID{
		fromFaceIJLevel(face, i, j, level),
		fromFaceIJLevel(face, i+1, j, level),
		fromFaceIJLevel(face, i, j+1, level),
		fromFaceIJLevel(face, i+1, j+1, level),
	}
}

// RangeMin returns the first leaf cell contained by c
func (c ID) RangeMin() ID {
	return ID{c.id - (c.LSB() - 1)}
}

// RangeMax returns the last leaf cell contained by c
func (c ID) RangeMax() ID {
	return ID{c.id + (c.LSB() - 1)}
}

// Range returns RangeMin and RangeMax
func (c ID) Range() (ID, ID) {
	return c.RangeMin(), c.RangeMax()
}

// Contains reports whether o lies within c
func (c ID) Contains(o ID) bool {
	return o.id >= c.RangeMin().id && o.id <= c.RangeMax().id
}

// Intersects reports whether the leaf ranges of c and o overlap
func (c ID) Intersects(o ID) bool {
	return o.RangeMin().id <= c.RangeMax().id && o.RangeMax().id >= c.RangeMin().id
}

// Next returns the following cell at the same level. ok is false past the
// last cell of face 5.
func (c ID) Next() (ID, bool) {
	n := c.id + c.LSB()<<1
	if c.id == 0 || n >= wrapOffset {
		return None, false
	}
	return ID{n}, true
}

// Prev returns the preceding cell at the same level. ok is false before the
// first cell of face 0.
func (c ID) Prev() (ID, bool) {
	if c.id == 0 || c.id < c.LSB()<<1 {
		return None, false
	}
	return ID{c.id - c.LSB()<<1}, true
}

// NextWrap is Next, wrapping from the last cell of face 5 to face 0
func (c ID) NextWrap() ID {
	n := c.id + c.LSB()<<1
	if n < wrapOffset {
		return ID{n}
	}
	return ID{n - wrapOffset}
}

// PrevWrap is Prev, wrapping from face 0 to face 5
func (c ID) PrevWrap() ID {
	p := c.id - c.LSB()<<1
	if p < wrapOffset {
		return ID{p}
	}
	return ID{p + wrapOffset}
}

// ChildBegin returns the first descendant of c at level
func (c ID) ChildBegin(level int) (ID, error) {
	if c.id == 0 || level < c.Level() || level > geo.MaxLevel {
		return None, errors.Wrapf(ErrLevel, "child level %d of %v", level, c)
	}
	return ID{c.id - c.LSB() + lsbForLevel(level)}, nil
}

// ChildrenAt returns every descendant of c at level in Hilbert order. level may
// be at most 12 below c.
func (c ID) ChildrenAt(level int) ([]ID, error) {
	first, err := c.ChildBegin(level)
	if err != nil {
		return nil, err
	}
	if level-c.Level() > 12 {
		return nil, errors.Wrapf(ErrLevel, "%d levels below %v", level-c.Level(), c)
	}
	n := 1 << uint(2*(level-c.Level()))
	out := make([]ID, 0, n)
	step := lsbForLevel(level) << 1
	for k, id := 0, first.id; k < n; k, id = k+1, id+step {
		out = append(out, ID{id})
	}
	return out, nil
}
