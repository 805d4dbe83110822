package cell

import (
	"sort"

	"github.com/paulmach/orb/maptile"
	"github.com/pkg/errors"
)

const (
	wmZoomShift = 58
	wmAxisBits  = 29
	wmAxisMask  = 1<<wmAxisBits - 1

	// MaxWMZoom is the deepest zoom a WMID can hold
	MaxWMZoom = 29
)

// WMID is a Web-Mercator quadtree key, zoom<<58 | x<<29 | y. Unlike ID it
// can address tiles past the edge of the world (x >= 2^zoom) so that
// antimeridian neighbors stay representable.
type WMID uint64

// FromZoomXY packs a tile key. x and y keep their low 29 bits.
func FromZoomXY(zoom int, x, y uint32) (WMID, error) {
	if zoom < 0 || zoom > MaxWMZoom {
		return 0, errors.Wrapf(ErrLevel, "web mercator zoom %d", zoom)
	}
	return fromZoomXY(zoom, x, y), nil
}

func fromZoomXY(zoom int, x, y uint32) WMID {
	return WMID(uint64(zoom)<<wmZoomShift | uint64(x&wmAxisMask)<<wmAxisBits | uint64(y&wmAxisMask))
}

// WMIDFromTile converts an orb map tile
func WMIDFromTile(t maptile.Tile) (WMID, error) {
	return FromZoomXY(int(t.Z), t.X, t.Y)
}

// ZoomXY unpacks the key
func (w WMID) ZoomXY() (zoom int, x, y uint32) {
	return int(w >> wmZoomShift), uint32(w>>wmAxisBits) & wmAxisMask, uint32(w) & wmAxisMask
}

// Level returns the zoom of w
func (w WMID) Level() int {
	return int(w >> wmZoomShift)
}

// IsFace reports whether w is the single zoom 0 tile
func (w WMID) IsFace() bool {
	return w.Level() == 0
}

// Tile returns w as an orb map tile
func (w WMID) Tile() maptile.Tile {
	z, x, y := w.ZoomXY()
	return maptile.New(x, y, maptile.Zoom(z))
}

// Children returns the four tiles one zoom down, ordered (2x,2y), (2x+1,2y),
// (2x,2y+1), (2x+1,2y+1).
func (w WMID) Children() ([4]WMID, error) {
	z, x, y := w.ZoomXY()
	if z >= MaxWMZoom {
		return [4]WMID{}, errors.Wrapf(ErrLeafCell, "web mercator zoom %d", z)
	}
	x, y, z = x<<1, y<<1, z+1
	return [4]WMID{
		fromZoomXY(z, x, y),
		fromZoomXY(z, x+1, y),
		fromZoomXY(z, x, y+1),
		fromZoomXY(z, x+1, y+1),
	}, nil
}

// Parent returns the tile one zoom up. ok is false at zoom 0.
func (w WMID) Parent() (WMID, bool) {
	z, x, y := w.ZoomXY()
	if z == 0 {
		return 0, false
	}
	return fromZoomXY(z-1, x>>1, y>>1), true
}

// ParentAt returns the ancestor at zoom, or w itself when zoom is not above it
func (w WMID) ParentAt(zoom int) WMID {
	z, x, y := w.ZoomXY()
	if zoom < 0 || zoom >= z {
		return w
	}
	d := uint(z - zoom)
	return fromZoomXY(zoom, x>>d, y>>d)
}

// Contains reports whether o is w or one of its descendants
func (w WMID) Contains(o WMID) bool {
	pz, px, py := w.ZoomXY()
	cz, cx, cy := o.ZoomXY()
	if pz > cz {
		return false
	}
	d := uint(cz - pz)
	return px == cx>>d && py == cy>>d
}

// IsOutOfBounds reports whether w lies past the edge of the world at its zoom
func (w WMID) IsOutOfBounds() bool {
	z, x, y := w.ZoomXY()
	size := uint32(1) << uint(z)
	return x >= size || y >= size
}

// Wrapped folds an out of bounds tile back into the world
func (w WMID) Wrapped() WMID {
	z, x, y := w.ZoomXY()
	size := uint32(1) << uint(z)
	return fromZoomXY(z, x%size, y%size)
}

// Neighbors returns the edge-adjacent tiles in ascending key order. With
// includeOutOfBounds the left neighbor of column 0 wraps across the
// antimeridian and the right neighbor of the last column is kept past the
// edge; otherwise both are dropped at the world edge.
func (w WMID) Neighbors(includeOutOfBounds bool) []WMID {
	z, x, y := w.ZoomXY()
	size := uint32(1) << uint(z)
	seen := make(map[WMID]struct{}, 4)
	add := func(n WMID) {
		if n != w {
			seen[n] = struct{}{}
		}
	}

	if x > 0 {
		add(fromZoomXY(z, x-1, y))
	} else if includeOutOfBounds {
		add(fromZoomXY(z, size-1, y))
	}
	if x+1 < size || includeOutOfBounds {
		add(fromZoomXY(z, x+1, y))
	}
	if x < size {
		if y > 0 {
			add(fromZoomXY(z, x, y-1))
		}
		if y+1 < size {
			add(fromZoomXY(z, x, y+1))
		}
	}

	out := make([]WMID, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Slice(out, func(a, b int) bool { return out[a] < out[b] })
	return out
}

// ToCell returns the face 0 cell at the same zoom and position, the id Web
// Mercator tiles carry inside a tile.Store.
func (w WMID) ToCell() (ID, error) {
	z, x, y := w.ZoomXY()
	return FromFaceIJ(0, x, y, z)
}

// WMIDFromCell is the inverse of ToCell
func WMIDFromCell(c ID) (WMID, error) {
	face, zoom, i, j := c.ZoomIJ()
	if c.id == 0 || face != 0 || zoom > MaxWMZoom {
		return 0, errors.Wrapf(ErrInvalidCell, "%v is not a web mercator tile", c)
	}
	return fromZoomXY(zoom, i, j), nil
}
