package cell

import (
	"math"

	"github.com/pkg/errors"

	"s2tile/internal/geo"
)

// EdgeNeighbors returns the four cells sharing an edge with c, in the order
// below, right, above, left. Neighbors across a face edge come from the
// adjacent face.
func (c ID) EdgeNeighbors() [4]ID {
	level := c.Level()
	size := int(SizeIJ(level))
	face, ui, uj, _ := c.FaceIJOrientation()
	i, j := int(ui), int(uj)

	return [4]ID{
		fromFaceIJSame(face, i, j-size, j-size >= 0).parent(level),
		fromFaceIJSame(face, i+size, j, i+size < maxSize).parent(level),
		fromFaceIJSame(face, i, j+size, j+size < maxSize).parent(level),
		fromFaceIJSame(face, i-size, j, i-size >= 0).parent(level),
	}
}

// VertexNeighbors returns the cells at level that share the vertex of c's
// level ancestor closest to c. That is three cells at a cube corner and four
// everywhere else; the ancestor itself comes first. level must be below 30
// and at most c's own level.
func (c ID) VertexNeighbors(level int) ([]ID, error) {
	if level < 0 || level >= geo.MaxLevel || level > c.Level() {
		return nil, errors.Wrapf(ErrLevel, "vertex neighbors at level %d of %v", level, c)
	}
	halfSize := int(SizeIJ(level + 1))
	size := halfSize << 1
	face, ui, uj, _ := c.FaceIJOrientation()
	i, j := int(ui), int(uj)

	var isame, jsame bool
	var ioffset, joffset int
	if i&halfSize != 0 {
		ioffset = size
		isame = i+size < maxSize
	} else {
		ioffset = -size
		isame = i-size >= 0
	}
	if j&halfSize != 0 {
		joffset = size
		jsame = j+size < maxSize
	} else {
		joffset = -size
		jsame = j-size >= 0
	}

	out := []ID{
		c.parent(level),
		fromFaceIJSame(face, i+ioffset, j, isame).parent(level),
		fromFaceIJSame(face, i, j+joffset, jsame).parent(level),
	}
	// at a cube corner only three cells meet
	if isame || jsame {
		out = append(out, fromFaceIJSame(face, i+ioffset, j+joffset, isame && jsame).parent(level))
	}
	return out, nil
}

func fromFaceIJSame(face geo.Face, i, j int, sameFace bool) ID {
	if sameFace {
		return fromFaceIJ(face, uint32(i), uint32(j))
	}
	return fromFaceIJWrap(face, i, j)
}

// fromFaceIJWrap returns the leaf cell at (i, j) where (i, j) may lie just off
// face, by reprojecting through xyz onto the face it actually lands on.
func fromFaceIJWrap(face geo.Face, i, j int) ID {
	// one leaf past the edge at most
	i = clampInt(i, -1, maxSize)
	j = clampInt(j, -1, maxSize)

	// Linear (u, v) barely outside [-1, 1]; a larger overshoot could land the
	// reprojected point in the wrong leaf.
	const scale = 1.0 / maxSize
	limit := math.Nextafter(1, 2)
	u := math.Max(-limit, math.Min(limit, scale*float64(2*(i-maxSize/2)+1)))
	v := math.Max(-limit, math.Min(limit, scale*float64(2*(j-maxSize/2)+1)))

	nface, nu, nv := geo.XYZToFaceUV(geo.FaceUVToXYZ(face, u, v))
	return fromFaceIJ(nface, geo.STToIJ(0.5*(nu+1)), geo.STToIJ(0.5*(nv+1)))
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
