package bits

// Orientation bits carried between Hilbert sub-squares.
const (
	SwapMask        = 0x01
	InvertMask      = 0x02
	OrientationMask = SwapMask | InvertMask
)

const tableSize = 1 << (2*NibbleBits + 2)

var (
	// ijToPos[orientation][i<<1|j] is the Hilbert position of a child quadrant.
	ijToPos = [4][4]int{
		{0, 1, 3, 2},
		{0, 3, 1, 2},
		{2, 3, 1, 0},
		{2, 1, 3, 0},
	}
	// posToIJ[orientation][pos] is the quadrant (i<<1|j) visited at a Hilbert position.
	posToIJ = [4][4]int{
		{0, 1, 3, 2},
		{0, 2, 3, 1},
		{3, 2, 0, 1},
		{3, 1, 0, 2},
	}
	posToOrientation = [4]int{SwapMask, 0, 0, InvertMask | SwapMask}

	lookupPos [tableSize]int
	lookupIJ  [tableSize]int
)

func init() {
	for o := 0; o <= OrientationMask; o++ {
		fillLookup(0, 0, 0, o, 0, o)
	}
}

// fillLookup walks a 16x16 block in Hilbert order and records both directions
// of the (i, j, orientation) <-> (pos, orientation) mapping.
func fillLookup(level int, i, j uint32, origOrientation, pos, orientation int) {
	if level == NibbleBits {
		lookupPos[Key(i, j, origOrientation)] = pos<<2 | orientation
		lookupIJ[pos<<2|origOrientation] = Key(i, j, orientation)
		return
	}
	r := posToIJ[orientation]
	for k := 0; k < 4; k++ {
		fillLookup(level+1,
			i<<1+uint32(r[k]>>1), j<<1+uint32(r[k]&1),
			origOrientation, pos<<2+k, orientation^posToOrientation[k])
	}
}

// Pos maps a Key to 8 Hilbert position bits followed by the exit orientation
func Pos(key int) int {
	return lookupPos[key&(tableSize-1)]
}

// IJ maps 8 Hilbert position bits and an entry orientation to a Key
func IJ(posOrientation int) int {
	return lookupIJ[posOrientation&(tableSize-1)]
}

// IJToPos returns the Hilbert position of quadrant ij (i<<1|j) for the orientation
func IJToPos(orientation, ij int) int {
	return ijToPos[orientation&OrientationMask][ij&3]
}

// PosToIJ returns the quadrant (i<<1|j) at Hilbert position pos for the orientation
func PosToIJ(orientation, pos int) int {
	return posToIJ[orientation&OrientationMask][pos&3]
}

// PosToOrientation returns the orientation change applied when descending into pos
func PosToOrientation(pos int) int {
	return posToOrientation[pos&3]
}
