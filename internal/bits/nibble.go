package bits

// NibbleBits is the width of one i or j group fed to the Hilbert tables.
const NibbleBits = 4

const nibbleMask = 1<<NibbleBits - 1

// Nibble returns the k-th 4-bit group of x, counting from the least significant group
func Nibble(x uint32, k int) uint32 {
	if k < 0 || k > 7 {
		return 0
	}
	return (x >> (uint(k) * NibbleBits)) & nibbleMask
}

// SetNibble returns x with its k-th 4-bit group replaced by v
// Returns x unchanged for an out of range group
func SetNibble(x uint32, k int, v uint32) uint32 {
	if k < 0 || k > 7 {
		return x
	}
	shift := uint(k) * NibbleBits
	return x&^(nibbleMask<<shift) | (v&nibbleMask)<<shift
}

// Key packs an i nibble, a j nibble and a 2-bit orientation into a 10-bit table index
func Key(i, j uint32, orientation int) int {
	return int(i&nibbleMask)<<(NibbleBits+2) | int(j&nibbleMask)<<2 | orientation&OrientationMask
}

// Split is the inverse of Key
func Split(key int) (i, j uint32, orientation int) {
	i = uint32(key>>(NibbleBits+2)) & nibbleMask
	j = uint32(key>>2) & nibbleMask
	return i, j, key & OrientationMask
}
