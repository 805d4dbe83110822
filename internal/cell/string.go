package cell

import (
	"fmt"
	"strings"

	"github.com/golang/geo/s2"
	"github.com/pkg/errors"

	"s2tile/internal/geo"
)

// String returns the display name "<face>/<d1>...<dn>", one base-4 child
// position per level.
func (c ID) String() string {
	if !c.IsValid() {
		return fmt.Sprintf("Invalid: %016x", c.id)
	}
	var b strings.Builder
	b.Grow(2 + geo.MaxLevel)
	b.WriteByte('0' + byte(c.Face()))
	b.WriteByte('/')
	for level := 1; level <= c.Level(); level++ {
		b.WriteByte('0' + byte(c.ChildPosition(level)))
	}
	return b.String()
}

// FromString parses a display name produced by String
func FromString(s string) (ID, error) {
	if len(s) < 2 || len(s) > 2+geo.MaxLevel || s[1] != '/' {
		return None, errors.Wrapf(ErrInvalidCell, "malformed %q", s)
	}
	face := s[0] - '0'
	if face >= geo.NumFaces {
		return None, errors.Wrapf(ErrInvalidCell, "face in %q", s)
	}
	c := fromFace(geo.Face(face))
	for _, d := range s[2:] {
		pos := d - '0'
		if pos < 0 || pos > 3 {
			return None, errors.Wrapf(ErrInvalidCell, "child position %q in %q", d, s)
		}
		c = c.child(int(pos))
	}
	return c, nil
}

// Token returns the compact hex token of c, trailing zeros removed
func (c ID) Token() string {
	return s2.CellID(c.id).ToToken()
}

// FromToken parses a token produced by Token
func FromToken(s string) (ID, error) {
	v := uint64(s2.CellIDFromToken(s))
	if v == 0 {
		return None, errors.Wrapf(ErrInvalidCell, "token %q", s)
	}
	return New(v)
}

// ToS2 returns c as a golang/geo cell id
func (c ID) ToS2() s2.CellID {
	return s2.CellID(c.id)
}

// FromS2 validates a golang/geo cell id
func FromS2(id s2.CellID) (ID, error) {
	return New(uint64(id))
}
