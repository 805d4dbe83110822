package geo

import (
	"math"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Projection maps cell-space (s, t) in [0,1] to cube-space (u, v) in [-1,1] and back.
// Cell ids are defined against Quadratic.
type Projection interface {
	STToUV(s float64) float64
	UVToST(u float64) float64
}

// Linear is the projection uv = 2s - 1
type Linear struct{}

func (Linear) STToUV(s float64) float64 { return 2*s - 1 }
func (Linear) UVToST(u float64) float64 { return 0.5 * (u + 1) }

// Quadratic is the default projection, accurate to about 1e-15
type Quadratic struct{}

func (Quadratic) STToUV(s float64) float64 {
	if s >= 0.5 {
		return (1.0 / 3.0) * (4*s*s - 1)
	}
	return (1.0 / 3.0) * (1 - 4*(1-s)*(1-s))
}

func (Quadratic) UVToST(u float64) float64 {
	if u >= 0 {
		return 0.5 * math.Sqrt(1+3*u)
	}
	return 1 - 0.5*math.Sqrt(1-3*u)
}

// Tangent is the atan based projection, accurate to about 1e-12
type Tangent struct{}

func (Tangent) STToUV(s float64) float64 {
	// tan(pi/4) rounds to slightly less than one
	u := math.Tan(math.Pi/2*s - math.Pi/4)
	return u + u/(1<<53)
}

func (Tangent) UVToST(u float64) float64 {
	return (2 / math.Pi) * (math.Atan(u) + math.Pi/4)
}

// STToUV applies the quadratic projection
func STToUV(s float64) float64 {
	return Quadratic{}.STToUV(s)
}

// UVToST applies the inverse quadratic projection
func UVToST(u float64) float64 {
	return Quadratic{}.UVToST(u)
}

// ProjectionByName returns the projection named "linear", "quadratic" or "tangent".
// An empty name selects Quadratic.
func ProjectionByName(name string) (Projection, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "quadratic":
		return Quadratic{}, nil
	case "linear":
		return Linear{}, nil
	case "tangent", "tan":
		return Tangent{}, nil
	}
	return nil, errors.Errorf("unknown st/uv projection %q", name)
}

// FaceSTToXYZWith is FaceSTToXYZ under an explicit projection
func FaceSTToXYZWith(p Projection, face Face, s, t float64) r3.Vector {
	return FaceUVToXYZ(face, p.STToUV(s), p.STToUV(t))
}

// XYZToFaceSTWith is XYZToFaceST under an explicit projection
func XYZToFaceSTWith(p Projection, v r3.Vector) (Face, float64, float64) {
	face, u, w := XYZToFaceUV(v)
	return face, p.UVToST(u), p.UVToST(w)
}
