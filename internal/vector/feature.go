package vector

import "s2tile/internal/geo"

// LayerKey is the metadata key that assigns a feature to a tile layer
const LayerKey = "layer"

// Feature is a geometry with its properties. Face is 0 for Web-Mercator
// features and the cube face for S2 ones.
type Feature struct {
	ID         any
	Face       geo.Face
	Properties Values
	Geometry   Geometry
	Metadata   Values
}

// Layer returns the layer named in the feature's metadata
func (f Feature) Layer() (string, bool) {
	name, ok := f.Metadata[LayerKey].(string)
	return name, ok && name != ""
}

// WithGeometry returns a copy of f holding g
func (f Feature) WithGeometry(g Geometry) Feature {
	f.Geometry = g
	return f
}
