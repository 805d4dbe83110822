package tile

import (
	"golang.org/x/sync/errgroup"

	"s2tile/internal/cell"
	"s2tile/internal/clip"
	"s2tile/internal/geo"
	"s2tile/internal/vector"
)

// Children are the four quadrants of a split tile, named by their (i, j)
// position
type Children struct {
	BottomLeft  *Tile
	BottomRight *Tile
	TopLeft     *Tile
	TopRight    *Tile
}

// All returns the children in cell.Children order
func (c Children) All() [4]*Tile {
	return [4]*Tile{c.BottomLeft, c.BottomRight, c.TopLeft, c.TopRight}
}

// Split clips the features of t into its four children, first along x and
// then along y. buffer is the fraction of t's width that lines and polygons
// may extend past each child edge. Layers are clipped concurrently and t
// is not modified.
func Split(t *Tile, buffer float64) (Children, error) {
	face, zoom, i, j := t.ID.ZoomIJ()
	ids, err := cell.ChildrenIJ(face, zoom, i, j)
	if err != nil {
		return Children{}, err
	}

	var (
		scale   = float64(int64(1) << zoom)
		fi, fj  = float64(i), float64(j)
		names   = t.LayerNames()
		results = make([][4][]vector.Feature, len(names))
		g       errgroup.Group
	)
	for n, name := range names {
		features := t.Layers[name].Features
		g.Go(func() error {
			left := clip.Features(features, scale, fi, fi+0.5, geo.X, buffer)
			right := clip.Features(features, scale, fi+0.5, fi+1, geo.X, buffer)
			results[n] = [4][]vector.Feature{
				clip.Features(left, scale, fj, fj+0.5, geo.Y, buffer),
				clip.Features(right, scale, fj, fj+0.5, geo.Y, buffer),
				clip.Features(left, scale, fj+0.5, fj+1, geo.Y, buffer),
				clip.Features(right, scale, fj+0.5, fj+1, geo.Y, buffer),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Children{}, err
	}

	var children [4]*Tile
	for k, id := range ids {
		children[k] = New(id)
	}
	for n, name := range names {
		for k, features := range results[n] {
			if len(features) == 0 {
				continue
			}
			l := children[k].Layer(name)
			l.Features = append(l.Features, features...)
		}
	}
	return Children{
		BottomLeft:  children[0],
		BottomRight: children[1],
		TopLeft:     children[2],
		TopRight:    children[3],
	}, nil
}
