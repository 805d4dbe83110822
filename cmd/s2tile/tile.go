package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"s2tile/internal/cell"
	"s2tile/internal/convert"
	"s2tile/internal/tile"
	"s2tile/internal/vector"
)

// tileFlags maps flag names onto config keys
var tileFlags = map[string]string{
	"projection":     "projection",
	"min-zoom":       "min_zoom",
	"max-zoom":       "max_zoom",
	"index-max-zoom": "index_max_zoom",
	"tolerance":      "tolerance",
	"buffer":         "buffer",
	"extent":         "extent",
	"layer":          "layer",
}

func newTileCmd(a *app) *cobra.Command {
	var input, name, zxy string
	var asGeoJSON bool

	cmd := &cobra.Command{
		Use:   "tile --input file.geojson (--id <token|name> | --zxy z/x/y)",
		Short: "Cut a GeoJSON feature collection into tiles and print one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (name == "") == (zxy == "") {
				return errors.New("exactly one of --id and --zxy is required")
			}
			c, err := a.config()
			if err != nil {
				return err
			}
			opts := c.TileOptions()

			id, err := tileID(name, zxy)
			if err != nil {
				return err
			}
			features, err := readFeatures(cmd.InOrStdin(), input)
			if err != nil {
				return err
			}

			store, err := tile.NewStore(features, opts, a.logger)
			if err != nil {
				return err
			}
			t, ok := store.Tile(id)
			if !ok {
				a.logger.Info("empty tile", zap.Stringer("tile", id), zap.Int("built", store.Len()))
				return errors.Errorf("no features in tile %s", id)
			}

			if asGeoJSON {
				return writeGeoJSON(cmd.OutOrStdout(), t)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "tile %s (%s) zoom %d\n", id, id.Token(), id.Level())
			for _, layer := range t.LayerNames() {
				fmt.Fprintf(w, "  %s: %d features\n", layer, len(t.Layers[layer].Features))
			}
			return nil
		},
	}

	d := tile.DefaultOptions()
	flags := cmd.Flags()
	flags.StringVarP(&input, "input", "i", "", "GeoJSON feature collection, - for stdin")
	flags.StringVar(&name, "id", "", "cell token or name, e.g. 2/0312")
	flags.StringVar(&zxy, "zxy", "", "Web-Mercator tile as z/x/y")
	flags.BoolVar(&asGeoJSON, "geojson", false, "print the tile features as GeoJSON in tile coordinates")
	flags.String("projection", string(d.Projection), "S2 or WM")
	flags.Int("min-zoom", d.MinZoom, "shallowest zoom served")
	flags.Int("max-zoom", d.MaxZoom, "deepest zoom served")
	flags.Int("index-max-zoom", d.IndexMaxZoom, "zoom the index is built to up front")
	flags.Float64("tolerance", d.Tolerance, "simplification tolerance in tile pixels")
	flags.Float64("buffer", d.Buffer, "fraction of a tile kept past each edge")
	flags.Int("extent", d.Extent, "tile extent")
	flags.String("layer", "", "layer for features without one")
	_ = cmd.MarkFlagRequired("input")

	for flag, key := range tileFlags {
		if err := a.conf.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}
	return cmd
}

func tileID(name, zxy string) (cell.ID, error) {
	if name != "" {
		return parseCell(name)
	}
	var z int
	var x, y uint32
	if _, err := fmt.Sscanf(zxy, "%d/%d/%d", &z, &x, &y); err != nil {
		return cell.None, errors.Wrapf(err, "parse tile %q", zxy)
	}
	w, err := cell.FromZoomXY(z, x, y)
	if err != nil {
		return cell.None, err
	}
	return w.ToCell()
}

func readFeatures(stdin io.Reader, path string) ([]vector.Feature, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return convert.ParseGeoJSON(data)
}

func writeGeoJSON(w io.Writer, t *tile.Tile) error {
	var features []vector.Feature
	for _, name := range t.LayerNames() {
		for _, f := range t.Layers[name].Features {
			f.Metadata = vector.Values{vector.LayerKey: name}
			features = append(features, f)
		}
	}
	fc, err := convert.ToGeoJSON(features)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(fc), "encode tile")
}
