package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"s2tile/internal/cell"
	"s2tile/internal/geo"
)

func newCellCmd(a *app) *cobra.Command {
	var lon, lat float64
	var level int

	cmd := &cobra.Command{
		Use:   "cell [token|name]",
		Short: "Describe the cell holding a lon-lat point, or a given cell",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id cell.ID
			if len(args) == 1 {
				var err error
				if id, err = parseCell(args[0]); err != nil {
					return err
				}
			} else {
				ll := geo.LonLat{Lon: lon, Lat: lat}
				leaf := cell.FromLonLat(ll)
				var err error
				if id, err = leaf.ParentAt(level); err != nil {
					return errors.Wrapf(err, "level %d", level)
				}
				a.logger.Debug("located point", zap.Stringer("point", ll), zap.Stringer("leaf", leaf))
			}
			describe(cmd.OutOrStdout(), id)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.Float64Var(&lon, "lon", 0, "longitude in degrees")
	flags.Float64Var(&lat, "lat", 0, "latitude in degrees")
	flags.IntVar(&level, "level", geo.MaxLevel, "cell level")
	return cmd
}

func newNeighborsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "neighbors <token|name>",
		Short: "Print the four edge neighbors of a cell",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseCell(args[0])
			if err != nil {
				return err
			}
			a.logger.Debug("neighbors", zap.Stringer("cell", id))
			w := cmd.OutOrStdout()
			for _, n := range id.EdgeNeighbors() {
				fmt.Fprintf(w, "%s\t%s\n", n.Token(), n)
			}
			return nil
		},
	}
}

// parseCell accepts a display name such as "2/0312" or a hex token
func parseCell(s string) (cell.ID, error) {
	if strings.Contains(s, "/") {
		return cell.FromString(s)
	}
	return cell.FromToken(s)
}

func describe(w io.Writer, id cell.ID) {
	face, i, j, orientation := id.FaceIJOrientation()
	fmt.Fprintf(w, "id:          %d\n", id.Uint64())
	fmt.Fprintf(w, "token:       %s\n", id.Token())
	fmt.Fprintf(w, "name:        %s\n", id)
	fmt.Fprintf(w, "level:       %d\n", id.Level())
	fmt.Fprintf(w, "face:        %d\n", face)
	fmt.Fprintf(w, "i, j:        %d, %d\n", i, j)
	fmt.Fprintf(w, "orientation: %d\n", orientation)
	fmt.Fprintf(w, "center:      %s\n", id.LonLat())
}
