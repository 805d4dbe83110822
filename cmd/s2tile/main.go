// Command s2tile inspects cell ids and cuts GeoJSON into S2 or Web-Mercator
// tiles.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
