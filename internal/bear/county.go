package bear

import "github.com/paulmach/orb"

// County is the opaque handle spec.md §3 describes: a FIPS code, its mask
// polygon in the working projection (EPSG:5070), and that polygon's bounds.
type County struct {
	FIPS     string
	Geometry orb.Geometry
	Bounds   orb.Bound
}
