package geom

import (
	"github.com/google/open-location-code/go/olc"
	"github.com/paulmach/orb"
)

// Pluscode returns the full-precision Open Location Code of g's
// representative point (§4.1): olc.CodePrecisionExtra (11 digits, ~2x3m),
// the highest precision olc exposes, rather than the 10-digit
// CodePrecisionNormal (~14x14m) default. Open Location Code is defined over
// WGS-84 latitude/longitude, so the working-projection (EPSG:5070) centroid
// is reprojected to EPSG:4326 first; spec.md leaves this reprojection
// implicit in "the geometry library" the kernel wraps.
func Pluscode(g orb.Geometry) string {
	c := Centroid(g)
	lon, lat := AlbersConusToLonLat(c[0], c[1])
	return olc.Encode(lat, lon, olc.CodePrecisionExtra)
}
