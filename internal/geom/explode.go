package geom

import "github.com/paulmach/orb"

// ExplodeMultiPoint expands a MultiPoint into one orb.Point per element,
// changing the number of output rows (§4.1). Any other geometry type is
// returned as a single-element slice unchanged.
func ExplodeMultiPoint(g orb.Geometry) []orb.Geometry {
	mp, ok := g.(orb.MultiPoint)
	if !ok {
		return []orb.Geometry{g}
	}
	out := make([]orb.Geometry, len(mp))
	for i, p := range mp {
		out[i] = p
	}
	return out
}

// ExplodeMultiPolygon expands a MultiPolygon into one orb.Polygon per
// element, changing the number of output rows (§4.1). Any other geometry
// type is returned as a single-element slice unchanged.
func ExplodeMultiPolygon(g orb.Geometry) []orb.Geometry {
	mp, ok := g.(orb.MultiPolygon)
	if !ok {
		return []orb.Geometry{g}
	}
	out := make([]orb.Geometry, len(mp))
	for i, p := range mp {
		out[i] = p
	}
	return out
}
