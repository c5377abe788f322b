// Package geom is the Geometry Kernel (spec §4.1): a thin capability layer
// over a geometry backend exposing the elementwise and aggregate operators
// the correspondence and conflation stages need.
//
// Geometry values are represented with github.com/paulmach/orb, the same
// way the teacher represents coordinates as [lon, lat] pairs in
// pkg/s57/s57.go's Geometry type, except here every value also knows its own
// ring structure (orb.Polygon/orb.MultiPolygon) instead of a flat slice,
// since area/intersection/centroid all need that structure. Area and
// Centroid delegate to orb's own planar subpackage rather than
// reimplementing the shoelace/area-weighted-centroid formulas; Intersection
// and Distance stay hand-built (see their own doc comments for why orb/
// planar can't serve them), the Go equivalent of the Python original's
// bear._plugins native extension sitting on top of Shapely/GEOS for the
// predicates no off-the-shelf function covers.
package geom

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Area returns the planar area of g in working-projection units² (m² under
// EPSG:5070). Points, MultiPoints, and LineStrings have zero area.
func Area(g orb.Geometry) float64 {
	if g == nil {
		return 0
	}
	switch g.(type) {
	case orb.Polygon, orb.MultiPolygon:
		return planar.Area(g)
	default:
		return 0
	}
}

// polygonArea is Area restricted to a single polygon, for callers (e.g.
// asPolygon's largest-member selection) that already have one in hand.
func polygonArea(p orb.Polygon) float64 {
	return planar.Area(p)
}

// Centroid returns the representative point of g.
//
// For polygons and multi-polygons this is orb/planar's area-weighted
// centroid; for points it is the point itself; for multi-points it is the
// mean of the member points; for anything else (lines, empty geometry) it
// falls back to the bound's center, matching the "never null" contract of
// §4.1.
func Centroid(g orb.Geometry) orb.Point {
	switch v := g.(type) {
	case orb.Point:
		return v
	case orb.MultiPoint:
		if len(v) == 0 {
			return orb.Point{}
		}
		var x, y float64
		for _, p := range v {
			x += p[0]
			y += p[1]
		}
		n := float64(len(v))
		return orb.Point{x / n, y / n}
	case orb.Polygon, orb.MultiPolygon:
		if c, area := planar.CentroidArea(v); area != 0 {
			return c
		}
	}
	if g == nil {
		return orb.Point{}
	}
	b := g.Bound()
	return orb.Point{(b.Min[0] + b.Max[0]) / 2, (b.Min[1] + b.Max[1]) / 2}
}

// CentroidX and CentroidY project Centroid onto a single axis, for the
// entities output's x/y columns (§4.6).
func CentroidX(g orb.Geometry) float64 { return Centroid(g)[0] }
func CentroidY(g orb.Geometry) float64 { return Centroid(g)[1] }
