package geom

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Distance returns the planar distance between a and b; 0 iff the two
// geometries intersect (§4.1).
//
// The conflation pipeline only ever calls Distance on (point, point) pairs
// (address-to-address correspondence, §4.4) and (point, polygon) pairs
// (address-to-footprint correspondence, §4.5); both are handled exactly.
// Any other combination falls back to centroid-to-centroid distance.
//
// Point-to-point distance delegates to orb/planar.Distance. The
// point-to-polygon case stays hand-built: orb/planar has no geometry-pair
// distance function, and what it does offer for a point against a polygon's
// rings measures distance to the boundary only -- a point sitting inside the
// polygon would come back with a positive distance instead of the zero this
// package's callers rely on (merge.go's §4.5 geometry-selection branch keys
// directly off metric == 0 to mean "the address point is inside its matched
// footprint").
func Distance(a, b orb.Geometry) float64 {
	pa, aIsPoint := a.(orb.Point)
	pb, bIsPoint := b.(orb.Point)

	switch {
	case aIsPoint && bIsPoint:
		return planar.Distance(pa, pb)
	case aIsPoint && !bIsPoint:
		return pointToPolygonDistance(pa, b)
	case !aIsPoint && bIsPoint:
		return pointToPolygonDistance(pb, a)
	default:
		return planar.Distance(Centroid(a), Centroid(b))
	}
}

func pointDistance(a, b orb.Point) float64 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	return math.Sqrt(dx*dx + dy*dy)
}

// pointToPolygonDistance returns 0 if p lies inside (or on the boundary of)
// poly, otherwise the shortest distance from p to any ring edge.
func pointToPolygonDistance(p orb.Point, g orb.Geometry) float64 {
	poly, ok := asPolygon(g)
	if !ok {
		return pointDistance(p, Centroid(g))
	}

	if pointInRing(p, poly[0]) {
		// Inside the outer ring but possibly inside a hole, which counts
		// as outside the polygon.
		inHole := false
		for _, hole := range poly[1:] {
			if pointInRing(p, hole) {
				inHole = true
				break
			}
		}
		if !inHole {
			return 0
		}
	}

	best := math.Inf(1)
	for _, ring := range poly {
		d := distanceToRing(p, ring)
		if d < best {
			best = d
		}
	}
	if math.IsInf(best, 1) {
		return 0
	}
	return best
}

// pointInRing is a standard ray-casting point-in-polygon test.
func pointInRing(p orb.Point, ring orb.Ring) bool {
	inside := false
	n := len(ring)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := ring[i][0], ring[i][1]
		xj, yj := ring[j][0], ring[j][1]

		intersects := (yi > p[1]) != (yj > p[1])
		if intersects {
			xCross := (xj-xi)*(p[1]-yi)/(yj-yi) + xi
			if p[0] < xCross {
				inside = !inside
			}
		}
	}
	return inside
}

func distanceToRing(p orb.Point, ring orb.Ring) float64 {
	best := math.Inf(1)
	n := len(ring)
	for i := 0; i < n; i++ {
		a := ring[i]
		b := ring[(i+1)%n]
		d := distanceToSegment(p, a, b)
		if d < best {
			best = d
		}
	}
	return best
}

func distanceToSegment(p, a, b orb.Point) float64 {
	dx := b[0] - a[0]
	dy := b[1] - a[1]
	if dx == 0 && dy == 0 {
		return pointDistance(p, a)
	}

	t := ((p[0]-a[0])*dx + (p[1]-a[1])*dy) / (dx*dx + dy*dy)
	t = math.Max(0, math.Min(1, t))

	proj := orb.Point{a[0] + t*dx, a[1] + t*dy}
	return pointDistance(p, proj)
}
