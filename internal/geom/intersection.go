package geom

import "github.com/paulmach/orb"

// Intersection returns the geometric intersection of a and b.
//
// Only the polygon/polygon case (the one the footprint-footprint
// correspondence predicate in §4.2 exercises) does real clipping; any other
// combination returns an empty Polygon, which satisfies the "never null"
// contract -- Area() of an empty polygon is 0, and a zero intersection area
// correctly fails the >0.3 overlap predicate.
//
// Clipping uses Sutherland-Hodgman, which assumes the clip ring is simple
// (non-self-intersecting). Building footprints from conformed sources
// satisfy that in practice; true boolean intersection of arbitrary concave
// self-intersecting polygons is out of scope for this kernel.
func Intersection(a, b orb.Geometry) orb.Geometry {
	pa, aok := asPolygon(a)
	pb, bok := asPolygon(b)
	if !aok || !bok {
		return orb.Polygon{}
	}

	subject := pa[0]
	for _, clipRing := range pb {
		subject = sutherlandHodgman(subject, clipRing)
		if len(subject) == 0 {
			return orb.Polygon{}
		}
	}
	if len(subject) < 3 {
		return orb.Polygon{}
	}
	return orb.Polygon{subject}
}

// asPolygon normalizes Polygon/MultiPolygon to a single representative
// Polygon (the largest member, by area, for MultiPolygon) so the
// clipper always works against one outer ring.
func asPolygon(g orb.Geometry) (orb.Polygon, bool) {
	switch v := g.(type) {
	case orb.Polygon:
		if len(v) == 0 {
			return nil, false
		}
		return v, true
	case orb.MultiPolygon:
		var best orb.Polygon
		for _, p := range v {
			if len(p) > 0 && polygonArea(p) > polygonArea(best) {
				best = p
			}
		}
		if best == nil {
			return nil, false
		}
		return best, true
	default:
		return nil, false
	}
}

// sutherlandHodgman clips subject against the convex hull of clip, one edge
// at a time.
func sutherlandHodgman(subject, clip orb.Ring) orb.Ring {
	if len(subject) < 3 || len(clip) < 3 {
		return nil
	}

	output := subject
	for i := 0; i < len(clip); i++ {
		if len(output) == 0 {
			return nil
		}
		a := clip[i]
		b := clip[(i+1)%len(clip)]

		input := output
		output = nil
		for j := 0; j < len(input); j++ {
			cur := input[j]
			prev := input[(j-1+len(input))%len(input)]

			curIn := isLeft(a, b, cur) >= 0
			prevIn := isLeft(a, b, prev) >= 0

			if curIn {
				if !prevIn {
					output = append(output, lineIntersect(prev, cur, a, b))
				}
				output = append(output, cur)
			} else if prevIn {
				output = append(output, lineIntersect(prev, cur, a, b))
			}
		}
	}
	return output
}

// isLeft returns >0 if p is left of directed line a->b, 0 if on it, <0 if
// right. Used as the "inside" test for the clip polygon's winding.
func isLeft(a, b, p orb.Point) float64 {
	return (b[0]-a[0])*(p[1]-a[1]) - (p[0]-a[0])*(b[1]-a[1])
}

// lineIntersect returns the intersection point of segment p1-p2 with the
// infinite line through a-b.
func lineIntersect(p1, p2, a, b orb.Point) orb.Point {
	x1, y1 := p1[0], p1[1]
	x2, y2 := p2[0], p2[1]
	x3, y3 := a[0], a[1]
	x4, y4 := b[0], b[1]

	denom := (x1-x2)*(y3-y4) - (y1-y2)*(x3-x4)
	if denom == 0 {
		return p2
	}
	t := ((x1-x3)*(y3-y4) - (y1-y3)*(x3-x4)) / denom
	return orb.Point{x1 + t*(x2-x1), y1 + t*(y2-y1)}
}
