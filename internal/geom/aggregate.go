package geom

import (
	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

// Index is the "aggregate spatial-index operator" of §4.1: an R-tree
// (rtreego.Rtree) built once over a right-hand side, then queried once per
// left-hand row by Intersects/Nearest.
//
// This is the same shape as the teacher's ChartIndex in pkg/s57/index.go and
// the inline spatialIndex in pkg/s57/s57.go's buildSpatialIndex: wrap each
// right-side row in a Spatial adapter exposing a bounding Rect, insert once,
// then query per left row instead of scanning linearly.
type Index struct {
	rtree *rtreego.Rtree
	rows  []orb.Geometry // right side, by row index; nil entries are nulls
}

// indexedRow adapts one right-hand geometry + its row index to
// rtreego.Spatial.
type indexedRow struct {
	index int
	geom  orb.Geometry
}

func (r indexedRow) Bounds() rtreego.Rect {
	return geometryRect(r.geom)
}

// geometryRect converts an orb.Bound to an rtreego.Rect, expanding
// zero-width/height bounds (point geometries) by a small epsilon since
// rtreego requires strictly positive rectangle dimensions.
func geometryRect(g orb.Geometry) rtreego.Rect {
	b := g.Bound()
	const epsilon = 1e-6

	w := b.Max[0] - b.Min[0]
	h := b.Max[1] - b.Min[1]
	if w < epsilon {
		w = epsilon
	}
	if h < epsilon {
		h = epsilon
	}

	rect, _ := rtreego.NewRect(rtreego.Point{b.Min[0], b.Min[1]}, []float64{w, h})
	return rect
}

// NewIndex builds an R-tree over right by inserting each row in turn. Nil
// entries (null geometries)
// are excluded from the tree but keep their row index, so a later Intersects
// or Nearest call against a null right-side row in isolation still behaves:
// queries simply never return an excluded index.
func NewIndex(right []orb.Geometry) *Index {
	tree := rtreego.NewTree(2, 25, 50)
	idx := &Index{rtree: tree, rows: right}
	for i, g := range right {
		if g == nil {
			continue
		}
		tree.Insert(indexedRow{index: i, geom: g})
	}
	return idx
}

// Intersects returns, for each geometry in left, the row indices of right
// that it intersects (§4.1). A nil left geometry yields an empty list.
func (idx *Index) Intersects(left []orb.Geometry) [][]int {
	out := make([][]int, len(left))
	for i, lg := range left {
		if lg == nil {
			continue
		}
		rect := geometryRect(lg)
		for _, sp := range idx.rtree.SearchIntersect(rect) {
			row := sp.(indexedRow)
			if Intersects(lg, row.geom) {
				out[i] = append(out[i], row.index)
			}
		}
	}
	return out
}

// Intersects reports whether two geometries share a positive-area overlap
// (bounding boxes must overlap first, as a cheap reject).
func Intersects(a, b orb.Geometry) bool {
	ba, bb := a.Bound(), b.Bound()
	if !boundsOverlap(ba, bb) {
		return false
	}
	return Area(Intersection(a, b)) > 0
}

func boundsOverlap(a, b orb.Bound) bool {
	return a.Min[0] <= b.Max[0] && a.Max[0] >= b.Min[0] &&
		a.Min[1] <= b.Max[1] && a.Max[1] >= b.Min[1]
}

// Nearest returns, for each geometry in left, a one-element list containing
// the row index of the nearest non-null right, ties broken to the lowest
// index. An empty right side, or a nil left geometry, yields an empty list.
//
// Scans idx.rows directly rather than rtreego's own NearestNeighbor search:
// NearestNeighbor returns a single closest point with no tie-break rule of
// its own, and since idx.rows is scanned in ascending order here, the first
// row to achieve the minimum distance is naturally the lowest-index one --
// points and footprint-sized polygons in a single county comfortably fit in
// memory (§5), so a direct scan is not a scalability concern.
func (idx *Index) Nearest(left []orb.Geometry) [][]int {
	out := make([][]int, len(left))
	if len(idx.rows) == 0 {
		return out
	}

	for i, lg := range left {
		if lg == nil {
			continue
		}

		bestDist := 0.0
		bestIdx := -1
		for j, rg := range idx.rows {
			if rg == nil {
				continue
			}
			d := Distance(lg, rg)
			if bestIdx == -1 || d < bestDist {
				bestDist = d
				bestIdx = j
			}
		}
		if bestIdx != -1 {
			out[i] = []int{bestIdx}
		}
	}
	return out
}
