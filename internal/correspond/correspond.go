package correspond

import (
	"sort"

	"github.com/paulmach/orb"

	"github.com/owp-spatial/bear/internal/bear"
	"github.com/owp-spatial/bear/internal/geom"
)

const (
	overlapThreshold  = 0.3
	distanceThreshold = 10.0
)

// candidate is one surviving (left, right) row pair after the correspondence
// predicate, carrying enough to rebuild the merged Feature.
type candidate struct {
	indexRight int
	metric     float64
}

// Correspond merges left onto right, or appends them unmatched, per §4.2.
//
// left's attributes and geometry take priority in any merged row. Matched
// pairs accumulate into a single output row per left index -- see the
// internal/correspond entry of DESIGN.md for why this implementation
// collapses every surviving right-side match for one left row into one
// merged row (favoring the §3/§8 Conservation invariant over the literal,
// duplicate-row behavior of the Python original's polars `.over()` idiom).
func Correspond(left, right Frame, mode Mode) (Frame, error) {
	lhs := NewFrame(left.Rows)
	rhs := NewFrame(right.Rows)

	leftGeometries := geometriesOf(lhs)
	rightGeometries := geometriesOf(rhs)

	index := geom.NewIndex(rightGeometries)

	var rawPairs [][]int
	if mode == Overlap {
		rawPairs = index.Intersects(leftGeometries)
	} else {
		rawPairs = index.Nearest(leftGeometries)
	}

	// Build every surviving candidate pair, applying the correspondence
	// predicate from §4.2.
	byLeft := make(map[int][]candidate)
	for i, rightIdxs := range rawPairs {
		for _, j := range rightIdxs {
			metric, ok := correspondsMetric(leftGeometries[i], rightGeometries[j], mode)
			if !ok {
				continue
			}
			byLeft[i] = append(byLeft[i], candidate{indexRight: j, metric: metric})
		}
	}

	matchedLeft := make(map[int]bool)
	matchedRight := make(map[int]bool)

	var mergedRows []bear.Feature
	for _, i := range sortedKeys(byLeft) {
		cands := byLeft[i]
		if len(cands) == 0 {
			continue
		}
		sort.Slice(cands, func(a, b int) bool { return cands[a].indexRight < cands[b].indexRight })

		merged := mergeRow(lhs.Rows[i], rhs, cands)
		mergedRows = append(mergedRows, merged)
		matchedLeft[i] = true
		for _, c := range cands {
			matchedRight[c.indexRight] = true
		}
	}

	// Anti-join completion (§4.2): unmatched rows on either side pass
	// through unchanged, in their original order.
	for i, row := range lhs.Rows {
		if !matchedLeft[i] {
			mergedRows = append(mergedRows, row)
		}
	}
	for j, row := range rhs.Rows {
		if !matchedRight[j] {
			mergedRows = append(mergedRows, row)
		}
	}

	return Frame{Rows: mergedRows}, nil
}

func geometriesOf(f Frame) []orb.Geometry {
	out := make([]orb.Geometry, len(f.Rows))
	for i, row := range f.Rows {
		out[i] = row.Geometry
	}
	return out
}

func sortedKeys(m map[int][]candidate) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// correspondsMetric computes the §4.2 predicate metric and whether the pair
// corresponds. A nil geometry on either side never corresponds.
func correspondsMetric(left, right orb.Geometry, mode Mode) (float64, bool) {
	if left == nil || right == nil {
		return 0, false
	}

	switch mode {
	case Overlap:
		areaIntersection := geom.Area(geom.Intersection(left, right))
		areaLeft, areaRight := geom.Area(left), geom.Area(right)
		areaRelative := areaLeft
		if areaRight < areaRelative {
			areaRelative = areaRight
		}
		if areaRelative == 0 {
			return 0, false
		}
		metric := areaIntersection / areaRelative
		return metric, metric > overlapThreshold
	default:
		metric := geom.Distance(left, right)
		return metric, metric < distanceThreshold
	}
}

// mergeRow builds the merged output row for left row i, folding in every
// candidate right-side match: left priority for scalar attributes and
// geometry, foreign accumulating every matched right-side key in
// ascending index_right order (§5 ordering guarantee).
func mergeRow(left bear.Feature, rhs Frame, cands []candidate) bear.Feature {
	out := left.Clone()

	for _, c := range cands {
		right := rhs.Rows[c.indexRight]

		if out.Classification == nil {
			out.Classification = right.Classification
		}
		if out.Address == nil {
			out.Address = right.Address
		}
		if out.Height == nil {
			out.Height = right.Height
		}
		if out.Levels == nil {
			out.Levels = right.Levels
		}

		out.Foreign = append(out.Foreign, bear.ForeignKey{Provider: right.Provider, Key: right.ID})
	}

	return out
}
