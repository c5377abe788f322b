package geom

import (
	"testing"

	"github.com/paulmach/orb"
)

func TestNearestBreaksTiesToLowestIndex(t *testing.T) {
	idx := NewIndex([]orb.Geometry{
		orb.Point{1, 0},
		orb.Point{0, 1},
	})

	out := idx.Nearest([]orb.Geometry{orb.Point{0, 0}})
	if len(out) != 1 || len(out[0]) != 1 || out[0][0] != 0 {
		t.Fatalf("Nearest = %v, want [[0]] (tie broken to lowest index)", out)
	}
}

func TestNearestPicksActualClosest(t *testing.T) {
	idx := NewIndex([]orb.Geometry{
		orb.Point{10, 0},
		orb.Point{1, 0},
	})

	out := idx.Nearest([]orb.Geometry{orb.Point{0, 0}})
	if len(out) != 1 || len(out[0]) != 1 || out[0][0] != 1 {
		t.Fatalf("Nearest = %v, want [[1]]", out)
	}
}

func TestNearestEmptyIndexYieldsEmptyList(t *testing.T) {
	idx := NewIndex(nil)
	out := idx.Nearest([]orb.Geometry{orb.Point{0, 0}})
	if len(out) != 1 || len(out[0]) != 0 {
		t.Fatalf("Nearest over empty index = %v, want [[]]", out)
	}
}

func TestIntersectsFindsOverlap(t *testing.T) {
	idx := NewIndex([]orb.Geometry{square(0, 0, 10)})
	out := idx.Intersects([]orb.Geometry{square(5, 5, 10)})
	if len(out) != 1 || len(out[0]) != 1 || out[0][0] != 0 {
		t.Fatalf("Intersects = %v, want [[0]]", out)
	}
}
