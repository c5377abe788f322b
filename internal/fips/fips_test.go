package fips

import (
	"testing"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"

	"github.com/owp-spatial/bear/internal/bear"
)

func square(x0, y0, size float64) orb.Polygon {
	return orb.Polygon{
		orb.Ring{
			{x0, y0},
			{x0 + size, y0},
			{x0 + size, y0 + size},
			{x0, y0 + size},
			{x0, y0},
		},
	}
}

func newTestRegistry(counties []bear.County) *Registry {
	reg := &Registry{
		byFIPS: make(map[string]int, len(counties)),
		rtree:  rtreego.NewTree(2, 25, 50),
	}
	for _, c := range counties {
		idx := len(reg.counties)
		reg.counties = append(reg.counties, c)
		reg.byFIPS[c.FIPS] = idx
		reg.rtree.Insert(indexedCounty{index: idx, bound: c.Bounds})
	}
	return reg
}

func TestLookupExactFIPS(t *testing.T) {
	poly := square(0, 0, 10)
	reg := newTestRegistry([]bear.County{
		{FIPS: "06037", Geometry: poly, Bounds: poly.Bound()},
	})

	county, ok := reg.Lookup("06037")
	if !ok {
		t.Fatal("expected county 06037 to be found")
	}
	if county.FIPS != "06037" {
		t.Errorf("FIPS = %q, want 06037", county.FIPS)
	}

	if _, ok := reg.Lookup("99999"); ok {
		t.Error("expected unknown FIPS to miss")
	}
}

func TestQueryPointInsideCounty(t *testing.T) {
	poly := square(0, 0, 10)
	reg := newTestRegistry([]bear.County{
		{FIPS: "06037", Geometry: poly, Bounds: poly.Bound()},
	})

	county, ok := reg.Query(orb.Point{5, 5})
	if !ok {
		t.Fatal("expected point inside county to resolve")
	}
	if county.FIPS != "06037" {
		t.Errorf("FIPS = %q, want 06037", county.FIPS)
	}
}

func TestQueryPointOutsideAllCounties(t *testing.T) {
	poly := square(0, 0, 10)
	reg := newTestRegistry([]bear.County{
		{FIPS: "06037", Geometry: poly, Bounds: poly.Bound()},
	})

	if _, ok := reg.Query(orb.Point{1000, 1000}); ok {
		t.Error("expected point far outside any county to miss")
	}
}

func TestQueryTieBreaksByLowestFIPS(t *testing.T) {
	a := square(0, 0, 10)
	b := square(0, 0, 10)
	reg := newTestRegistry([]bear.County{
		{FIPS: "06059", Geometry: b, Bounds: b.Bound()},
		{FIPS: "06037", Geometry: a, Bounds: a.Bound()},
	})

	county, ok := reg.Query(orb.Point{5, 5})
	if !ok {
		t.Fatal("expected overlap resolution to succeed")
	}
	if county.FIPS != "06037" {
		t.Errorf("FIPS = %q, want lowest-code 06037", county.FIPS)
	}
}
