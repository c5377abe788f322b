// Package fips is the county collaborator: it resolves a FIPS code to its
// county mask polygon, and a point/footprint centroid to the county
// containing it. The conform command uses Lookup to turn its FIPS arguments
// into counties; the provider normalizers do not call this package.
//
// Grounded on two sources: the Python original's core/fips.py, which loads a
// bundled fips.geojson.gz once into an STRtree keyed by county, and the
// teacher's pkg/s57/index.go ChartIndex, which is the same "bulk-load once,
// query many times via rtreego" shape applied to chart bounds instead of
// counties.
package fips

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/owp-spatial/bear/internal/bear"
	"github.com/owp-spatial/bear/internal/geom"
)

// Registry is a loaded, queryable set of US counties.
type Registry struct {
	counties []bear.County
	byFIPS   map[string]int
	rtree    *rtreego.Rtree
}

// indexedCounty adapts a registry row to rtreego.Spatial.
type indexedCounty struct {
	index int
	bound orb.Bound
}

func (c indexedCounty) Bounds() rtreego.Rect {
	w := c.bound.Max[0] - c.bound.Min[0]
	h := c.bound.Max[1] - c.bound.Min[1]
	const epsilon = 1e-6
	if w < epsilon {
		w = epsilon
	}
	if h < epsilon {
		h = epsilon
	}
	rect, _ := rtreego.NewRect(rtreego.Point{c.bound.Min[0], c.bound.Min[1]}, []float64{w, h})
	return rect
}

// Load reads a gzip-compressed GeoJSON FeatureCollection of county polygons,
// already reprojected to EPSG:5070, and builds a Registry.
//
// Each feature is expected to carry a "fips" string property, the 5-digit
// state+county FIPS code, matching the bundled fips.geojson.gz the Python
// original ships under bear/core/static.
func Load(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fips: open %s: %w", path, err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("fips: gunzip %s: %w", path, err)
	}
	defer gz.Close()

	raw, err := io.ReadAll(gz)
	if err != nil {
		return nil, fmt.Errorf("fips: read %s: %w", path, err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return nil, fmt.Errorf("fips: parse %s: %w", path, err)
	}

	reg := &Registry{
		byFIPS: make(map[string]int, len(fc.Features)),
		rtree:  rtreego.NewTree(2, 25, 50),
	}

	for _, feat := range fc.Features {
		code, ok := feat.Properties["fips"].(string)
		if !ok || len(code) != 5 {
			continue
		}
		county := bear.County{
			FIPS:     code,
			Geometry: feat.Geometry,
			Bounds:   feat.Geometry.Bound(),
		}
		idx := len(reg.counties)
		reg.counties = append(reg.counties, county)
		reg.byFIPS[code] = idx
		reg.rtree.Insert(indexedCounty{index: idx, bound: county.Bounds})
	}

	return reg, nil
}

// Lookup returns the county for an exact FIPS code.
func (r *Registry) Lookup(fipsCode string) (bear.County, bool) {
	idx, ok := r.byFIPS[fipsCode]
	if !ok {
		return bear.County{}, false
	}
	return r.counties[idx], true
}

// Query returns the county containing point, or false if point falls outside
// every county mask (offshore, out of AOI).
//
// Candidates are narrowed with the R-tree bound query, then resolved exactly
// against each candidate's polygon; when a point lands in more than one
// candidate's bound (shared county-line bounding boxes), the lowest FIPS
// code wins, for determinism.
func (r *Registry) Query(point orb.Point) (bear.County, bool) {
	rect, _ := rtreego.NewRect(rtreego.Point{point[0], point[1]}, []float64{1e-6, 1e-6})

	var matches []int
	for _, sp := range r.rtree.SearchIntersect(rect) {
		ic := sp.(indexedCounty)
		county := r.counties[ic.index]
		if geom.Distance(point, county.Geometry) == 0 {
			matches = append(matches, ic.index)
		}
	}
	if len(matches) == 0 {
		return bear.County{}, false
	}

	sort.Slice(matches, func(a, b int) bool {
		return r.counties[matches[a]].FIPS < r.counties[matches[b]].FIPS
	})
	return r.counties[matches[0]], true
}

// All returns every county in the registry, ordered by FIPS code.
func (r *Registry) All() []bear.County {
	out := make([]bear.County, len(r.counties))
	copy(out, r.counties)
	sort.Slice(out, func(i, j int) bool { return out[i].FIPS < out[j].FIPS })
	return out
}

// Count returns the number of counties in the registry.
func (r *Registry) Count() int { return len(r.counties) }
