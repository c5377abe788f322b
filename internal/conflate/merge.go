package conflate

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"

	"github.com/owp-spatial/bear/internal/addrnorm"
	"github.com/owp-spatial/bear/internal/bear"
	"github.com/owp-spatial/bear/internal/geom"
)

// addressSuffixRewrites are the six regex rewrites merge_footprints_and_
// addresses applies before handing the address string to the normalizer,
// kept here (rather than folded into internal/addrnorm.Normalize) since
// they are specific to this merge step's input shape.
var addressSuffixRewrites = []struct {
	suffix, replacement string
}{
	{"dr", "drive"},
	{"st", "street"},
	{"ct", "court"},
	{"ln", "lane"},
	{"ave", "avenue"},
	{"rd", "road"},
}

// MergeFootprintsAndAddresses implements §4.5: nearest-address-to-footprint
// correspondence, geometry selection, foreign accumulation, anti-join
// completion, address normalization, centroid collapse, de-duplication, and
// the final Plus-Code id assignment.
//
// The returned Features are final conflated entities: ID is a Plus Code,
// Geometry is always a point (the centroid), and Foreign lists every
// source record folded into that entity, including the entity's own
// surviving (provider, id) as its last element (step 8 of §4.5).
func MergeFootprintsAndAddresses(footprints, addresses []bear.Feature) ([]bear.Feature, error) {
	index := geom.NewIndex(geometriesOfFeatures(footprints))

	type pair struct {
		addressIdx   int
		footprintIdx int
		metric       float64
	}

	addrGeoms := geometriesOfFeatures(addresses)
	nearest := index.Nearest(addrGeoms)

	var pairs []pair
	for i, candidates := range nearest {
		for _, j := range candidates {
			d := geom.Distance(addresses[i].Geometry, footprints[j].Geometry)
			if d < 10 {
				pairs = append(pairs, pair{addressIdx: i, footprintIdx: j, metric: d})
			}
		}
	}

	// Tie policy (§4.5/§8): keep, per footprint, only the address(es) whose
	// metric equals the minimum distance to that footprint.
	minByFootprint := make(map[int]float64)
	for _, p := range pairs {
		if cur, ok := minByFootprint[p.footprintIdx]; !ok || p.metric < cur {
			minByFootprint[p.footprintIdx] = p.metric
		}
	}

	matchedFootprints := make(map[int]bool)
	matchedAddresses := make(map[int]bool)

	var merged []bear.Feature
	for _, p := range pairs {
		if p.metric != minByFootprint[p.footprintIdx] {
			continue
		}
		addr := addresses[p.addressIdx]
		fp := footprints[p.footprintIdx]

		out := bear.Feature{
			ID:             addr.ID,
			Provider:       addr.Provider,
			Classification: coalescePtr(addr.Classification, fp.Classification),
			Address:        coalescePtr(addr.Address, fp.Address),
			Height:         coalescePtrFloat(addr.Height, fp.Height),
			Levels:         coalescePtrInt32(addr.Levels, fp.Levels),
		}
		if p.metric == 0 {
			out.Geometry = addr.Geometry
		} else {
			out.Geometry = fp.Geometry
		}

		out.Foreign = append(out.Foreign, addr.Foreign...)
		out.Foreign = append(out.Foreign, fp.Foreign...)
		out.Foreign = append(out.Foreign, bear.ForeignKey{Provider: fp.Provider, Key: fp.ID})

		merged = append(merged, out)
		matchedFootprints[p.footprintIdx] = true
		matchedAddresses[p.addressIdx] = true
	}

	for i, fp := range footprints {
		if !matchedFootprints[i] {
			merged = append(merged, fp.Clone())
		}
	}
	for i, addr := range addresses {
		if !matchedAddresses[i] {
			merged = append(merged, addr.Clone())
		}
	}

	return finalizeEntities(merged), nil
}

func geometriesOfFeatures(features []bear.Feature) []orb.Geometry {
	out := make([]orb.Geometry, len(features))
	for i, f := range features {
		out[i] = f.Geometry
	}
	return out
}

func coalescePtr(a, b *string) *string {
	if a != nil {
		return a
	}
	return b
}

func coalescePtrFloat(a, b *float64) *float64 {
	if a != nil {
		return a
	}
	return b
}

func coalescePtrInt32(a, b *int32) *int32 {
	if a != nil {
		return a
	}
	return b
}

// finalizeEntities applies §4.5 steps 5-9 uniformly over every merged or
// pass-through row: address normalization, centroid collapse,
// de-duplication by normalized address (nulls are singleton partitions,
// §3/§8), then by (id, provider), foreign closure, and Plus Code ids.
func finalizeEntities(rows []bear.Feature) []bear.Feature {
	normalized := make([]bear.Feature, len(rows))
	for i, r := range rows {
		out := r.Clone()
		if out.Address != nil {
			n := normalizeMergeAddress(*out.Address)
			if n == "" {
				out.Address = nil
			} else {
				out.Address = &n
			}
		}
		out.Geometry = geom.Centroid(out.Geometry)
		normalized[i] = out
	}

	type group struct {
		key     string
		indices []int
	}
	groups := make(map[string]*group)
	var order []string
	for i, r := range normalized {
		key := addressGroupKey(r, i)
		g, ok := groups[key]
		if !ok {
			g = &group{key: key}
			groups[key] = g
			order = append(order, key)
		}
		g.indices = append(g.indices, i)
	}

	var deduped []bear.Feature
	for _, key := range order {
		g := groups[key]
		best := g.indices[0]
		for _, idx := range g.indices[1:] {
			if normalized[idx].Provider.Rank() < normalized[best].Provider.Rank() {
				best = idx
			}
		}
		deduped = append(deduped, normalized[best])
	}

	seen := make(map[string]bool)
	var unique []bear.Feature
	for _, r := range deduped {
		key := string(r.Provider) + "\x00" + r.ID
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, r)
	}

	for i, r := range unique {
		r.Foreign = append(append([]bear.ForeignKey{}, r.Foreign...), bear.ForeignKey{Provider: r.Provider, Key: r.ID})
		r.ID = geom.Pluscode(r.Geometry)
		unique[i] = r
	}

	return unique
}

// addressGroupKey returns the de-duplication partition key for a row: its
// normalized address when non-null, or a key unique to that row's own index
// when null, so null-address rows never collapse into each other.
func addressGroupKey(r bear.Feature, index int) string {
	if r.Address != nil {
		return "a:" + *r.Address
	}
	return fmt.Sprintf("n:%d", index)
}

func normalizeMergeAddress(raw string) string {
	rewritten := raw
	for _, sr := range addressSuffixRewrites {
		rewritten = rewriteTrailingToken(rewritten, sr.suffix, sr.replacement)
	}
	return addrnorm.Normalize(rewritten)
}

// rewriteTrailingToken replaces a whitespace-bounded trailing abbreviation
// with its expansion, the counterpart of `str.replace_all("\\s+dr$", " drive")`
// except that the abbreviation is matched case-insensitively and trailing
// spaces/tabs are trimmed first.
func rewriteTrailingToken(s, suffix, replacement string) string {
	trimmed := strings.TrimRight(s, " \t")
	if strings.HasSuffix(strings.ToLower(trimmed), " "+suffix) {
		return trimmed[:len(trimmed)-len(suffix)] + replacement
	}
	return s
}
