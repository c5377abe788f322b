package conflate

import (
	"sort"

	"github.com/owp-spatial/bear/internal/bear"
	"github.com/owp-spatial/bear/internal/geom"
)

// Project splits the final merged entity set into the three output
// relations of §4.6: entities (one row per registry record), crossref (the
// flattened foreign-key relation), and footprints (the pre-merge footprint
// set, passed through from §4.3 for the separate footprints output file).
func Project(entities []bear.Feature, preMergeFootprints []bear.Feature) ([]bear.Entity, []bear.Crossref, []bear.FootprintRecord) {
	outEntities := make([]bear.Entity, len(entities))
	var crossref []bear.Crossref

	for i, e := range entities {
		x, y := geom.CentroidX(e.Geometry), geom.CentroidY(e.Geometry)
		outEntities[i] = bear.Entity{
			ID:             e.ID,
			Classification: e.Classification,
			Address:        e.Address,
			Height:         e.Height,
			Levels:         e.Levels,
			X:              x,
			Y:              y,
		}
		for _, fk := range e.Foreign {
			crossref = append(crossref, bear.Crossref{
				EntityID:   e.ID,
				Provider:   fk.Provider,
				ProviderID: fk.Key,
			})
		}
	}

	sort.Slice(crossref, func(i, j int) bool {
		if crossref[i].EntityID != crossref[j].EntityID {
			return crossref[i].EntityID < crossref[j].EntityID
		}
		return crossref[i].Provider.Rank() < crossref[j].Provider.Rank()
	})

	outFootprints := make([]bear.FootprintRecord, len(preMergeFootprints))
	for i, f := range preMergeFootprints {
		outFootprints[i] = bear.FootprintRecord{
			Provider: f.Provider,
			ID:       f.ID,
			Geometry: f.Geometry,
		}
	}

	return outEntities, crossref, outFootprints
}
