// Package conflate implements the three conflation stages of spec.md §4.3-
// §4.6: footprint-footprint conflation, address conflation, the footprint-
// address merge, and the output projector. Grounded throughout on
// cli/conflate.py's conflate() task and expr/_correspondence.py's
// merge_footprints_and_addresses, translated onto internal/correspond's
// typed Frame instead of polars LazyFrames.
package conflate

import (
	"github.com/owp-spatial/bear/internal/bear"
	"github.com/owp-spatial/bear/internal/correspond"
)

// Footprints conflates the three footprint-providing sources into a single
// de-duplicated set of building footprints (§4.3).
//
// When OpenStreetMap coverage exists it is preferred as the initial left
// side (OSM footprints are usually the most complete and best-attributed),
// correspondence runs against Microsoft first and USA Structures second.
// cli/conflate.py's original second call re-queries Microsoft instead of USA
// Structures; SPEC_FULL.md's Open Question resolution treats that as the bug
// its own comments flag, so this corresponds against USA Structures instead.
// With no OSM coverage, Microsoft and USA Structures are corresponded
// directly against each other.
func Footprints(byProvider map[bear.Provider][]bear.Feature) ([]bear.Feature, error) {
	osm := byProvider[bear.ProviderOpenStreetMap]
	microsoft := byProvider[bear.ProviderMicrosoft]
	usa := byProvider[bear.ProviderUSAStructures]

	if len(osm) == 0 {
		merged, err := correspond.Correspond(
			correspond.Frame{Rows: microsoft},
			correspond.Frame{Rows: usa},
			correspond.Overlap,
		)
		if err != nil {
			return nil, err
		}
		return merged.Rows, nil
	}

	step1, err := correspond.Correspond(
		correspond.Frame{Rows: osm},
		correspond.Frame{Rows: microsoft},
		correspond.Overlap,
	)
	if err != nil {
		return nil, err
	}

	step2, err := correspond.Correspond(step1, correspond.Frame{Rows: usa}, correspond.Overlap)
	if err != nil {
		return nil, err
	}

	return step2.Rows, nil
}
