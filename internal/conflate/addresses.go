package conflate

import (
	"github.com/owp-spatial/bear/internal/bear"
	"github.com/owp-spatial/bear/internal/correspond"
)

// Addresses conflates the two address-point sources into one set (§4.4).
//
// With both NAD and OpenAddresses available, NAD is preferred as the left
// side (it is the federally-curated source) and corresponded against
// OpenAddresses by distance. With only one available, its records pass
// through unchanged. With neither, an empty set is returned.
func Addresses(byProvider map[bear.Provider][]bear.Feature) ([]bear.Feature, error) {
	nad := byProvider[bear.ProviderNAD]
	oa := byProvider[bear.ProviderOpenAddresses]

	switch {
	case len(nad) > 0 && len(oa) > 0:
		merged, err := correspond.Correspond(
			correspond.Frame{Rows: nad},
			correspond.Frame{Rows: oa},
			correspond.Distance,
		)
		if err != nil {
			return nil, err
		}
		return merged.Rows, nil
	case len(nad) > 0:
		return nad, nil
	default:
		return oa, nil
	}
}
