package provider

import (
	"github.com/owp-spatial/bear/internal/bear"
	"github.com/owp-spatial/bear/internal/geom"
)

// ConformNAD normalizes a National Address Database point
// (provider_nad.py, which the original leaves unimplemented). The NAD
// schema carries its street address pre-split across several columns, so
// this assembles the single "number street unit" form the merge stage
// expects (§4.4), same shape as the OpenAddresses address concatenation.
func ConformNAD(raw RawRecord) (bear.Feature, bool, error) {
	wkbBytes := bytesField(raw, "geometry")
	g, err := geom.DecodeWKB(wkbBytes)
	if err != nil {
		return bear.Feature{}, false, &bear.GeometryError{Reason: "nad: " + err.Error()}
	}

	id := str(raw, "Add_Number_FAN")
	if id == "" {
		return bear.Feature{}, false, nil
	}

	address := joinNonEmpty(" ",
		str(raw, "Add_Number"),
		str(raw, "St_PreDir"),
		str(raw, "St_Name"),
		str(raw, "St_PosTyp"),
		str(raw, "Unit"),
	)
	address = normalizeStr(address)
	if address == "" {
		return bear.Feature{}, false, nil
	}

	return bear.Feature{
		ID:       id,
		Provider: bear.ProviderNAD,
		Geometry: g,
		Address:  &address,
	}, true, nil
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	out := ""
	for i, p := range kept {
		if i > 0 {
			out += sep
		}
		out += p
	}
	return out
}
