package provider

import (
	"github.com/owp-spatial/bear/internal/bear"
	"github.com/owp-spatial/bear/internal/geom"
)

// ConformUSAStructures normalizes a FEMA USA Structures record
// (provider_usa_structures.py): its OCC_CLS/PROP_ADDR/HEIGHT columns map
// directly onto the Feature model, with classification dropped to null when
// blank after normalization (§7).
func ConformUSAStructures(raw RawRecord) (bear.Feature, bool, error) {
	wkbBytes := bytesField(raw, "geometry")
	g, err := geom.DecodeWKB(wkbBytes)
	if err != nil {
		return bear.Feature{}, false, &bear.GeometryError{Reason: "usa_structures: " + err.Error()}
	}

	id := str(raw, "UUID")
	if id == "" {
		return bear.Feature{}, false, nil
	}

	f := bear.Feature{
		ID:             id,
		Provider:       bear.ProviderUSAStructures,
		Geometry:       g,
		Classification: nullIfEmpty(normalizeStr(str(raw, "OCC_CLS"))),
		Address:        nullIfEmpty(normalizeStr(str(raw, "PROP_ADDR"))),
	}

	if h, ok := float64Field(raw, "HEIGHT"); ok && h >= 0 {
		f.Height = &h
	}

	return f, true, nil
}
