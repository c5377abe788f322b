package provider

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/owp-spatial/bear/internal/bear"
	"github.com/owp-spatial/bear/internal/geom"
)

const ftToM = 0.3048

var levelsJunkChars = regexp.MustCompile("`|''|\\+|(PK)|>|±")

// ConformOpenStreetMap normalizes one OpenStreetMap building record
// (provider_openstreetmap.py). OSM height/levels are free-text tags with no
// enforced unit or format, so most of this function is the same cascade of
// special cases the Python original works through with polars `.when()`
// chains.
func ConformOpenStreetMap(raw RawRecord) (bear.Feature, bool, error) {
	classification := coalesceTag(str(raw, "building"), str(raw, "amenity"), str(raw, "leisure"))
	if classification == "" {
		// One of building/amenity/leisure is the tag every surviving record
		// must carry; a blank one here means the source record had none.
		return bear.Feature{}, false, nil
	}
	if classification == "yes" {
		classification = ""
	}
	if classification == "parking" || classification == "parking_space" {
		return bear.Feature{}, false, nil
	}
	if str(raw, "dataset") == "UniversityPly" {
		return bear.Feature{}, false, nil
	}

	id := coalesceTag(str(raw, "osm_id"), str(raw, "osm_way_id"))
	if id == "" {
		return bear.Feature{}, false, nil
	}

	wkbBytes := bytesField(raw, "geometry")
	g, err := geom.DecodeWKB(wkbBytes)
	if err != nil {
		return bear.Feature{}, false, &bear.GeometryError{Reason: "openstreetmap: " + err.Error()}
	}

	address := strings.TrimSpace(strings.Join(nonEmpty(
		str(raw, "name"),
		str(raw, "addr_housenumber"),
		str(raw, "addr_street"),
		str(raw, "addr_unit"),
	), " "))

	f := bear.Feature{
		ID:             id,
		Provider:       bear.ProviderOpenStreetMap,
		Geometry:       g,
		Classification: nullIfEmpty(classification),
		Address:        nullIfEmpty(address),
	}

	if h, ok := parseOSMHeight(str(raw, "height")); ok && h >= 0 {
		f.Height = &h
	}

	levelsRaw := levelsJunkChars.ReplaceAllString(str(raw, "building_levels"), "")
	if lv, ok := parseOSMLevels(levelsRaw, classification); ok && lv <= 110 {
		f.Levels = &lv
	}

	return f, true, nil
}

func coalesceTag(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// parseOSMHeight translates the original's height `.when()` cascade:
// semicolon-separated lists take the max, "ft"/"'" suffixes convert from
// feet, "m" suffix or bare numbers parse directly.
func parseOSMHeight(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	switch raw {
	case "", "0", "0.0":
		return 0, false
	}

	if strings.Contains(raw, ";") {
		parts := strings.Split(raw, ";")
		best := 0.0
		found := false
		for _, p := range parts {
			if v, err := strconv.ParseFloat(strings.TrimSpace(p), 64); err == nil {
				if !found || v > best {
					best = v
					found = true
				}
			}
		}
		return best, found
	}

	if strings.Contains(raw, "ft") {
		cleaned := strings.TrimSpace(strings.NewReplacer("ft", "", ".", "").Replace(raw))
		if v, err := strconv.ParseFloat(cleaned, 64); err == nil {
			return v * ftToM, true
		}
		return 0, false
	}

	if strings.Contains(raw, "m") {
		cleaned := strings.TrimSpace(strings.ReplaceAll(raw, "m", ""))
		if v, err := strconv.ParseFloat(cleaned, 64); err == nil {
			return v, true
		}
		return 0, false
	}

	if strings.HasSuffix(raw, "'") {
		cleaned := strings.TrimSpace(strings.TrimSuffix(raw, "'"))
		if v, err := strconv.ParseFloat(cleaned, 64); err == nil {
			return v * ftToM, true
		}
		return 0, false
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseOSMLevels translates the original's levels `.when()` cascade.
func parseOSMLevels(raw, classification string) (int32, bool) {
	raw = strings.TrimSpace(raw)
	switch raw {
	case "", "0", "Default":
		return 0, false
	case "Bi-Level", "Split":
		return 2, true
	}

	if strings.Contains(raw, ",") && classification == "school" {
		return 0, false
	}

	if strings.Contains(raw, ".5") {
		trimmed := raw[:strings.Index(raw, ".5")]
		if v, err := strconv.Atoi(trimmed); err == nil {
			return int32(v + 1), true
		}
		return 0, false
	}

	if strings.Contains(raw, "1/2") {
		cleaned := strings.TrimSpace(strings.ReplaceAll(raw, "1/2", ""))
		if v, err := strconv.Atoi(cleaned); err == nil {
			return int32(v + 1), true
		}
		return 0, false
	}

	if strings.Contains(raw, ",") {
		return int32(len(strings.Split(raw, ","))), true
	}

	if strings.Contains(raw, ";") {
		parts := strings.Split(raw, ";")
		best := 0
		found := false
		for _, p := range parts {
			if v, err := strconv.Atoi(strings.TrimSpace(p)); err == nil {
				if !found || v > best {
					best = v
					found = true
				}
			}
		}
		return int32(best), found
	}

	if strings.Contains(raw, "-") {
		parts := strings.Split(raw, "-")
		best := 0
		found := false
		for _, p := range parts {
			if v, err := strconv.Atoi(strings.TrimSpace(p)); err == nil {
				if !found || v > best {
					best = v
					found = true
				}
			}
		}
		return int32(best), found
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return int32(v), true
}
