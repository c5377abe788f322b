package provider

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"

	"github.com/owp-spatial/bear/internal/bear"
	"github.com/owp-spatial/bear/internal/geom"
)

// ConformMicrosoft normalizes a Microsoft Global ML Building Footprints
// record (provider_microsoft.py). Microsoft ships no stable feature id, so
// one is derived from the geometry's base64-encoded WKB, matching the
// original's `geometry.bin.encode("base64").chash.sha256()` expression.
//
// A negative height is almost always a sentinel for "unknown" in this
// dataset rather than a real measurement, so it is dropped to null (§7)
// instead of rejecting the record outright.
func ConformMicrosoft(raw RawRecord) (bear.Feature, bool, error) {
	wkbBytes := bytesField(raw, "geometry")
	g, err := geom.DecodeWKB(wkbBytes)
	if err != nil {
		return bear.Feature{}, false, &bear.GeometryError{Reason: "microsoft: " + err.Error()}
	}

	encoded := base64.StdEncoding.EncodeToString(wkbBytes)
	sum := sha256.Sum256([]byte(encoded))
	id := hex.EncodeToString(sum[:])

	f := bear.Feature{
		ID:       id,
		Provider: bear.ProviderMicrosoft,
		Geometry: g,
	}

	if h, ok := float64Field(raw, "height"); ok && h >= 0 {
		f.Height = &h
	}

	return f, true, nil
}
