package geom

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
)

// DecodeWKB parses the well-known-binary geometry blob carried on every
// Feature (spec.md §3). The decoder's error is returned as is; callers
// decide what it means: the per-record conform path drops the record, while
// the OpenAddresses batch conform fails the whole task.
func DecodeWKB(b []byte) (orb.Geometry, error) {
	return wkb.Unmarshal(b)
}

// EncodeWKB serializes g back to well-known-binary, for round-tripping
// footprint geometry into the footprints output file (§4.6).
func EncodeWKB(g orb.Geometry) ([]byte, error) {
	return wkb.Marshal(g)
}
