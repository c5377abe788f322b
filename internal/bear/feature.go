// Package bear defines the shared domain types of the BEAR conflation
// pipeline: Feature, ForeignKey, Entity, Crossref, FootprintRecord, and
// County, plus the error types the pipeline stages return.
//
// These are plain structs, not a runtime dataframe: each pipeline stage
// (see internal/correspond and internal/conflate) operates on typed slices
// of Feature rather than on reflection-driven columns, per the "model
// frames as typed record structs" design note in SPEC_FULL.md §9.
package bear

import "github.com/paulmach/orb"

// ForeignKey records one source-provider identifier rolled up into a merged
// Feature's Foreign list during conflation.
type ForeignKey struct {
	Provider Provider
	Key      string
}

// Feature is one input record from one (county, provider) pair, or the
// result of merging two such records during correspondence.
//
// Height, Levels, Classification, and Address are optional; a nil pointer
// represents SQL-style NULL, matching the "optional" fields of spec.md §3.
type Feature struct {
	ID             string
	Provider       Provider
	Classification *string
	Address        *string
	Height         *float64
	Levels         *int32
	Geometry       orb.Geometry
	Foreign        []ForeignKey
}

// Clone returns a deep-enough copy of f: the Foreign slice is copied so
// appending to the clone's Foreign never mutates f's.
func (f Feature) Clone() Feature {
	if len(f.Foreign) > 0 {
		cp := make([]ForeignKey, len(f.Foreign))
		copy(cp, f.Foreign)
		f.Foreign = cp
	}
	return f
}

// WithForeign returns a copy of f with key appended to Foreign.
func (f Feature) WithForeign(key ForeignKey) Feature {
	out := f.Clone()
	out.Foreign = append(out.Foreign, key)
	return out
}

// Entity is a final registry record: one real-world building/address.
type Entity struct {
	ID             string // Plus Code
	Classification *string
	Address        *string
	Height         *float64
	Levels         *int32
	X, Y           float64 // centroid coordinates
}

// Crossref is a flat relation linking an Entity back to the provider-local
// identifiers that were merged to produce it.
type Crossref struct {
	EntityID   string
	Provider   Provider
	ProviderID string
}

// FootprintRecord is a pre-merge footprint, preserved for the footprints
// output file (§4.6).
type FootprintRecord struct {
	Provider Provider
	ID       string
	Geometry orb.Geometry
}
