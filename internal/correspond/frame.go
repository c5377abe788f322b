// Package correspond implements the Spatial Correspondence Operator of
// spec.md §4.2: the generic binary operator that merges two feature frames
// across a chosen geometry predicate, with left-side attributes given
// priority and unmatched rows appended unchanged.
//
// Per SPEC_FULL.md §9 this models spec.md's dataframe ("sc_initialize_lazy",
// "sc_coalesce_attr", "sc_anti_join" in the original's
// src/bear/expr/_correspondence.py) as typed Go structs instead of
// reflection over named/suffixed columns.
package correspond

import "github.com/owp-spatial/bear/internal/bear"

// Mode selects the correspondence predicate (§4.2).
type Mode int

const (
	// Overlap corresponds two geometries when their intersection area
	// exceeds 30% of the smaller geometry's area. Used for footprint-to-
	// footprint conflation (§4.3).
	Overlap Mode = iota
	// Distance corresponds two geometries when they are within 10 working-
	// projection units of each other. Used for address conflation (§4.4);
	// the footprint-address merge (§4.5) applies the same threshold in
	// internal/conflate/merge.go without going through Correspond.
	Distance
)

// Frame is a row-indexed collection of Features: the statically typed
// stand-in for a polars LazyFrame in this stage. A row's position in Rows
// serves as its row index, in place of the with_row_index step of
// sc_initialize_lazy.
type Frame struct {
	Rows []bear.Feature
}

// NewFrame wraps features as a Frame, initializing every row's Foreign
// slice to non-nil empty (sc_initialize_lazy's foreign coalesce).
func NewFrame(features []bear.Feature) Frame {
	rows := make([]bear.Feature, len(features))
	for i, f := range features {
		rows[i] = f.Clone()
		if rows[i].Foreign == nil {
			rows[i].Foreign = []bear.ForeignKey{}
		}
	}
	return Frame{Rows: rows}
}

// Len returns the number of rows in the frame.
func (f Frame) Len() int { return len(f.Rows) }
