// Package provider holds the per-source conform normalizers of spec.md §4
// (conform stage): one function per provider, translating a raw decoded
// record into a bear.Feature, or reporting that the record should be
// dropped.
//
// Grounded on the Python original's providers/provider_*.py: each of those
// modules registers a conform() LazyFrame transform for one source; this
// package keeps the same one-file-per-provider split but works record by
// record, since the conform worker pool (internal/conform) already fans
// work out by (county, provider) rather than by column-oriented batch.
package provider

import "github.com/owp-spatial/bear/internal/bear"

// RawRecord is one decoded input row, keyed by the provider's native column
// names. Values come from the parquet reader as driver-native Go types
// (float64, int64, bool, []byte, nil); text columns arrive as []byte, and
// in-memory records may also carry plain strings.
type RawRecord map[string]any

// Conformer normalizes one RawRecord into a bear.Feature. A false second
// return means the record is intentionally dropped (not an error) -- e.g.
// an OpenStreetMap row with no building tag (§7).
type Conformer func(raw RawRecord) (bear.Feature, bool, error)

// registry maps provider tags to their conform function, mirroring the
// Python original's ProviderRegistry. OpenAddresses is absent here: its
// conform step needs cross-row grouping, so it is registered in
// batchRegistry (openaddresses.go) instead.
var registry = map[bear.Provider]Conformer{
	bear.ProviderOpenStreetMap: ConformOpenStreetMap,
	bear.ProviderMicrosoft:     ConformMicrosoft,
	bear.ProviderUSAStructures: ConformUSAStructures,
	bear.ProviderNAD:           ConformNAD,
}

// Get returns the conform function registered for p.
func Get(p bear.Provider) (Conformer, bool) {
	c, ok := registry[p]
	return c, ok
}

// str reads a string field, stored either as a string or as the []byte the
// parquet reader yields for text columns, tolerating a missing key or wrong
// type (a malformed schema cell, §7) by returning "".
func str(raw RawRecord, key string) string {
	switch v := raw[key].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	}
	return ""
}

func bytesField(raw RawRecord, key string) []byte {
	if v, ok := raw[key].([]byte); ok {
		return v
	}
	return nil
}

func float64Field(raw RawRecord, key string) (float64, bool) {
	switch v := raw[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
