// Package addrnorm wraps the postal-expansion pass of the merge stage's
// address normalization (§4.5 step 5): github.com/openvenues/gopostal/expand's
// ExpandAddress, the Go side of the same libpostal C library the Python
// original calls through its own binding.
//
// The anchored suffix rewrites that run immediately before this pass
// (dr/st/ct/ln/ave/rd, §4.5 step 5) live in internal/conflate/merge.go, not
// here: they apply only to a trailing token, and the merge step is their one
// caller, so there is nothing left for this package to rewrite before
// handing the string to libpostal.
package addrnorm

import (
	"strings"

	"github.com/openvenues/gopostal/expand"
)

// Normalize returns the canonical, lowercased form of raw, or "" if raw is
// empty or libpostal cannot recover any expansion (§7: malformed address
// fields degrade to empty rather than failing the record).
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	expanded := safeExpand(raw)
	if len(expanded) == 0 {
		return ""
	}

	return strings.ToLower(strings.TrimSpace(expanded[0]))
}

// safeExpand calls into libpostal via cgo, recovering a panic and returning
// no expansions (§7): a corrupt address string degrades one record's
// address to empty instead of aborting the whole run.
func safeExpand(s string) (out []string) {
	defer func() {
		if recover() != nil {
			out = nil
		}
	}()
	return expand.ExpandAddress(s)
}
