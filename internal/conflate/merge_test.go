package conflate

import (
	"testing"

	"github.com/paulmach/orb"

	"github.com/owp-spatial/bear/internal/bear"
)

func strPtr(s string) *string { return &s }

func TestMergeFootprintsAndAddressesOnSurfaceUsesAddressGeometry(t *testing.T) {
	footprint := bear.Feature{
		ID:       "fp1",
		Provider: bear.ProviderOpenStreetMap,
		Geometry: orb.Polygon{orb.Ring{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}},
	}
	address := bear.Feature{
		ID:       "addr1",
		Provider: bear.ProviderNAD,
		Address:  strPtr("123 main street"),
		Geometry: orb.Point{5, 5},
	}

	merged, err := MergeFootprintsAndAddresses([]bear.Feature{footprint}, []bear.Feature{address})
	if err != nil {
		t.Fatalf("MergeFootprintsAndAddresses: %v", err)
	}
	if len(merged) != 1 {
		t.Fatalf("expected 1 merged entity, got %d", len(merged))
	}

	entity := merged[0]
	if entity.Geometry != (orb.Point{5, 5}) {
		t.Errorf("geometry = %v, want the address point (5, 5)", entity.Geometry)
	}
	if entity.Address == nil || *entity.Address != "123 main street" {
		t.Errorf("address = %v, want 123 main street", entity.Address)
	}
	if len(entity.Foreign) != 2 {
		t.Fatalf("expected 2 foreign keys (footprint + self), got %v", entity.Foreign)
	}
}

func TestMergeFootprintsAndAddressesUnmatchedPassThrough(t *testing.T) {
	footprint := bear.Feature{
		ID:       "fp1",
		Provider: bear.ProviderOpenStreetMap,
		Geometry: orb.Polygon{orb.Ring{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}},
	}
	farAddress := bear.Feature{
		ID:       "addr1",
		Provider: bear.ProviderNAD,
		Address:  strPtr("999 far away"),
		Geometry: orb.Point{10000, 10000},
	}

	merged, err := MergeFootprintsAndAddresses([]bear.Feature{footprint}, []bear.Feature{farAddress})
	if err != nil {
		t.Fatalf("MergeFootprintsAndAddresses: %v", err)
	}
	if len(merged) != 2 {
		t.Fatalf("expected both rows to pass through unmatched, got %d", len(merged))
	}
}

func TestDedupeByNormalizedAddressKeepsLowestProviderRank(t *testing.T) {
	rows := []bear.Feature{
		{ID: "a", Provider: bear.ProviderOpenAddresses, Address: strPtr("123 main st"), Geometry: orb.Point{0, 0}},
		{ID: "b", Provider: bear.ProviderOpenStreetMap, Address: strPtr("123 Main Street"), Geometry: orb.Point{0, 0}},
	}

	out := finalizeEntities(rows)
	if len(out) != 1 {
		t.Fatalf("expected addresses to collapse into 1 entity, got %d", len(out))
	}
	if out[0].ID == "" {
		t.Fatal("expected a non-empty plus-code id")
	}
	self := out[0].Foreign[len(out[0].Foreign)-1]
	if self.Provider != bear.ProviderOpenStreetMap || self.Key != "b" {
		t.Errorf("surviving row = %v, want openstreetmap/b (lowest provider rank)", self)
	}
}

func TestRewriteTrailingTokenOnlyTouchesTheSuffix(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "trailing dr expands", in: "123 Main Dr", want: "123 Main drive"},
		{name: "trailing st expands", in: "5 Oak St", want: "5 Oak street"},
		{name: "mid-string token untouched", in: "455 St Paul Ave", want: "455 St Paul avenue"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in
			for _, sr := range addressSuffixRewrites {
				got = rewriteTrailingToken(got, sr.suffix, sr.replacement)
			}
			if got != tt.want {
				t.Errorf("rewriteTrailingToken chain(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDedupeNullAddressesAreSingletons(t *testing.T) {
	rows := []bear.Feature{
		{ID: "a", Provider: bear.ProviderMicrosoft, Geometry: orb.Point{0, 0}},
		{ID: "b", Provider: bear.ProviderMicrosoft, Geometry: orb.Point{1, 1}},
	}

	out := finalizeEntities(rows)
	if len(out) != 2 {
		t.Fatalf("expected both null-address rows to survive as singletons, got %d", len(out))
	}
}
