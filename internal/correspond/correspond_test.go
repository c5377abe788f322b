package correspond

import (
	"testing"

	"github.com/paulmach/orb"

	"github.com/owp-spatial/bear/internal/bear"
)

func strPtr(s string) *string { return &s }

func square(x0, y0, size float64) orb.Polygon {
	return orb.Polygon{
		orb.Ring{
			{x0, y0},
			{x0 + size, y0},
			{x0 + size, y0 + size},
			{x0, y0 + size},
			{x0, y0},
		},
	}
}

func TestCorrespondOverlapMerges(t *testing.T) {
	left := Frame{Rows: []bear.Feature{
		{ID: "l1", Provider: bear.ProviderMicrosoft, Geometry: square(0, 0, 10)},
	}}
	right := Frame{Rows: []bear.Feature{
		{ID: "r1", Provider: bear.ProviderUSAStructures, Geometry: square(1, 1, 8), Classification: strPtr("residential")},
	}}

	out, err := Correspond(left, right, Overlap)
	if err != nil {
		t.Fatalf("Correspond: %v", err)
	}
	if len(out.Rows) != 1 {
		t.Fatalf("expected 1 merged row, got %d", len(out.Rows))
	}

	row := out.Rows[0]
	if row.ID != "l1" {
		t.Errorf("merged row id = %q, want l1 (left priority)", row.ID)
	}
	if row.Classification == nil || *row.Classification != "residential" {
		t.Errorf("merged row classification = %v, want residential from right", row.Classification)
	}
	if len(row.Foreign) != 1 || row.Foreign[0].Key != "r1" {
		t.Errorf("merged row foreign = %v, want [{UsaStructures r1}]", row.Foreign)
	}
}

func TestCorrespondOverlapBelowThresholdPassesThrough(t *testing.T) {
	left := Frame{Rows: []bear.Feature{
		{ID: "l1", Provider: bear.ProviderMicrosoft, Geometry: square(0, 0, 10)},
	}}
	right := Frame{Rows: []bear.Feature{
		{ID: "r1", Provider: bear.ProviderUSAStructures, Geometry: square(9, 9, 10)},
	}}

	out, err := Correspond(left, right, Overlap)
	if err != nil {
		t.Fatalf("Correspond: %v", err)
	}
	if len(out.Rows) != 2 {
		t.Fatalf("expected both rows to pass through unmatched, got %d rows", len(out.Rows))
	}
}

func TestCorrespondDistanceTieBreaksByLowestIndex(t *testing.T) {
	left := Frame{Rows: []bear.Feature{
		{ID: "l1", Provider: bear.ProviderNAD, Geometry: orb.Point{0, 0}},
	}}
	right := Frame{Rows: []bear.Feature{
		{ID: "r1", Provider: bear.ProviderOpenAddresses, Geometry: orb.Point{1, 0}},
		{ID: "r2", Provider: bear.ProviderOpenAddresses, Geometry: orb.Point{0, 1}},
	}}

	out, err := Correspond(left, right, Distance)
	if err != nil {
		t.Fatalf("Correspond: %v", err)
	}
	if len(out.Rows) != 1 {
		t.Fatalf("expected 1 merged row, got %d", len(out.Rows))
	}
	if len(out.Rows[0].Foreign) != 1 || out.Rows[0].Foreign[0].Key != "r1" {
		t.Fatalf("expected the equidistant tie broken to the lowest right index (r1), got %v", out.Rows[0].Foreign)
	}
}

func TestCorrespondDistanceOutsideThresholdPassesThrough(t *testing.T) {
	left := Frame{Rows: []bear.Feature{
		{ID: "l1", Provider: bear.ProviderNAD, Geometry: orb.Point{0, 0}},
	}}
	right := Frame{Rows: []bear.Feature{
		{ID: "r1", Provider: bear.ProviderOpenAddresses, Geometry: orb.Point{1000, 1000}},
	}}

	out, err := Correspond(left, right, Distance)
	if err != nil {
		t.Fatalf("Correspond: %v", err)
	}
	if len(out.Rows) != 2 {
		t.Fatalf("expected both rows unmatched, got %d", len(out.Rows))
	}
}

func TestCorrespondEmptyRightSidePassesLeftThrough(t *testing.T) {
	left := Frame{Rows: []bear.Feature{
		{ID: "l1", Provider: bear.ProviderMicrosoft, Geometry: square(0, 0, 10)},
	}}
	right := Frame{}

	out, err := Correspond(left, right, Overlap)
	if err != nil {
		t.Fatalf("Correspond: %v", err)
	}
	if len(out.Rows) != 1 || out.Rows[0].ID != "l1" {
		t.Fatalf("expected left row to pass through unchanged, got %v", out.Rows)
	}
}
