package parquetio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"

	"github.com/owp-spatial/bear/internal/bear"
)

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }

func TestWriteReadConformRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.parquet")

	height := f64Ptr(12.5)
	features := []bear.Feature{
		{
			ID:             "abc123",
			Classification: strPtr("residential"),
			Address:        strPtr("123 main street"),
			Height:         height,
			Geometry:       orb.Point{-96.8, 32.8},
		},
	}

	if err := WriteConform(path, features); err != nil {
		t.Fatalf("WriteConform: %v", err)
	}

	got, err := ReadConform(path, bear.ProviderOpenStreetMap)
	if err != nil {
		t.Fatalf("ReadConform: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(got))
	}
	if got[0].ID != "abc123" {
		t.Errorf("ID = %q, want abc123", got[0].ID)
	}
	if got[0].Address == nil || *got[0].Address != "123 main street" {
		t.Errorf("Address = %v", got[0].Address)
	}
	if got[0].Provider != bear.ProviderOpenStreetMap {
		t.Errorf("Provider = %v, want openstreetmap", got[0].Provider)
	}
}

func TestWriteConformEmptyWritesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.parquet")

	if err := WriteConform(path, nil); err != nil {
		t.Fatalf("WriteConform: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no file to be written for an empty feature slice")
	}
}

func TestReadConformMissingFileReturnsNil(t *testing.T) {
	got, err := ReadConform(filepath.Join(t.TempDir(), "missing.parquet"), bear.ProviderNAD)
	if err != nil {
		t.Fatalf("ReadConform: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for a missing file, got %v", got)
	}
}

func TestConformPathLayout(t *testing.T) {
	got := ConformPath("/out", "48201", bear.ProviderMicrosoft)
	want := filepath.Join("/out", "conform", "fips=48201", "provider=microsoft", "data.parquet")
	if got != want {
		t.Errorf("ConformPath = %q, want %q", got, want)
	}
}
