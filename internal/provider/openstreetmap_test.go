package provider

import "testing"

func TestParseOSMHeight(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
		ok   bool
	}{
		{name: "zero sentinel", in: "0", want: 0, ok: false},
		{name: "plain meters", in: "12.5", want: 12.5, ok: true},
		{name: "feet suffix", in: "30ft", want: 30 * ftToM, ok: true},
		{name: "meter suffix", in: "12m", want: 12, ok: true},
		{name: "tick suffix", in: "30'", want: 30 * ftToM, ok: true},
		{name: "semicolon list takes max", in: "10;20;5", want: 20, ok: true},
		{name: "empty", in: "", want: 0, ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseOSMHeight(tt.in)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseOSMLevels(t *testing.T) {
	tests := []struct {
		name           string
		in             string
		classification string
		want           int32
		ok             bool
	}{
		{name: "zero sentinel", in: "0", want: 0, ok: false},
		{name: "bi-level", in: "Bi-Level", want: 2, ok: true},
		{name: "half level rounds up", in: "2.5", want: 3, ok: true},
		{name: "comma list counts", in: "1,2,3", want: 3, ok: true},
		{name: "school comma dropped", in: "1,2", classification: "school", want: 0, ok: false},
		{name: "dash range takes max", in: "1-3", want: 3, ok: true},
		{name: "plain int", in: "4", want: 4, ok: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseOSMLevels(tt.in, tt.classification)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConformOpenStreetMapDropsParkingAndNonBuilding(t *testing.T) {
	_, ok, err := ConformOpenStreetMap(RawRecord{"building": "parking"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected parking classification to be dropped")
	}

	_, ok, err = ConformOpenStreetMap(RawRecord{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected record with no building/amenity/leisure tag to be dropped")
	}
}
