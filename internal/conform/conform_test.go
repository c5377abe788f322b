package conform

import (
	"context"
	"errors"
	"testing"

	"github.com/paulmach/orb"

	"github.com/owp-spatial/bear/internal/bear"
	"github.com/owp-spatial/bear/internal/geom"
	"github.com/owp-spatial/bear/internal/provider"
)

// testPointWKB is a valid WKB point for raw records, since every provider
// decodes the geometry column before anything else.
var testPointWKB, _ = geom.EncodeWKB(orb.Point{0, 0})

func countyTask(fips string, p bear.Provider) Task {
	return Task{County: bear.County{FIPS: fips}, Provider: p}
}

func TestRunOrdersResultsByOriginalIndex(t *testing.T) {
	tasks := []Task{
		countyTask("48201", bear.ProviderNAD),
		countyTask("48113", bear.ProviderUSAStructures),
		countyTask("06037", bear.ProviderMicrosoft),
	}

	read := func(_ context.Context, t Task) ([]provider.RawRecord, error) {
		switch t.Provider {
		case bear.ProviderNAD:
			return []provider.RawRecord{{"Add_Number_FAN": "1", "Add_Number": "100", "St_Name": "Main", "geometry": testPointWKB}}, nil
		case bear.ProviderUSAStructures:
			return []provider.RawRecord{{"UUID": "u1", "geometry": testPointWKB}}, nil
		default:
			return nil, nil
		}
	}

	results, errs := Run(context.Background(), tasks, read, Options{Workers: 2, SkipErrors: true})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Task != tasks[i] {
			t.Errorf("result %d task = %+v, want %+v", i, r.Task, tasks[i])
		}
	}
	if len(results[0].Features) != 1 {
		t.Errorf("expected 1 conformed NAD feature, got %d", len(results[0].Features))
	}
	if len(results[1].Features) != 1 {
		t.Errorf("expected 1 conformed USA Structures feature, got %d", len(results[1].Features))
	}
	if len(results[2].Features) != 0 {
		t.Errorf("expected microsoft task to conform 0 features from empty input, got %d", len(results[2].Features))
	}
}

func TestRunDispatchesBatchProvidersToBatchRegistry(t *testing.T) {
	tasks := []Task{countyTask("48201", bear.ProviderOpenAddresses)}

	read := func(_ context.Context, t Task) ([]provider.RawRecord, error) {
		return []provider.RawRecord{
			{"hash": "h1", "number": "100", "street": "main st", "geometry": testPointWKB},
		}, nil
	}

	results, errs := Run(context.Background(), tasks, read, Options{Workers: 1})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(results[0].Features) != 1 {
		t.Fatalf("expected the batch conformer to produce 1 feature, got %d", len(results[0].Features))
	}
}

func TestRunSkipErrorsCollectsFailuresWithoutAborting(t *testing.T) {
	tasks := []Task{countyTask("48201", bear.ProviderMicrosoft), countyTask("06037", bear.ProviderMicrosoft)}

	boom := errors.New("boom")
	read := func(_ context.Context, t Task) ([]provider.RawRecord, error) {
		if t.County.FIPS == "48201" {
			return nil, boom
		}
		return []provider.RawRecord{}, nil
	}

	results, errs := Run(context.Background(), tasks, read, Options{Workers: 2, SkipErrors: true})
	if len(errs) != 1 {
		t.Fatalf("expected 1 collected error, got %d", len(errs))
	}
	if results[0].Err == nil {
		t.Error("expected first task's result to carry the read error")
	}
	if results[1].Err != nil {
		t.Errorf("expected second task to succeed, got %v", results[1].Err)
	}
}

func TestRunFailFastAbortsOnFirstError(t *testing.T) {
	tasks := []Task{countyTask("48201", bear.ProviderMicrosoft)}

	boom := errors.New("boom")
	read := func(_ context.Context, t Task) ([]provider.RawRecord, error) {
		return nil, boom
	}

	results, errs := Run(context.Background(), tasks, read, Options{Workers: 1, SkipErrors: false})
	if results != nil {
		t.Errorf("expected nil results on fail-fast abort, got %v", results)
	}
	if len(errs) != 1 {
		t.Fatalf("expected exactly 1 error, got %d", len(errs))
	}
}

func TestRunEmptyTasksReturnsNil(t *testing.T) {
	results, errs := Run(context.Background(), nil, nil, Options{})
	if results != nil || errs != nil {
		t.Errorf("expected nil, nil for an empty task list, got %v, %v", results, errs)
	}
}
