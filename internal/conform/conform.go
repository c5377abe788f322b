// Package conform runs the conform stage's worker pool: one task per
// (county, provider) pair, each reading raw records and normalizing them
// into bear.Features via internal/provider.
//
// Directly adapted from the teacher's LoadCellsParallel/loadCellsSerial in
// pkg/v1/parallel.go: same jobs/results channel shape, same ordered
// reassembly by original index, same SkipErrors/fail-fast switch. Generalized
// from "load one chart from a path" to "conform one (county, provider) task"
// and threaded with context.Context. All tasks of a Run share that one
// context: once it is canceled, every task not yet started reports the
// context's error instead of running. There is no per-task cancellation.
package conform

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/owp-spatial/bear/internal/bear"
	"github.com/owp-spatial/bear/internal/provider"
)

// Task identifies one conform unit: the records for one provider within
// one county.
type Task struct {
	County   bear.County
	Provider bear.Provider
}

// RawReader loads the raw, provider-native records for one task, typically
// backed by internal/parquetio.
type RawReader func(ctx context.Context, t Task) ([]provider.RawRecord, error)

// Options controls the worker pool, mirroring pkg/v1/parallel.go's
// LoadOptions.
type Options struct {
	// Workers is the number of concurrent conform goroutines. Zero defaults
	// to 8, per §5's "default 8 workers".
	Workers int
	// SkipErrors continues past a failing task, collecting its error,
	// instead of aborting the whole run.
	SkipErrors bool
	// Progress is called after each task completes (successfully or not).
	Progress func(done, total int)
	// ErrorLog, if set, receives one line per failing task.
	ErrorLog io.Writer
}

// DefaultOptions returns the pool defaults named in §5.
func DefaultOptions() Options {
	return Options{Workers: 8, SkipErrors: true}
}

// Result is one task's conform output.
type Result struct {
	Task     Task
	Features []bear.Feature
	Err      error
}

// Run conforms every task, fanning out across Options.Workers goroutines.
// Results are returned in the same order as tasks, regardless of which
// worker or goroutine finished it.
func Run(ctx context.Context, tasks []Task, read RawReader, opts Options) ([]Result, []error) {
	if len(tasks) == 0 {
		return nil, nil
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = 8
	}
	if workers > len(tasks) {
		workers = len(tasks)
	}

	type indexed struct {
		index  int
		result Result
	}

	jobs := make(chan int, len(tasks))
	results := make(chan indexed, len(tasks))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					results <- indexed{index: i, result: Result{Task: tasks[i], Err: ctx.Err()}}
					continue
				}
				results <- indexed{index: i, result: conformOne(ctx, tasks[i], read)}
			}
		}()
	}

	for i := range tasks {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	ordered := make([]Result, len(tasks))
	var errs []error
	done := 0

	for r := range results {
		done++
		if opts.Progress != nil {
			opts.Progress(done, len(tasks))
		}
		if r.result.Err != nil {
			err := fmt.Errorf("conform %s/%s: %w", r.result.Task.County.FIPS, r.result.Task.Provider, r.result.Err)
			if opts.ErrorLog != nil {
				fmt.Fprintf(opts.ErrorLog, "%v\n", err)
			}
			if !opts.SkipErrors {
				return nil, []error{err}
			}
			errs = append(errs, err)
		}
		ordered[r.index] = r.result
	}

	return ordered, errs
}

func conformOne(ctx context.Context, t Task, read RawReader) Result {
	raws, err := read(ctx, t)
	if err != nil {
		return Result{Task: t, Err: err}
	}

	if batch, ok := provider.GetBatch(t.Provider); ok {
		features, err := batch(raws)
		if err != nil {
			return Result{Task: t, Err: err}
		}
		return Result{Task: t, Features: features}
	}

	conformer, ok := provider.Get(t.Provider)
	if !ok {
		return Result{Task: t, Err: &bear.ProviderError{Tag: string(t.Provider)}}
	}

	features := make([]bear.Feature, 0, len(raws))
	for _, raw := range raws {
		f, keep, err := conformer(raw)
		if err != nil {
			// A single malformed record never fails the task (§7); it is
			// dropped, the same way the teacher's SkipErrors drops one
			// failing chart rather than the whole load.
			continue
		}
		if keep {
			features = append(features, f)
		}
	}

	return Result{Task: t, Features: features}
}
