// Package parallel fans out per-file operations (fingerprinting, metadata
// reads) across available cores using a bounded worker pool, so a batch of
// M files is processed by N workers pulling from a shared queue rather than
// N fixed slices.
package parallel

import (
	"runtime"
	"sync"

	"github.com/alitto/pond"
)

// Map applies fn to every element of items using a pool of workers sized to
// the number of available CPUs (or size, if positive). A failure on one
// item is reported via the returned errs slice (indexed identically to
// items and results) rather than aborting the batch; callers that want
// "drop failed files and keep the rest" semantics (the fingerprint engine's
// contract) read results/errs pairwise.
func Map[T, R any](size int, items []T, fn func(T) (R, error)) ([]R, []error) {
	if size < 1 {
		size = runtime.NumCPU()
		if size < 1 {
			size = 1
		}
	}
	if size > len(items) {
		size = len(items)
	}
	if size < 1 || len(items) == 0 {
		return nil, nil
	}

	results := make([]R, len(items))
	errs := make([]error, len(items))

	pool := pond.New(size, 0, pond.MinWorkers(size))
	var wg sync.WaitGroup
	wg.Add(len(items))
	for index := range items {
		index := index
		pool.Submit(func() {
			defer wg.Done()
			result, err := fn(items[index])
			results[index] = result
			errs[index] = err
		})
	}
	wg.Wait()
	pool.StopAndWait()

	return results, errs
}
