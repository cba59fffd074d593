package parallel

import (
	"errors"
	"testing"
)

// TestMapAppliesFnToEveryItem tests that Map preserves item order in its
// results regardless of how workers interleave.
func TestMapAppliesFnToEveryItem(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	results, errs := Map(3, items, func(n int) (int, error) {
		return n * n, nil
	})

	for i, n := range items {
		if errs[i] != nil {
			t.Fatalf("item %d: unexpected error %v", i, errs[i])
		}
		if results[i] != n*n {
			t.Errorf("item %d: expected %d, got %d", i, n*n, results[i])
		}
	}
}

// TestMapReportsPerItemErrorsWithoutAbortingBatch tests that one failing
// item doesn't prevent the others from completing.
func TestMapReportsPerItemErrorsWithoutAbortingBatch(t *testing.T) {
	items := []int{1, 2, 3}
	failing := errors.New("boom")

	results, errs := Map(2, items, func(n int) (int, error) {
		if n == 2 {
			return 0, failing
		}
		return n, nil
	})

	if errs[1] != failing {
		t.Errorf("expected item 1 to carry the injected error, got %v", errs[1])
	}
	if results[0] != 1 || results[2] != 3 {
		t.Errorf("expected unaffected items to complete, got %+v", results)
	}
}

// TestMapEmptyInput tests that Map handles an empty batch without
// deadlocking or panicking.
func TestMapEmptyInput(t *testing.T) {
	results, errs := Map(4, []int{}, func(n int) (int, error) {
		return n, nil
	})
	if len(results) != 0 || len(errs) != 0 {
		t.Errorf("expected empty results for empty input, got %+v / %+v", results, errs)
	}
}
