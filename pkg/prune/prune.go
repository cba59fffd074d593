// Package prune joins the retention sweep, object-store orphan collection,
// and (optionally) duplicate reclaim into the single maintenance pass the
// prune command runs.
package prune

import (
	"github.com/dineshdb/ddrive/pkg/catalog"
	"github.com/dineshdb/ddrive/pkg/dedup"
	"github.com/dineshdb/ddrive/pkg/logging"
	"github.com/dineshdb/ddrive/pkg/objectstore"
)

// Options configures a prune pass.
type Options struct {
	// RetentionCutoff is the Unix-seconds action_id cutoff: Delete history
	// rows older than this are removed.
	RetentionCutoff int64
	// ReclaimDuplicates, when set, runs the duplicate reclaim pass after
	// the orphan sweep.
	ReclaimDuplicates bool
}

// Report aggregates the outcome of a prune pass.
type Report struct {
	PrunedHistory            int64
	OrphanedObjectsDeleted   int
	DuplicateGroupsProcessed int
	DuplicateFilesReclaimed  int
}

// Prune runs the retention sweep, then the object-store orphan sweep (using
// the catalog's remaining files and history fingerprints as the reachable
// set), then optionally duplicate reclaim.
func Prune(repoRoot string, cat *catalog.Catalog, store *objectstore.Store, options Options, logger *logging.Logger) (Report, error) {
	var report Report

	pruned, err := cat.CleanupHistory(catalog.ActionDelete, options.RetentionCutoff)
	if err != nil {
		return report, err
	}
	report.PrunedHistory = pruned

	reachable, err := reachableFingerprints(cat)
	if err != nil {
		return report, err
	}

	removed, err := store.Sweep(reachable)
	if err != nil {
		return report, err
	}
	report.OrphanedObjectsDeleted = removed

	if options.ReclaimDuplicates {
		records, err := cat.All()
		if err != nil {
			return report, err
		}
		groups, err := dedup.Find(records, "")
		if err != nil {
			return report, err
		}
		reclaimed, err := dedup.Reclaim(groups, store, repoRoot, logger)
		if err != nil {
			return report, err
		}
		report.DuplicateGroupsProcessed = len(groups)
		report.DuplicateFilesReclaimed = reclaimed
	}

	return report, nil
}

// reachableFingerprints computes the set of fingerprints still referenced
// by either the files table or the (post-retention) history table, the set
// an object must belong to in order to survive the orphan sweep.
func reachableFingerprints(cat *catalog.Catalog) (map[string]struct{}, error) {
	reachable := make(map[string]struct{})

	files, err := cat.All()
	if err != nil {
		return nil, err
	}
	for _, record := range files {
		reachable[record.Fingerprint] = struct{}{}
	}

	history, err := cat.History(catalog.HistoryFilter{})
	if err != nil {
		return nil, err
	}
	for _, record := range history {
		reachable[record.Fingerprint] = struct{}{}
	}

	return reachable, nil
}
