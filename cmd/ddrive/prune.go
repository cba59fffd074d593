package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dineshdb/ddrive/pkg/prune"
)

func newPruneCommand() *cobra.Command {
	var reclaimDuplicates bool

	command := &cobra.Command{
		Use:   "prune",
		Short: "Purge expired history and sweep orphaned objects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrune(reclaimDuplicates)
		},
	}

	command.Flags().BoolVar(&reclaimDuplicates, "reclaim-duplicates", false, "also reclaim duplicate content while pruning")

	return command
}

func runPrune(reclaimDuplicates bool) error {
	ctx, err := newCommandContext()
	if err != nil {
		return err
	}
	defer ctx.close()

	retention := time.Duration(ctx.options.Prune.RetentionDays) * 24 * time.Hour
	cutoff := time.Now().Add(-retention).Unix()

	options := prune.Options{
		RetentionCutoff:   cutoff,
		ReclaimDuplicates: reclaimDuplicates,
	}

	report, err := prune.Prune(ctx.repo.Root(), ctx.catalog, ctx.store, options, ctx.logger)
	if err != nil {
		return err
	}

	fmt.Printf(
		"prune: %d history row(s) purged, %d orphaned object(s) removed\n",
		report.PrunedHistory, report.OrphanedObjectsDeleted,
	)
	if reclaimDuplicates {
		fmt.Printf(
			"prune: %d duplicate group(s) processed, %d file(s) reclaimed\n",
			report.DuplicateGroupsProcessed, report.DuplicateFilesReclaimed,
		)
	}

	return nil
}
