package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dineshdb/ddrive/pkg/catalog"
	"github.com/dineshdb/ddrive/pkg/errtaxonomy"
	"github.com/dineshdb/ddrive/pkg/pathglob"
)

func newRmCommand() *cobra.Command {
	rm := &cobra.Command{
		Use:   "rm",
		Short: "Stop tracking files, or forget deleted files from the catalog",
	}

	rm.AddCommand(&cobra.Command{
		Use:   "tracked <glob>",
		Short: "Untrack currently-tracked files matching a path glob",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRmTracked(args[0])
		},
	})

	rm.AddCommand(&cobra.Command{
		Use:   "deleted [<glob>]",
		Short: "Forget already-deleted files from the catalog, optionally limited to a glob",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := ""
			if len(args) == 1 {
				pattern = args[0]
			}
			return runRmDeleted(pattern)
		},
	})

	return rm
}

// runRmTracked untracks every currently-tracked file matching pattern,
// recording a Delete history row for each: the file itself is left on disk,
// only the catalog forgets it.
func runRmTracked(pattern string) error {
	ctx, err := newCommandContext()
	if err != nil {
		return err
	}
	defer ctx.close()

	if !pathglob.Valid(pattern) {
		return errtaxonomy.New(errtaxonomy.IgnorePattern, fmt.Sprintf("invalid glob pattern %q", pattern))
	}

	tracked, err := ctx.catalog.All()
	if err != nil {
		return err
	}

	var matched []catalog.DeletedRecord
	for _, record := range tracked {
		ok, err := pathglob.Match(pattern, record.Path)
		if err != nil {
			return errtaxonomy.Wrap(errtaxonomy.IgnorePattern, err, "unable to evaluate glob pattern")
		}
		if ok {
			matched = append(matched, catalog.DeletedRecord{Path: record.Path})
		}
	}

	if len(matched) == 0 {
		fmt.Println("no tracked files matched")
		return nil
	}

	action := newActionID()
	if err := ctx.catalog.BatchDelete(int64(action), matched, time.Now().Unix()); err != nil {
		return err
	}

	fmt.Printf("rm tracked %s: untracked %d file(s)\n", action, len(matched))
	return nil
}

// runRmDeleted purges the history rows of files that are no longer tracked,
// optionally limited to paths matching pattern. Unlike prune's retention
// sweep, this is an explicit, unconditional purge requested by the user.
func runRmDeleted(pattern string) error {
	ctx, err := newCommandContext()
	if err != nil {
		return err
	}
	defer ctx.close()

	if pattern != "" && !pathglob.Valid(pattern) {
		return errtaxonomy.New(errtaxonomy.IgnorePattern, fmt.Sprintf("invalid glob pattern %q", pattern))
	}

	history, err := ctx.catalog.History(catalog.HistoryFilter{ActionType: catalog.ActionDelete})
	if err != nil {
		return err
	}

	tracked, err := ctx.catalog.All()
	if err != nil {
		return err
	}
	stillTracked := make(map[string]bool, len(tracked))
	for _, record := range tracked {
		stillTracked[record.Path] = true
	}

	seen := make(map[string]bool)
	var removed int64
	for _, entry := range history {
		if stillTracked[entry.Path] || seen[entry.Path] {
			continue
		}
		if pattern != "" {
			ok, err := pathglob.Match(pattern, entry.Path)
			if err != nil {
				return errtaxonomy.Wrap(errtaxonomy.IgnorePattern, err, "unable to evaluate glob pattern")
			}
			if !ok {
				continue
			}
		}
		seen[entry.Path] = true

		affected, err := ctx.catalog.ForgetDeletedPath(entry.Path)
		if err != nil {
			return err
		}
		removed += affected
	}

	fmt.Printf("rm deleted: forgot %d deleted file record(s)\n", removed)
	return nil
}
