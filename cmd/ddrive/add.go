package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/dineshdb/ddrive/pkg/actionid"
	"github.com/dineshdb/ddrive/pkg/catalog"
	"github.com/dineshdb/ddrive/pkg/detector"
	"github.com/dineshdb/ddrive/pkg/errtaxonomy"
	"github.com/dineshdb/ddrive/pkg/ignore"
	"github.com/dineshdb/ddrive/pkg/scanner"
)

func newAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <path>",
		Short: "Scan a path, ingesting new or changed files and recording renames and deletions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(args[0])
		},
	}
}

func runAdd(target string) error {
	ctx, err := newCommandContext()
	if err != nil {
		return err
	}
	defer ctx.close()

	scanRoot, err := filepath.Abs(target)
	if err != nil {
		return errtaxonomy.Wrap(errtaxonomy.FileSystem, err, "unable to resolve scan path")
	}

	scopePrefix, err := ctx.repo.NormalizeRelative(scanRoot)
	if err != nil {
		return err
	}

	matcher, err := ignore.LoadFile(ctx.repo.IgnorePath())
	if err != nil {
		return err
	}

	scanned, err := scanner.Scan(ctx.repo, scanRoot, matcher, ctx.logger)
	if err != nil {
		return err
	}

	var tracked []catalog.FileRecord
	if scopePrefix == "." {
		tracked, err = ctx.catalog.All()
	} else {
		tracked, err = ctx.catalog.ByPathPrefix(scopePrefix)
	}
	if err != nil {
		return err
	}

	result, err := detector.Detect(ctx.repo.Root(), scanned, tracked, true, ctx.logger)
	if err != nil {
		return err
	}

	now := time.Now()
	action := newActionID()

	if err := ingestAndInsert(ctx, result.New, now, action); err != nil {
		return err
	}
	if err := ingestAndUpdate(ctx, result.Changed, now, action); err != nil {
		return err
	}
	if err := applyRenames(ctx, result.Renames, now, action); err != nil {
		return err
	}
	if err := applyDeletes(ctx, result.Deleted, now, action); err != nil {
		return err
	}

	fmt.Printf(
		"add %s: %d new, %d changed, %d renamed, %d deleted\n",
		action, len(result.New), len(result.Changed), len(result.Renames), len(result.Deleted),
	)

	return nil
}

func ingestAndInsert(ctx *commandContext, files []scanner.FileInfo, now time.Time, action actionid.ActionID) error {
	if len(files) == 0 {
		return nil
	}

	records := make([]catalog.NewRecord, 0, len(files))
	for _, info := range files {
		absolute := filepath.Join(ctx.repo.Root(), filepath.FromSlash(info.Path))
		if err := ctx.store.Ingest(absolute, info.Fingerprint); err != nil {
			ctx.logger.Warnf("unable to ingest %q: %s", info.Path, err.Error())
			continue
		}
		records = append(records, catalog.NewRecord{
			Path:        info.Path,
			Fingerprint: info.Fingerprint,
			Size:        info.Size,
			Timestamp:   now.Unix(),
		})
	}

	if len(records) == 0 {
		return nil
	}
	return ctx.catalog.BatchInsert(int64(action), records)
}

func ingestAndUpdate(ctx *commandContext, files []scanner.FileInfo, now time.Time, action actionid.ActionID) error {
	if len(files) == 0 {
		return nil
	}

	records := make([]catalog.ChangedRecord, 0, len(files))
	for _, info := range files {
		if info.Fingerprint == "" {
			ctx.logger.Warnf("skipping %q: no fingerprint computed", info.Path)
			continue
		}
		absolute := filepath.Join(ctx.repo.Root(), filepath.FromSlash(info.Path))
		if err := ctx.store.Ingest(absolute, info.Fingerprint); err != nil {
			ctx.logger.Warnf("unable to ingest %q: %s", info.Path, err.Error())
			continue
		}
		records = append(records, catalog.ChangedRecord{
			Path:        info.Path,
			Fingerprint: info.Fingerprint,
			Size:        info.Size,
			Timestamp:   now.Unix(),
		})
	}

	if len(records) == 0 {
		return nil
	}
	return ctx.catalog.BatchUpdate(int64(action), records)
}

func applyRenames(ctx *commandContext, renames []detector.Rename, now time.Time, action actionid.ActionID) error {
	if len(renames) == 0 {
		return nil
	}

	pairs := make([]catalog.RenamePair, len(renames))
	for i, rename := range renames {
		pairs[i] = catalog.RenamePair{OldPath: rename.OldPath, NewPath: rename.NewPath}
	}
	return ctx.catalog.BatchRename(int64(action), pairs, now.Unix())
}

func applyDeletes(ctx *commandContext, records []catalog.FileRecord, now time.Time, action actionid.ActionID) error {
	if len(records) == 0 {
		return nil
	}

	deleted := make([]catalog.DeletedRecord, len(records))
	for i, record := range records {
		deleted[i] = catalog.DeletedRecord{Path: record.Path}
	}
	return ctx.catalog.BatchDelete(int64(action), deleted, now.Unix())
}

// formatSize renders a byte count the way status and dedup reports do.
func formatSize(size int64) string {
	return humanize.Bytes(uint64(size))
}
