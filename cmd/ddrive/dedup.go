package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dineshdb/ddrive/pkg/dedup"
)

func newDedupCommand() *cobra.Command {
	var pathFilter string
	var reclaim bool

	command := &cobra.Command{
		Use:   "dedup",
		Short: "Find (and optionally reclaim) duplicate content among tracked files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDedup(pathFilter, reclaim)
		},
	}

	command.Flags().StringVar(&pathFilter, "path", "", "limit the scan to paths matching this glob")
	command.Flags().BoolVar(&reclaim, "reclaim", false, "replace duplicate copies with reflinks to the canonical object")

	return command
}

func runDedup(pathFilter string, reclaim bool) error {
	ctx, err := newCommandContext()
	if err != nil {
		return err
	}
	defer ctx.close()

	tracked, err := ctx.catalog.All()
	if err != nil {
		return err
	}

	groups, err := dedup.Find(tracked, pathFilter)
	if err != nil {
		return err
	}

	if len(groups) == 0 {
		fmt.Println("dedup: no duplicate content found")
		return nil
	}

	var wasted int64
	for _, group := range groups {
		wasted += group.WastedBytes()
		fmt.Printf("%s (%s wasted across %d copies)\n", group.Fingerprint, formatSize(group.WastedBytes()), len(group.Paths))
		for _, path := range group.Paths {
			fmt.Printf("  %s\n", path)
		}
	}
	fmt.Printf("dedup: %d duplicate group(s), %s reclaimable\n", len(groups), formatSize(wasted))

	if !reclaim {
		return nil
	}

	reclaimed, err := dedup.Reclaim(groups, ctx.store, ctx.repo.Root(), ctx.logger)
	if err != nil {
		return err
	}
	fmt.Printf("dedup: reclaimed %d file(s)\n", reclaimed)

	return nil
}
