package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dineshdb/ddrive/pkg/actionid"
	"github.com/dineshdb/ddrive/pkg/catalog"
	"github.com/dineshdb/ddrive/pkg/errtaxonomy"
)

func newLogCommand() *cobra.Command {
	log := &cobra.Command{
		Use:   "log",
		Short: "Inspect the append-only action history",
	}

	var limit int
	var filter string
	list := &cobra.Command{
		Use:   "list",
		Short: "List recent history entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogList(limit, filter)
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "maximum number of entries to show")
	list.Flags().StringVar(&filter, "filter", "", "limit to a single action type (add, update, delete, rename)")
	log.AddCommand(list)

	log.AddCommand(&cobra.Command{
		Use:   "show <action_id>",
		Short: "Show every history row produced by a single action",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogShow(args[0])
		},
	})

	return log
}

func runLogList(limit int, filter string) error {
	ctx, err := newCommandContext()
	if err != nil {
		return err
	}
	defer ctx.close()

	actionType := catalog.ActionType(filter)
	if filter != "" && !actionType.Valid() {
		return errtaxonomy.New(errtaxonomy.Validation, fmt.Sprintf("unknown action type %q", filter))
	}

	entries, err := ctx.catalog.History(catalog.HistoryFilter{Limit: limit, ActionType: actionType})
	if err != nil {
		return err
	}

	for _, entry := range entries {
		printHistoryEntry(entry)
	}

	return nil
}

func runLogShow(token string) error {
	ctx, err := newCommandContext()
	if err != nil {
		return err
	}
	defer ctx.close()

	id, err := actionid.Parse(token)
	if err != nil {
		return errtaxonomy.Wrap(errtaxonomy.Validation, err, "invalid action id")
	}

	entries, err := ctx.catalog.HistoryByActionID(int64(id))
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Printf("no history entries found for action %s\n", token)
		return nil
	}

	for _, entry := range entries {
		printHistoryEntry(entry)
	}

	return nil
}

func printHistoryEntry(entry catalog.HistoryRecord) {
	when := time.Unix(entry.CreatedAt, 0).Format(time.RFC3339)
	fmt.Printf("%s  %-8s %-6s %s\n", when, actionid.ActionID(entry.ActionID), entry.ActionType, entry.Path)
}
