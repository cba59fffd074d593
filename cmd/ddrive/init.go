package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dineshdb/ddrive/pkg/catalog"
	"github.com/dineshdb/ddrive/pkg/config"
	"github.com/dineshdb/ddrive/pkg/repository"
)

func newInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create an empty repository in the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit()
		},
	}
}

// runInit is idempotent: it's safe to run against an already-initialized
// repository. It initializes the current directory itself; an ancestor's
// control directory is not consulted.
func runInit() error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	repo, err := repository.Init(cwd)
	if err != nil {
		return err
	}

	logger := rootLogger(false)

	cat, err := catalog.Open(repo.CatalogPath(), logger)
	if err != nil {
		return err
	}
	defer cat.Close()

	if _, statErr := os.Stat(repo.ConfigPath()); os.IsNotExist(statErr) {
		if err := config.Save(repo.ConfigPath(), config.Defaults(), logger); err != nil {
			return err
		}
	}

	fmt.Printf("Initialized ddrive repository at %s\n", repo.Root())
	return nil
}
