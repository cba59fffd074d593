// Command ddrive is a local backup-health monitor: it tracks a directory
// tree in a content-addressed object store and a SQL catalog, detecting
// changes and renames, re-verifying content over time, and reclaiming
// duplicate and orphaned storage.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dineshdb/ddrive/pkg/ddrive"
	"github.com/dineshdb/ddrive/pkg/errtaxonomy"
	"github.com/dineshdb/ddrive/pkg/logging"
)

var verbose bool

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "ddrive",
		Short:         "Track and verify the health of a local backup tree",
		Version:       ddrive.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newInitCommand())
	root.AddCommand(newAddCommand())
	root.AddCommand(newRmCommand())
	root.AddCommand(newVerifyCommand())
	root.AddCommand(newDedupCommand())
	root.AddCommand(newStatusCommand())
	root.AddCommand(newPruneCommand())
	root.AddCommand(newLogCommand())

	return root
}

// rootLogger reconfigures logging.RootLogger's level, honoring --verbose and
// the general.verbose configuration option (whichever enables debug
// output), and returns it for commands to derive subloggers from.
func rootLogger(configVerbose bool) *logging.Logger {
	logging.SetVerbose(verbose || configVerbose || ddrive.DebugEnabled)
	return logging.RootLogger
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error:"), err)
		os.Exit(errtaxonomy.CategoryOf(err).ExitCode())
	}
}
