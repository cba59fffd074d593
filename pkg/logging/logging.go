package logging

import (
	"os"
)

// RootLogger is the default logger used by the CLI entry point. Commands
// derive their subloggers from it via Sublogger so that every component's
// output shares one level and one serialized writer.
var RootLogger = NewLogger(LevelInfo, os.Stderr)

// SetVerbose reconfigures RootLogger's level according to the
// general.verbose configuration option, enabling LevelDebug output.
func SetVerbose(verbose bool) {
	if verbose {
		RootLogger.level = LevelDebug
	} else {
		RootLogger.level = LevelInfo
	}
}
