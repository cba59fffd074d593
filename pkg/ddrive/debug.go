package ddrive

import (
	"os"
)

// DebugEnabled controls whether or not verbose debug logging is enabled. It
// mirrors the general.verbose configuration option but can also be forced on
// via the DDRIVE_DEBUG environment variable, which is convenient when
// diagnosing issues in a repository whose config.toml can't be edited.
var DebugEnabled bool

func init() {
	DebugEnabled = os.Getenv("DDRIVE_DEBUG") == "1"
}
