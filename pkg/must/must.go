package must

import (
	"io"
	"os"

	"github.com/dineshdb/ddrive/pkg/logging"
)

// Close invokes Close on the given closer and logs a warning rather than
// propagating a failure. It's used in defer statements where a close error
// can't sensibly change the outcome of the enclosing operation.
func Close(c io.Closer, logger *logging.Logger) {
	if err := c.Close(); err != nil {
		logger.Warnf("unable to close: %s", err.Error())
	}
}

// OSRemove removes the named file and logs a warning on failure.
func OSRemove(name string, logger *logging.Logger) {
	if err := os.Remove(name); err != nil {
		logger.Warnf("unable to remove '%s': %s", name, err.Error())
	}
}

// OSRemoveAll removes the named path (recursively, if a directory) and logs a
// warning on failure.
func OSRemoveAll(path string, logger *logging.Logger) {
	if err := os.RemoveAll(path); err != nil {
		logger.Warnf("unable to remove '%s': %s", path, err.Error())
	}
}
