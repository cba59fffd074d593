package fsutil

import (
	"fmt"
	"os"

	"github.com/dineshdb/ddrive/pkg/logging"
	"github.com/dineshdb/ddrive/pkg/must"
)

// CloneOrCopy attempts a copy-on-write reflink of source onto destination and,
// on any failure (unsupported filesystem, cross-device source/destination,
// platform without reflink support), falls back to a full buffered copy.
// Either way the result lands at destination via a temporary-file-then-rename
// sequence, so a crash mid-write never leaves a partial destination file.
//
// CloneOrCopy does not check whether destination already exists: the final
// rename replaces any file already there. The object store's Ingest checks
// for an existing object before calling it.
func CloneOrCopy(source, destination string, permissions os.FileMode, logger *logging.Logger) error {
	if !ficloneSupported {
		return CopyFileAtomic(source, destination, permissions, logger)
	}

	in, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("unable to open source file: %w", err)
	}
	defer must.Close(in, logger)

	temporary, err := os.CreateTemp(dirOf(destination), atomicWriteTemporaryNamePrefix)
	if err != nil {
		return fmt.Errorf("unable to create temporary file: %w", err)
	}
	temporaryName := temporary.Name()

	if err := reflink(temporary, in); err != nil {
		logger.Debugf("reflink unavailable (%v), falling back to full copy", err)
		must.Close(temporary, logger)
		must.OSRemove(temporaryName, logger)
		return CopyFileAtomic(source, destination, permissions, logger)
	}

	if err := temporary.Close(); err != nil {
		must.OSRemove(temporaryName, logger)
		return fmt.Errorf("unable to close cloned file: %w", err)
	}

	if err := os.Chmod(temporaryName, permissions); err != nil {
		must.OSRemove(temporaryName, logger)
		return fmt.Errorf("unable to change file permissions: %w", err)
	}

	if err := os.Rename(temporaryName, destination); err != nil {
		must.OSRemove(temporaryName, logger)
		return fmt.Errorf("unable to rename cloned file: %w", err)
	}

	return nil
}
