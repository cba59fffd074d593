//go:build !linux

package fsutil

import (
	"errors"
	"os"
)

// ficloneSupported is false on platforms where we have no reflink ioctl
// wired up; CloneOrCopy always falls back to a full copy there.
const ficloneSupported = false

func reflink(destination *os.File, source *os.File) error {
	return errors.New("reflink not supported on this platform")
}
