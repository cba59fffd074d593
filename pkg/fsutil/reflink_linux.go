package fsutil

import (
	"os"

	"golang.org/x/sys/unix"
)

// ficloneSupported indicates that this platform exposes a reflink ioctl that
// reflink can attempt. It does not guarantee that the underlying filesystem
// supports copy-on-write clones; unsupported filesystems still return an
// error from the ioctl, which the caller treats as a fallback signal.
const ficloneSupported = true

// reflink attempts a copy-on-write clone of source onto an already-created,
// empty destination file descriptor using the Linux FICLONE ioctl. It returns
// an error (never panicking) on any filesystem that doesn't support the
// operation (e.g. cross-device, tmpfs, non-CoW filesystems), leaving it to
// the caller to fall back to a full copy.
func reflink(destination *os.File, source *os.File) error {
	return unix.IoctlFileClone(int(destination.Fd()), int(source.Fd()))
}
