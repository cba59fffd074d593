package ddrive

import (
	"fmt"
)

const (
	// VersionMajor represents the current major version of ddrive.
	VersionMajor = 0
	// VersionMinor represents the current minor version of ddrive.
	VersionMinor = 1
	// VersionPatch represents the current patch version of ddrive.
	VersionPatch = 0
)

// Version is the full dotted version string for the running binary.
var Version string

func init() {
	Version = fmt.Sprintf("%d.%d.%d", VersionMajor, VersionMinor, VersionPatch)
}
