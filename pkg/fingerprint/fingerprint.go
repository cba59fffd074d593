// Package fingerprint computes BLAKE3 content fingerprints for files, both
// one at a time and in a parallel fan-out over a batch of paths.
package fingerprint

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// streamBufferSize is the read buffer size used when streaming a file
// through the hash. 8 KiB balances syscall overhead against memory use for
// the common case of many small tracked files.
const streamBufferSize = 8192

// Length is the number of lowercase hex characters in a fingerprint (32
// BLAKE3 digest bytes, hex-encoded).
const Length = 64

// File streams the file at path through BLAKE3 and returns its fingerprint
// as 64 lowercase hex characters, along with the byte count read.
func File(path string) (string, int64, error) {
	handle, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("unable to open file: %w", err)
	}
	defer handle.Close()

	hasher := blake3.New()
	buffer := make([]byte, streamBufferSize)
	size, err := io.CopyBuffer(hasher, handle, buffer)
	if err != nil {
		return "", 0, fmt.Errorf("unable to read file: %w", err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), size, nil
}

// Valid reports whether candidate looks like a well-formed fingerprint: 64
// lowercase hex characters.
func Valid(candidate string) bool {
	if len(candidate) != Length {
		return false
	}
	for _, r := range candidate {
		if !((r >= '0' && r <= '9') || (r >= 'a' && r <= 'f')) {
			return false
		}
	}
	return true
}
