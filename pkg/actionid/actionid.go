// Package actionid implements the action identifier used to group every
// catalog and history mutation produced by a single command invocation.
package actionid

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/dineshdb/ddrive/pkg/encoding"
)

// ActionID is a per-invocation identifier, a signed 64-bit Unix-seconds
// timestamp, shared by every history row and files-table mutation that a
// single command produces.
type ActionID int64

// New returns a fresh action identifier based on the current time. All
// callers within a single command invocation should call New exactly once
// and share the result.
func New(now time.Time) ActionID {
	return ActionID(now.Unix())
}

// Bytes encodes the action identifier as an 8-byte big-endian value, the
// form its Base58 display representation is built from.
func (a ActionID) Bytes() [8]byte {
	var buffer [8]byte
	binary.BigEndian.PutUint64(buffer[:], uint64(a))
	return buffer
}

// String renders the action identifier as Base58 of its 8-byte big-endian
// encoding, the form shown to users by the log command.
func (a ActionID) String() string {
	buffer := a.Bytes()
	return encoding.EncodeBase58(buffer[:])
}

// Parse decodes a Base58-rendered action identifier, the inverse of String.
// It's used by `log show <action_id>` to resolve a user-supplied token.
func Parse(text string) (ActionID, error) {
	decoded, err := encoding.DecodeBase58(text)
	if err != nil {
		return 0, fmt.Errorf("unable to decode action id: %w", err)
	}

	var buffer [8]byte
	if len(decoded) > len(buffer) {
		return 0, fmt.Errorf("action id too long")
	}
	copy(buffer[len(buffer)-len(decoded):], decoded)

	return ActionID(int64(binary.BigEndian.Uint64(buffer[:]))), nil
}
