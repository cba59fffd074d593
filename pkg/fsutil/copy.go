package fsutil

import "io"

// copyBufferSize matches the buffer size used by the fingerprint engine so
// that a fallback copy and a hashing pass touch pages in similarly-sized
// chunks.
const copyBufferSize = 8192

func copyBuffered(dst io.Writer, src io.Reader) (int64, error) {
	buffer := make([]byte, copyBufferSize)
	return io.CopyBuffer(dst, src, buffer)
}
