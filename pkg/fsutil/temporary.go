package fsutil

const (
	// TemporaryNamePrefix is the file name prefix used for all temporary
	// files created by ddrive while staging objects or writing control files.
	// The default ignore list does not match this prefix; temporary files
	// inside the control directory stay out of scans because the scanner
	// skips that directory.
	TemporaryNamePrefix = ".ddrive-temporary-"
)
