package encoding

import (
	"github.com/eknkc/basex"
)

const (
	// Base58Alphabet is the Bitcoin-style Base58 alphabet, which excludes
	// characters that are easily confused with each other (0/O, I/l) so that
	// action identifiers transcribe cleanly when read aloud or typed by hand.
	Base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"
)

// base58 is the Base58 encoder. It is safe for concurrent use.
var base58 *basex.Encoding

func init() {
	if encoding, err := basex.NewEncoding(Base58Alphabet); err != nil {
		panic("unable to initialize Base58 encoder")
	} else {
		base58 = encoding
	}
}

// EncodeBase58 performs Base58 encoding. It's used to render action
// identifiers (8-byte big-endian Unix timestamps) as short, copy-pasteable
// tokens for the log command.
func EncodeBase58(value []byte) string {
	return base58.Encode(value)
}

// DecodeBase58 performs Base58 decoding, the inverse of EncodeBase58.
func DecodeBase58(value string) ([]byte, error) {
	return base58.Decode(value)
}
