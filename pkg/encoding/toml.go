package encoding

import (
	"github.com/BurntSushi/toml"

	"github.com/dineshdb/ddrive/pkg/logging"
)

// LoadAndUnmarshalTOML loads data from the specified path and decodes it into
// the specified structure.
func LoadAndUnmarshalTOML(path string, value interface{}) error {
	return LoadAndUnmarshal(path, func(data []byte) error {
		return toml.Unmarshal(data, value)
	})
}

// MarshalAndSaveTOML encodes value as TOML and writes it atomically to path,
// the inverse of LoadAndUnmarshalTOML.
func MarshalAndSaveTOML(path string, value interface{}, logger *logging.Logger) error {
	return MarshalAndSave(path, logger, func() ([]byte, error) {
		return toml.Marshal(value)
	})
}
