// Package config loads the repository's optional TOML configuration file
// into a typed options bag with documented defaults.
package config

import (
	"os"

	"github.com/dineshdb/ddrive/pkg/encoding"
	"github.com/dineshdb/ddrive/pkg/errtaxonomy"
	"github.com/dineshdb/ddrive/pkg/logging"
)

// defaultVerifyIntervalDays is the default re-verification age threshold.
const defaultVerifyIntervalDays = 30

// defaultPruneRetentionDays is the default Delete-history retention period.
const defaultPruneRetentionDays = 90

// defaultObjectStorePath is the default object-store subdirectory, relative
// to the repository root.
const defaultObjectStorePath = ".ddrive/objects"

// General holds options that aren't specific to any one command.
type General struct {
	// Verbose enables debug logging when true.
	Verbose bool `toml:"verbose"`
}

// Verify holds options for the verify command.
type Verify struct {
	// IntervalDays is the re-verification age threshold: a file with no
	// last_checked newer than this many days is due for re-hashing.
	IntervalDays uint32 `toml:"interval_days"`
}

// Prune holds options for the prune command.
type Prune struct {
	// RetentionDays is how long Delete history rows survive before the
	// retention sweep removes them.
	RetentionDays uint32 `toml:"retention_days"`
}

// ObjectStore holds options for the content-addressed object store.
type ObjectStore struct {
	// Path is the object-store subdirectory, relative to the repository
	// root unless absolute.
	Path string `toml:"path"`
}

// Options is the full set of recognized configuration options, each with a
// documented default applied when the option (or the file itself) is
// absent.
type Options struct {
	General     General     `toml:"general"`
	Verify      Verify      `toml:"verify"`
	Prune       Prune       `toml:"prune"`
	ObjectStore ObjectStore `toml:"object_store"`
}

// Defaults returns the configuration that applies when no configuration
// file is present.
func Defaults() Options {
	return Options{
		Verify:      Verify{IntervalDays: defaultVerifyIntervalDays},
		Prune:       Prune{RetentionDays: defaultPruneRetentionDays},
		ObjectStore: ObjectStore{Path: defaultObjectStorePath},
	}
}

// Load reads the TOML configuration file at path, overlaying whatever
// options it sets onto the defaults. A missing file is not an error: the
// repository simply runs with every default.
func Load(path string) (Options, error) {
	options := Defaults()

	if err := encoding.LoadAndUnmarshalTOML(path, &options); err != nil {
		if os.IsNotExist(err) {
			return options, nil
		}
		return Options{}, errtaxonomy.Wrap(errtaxonomy.Configuration, err, "unable to load configuration")
	}

	return options, nil
}

// Save writes options to path as an editable TOML file. It's
// used by init to seed a freshly created repository with its defaults
// rather than leaving the repository to run entirely on implicit values.
func Save(path string, options Options, logger *logging.Logger) error {
	if err := encoding.MarshalAndSaveTOML(path, options, logger); err != nil {
		return errtaxonomy.Wrap(errtaxonomy.Configuration, err, "unable to save configuration")
	}
	return nil
}
