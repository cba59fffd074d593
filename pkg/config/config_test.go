package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/dineshdb/ddrive/pkg/logging"
)

// TestLoadMissingFileUsesDefaults tests that loading a nonexistent
// configuration file returns the documented defaults rather than failing.
func TestLoadMissingFileUsesDefaults(t *testing.T) {
	options, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatal("Load failed on a missing file:", err)
	}

	defaults := Defaults()
	if options != defaults {
		t.Errorf("expected defaults for a missing config file, got %+v", options)
	}
}

// TestLoadOverlaysOntoDefaults tests that a configuration file setting only
// some options leaves the rest at their defaults.
func TestLoadOverlaysOntoDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	contents := "[general]\nverbose = true\n\n[verify]\ninterval_days = 7\n"
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal("unable to write test config:", err)
	}

	options, err := Load(path)
	if err != nil {
		t.Fatal("Load failed:", err)
	}

	if !options.General.Verbose {
		t.Error("expected general.verbose to be overridden to true")
	}
	if options.Verify.IntervalDays != 7 {
		t.Errorf("expected verify.interval_days overridden to 7, got %d", options.Verify.IntervalDays)
	}
	if options.Prune.RetentionDays != defaultPruneRetentionDays {
		t.Errorf("expected prune.retention_days to remain at its default, got %d", options.Prune.RetentionDays)
	}
	if options.ObjectStore.Path != defaultObjectStorePath {
		t.Errorf("expected object_store.path to remain at its default, got %q", options.ObjectStore.Path)
	}
}

// TestSaveThenLoadRoundTrips tests that Save writes a configuration file
// that Load reads back unchanged.
func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	logger := logging.NewLogger(logging.LevelWarn, &bytes.Buffer{})

	original := Defaults()
	original.General.Verbose = true
	original.Verify.IntervalDays = 14

	if err := Save(path, original, logger); err != nil {
		t.Fatal("Save failed:", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal("Load failed:", err)
	}
	if loaded != original {
		t.Errorf("expected Load to reproduce the saved options, got %+v want %+v", loaded, original)
	}
}
