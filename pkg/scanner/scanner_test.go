package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dineshdb/ddrive/pkg/ignore"
	"github.com/dineshdb/ddrive/pkg/logging"
	"github.com/dineshdb/ddrive/pkg/repository"
)

func testLogger() *logging.Logger {
	return logging.NewLogger(logging.LevelInfo, os.Stderr)
}

func writeFile(t *testing.T, root, relative, contents string) {
	t.Helper()
	path := filepath.Join(root, relative)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal("unable to create parent directory:", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal("unable to write test file:", err)
	}
}

// TestScanFindsRegularFilesSortedByPath tests that Scan returns every
// regular file under the root, sorted deterministically by path.
func TestScanFindsRegularFilesSortedByPath(t *testing.T) {
	root := t.TempDir()
	repo, err := repository.Init(root)
	if err != nil {
		t.Fatal("Init failed:", err)
	}

	writeFile(t, root, "b.txt", "b")
	writeFile(t, root, "a.txt", "a")
	writeFile(t, root, "sub/c.txt", "c")

	matcher, err := ignore.NewWithDefaults(nil)
	if err != nil {
		t.Fatal("NewWithDefaults failed:", err)
	}

	results, err := Scan(repo, root, matcher, testLogger())
	if err != nil {
		t.Fatal("Scan failed:", err)
	}

	if len(results) != 3 {
		t.Fatalf("expected 3 files, got %d: %+v", len(results), results)
	}
	expected := []string{"a.txt", "b.txt", "sub/c.txt"}
	for i, path := range expected {
		if results[i].Path != path {
			t.Errorf("expected result %d to be %q, got %q", i, path, results[i].Path)
		}
	}
}

// TestScanExcludesControlDirectory tests that the repository's own control
// directory is never walked into.
func TestScanExcludesControlDirectory(t *testing.T) {
	root := t.TempDir()
	repo, err := repository.Init(root)
	if err != nil {
		t.Fatal("Init failed:", err)
	}
	writeFile(t, root, "tracked.txt", "hello")

	matcher, err := ignore.NewWithDefaults(nil)
	if err != nil {
		t.Fatal("NewWithDefaults failed:", err)
	}

	results, err := Scan(repo, root, matcher, testLogger())
	if err != nil {
		t.Fatal("Scan failed:", err)
	}

	for _, result := range results {
		if result.Path == "metadata.sqlite3" || result.Path == ".ddrive/metadata.sqlite3" {
			t.Errorf("expected control directory contents to be excluded, found %q", result.Path)
		}
	}
}

// TestScanHonorsIgnorePatterns tests that a matched ignore pattern excludes
// a file from the scan.
func TestScanHonorsIgnorePatterns(t *testing.T) {
	root := t.TempDir()
	repo, err := repository.Init(root)
	if err != nil {
		t.Fatal("Init failed:", err)
	}
	writeFile(t, root, "keep.txt", "keep")
	writeFile(t, root, "skip.log", "skip")

	matcher, err := ignore.NewWithDefaults([]string{"*.log"})
	if err != nil {
		t.Fatal("NewWithDefaults failed:", err)
	}

	results, err := Scan(repo, root, matcher, testLogger())
	if err != nil {
		t.Fatal("Scan failed:", err)
	}

	if len(results) != 1 || results[0].Path != "keep.txt" {
		t.Fatalf("expected only keep.txt, got %+v", results)
	}
}
