package detector

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dineshdb/ddrive/pkg/catalog"
	"github.com/dineshdb/ddrive/pkg/fingerprint"
	"github.com/dineshdb/ddrive/pkg/logging"
	"github.com/dineshdb/ddrive/pkg/scanner"
)

func testLogger() *logging.Logger {
	return logging.NewLogger(logging.LevelWarn, &bytes.Buffer{})
}

func writeFile(t *testing.T, root, relative, contents string) scanner.FileInfo {
	t.Helper()

	path := filepath.Join(root, relative)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal("unable to create directory:", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal("unable to write file:", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal("unable to stat file:", err)
	}

	return scanner.FileInfo{
		Path:             filepath.ToSlash(relative),
		Size:             info.Size(),
		ModificationTime: info.ModTime(),
		CreationTime:     info.ModTime(),
	}
}

// TestDetectNewFile tests that a scanned file with no catalog match is
// classified as new and, in full mode, fingerprinted.
func TestDetectNewFile(t *testing.T) {
	root := t.TempDir()
	info := writeFile(t, root, "a.txt", "hello")

	result, err := Detect(root, []scanner.FileInfo{info}, nil, true, testLogger())
	if err != nil {
		t.Fatal("Detect failed:", err)
	}

	if len(result.New) != 1 || result.New[0].Path != "a.txt" {
		t.Fatalf("expected a.txt classified as new, got %+v", result.New)
	}
	if result.New[0].Fingerprint == "" {
		t.Error("expected full mode to attach a fingerprint to new files")
	}
	if len(result.Changed) != 0 || len(result.Deleted) != 0 || len(result.Renames) != 0 {
		t.Errorf("expected only a new-file classification, got %+v", result)
	}
}

// TestDetectUnchangedFile tests that a file whose size and mtime still
// match the catalog is dropped entirely (neither new nor changed).
func TestDetectUnchangedFile(t *testing.T) {
	root := t.TempDir()
	info := writeFile(t, root, "a.txt", "hello")
	digest, size, err := fingerprint.File(filepath.Join(root, "a.txt"))
	if err != nil {
		t.Fatal("unable to fingerprint test file:", err)
	}

	tracked := []catalog.FileRecord{{
		Path:        "a.txt",
		Fingerprint: digest,
		Size:        size,
		CreatedAt:   0,
		UpdatedAt:   info.ModificationTime.Unix() + 1,
	}}

	result, err := Detect(root, []scanner.FileInfo{info}, tracked, true, testLogger())
	if err != nil {
		t.Fatal("Detect failed:", err)
	}

	if len(result.New) != 0 || len(result.Changed) != 0 || len(result.Deleted) != 0 || len(result.Renames) != 0 {
		t.Errorf("expected no classifications for an unchanged file, got %+v", result)
	}
}

// TestDetectChangedContent tests that a file whose content differs from
// the catalog (with a matching size but an advanced mtime) is classified
// as changed, with the new fingerprint attached in full mode.
func TestDetectChangedContent(t *testing.T) {
	root := t.TempDir()
	info := writeFile(t, root, "a.txt", "world")

	tracked := []catalog.FileRecord{{
		Path:        "a.txt",
		Fingerprint: "stale-fingerprint",
		Size:        info.Size,
		CreatedAt:   0,
		UpdatedAt:   info.ModificationTime.Unix() - 1,
	}}

	result, err := Detect(root, []scanner.FileInfo{info}, tracked, true, testLogger())
	if err != nil {
		t.Fatal("Detect failed:", err)
	}

	if len(result.Changed) != 1 || result.Changed[0].Path != "a.txt" {
		t.Fatalf("expected a.txt classified as changed, got %+v", result.Changed)
	}
	if result.Changed[0].Fingerprint == "stale-fingerprint" || result.Changed[0].Fingerprint == "" {
		t.Error("expected a freshly computed fingerprint on the changed entry")
	}
}

// TestDetectDeletedFile tests that a tracked path absent from the scan is
// classified as deleted.
func TestDetectDeletedFile(t *testing.T) {
	root := t.TempDir()

	tracked := []catalog.FileRecord{{Path: "gone.txt", Fingerprint: "fp", Size: 3, CreatedAt: 0, UpdatedAt: 0}}

	result, err := Detect(root, nil, tracked, true, testLogger())
	if err != nil {
		t.Fatal("Detect failed:", err)
	}

	if len(result.Deleted) != 1 || result.Deleted[0].Path != "gone.txt" {
		t.Fatalf("expected gone.txt classified as deleted, got %+v", result.Deleted)
	}
}

// TestDetectRenameFullMode tests that a moved file with unchanged content
// is paired into Renames rather than reported as a separate delete and
// add, when fingerprinting is enabled.
func TestDetectRenameFullMode(t *testing.T) {
	root := t.TempDir()
	info := writeFile(t, root, "b.txt", "hello")
	digest, size, err := fingerprint.File(filepath.Join(root, "b.txt"))
	if err != nil {
		t.Fatal("unable to fingerprint test file:", err)
	}

	tracked := []catalog.FileRecord{{
		Path:        "a.txt",
		Fingerprint: digest,
		Size:        size,
		CreatedAt:   0,
		UpdatedAt:   0,
	}}

	result, err := Detect(root, []scanner.FileInfo{info}, tracked, true, testLogger())
	if err != nil {
		t.Fatal("Detect failed:", err)
	}

	if len(result.Renames) != 1 {
		t.Fatalf("expected one rename, got %+v", result.Renames)
	}
	if result.Renames[0].OldPath != "a.txt" || result.Renames[0].NewPath != "b.txt" {
		t.Errorf("unexpected rename pairing: %+v", result.Renames[0])
	}
	if len(result.New) != 0 || len(result.Deleted) != 0 {
		t.Errorf("expected rename to consume both candidates, got new=%+v deleted=%+v", result.New, result.Deleted)
	}
}

// TestDetectRenameWithContentChangeIsNotARename tests that a move
// accompanied by a content change is reported as a delete plus an add,
// since fingerprints no longer match.
func TestDetectRenameWithContentChangeIsNotARename(t *testing.T) {
	root := t.TempDir()
	info := writeFile(t, root, "b.txt", "different contents")

	tracked := []catalog.FileRecord{{
		Path:        "a.txt",
		Fingerprint: "original-fingerprint",
		Size:        5,
		CreatedAt:   0,
		UpdatedAt:   0,
	}}

	result, err := Detect(root, []scanner.FileInfo{info}, tracked, true, testLogger())
	if err != nil {
		t.Fatal("Detect failed:", err)
	}

	if len(result.Renames) != 0 {
		t.Errorf("expected no rename when content changed, got %+v", result.Renames)
	}
	if len(result.New) != 1 || len(result.Deleted) != 1 {
		t.Errorf("expected a separate new and deleted entry, got new=%+v deleted=%+v", result.New, result.Deleted)
	}
}

// TestDetectRenameLightweightMode tests that lightweight mode pairs
// candidates sharing a (size, creation time) key without reading file
// bodies.
func TestDetectRenameLightweightMode(t *testing.T) {
	now := time.Now()

	newInfo := scanner.FileInfo{Path: "b.txt", Size: 10, CreationTime: now}
	tracked := []catalog.FileRecord{{Path: "a.txt", Fingerprint: "fp", Size: 10, CreatedAt: now.Unix()}}

	result, err := Detect(t.TempDir(), []scanner.FileInfo{newInfo}, tracked, false, testLogger())
	if err != nil {
		t.Fatal("Detect failed:", err)
	}

	if len(result.Renames) != 1 {
		t.Fatalf("expected one lightweight rename pairing, got %+v", result.Renames)
	}
	if result.Renames[0].OldPath != "a.txt" || result.Renames[0].NewPath != "b.txt" {
		t.Errorf("unexpected rename pairing: %+v", result.Renames[0])
	}
}
