package objectstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dineshdb/ddrive/pkg/fingerprint"
	"github.com/dineshdb/ddrive/pkg/logging"
)

func testLogger() *logging.Logger {
	return logging.NewLogger(logging.LevelInfo, os.Stderr)
}

func writeSource(t *testing.T, root, name, contents string) (string, string) {
	t.Helper()
	path := filepath.Join(root, name)
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal("unable to write source file:", err)
	}
	digest, _, err := fingerprint.File(path)
	if err != nil {
		t.Fatal("unable to fingerprint source file:", err)
	}
	return path, digest
}

// TestIngestThenHas tests that a freshly-ingested object is reported
// present at the expected sharded path.
func TestIngestThenHas(t *testing.T) {
	root := t.TempDir()
	store := New(filepath.Join(root, "objects"), testLogger())

	source, digest := writeSource(t, root, "a.txt", "hello world")
	if err := store.Ingest(source, digest); err != nil {
		t.Fatal("Ingest failed:", err)
	}

	exists, err := store.Has(digest)
	if err != nil {
		t.Fatal("Has failed:", err)
	}
	if !exists {
		t.Error("expected object to exist after ingest")
	}

	path, err := store.Path(digest)
	if err != nil {
		t.Fatal("Path failed:", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected object file to exist at %q: %v", path, err)
	}
}

// TestIngestIsIdempotent tests that ingesting the same fingerprint twice
// doesn't fail, even from a different source path.
func TestIngestIsIdempotent(t *testing.T) {
	root := t.TempDir()
	store := New(filepath.Join(root, "objects"), testLogger())

	source, digest := writeSource(t, root, "a.txt", "hello world")
	if err := store.Ingest(source, digest); err != nil {
		t.Fatal("first Ingest failed:", err)
	}

	otherSource, _ := writeSource(t, root, "b.txt", "hello world")
	if err := store.Ingest(otherSource, digest); err != nil {
		t.Fatal("second Ingest failed:", err)
	}
}

// TestSweepRemovesUnreachableObjects tests that Sweep deletes objects not
// present in the reachable set, and leaves reachable ones alone.
func TestSweepRemovesUnreachableObjects(t *testing.T) {
	root := t.TempDir()
	store := New(filepath.Join(root, "objects"), testLogger())

	keptSource, keptDigest := writeSource(t, root, "keep.txt", "keep me")
	orphanSource, orphanDigest := writeSource(t, root, "orphan.txt", "orphan me")

	if err := store.Ingest(keptSource, keptDigest); err != nil {
		t.Fatal("Ingest failed:", err)
	}
	if err := store.Ingest(orphanSource, orphanDigest); err != nil {
		t.Fatal("Ingest failed:", err)
	}

	removed, err := store.Sweep(map[string]struct{}{keptDigest: {}})
	if err != nil {
		t.Fatal("Sweep failed:", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 object removed, got %d", removed)
	}

	if exists, _ := store.Has(keptDigest); !exists {
		t.Error("expected the reachable object to survive the sweep")
	}
	if exists, _ := store.Has(orphanDigest); exists {
		t.Error("expected the unreachable object to be removed")
	}
}

// TestSweepIsIdempotent tests that running Sweep twice in a row removes
// zero objects the second time.
func TestSweepIsIdempotent(t *testing.T) {
	root := t.TempDir()
	store := New(filepath.Join(root, "objects"), testLogger())

	source, digest := writeSource(t, root, "orphan.txt", "orphan me")
	if err := store.Ingest(source, digest); err != nil {
		t.Fatal("Ingest failed:", err)
	}

	if _, err := store.Sweep(nil); err != nil {
		t.Fatal("first Sweep failed:", err)
	}
	removed, err := store.Sweep(nil)
	if err != nil {
		t.Fatal("second Sweep failed:", err)
	}
	if removed != 0 {
		t.Errorf("expected second sweep to remove 0 objects, got %d", removed)
	}
}
