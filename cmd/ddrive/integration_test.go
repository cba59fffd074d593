package main

import (
	"os"
	"path/filepath"
	"testing"
)

// chdir switches the test process into dir for the duration of the test,
// restoring the original working directory on cleanup. Every command in
// this package discovers its repository from os.Getwd, so exercising them
// end to end requires actually changing directory.
func chdir(t *testing.T, dir string) {
	t.Helper()
	original, err := os.Getwd()
	if err != nil {
		t.Fatal("unable to read working directory:", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal("unable to change working directory:", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(original); err != nil {
			t.Fatal("unable to restore working directory:", err)
		}
	})
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

// TestAddTracksNewFiles tests that add ingests newly-scanned files into the
// catalog and object store.
func TestAddTracksNewFiles(t *testing.T) {
	root := t.TempDir()
	chdir(t, root)

	if err := runInit(); err != nil {
		t.Fatal("runInit failed:", err)
	}

	writeFile(t, root, "a.txt", "hello world")
	writeFile(t, root, "subdir/b.txt", "goodbye world")

	if err := runAdd(root); err != nil {
		t.Fatal("runAdd failed:", err)
	}

	ctx, err := newCommandContext()
	if err != nil {
		t.Fatal("newCommandContext failed:", err)
	}
	defer ctx.close()

	tracked, err := ctx.catalog.All()
	if err != nil {
		t.Fatal("All failed:", err)
	}
	if len(tracked) != 2 {
		t.Fatalf("expected 2 tracked files, got %d", len(tracked))
	}
}

// TestAddThenVerifyPasses tests that a freshly-added, untouched tree passes
// verification with --force.
func TestAddThenVerifyPasses(t *testing.T) {
	root := t.TempDir()
	chdir(t, root)

	if err := runInit(); err != nil {
		t.Fatal("runInit failed:", err)
	}
	writeFile(t, root, "a.txt", "hello world")
	if err := runAdd(root); err != nil {
		t.Fatal("runAdd failed:", err)
	}

	if err := runVerify("", true); err != nil {
		t.Fatal("runVerify failed on an untouched tree:", err)
	}
}

// TestAddThenRmTrackedUntracksFiles tests that rm tracked removes matching
// files from the catalog's current state while leaving history intact.
func TestAddThenRmTrackedUntracksFiles(t *testing.T) {
	root := t.TempDir()
	chdir(t, root)

	if err := runInit(); err != nil {
		t.Fatal("runInit failed:", err)
	}
	writeFile(t, root, "a.txt", "hello world")
	writeFile(t, root, "b.txt", "goodbye world")
	if err := runAdd(root); err != nil {
		t.Fatal("runAdd failed:", err)
	}

	if err := runRmTracked("a.txt"); err != nil {
		t.Fatal("runRmTracked failed:", err)
	}

	ctx, err := newCommandContext()
	if err != nil {
		t.Fatal("newCommandContext failed:", err)
	}
	defer ctx.close()

	tracked, err := ctx.catalog.All()
	if err != nil {
		t.Fatal("All failed:", err)
	}
	if len(tracked) != 1 || tracked[0].Path != "b.txt" {
		t.Fatalf("expected only b.txt to remain tracked, got %+v", tracked)
	}
}

// TestAddDuplicateContentIsReportedByDedup tests that two files with
// identical content are surfaced as a duplicate group.
func TestAddDuplicateContentIsReportedByDedup(t *testing.T) {
	root := t.TempDir()
	chdir(t, root)

	if err := runInit(); err != nil {
		t.Fatal("runInit failed:", err)
	}
	writeFile(t, root, "a.txt", "same content")
	writeFile(t, root, "b.txt", "same content")
	if err := runAdd(root); err != nil {
		t.Fatal("runAdd failed:", err)
	}

	if err := runDedup("", false); err != nil {
		t.Fatal("runDedup failed:", err)
	}
}

// TestLogListAfterAdd tests that add's history rows show up in log list.
func TestLogListAfterAdd(t *testing.T) {
	root := t.TempDir()
	chdir(t, root)

	if err := runInit(); err != nil {
		t.Fatal("runInit failed:", err)
	}
	writeFile(t, root, "a.txt", "hello world")
	if err := runAdd(root); err != nil {
		t.Fatal("runAdd failed:", err)
	}

	if err := runLogList(10, ""); err != nil {
		t.Fatal("runLogList failed:", err)
	}
}

// TestPruneAfterRmTrackedIsIdempotent tests that prune runs cleanly against
// a repository with an untracked-but-still-historical file.
func TestPruneAfterRmTrackedIsIdempotent(t *testing.T) {
	root := t.TempDir()
	chdir(t, root)

	if err := runInit(); err != nil {
		t.Fatal("runInit failed:", err)
	}
	writeFile(t, root, "a.txt", "hello world")
	if err := runAdd(root); err != nil {
		t.Fatal("runAdd failed:", err)
	}
	if err := runRmTracked("a.txt"); err != nil {
		t.Fatal("runRmTracked failed:", err)
	}

	if err := runPrune(false); err != nil {
		t.Fatal("runPrune failed:", err)
	}
	if err := runPrune(false); err != nil {
		t.Fatal("runPrune failed on second run:", err)
	}
}
