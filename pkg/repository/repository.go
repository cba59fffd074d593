// Package repository locates and initializes the control directory that
// roots a ddrive repository, and exposes the on-disk layout underneath it.
package repository

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dineshdb/ddrive/pkg/errtaxonomy"
)

const (
	// ControlDirectoryName is the reserved subdirectory at a repository's
	// root holding the catalog, object store, and configuration.
	ControlDirectoryName = ".ddrive"
	// CatalogFileName is the SQLite database file holding the catalog and
	// history tables.
	CatalogFileName = "metadata.sqlite3"
	// ObjectsDirectoryName is the subdirectory of the control directory
	// holding the content-addressed object store.
	ObjectsDirectoryName = "objects"
	// IgnoreFileName is the optional newline-delimited ignore pattern file.
	IgnoreFileName = "ignore"
	// ConfigFileName is the optional TOML configuration file.
	ConfigFileName = "config.toml"
)

// Repository is a directory tree containing a control directory. It is
// immutable once constructed: Root and the paths it derives never change
// for the lifetime of the value.
type Repository struct {
	root string
}

// Root returns the canonicalized repository root path.
func (r *Repository) Root() string {
	return r.root
}

// ControlDir returns the path to the repository's control directory.
func (r *Repository) ControlDir() string {
	return filepath.Join(r.root, ControlDirectoryName)
}

// CatalogPath returns the path to the catalog database file.
func (r *Repository) CatalogPath() string {
	return filepath.Join(r.ControlDir(), CatalogFileName)
}

// ObjectsDir returns the root of the content-addressed object store,
// honoring a non-default object_store.path configuration override when
// objectStorePath is non-empty.
func (r *Repository) ObjectsDir(objectStorePath string) string {
	if objectStorePath == "" {
		return filepath.Join(r.ControlDir(), ObjectsDirectoryName)
	}
	if filepath.IsAbs(objectStorePath) {
		return objectStorePath
	}
	return filepath.Join(r.root, objectStorePath)
}

// ObjectDir computes the sharded directory (first two, next two hex
// characters of the fingerprint) that should hold an object, without
// creating it.
func (r *Repository) ObjectDir(objectsDir, fingerprint string) (string, error) {
	if len(fingerprint) < 4 {
		return "", errtaxonomy.New(errtaxonomy.FileSystem, "fingerprint too short for sharding")
	}
	return filepath.Join(objectsDir, fingerprint[0:2], fingerprint[2:4]), nil
}

// ObjectPath computes the full path at which an object with the given
// fingerprint is stored.
func (r *Repository) ObjectPath(objectsDir, fingerprint string) (string, error) {
	dir, err := r.ObjectDir(objectsDir, fingerprint)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fingerprint), nil
}

// IgnorePath returns the path to the optional ignore file.
func (r *Repository) IgnorePath() string {
	return filepath.Join(r.ControlDir(), IgnoreFileName)
}

// ConfigPath returns the path to the optional configuration file.
func (r *Repository) ConfigPath() string {
	return filepath.Join(r.ControlDir(), ConfigFileName)
}

// catalogExists reports whether a candidate root has a populated catalog
// file directly underneath its control directory.
func catalogExists(root string) bool {
	info, err := os.Stat(filepath.Join(root, ControlDirectoryName, CatalogFileName))
	return err == nil && info.Mode().IsRegular()
}

// Discover ascends from startPath through parent directories until it finds
// one whose control directory holds a catalog file, returning a Repository
// rooted there. It fails with a Repository-category error if no ancestor
// qualifies.
func Discover(startPath string) (*Repository, error) {
	search, err := filepath.Abs(startPath)
	if err != nil {
		return nil, errtaxonomy.Wrap(errtaxonomy.FileSystem, err, "unable to resolve starting path")
	}
	search, err = filepath.EvalSymlinks(search)
	if err != nil {
		return nil, errtaxonomy.Wrap(errtaxonomy.FileSystem, err, "unable to resolve starting path")
	}

	for {
		if catalogExists(search) {
			return &Repository{root: search}, nil
		}

		parent := filepath.Dir(search)
		if parent == search {
			break
		}
		search = parent
	}

	return nil, errtaxonomy.New(errtaxonomy.Repository, "not inside a ddrive repository")
}

// Init creates an empty repository rooted at root, or returns the existing
// repository unchanged if root itself already holds a catalog. Ancestors of
// root are not consulted. Init never migrates or
// touches the catalog schema itself; callers open the catalog separately
// after Init succeeds.
func Init(root string) (*Repository, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errtaxonomy.Wrap(errtaxonomy.FileSystem, err, "unable to resolve repository root")
	}

	if catalogExists(absRoot) {
		return &Repository{root: absRoot}, nil
	}

	controlDir := filepath.Join(absRoot, ControlDirectoryName)
	if err := os.MkdirAll(controlDir, 0755); err != nil {
		return nil, errtaxonomy.Wrap(errtaxonomy.Repository, err, "unable to create control directory")
	}
	if err := os.MkdirAll(filepath.Join(controlDir, ObjectsDirectoryName), 0755); err != nil {
		return nil, errtaxonomy.Wrap(errtaxonomy.Repository, err, "unable to create object store directory")
	}

	return &Repository{root: absRoot}, nil
}

// NormalizeRelative resolves an absolute or relative path to one relative to
// the repository root, failing if the path doesn't canonicalize under the
// root. It's the shared entry point for every path the catalog accepts.
func (r *Repository) NormalizeRelative(path string) (string, error) {
	var absolute string
	if filepath.IsAbs(path) {
		absolute = path
	} else {
		absolute = filepath.Join(r.root, path)
	}

	resolved, err := filepath.Abs(absolute)
	if err != nil {
		return "", errtaxonomy.Wrap(errtaxonomy.FileSystem, err, "unable to resolve path")
	}

	relative, err := filepath.Rel(r.root, resolved)
	if err != nil {
		return "", errtaxonomy.Wrap(errtaxonomy.FileSystem, err, "unable to compute relative path")
	}
	if containsDotDot(relative) {
		return "", errtaxonomy.New(errtaxonomy.FileSystem, fmt.Sprintf("path %q lies outside the repository", path))
	}

	return filepath.ToSlash(relative), nil
}

func containsDotDot(relative string) bool {
	if relative == ".." {
		return true
	}
	prefix := ".." + string(filepath.Separator)
	return len(relative) >= len(prefix) && relative[:len(prefix)] == prefix
}
