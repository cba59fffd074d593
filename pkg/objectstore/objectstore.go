// Package objectstore implements the content-addressed, fingerprint-keyed
// object store under a repository's control directory: objects/xx/yy/<fp>.
// Ingest is copy-on-write-or-copy and idempotent; orphan collection is
// driven by a caller-supplied set of reachable fingerprints.
package objectstore

import (
	"os"
	"path/filepath"

	"github.com/dineshdb/ddrive/pkg/errtaxonomy"
	"github.com/dineshdb/ddrive/pkg/fingerprint"
	"github.com/dineshdb/ddrive/pkg/fsutil"
	"github.com/dineshdb/ddrive/pkg/logging"
)

// permissions is the mode objects are written with. Objects are
// content-addressed and never modified in place, so read-only for the
// owner (plus write so the owner can still delete/replace the shard) is
// sufficient.
const permissions os.FileMode = 0600

// Store roots a content-addressed object store at a directory (normally
// repository.ObjectsDir(...)).
type Store struct {
	root   string
	logger *logging.Logger
}

// New creates a Store rooted at root. It does not create the directory;
// repository.Init creates the default object directory, Ingest creates shard
// directories as needed, and EnsureRoot creates the root explicitly.
func New(root string, logger *logging.Logger) *Store {
	return &Store{root: root, logger: logger.Sublogger("objectstore")}
}

// EnsureRoot creates the object store's root directory if it doesn't exist.
func (s *Store) EnsureRoot() error {
	if err := os.MkdirAll(s.root, 0755); err != nil {
		return errtaxonomy.Wrap(errtaxonomy.FileSystem, err, "unable to create object store root")
	}
	return nil
}

// shardDir computes the "xx/yy" shard directory for a fingerprint.
func shardDir(root, fp string) string {
	return filepath.Join(root, fp[0:2], fp[2:4])
}

// Path computes the full path at which an object with the given fingerprint
// is or would be stored.
func (s *Store) Path(fp string) (string, error) {
	if !fingerprint.Valid(fp) {
		return "", errtaxonomy.New(errtaxonomy.Checksum, "invalid fingerprint")
	}
	return filepath.Join(shardDir(s.root, fp), fp), nil
}

// Has reports whether an object with the given fingerprint is already
// present.
func (s *Store) Has(fp string) (bool, error) {
	path, err := s.Path(fp)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errtaxonomy.Wrap(errtaxonomy.IO, err, "unable to stat object")
	}
	return info.Mode().IsRegular(), nil
}

// Ingest copies (via reflink where possible) source into the object store
// under fingerprint fp. It is idempotent: content-addressing guarantees that
// whatever is already at the target path is canonical for that fingerprint,
// so when the Has check below finds the object present, a second ingest of
// the same content (even from a different source path) is a silent no-op that
// leaves the existing object untouched. Two concurrent ingests of the same
// fingerprint each write to a distinct temporary file; if both pass the Has
// check, both renames succeed and the later one replaces the object with
// identical content.
func (s *Store) Ingest(source, fp string) error {
	target, err := s.Path(fp)
	if err != nil {
		return err
	}

	if exists, err := s.Has(fp); err != nil {
		return err
	} else if exists {
		return nil
	}

	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errtaxonomy.Wrap(errtaxonomy.FileSystem, err, "unable to create object shard directory")
	}

	if err := fsutil.CloneOrCopy(source, target, permissions, s.logger); err != nil {
		if os.IsExist(err) {
			return nil
		}
		return errtaxonomy.Wrap(errtaxonomy.FileSystem, err, "unable to ingest object")
	}

	return nil
}

// Open opens the object for fp for reading, e.g. to reclaim a duplicate via
// reflink from a canonical kept copy.
func (s *Store) Open(fp string) (*os.File, error) {
	path, err := s.Path(fp)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, errtaxonomy.Wrap(errtaxonomy.IO, err, "unable to open object")
	}
	return file, nil
}

// Remove deletes the object for fp. It's only ever called by the orphan
// sweep.
func (s *Store) Remove(fp string) error {
	path, err := s.Path(fp)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errtaxonomy.Wrap(errtaxonomy.FileSystem, err, "unable to remove object")
	}
	return nil
}
