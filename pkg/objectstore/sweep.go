package objectstore

import (
	"os"
	"path/filepath"

	"github.com/dineshdb/ddrive/pkg/errtaxonomy"
	"github.com/dineshdb/ddrive/pkg/fingerprint"
)

// list enumerates every object file under the store's root, ignoring the
// shard directory structure, returning their fingerprints (file names).
func (s *Store) list() ([]string, error) {
	var fingerprints []string

	err := filepath.WalkDir(s.root, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == s.root {
				return filepath.SkipDir
			}
			s.logger.Warnf("unable to read %q during orphan sweep: %s", path, err.Error())
			return nil
		}
		if entry.IsDir() {
			return nil
		}
		name := entry.Name()
		if fingerprint.Valid(name) {
			fingerprints = append(fingerprints, name)
		}
		return nil
	})
	if err != nil {
		return nil, errtaxonomy.Wrap(errtaxonomy.FileSystem, err, "unable to walk object store")
	}

	return fingerprints, nil
}

// Sweep deletes every object whose fingerprint is not present in reachable,
// returning the count of objects removed. The sweep is monotone: absent
// concurrent writers, any object it deletes was already unreferenced when
// the sweep began, so running it twice in a row deletes zero the second
// time.
func (s *Store) Sweep(reachable map[string]struct{}) (int, error) {
	all, err := s.list()
	if err != nil {
		return 0, err
	}

	var removed int
	for _, fp := range all {
		if _, ok := reachable[fp]; ok {
			continue
		}
		if err := s.Remove(fp); err != nil {
			return removed, err
		}
		removed++
	}

	return removed, nil
}
