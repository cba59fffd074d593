// Package dedup finds tracked files sharing content (and thus a
// fingerprint) and reclaims the working-tree space they'd otherwise
// consume, by reflinking every duplicate after the first kept copy from the
// object store's canonical copy.
package dedup

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/dineshdb/ddrive/pkg/catalog"
	"github.com/dineshdb/ddrive/pkg/fsutil"
	"github.com/dineshdb/ddrive/pkg/logging"
	"github.com/dineshdb/ddrive/pkg/objectstore"
	"github.com/dineshdb/ddrive/pkg/pathglob"
)

// Group is a set of tracked paths sharing one fingerprint, with at least
// two members.
type Group struct {
	Fingerprint string
	Size        int64
	Paths       []string
}

// WastedBytes is the storage a group would reclaim if collapsed to a
// single canonical copy: every member past the first is redundant.
func (g Group) WastedBytes() int64 {
	if len(g.Paths) <= 1 {
		return 0
	}
	return g.Size * int64(len(g.Paths)-1)
}

// Find buckets records by fingerprint and returns every group with two or
// more members, optionally narrowed by a glob against path (applied before
// bucketing, so a group only needs >=2 matching members to qualify).
// Groups are sorted by wasted bytes, descending.
func Find(records []catalog.FileRecord, pathFilter string) ([]Group, error) {
	buckets := make(map[string]*Group)
	order := make([]string, 0)

	for _, record := range records {
		if pathFilter != "" {
			matched, err := pathglob.Match(pathFilter, record.Path)
			if err != nil {
				return nil, err
			}
			if !matched {
				continue
			}
		}

		group, ok := buckets[record.Fingerprint]
		if !ok {
			group = &Group{Fingerprint: record.Fingerprint, Size: record.Size}
			buckets[record.Fingerprint] = group
			order = append(order, record.Fingerprint)
		}
		group.Paths = append(group.Paths, record.Path)
	}

	var groups []Group
	for _, fp := range order {
		group := buckets[fp]
		if len(group.Paths) >= 2 {
			groups = append(groups, *group)
		}
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].WastedBytes() > groups[j].WastedBytes()
	})

	return groups, nil
}

// Reclaim collapses every duplicate group by reflinking (or copying, where
// reflink is unavailable) every member past the first from the object
// store's canonical copy, replacing the on-disk duplicate in place. It
// returns the count of files reclaimed this way. Since every member
// already shares the object store's single fingerprinted copy, reclaiming
// is purely a working-tree-space optimization; the catalog is untouched.
func Reclaim(groups []Group, store *objectstore.Store, repoRoot string, logger *logging.Logger) (int, error) {
	var reclaimed int

	for _, group := range groups {
		if len(group.Paths) < 2 {
			continue
		}

		canonical, err := store.Path(group.Fingerprint)
		if err != nil {
			return reclaimed, err
		}

		for _, path := range group.Paths[1:] {
			target := joinRepoPath(repoRoot, path)

			// The stale duplicate is removed first; the reflink-or-copy
			// that follows writes a temporary file and renames it onto
			// target, so target never holds a partial copy.
			if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
				logger.Warnf("unable to remove duplicate %q before reclaim: %s", path, err.Error())
				continue
			}

			if err := fsutil.CloneOrCopy(canonical, target, 0644, logger); err != nil {
				logger.Warnf("unable to reclaim duplicate %q: %s", path, err.Error())
				continue
			}
			reclaimed++
		}
	}

	return reclaimed, nil
}

// joinRepoPath resolves a catalog-relative (forward-slashed) path to an
// absolute, OS-native path under repoRoot.
func joinRepoPath(repoRoot, relative string) string {
	return filepath.Join(repoRoot, filepath.FromSlash(relative))
}
