// Package scanner walks a repository's working tree and emits FileInfo
// records for every regular file it's willing to track, honoring ignore
// patterns and excluding the control directory. It never follows symbolic
// links and never touches the catalog.
package scanner

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/dineshdb/ddrive/pkg/ignore"
	"github.com/dineshdb/ddrive/pkg/logging"
	"github.com/dineshdb/ddrive/pkg/repository"
)

// Scan walks the subtree rooted at scanRoot (an absolute path inside the
// repository) and returns a FileInfo for every regular, non-ignored file
// found, with paths relative to repoRoot. Results are sorted by path so
// that scans are deterministic modulo filesystem content changes between
// invocations.
func Scan(repo *repository.Repository, scanRoot string, matcher *ignore.Matcher, logger *logging.Logger) ([]FileInfo, error) {
	controlDir := repo.ControlDir()

	var results []FileInfo

	err := filepath.WalkDir(scanRoot, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			logger.Warnf("unable to read %q: %s", path, err.Error())
			return nil
		}

		if path == controlDir {
			return filepath.SkipDir
		}

		if entry.Type()&os.ModeSymlink != 0 {
			return nil
		}

		relative, relErr := repo.NormalizeRelative(path)
		if relErr != nil {
			logger.Warnf("unable to compute relative path for %q: %s", path, relErr.Error())
			return nil
		}

		if entry.IsDir() {
			if relative != "." && matcher.Ignored(relative, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if !entry.Type().IsRegular() {
			return nil
		}

		if matcher.Ignored(relative, false) {
			return nil
		}

		info, infoErr := entry.Info()
		if infoErr != nil {
			logger.Warnf("unable to stat %q: %s", path, infoErr.Error())
			return nil
		}

		results = append(results, FileInfo{
			Path:             relative,
			Size:             info.Size(),
			ModificationTime: info.ModTime(),
			CreationTime:     creationTime(info),
			Fingerprint:      "",
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })

	return results, nil
}
