// Package detector diffs a scanner pass against the catalog's tracked
// state, producing the new/changed/deleted/renamed sets that drive the add
// command's catalog and object-store writes.
package detector

import (
	"path/filepath"

	"github.com/dineshdb/ddrive/pkg/catalog"
	"github.com/dineshdb/ddrive/pkg/fingerprint"
	"github.com/dineshdb/ddrive/pkg/logging"
	"github.com/dineshdb/ddrive/pkg/scanner"
)

// Rename pairs one deleted tracked path with one new scanned path inferred
// to be the same file moved or renamed. Fingerprint and Size are carried
// over from the deleted record unchanged.
type Rename struct {
	OldPath     string
	NewPath     string
	Fingerprint string
	Size        int64
}

// Result is the four-way partition the change detector produces. New and
// Changed entries carry a populated Fingerprint only when the detector ran
// in full (checksum) mode; lightweight mode leaves it empty.
type Result struct {
	New     []scanner.FileInfo
	Changed []scanner.FileInfo
	Deleted []catalog.FileRecord
	Renames []Rename
}

// renameKey is the lightweight-mode rename bucketing key: (size,
// creation-time-seconds). Two unrelated files sharing both can produce a
// false pairing; this is accepted in lightweight mode (see Detect's
// documentation).
type renameKey struct {
	size    int64
	created int64
}

// Detect diffs scanned (the current scanner pass, across some subtree of
// the repository) against tracked (the catalog's FileRecords for the same
// subtree), returning the new/changed/deleted/renamed partition.
//
// In full mode (useChecksums), every potentially-changed file is
// fingerprinted to confirm its content actually differs, and rename
// detection buckets by fingerprint (unambiguous: a shared fingerprint and
// size means the same content moved). In lightweight mode, no file bodies
// are read: changed is assumed from the size/mtime mismatch alone, and
// rename detection buckets by (size, creation time) instead, which can
// mispair two unrelated files that happen to share both. repoRoot is used
// to resolve scanned paths (relative, forward-slashed) to absolute paths
// for hashing.
func Detect(repoRoot string, scanned []scanner.FileInfo, tracked []catalog.FileRecord, useChecksums bool, logger *logging.Logger) (Result, error) {
	trackedByPath := make(map[string]catalog.FileRecord, len(tracked))
	for _, record := range tracked {
		trackedByPath[record.Path] = record
	}

	scannedByPath := make(map[string]struct{}, len(scanned))
	for _, info := range scanned {
		scannedByPath[info.Path] = struct{}{}
	}

	var candidateDeleted []catalog.FileRecord
	for _, record := range tracked {
		if _, ok := scannedByPath[record.Path]; !ok {
			candidateDeleted = append(candidateDeleted, record)
		}
	}

	var candidateNew, changed []scanner.FileInfo
	for _, info := range scanned {
		record, ok := trackedByPath[info.Path]
		if !ok {
			candidateNew = append(candidateNew, info)
			continue
		}

		if info.Size == record.Size && info.ModificationTime.Unix() <= record.UpdatedAt {
			continue
		}

		if !useChecksums {
			changed = append(changed, info)
			continue
		}

		digest, _, err := fingerprint.File(filepath.Join(repoRoot, filepath.FromSlash(info.Path)))
		if err != nil {
			logger.Warnf("unable to fingerprint %q: %s", info.Path, err.Error())
			continue
		}
		if digest == record.Fingerprint {
			continue
		}
		info.Fingerprint = digest
		changed = append(changed, info)
	}

	var renames []Rename
	if useChecksums {
		candidateNew, candidateDeleted, renames = detectRenamesByFingerprint(repoRoot, candidateNew, candidateDeleted, logger)
	} else {
		candidateNew, candidateDeleted, renames = detectRenamesByKey(candidateNew, candidateDeleted)
	}

	return Result{
		New:     candidateNew,
		Changed: changed,
		Deleted: candidateDeleted,
		Renames: renames,
	}, nil
}

// detectRenamesByFingerprint fingerprints every candidate-new file (the fan
// out is shared with the caller's eventual object-store ingest, since the
// fingerprint is attached to the returned FileInfo) and pairs deleted/new
// entries sharing both fingerprint and size.
func detectRenamesByFingerprint(repoRoot string, candidateNew []scanner.FileInfo, candidateDeleted []catalog.FileRecord, logger *logging.Logger) ([]scanner.FileInfo, []catalog.FileRecord, []Rename) {
	paths := make([]string, len(candidateNew))
	for i, info := range candidateNew {
		paths[i] = filepath.Join(repoRoot, filepath.FromSlash(info.Path))
	}
	results := fingerprint.Batch(paths, logger)

	byPath := make(map[string]fingerprint.Result, len(results))
	for _, result := range results {
		byPath[result.Path] = result
	}

	fingerprinted := make([]scanner.FileInfo, 0, len(candidateNew))
	for _, info := range candidateNew {
		abs := filepath.Join(repoRoot, filepath.FromSlash(info.Path))
		if result, ok := byPath[abs]; ok {
			info.Fingerprint = result.Fingerprint
			info.Size = result.Size
		}
		fingerprinted = append(fingerprinted, info)
	}

	deletedBuckets := make(map[string][]catalog.FileRecord)
	for _, record := range candidateDeleted {
		if record.Fingerprint == "" {
			continue
		}
		deletedBuckets[record.Fingerprint] = append(deletedBuckets[record.Fingerprint], record)
	}

	pairedDeleted := make(map[string]bool)
	var renames []Rename
	var remainingNew []scanner.FileInfo

	for _, info := range fingerprinted {
		if info.Fingerprint == "" {
			remainingNew = append(remainingNew, info)
			continue
		}

		matched := false
		for _, candidate := range deletedBuckets[info.Fingerprint] {
			if pairedDeleted[candidate.Path] {
				continue
			}
			if candidate.Size != info.Size {
				continue
			}
			renames = append(renames, Rename{
				OldPath:     candidate.Path,
				NewPath:     info.Path,
				Fingerprint: candidate.Fingerprint,
				Size:        candidate.Size,
			})
			pairedDeleted[candidate.Path] = true
			matched = true
			break
		}
		if !matched {
			remainingNew = append(remainingNew, info)
		}
	}

	var remainingDeleted []catalog.FileRecord
	for _, record := range candidateDeleted {
		if !pairedDeleted[record.Path] {
			remainingDeleted = append(remainingDeleted, record)
		}
	}

	return remainingNew, remainingDeleted, renames
}

// detectRenamesByKey pairs deleted/new entries sharing a (size,
// creation-time) key, without reading any file bodies. This can misattach
// unrelated files with coincidentally matching size and creation time; it
// exists to let lightweight (status) mode estimate renames without the
// cost of hashing.
func detectRenamesByKey(candidateNew []scanner.FileInfo, candidateDeleted []catalog.FileRecord) ([]scanner.FileInfo, []catalog.FileRecord, []Rename) {
	deletedBuckets := make(map[renameKey][]catalog.FileRecord)
	for _, record := range candidateDeleted {
		key := renameKey{size: record.Size, created: record.CreatedAt}
		deletedBuckets[key] = append(deletedBuckets[key], record)
	}

	pairedDeleted := make(map[string]bool)
	var renames []Rename
	var remainingNew []scanner.FileInfo

	for _, info := range candidateNew {
		key := renameKey{size: info.Size, created: info.CreationTime.Unix()}

		matched := false
		for _, candidate := range deletedBuckets[key] {
			if pairedDeleted[candidate.Path] {
				continue
			}
			renames = append(renames, Rename{
				OldPath:     candidate.Path,
				NewPath:     info.Path,
				Fingerprint: candidate.Fingerprint,
				Size:        candidate.Size,
			})
			pairedDeleted[candidate.Path] = true
			matched = true
			break
		}
		if !matched {
			remainingNew = append(remainingNew, info)
		}
	}

	var remainingDeleted []catalog.FileRecord
	for _, record := range candidateDeleted {
		if !pairedDeleted[record.Path] {
			remainingDeleted = append(remainingDeleted, record)
		}
	}

	return remainingNew, remainingDeleted, renames
}
