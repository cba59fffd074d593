// Package verifier re-hashes tracked files to confirm the catalog still
// matches their on-disk content, driven by a per-file re-check schedule.
package verifier

import (
	"os"
	"path/filepath"
	"time"

	"github.com/dineshdb/ddrive/pkg/catalog"
	"github.com/dineshdb/ddrive/pkg/fingerprint"
	"github.com/dineshdb/ddrive/pkg/logging"
	"github.com/dineshdb/ddrive/pkg/pathglob"
)

// mtimeTolerance is the slack applied when comparing a file's on-disk mtime
// against its catalog updated_at, accommodating filesystems with
// second-granularity modification times.
const mtimeTolerance = time.Second

// Mismatch reports a tracked file whose on-disk content no longer matches
// its catalog fingerprint.
type Mismatch struct {
	Path     string
	Expected string
	Actual   string
}

// Report aggregates the outcome of a verify sweep.
type Report struct {
	Checked    int
	Passed     int
	Failed     int
	Skipped    int
	Mismatches []Mismatch
	// Missing lists candidates whose file no longer exists on disk; these
	// fail but are reported separately from content mismatches.
	Missing []string
}

// Options configures a verify sweep.
type Options struct {
	// Force bypasses the metadata short-circuit, fingerprinting every
	// candidate regardless of whether its size/mtime still match.
	Force bool
	// PathFilter, if non-empty, is a glob (see pkg/pathglob) narrowing the
	// candidate set by path.
	PathFilter string
	// IntervalSeconds is the re-verification age threshold; candidates are
	// selected from the catalog's DueForVerify query using now -
	// IntervalSeconds as the cutoff. Ignored when Force is set (every
	// tracked file is a candidate).
	IntervalSeconds int64
}

// Verify runs a verify sweep over cat, reading files relative to repoRoot.
// now is the time to stamp last_checked with and to compute the
// re-verification cutoff from; it's a parameter (rather than time.Now())
// so that sweeps are reproducible in tests.
func Verify(repoRoot string, cat *catalog.Catalog, options Options, now time.Time, logger *logging.Logger) (Report, error) {
	candidates, err := selectCandidates(cat, options, now)
	if err != nil {
		return Report{}, err
	}

	if options.PathFilter != "" {
		filtered := candidates[:0]
		for _, record := range candidates {
			matched, err := pathglob.Match(options.PathFilter, record.Path)
			if err != nil {
				return Report{}, err
			}
			if matched {
				filtered = append(filtered, record)
			}
		}
		candidates = filtered
	}

	var report Report
	timestamp := now.Unix()

	for _, record := range candidates {
		report.Checked++

		absolute := filepath.Join(repoRoot, filepath.FromSlash(record.Path))
		info, err := os.Stat(absolute)
		if err != nil {
			report.Failed++
			report.Missing = append(report.Missing, record.Path)
			continue
		}

		if !options.Force && metadataUnchanged(info, record) {
			if err := cat.UpdateLastChecked(record.Path, timestamp); err != nil {
				return report, err
			}
			report.Passed++
			continue
		}

		digest, _, err := fingerprint.File(absolute)
		if err != nil {
			logger.Warnf("unable to fingerprint %q during verify: %s", record.Path, err.Error())
			report.Failed++
			continue
		}

		if digest == record.Fingerprint {
			if err := cat.UpdateLastChecked(record.Path, timestamp); err != nil {
				return report, err
			}
			report.Passed++
			continue
		}

		report.Failed++
		report.Mismatches = append(report.Mismatches, Mismatch{
			Path:     record.Path,
			Expected: record.Fingerprint,
			Actual:   digest,
		})
	}

	return report, nil
}

// selectCandidates resolves the candidate set per Options: every tracked
// file when forced, otherwise the catalog's due-for-verify query.
func selectCandidates(cat *catalog.Catalog, options Options, now time.Time) ([]catalog.FileRecord, error) {
	if options.Force {
		return cat.All()
	}
	cutoff := now.Unix() - options.IntervalSeconds
	return cat.DueForVerify(cutoff)
}

// metadataUnchanged reports whether a freshly-stat'd file's size and mtime
// are still consistent with the catalog record, within the verifier's
// mtime tolerance. When true, the verifier trusts the catalog without
// reading file content.
func metadataUnchanged(info os.FileInfo, record catalog.FileRecord) bool {
	if info.Size() != record.Size {
		return false
	}
	recorded := time.Unix(record.UpdatedAt, 0)
	delta := info.ModTime().Sub(recorded)
	if delta < 0 {
		delta = -delta
	}
	return delta <= mtimeTolerance
}
