package fingerprint

import (
	"github.com/dineshdb/ddrive/pkg/logging"
	"github.com/dineshdb/ddrive/pkg/parallel"
)

// Result is one entry of a batch fingerprinting operation: the absolute path
// that was hashed, its fingerprint, and its size in bytes.
type Result struct {
	Path        string
	Fingerprint string
	Size        int64
}

// Batch fingerprints every path in paths using a work-stealing pool sized to
// the available cores. A failure on one file is logged and that file is
// dropped from the result; it does not abort the rest of the batch.
func Batch(paths []string, logger *logging.Logger) []Result {
	type outcome struct {
		result Result
		ok     bool
	}

	outcomes, _ := parallel.Map(0, paths, func(path string) (outcome, error) {
		digest, size, err := File(path)
		if err != nil {
			logger.Warnf("unable to fingerprint %q: %s", path, err.Error())
			return outcome{}, nil
		}
		return outcome{result: Result{Path: path, Fingerprint: digest, Size: size}, ok: true}, nil
	})

	results := make([]Result, 0, len(outcomes))
	for _, o := range outcomes {
		if o.ok {
			results = append(results, o.result)
		}
	}
	return results
}
