package ignore

import (
	"bufio"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// LoadFile reads a newline-delimited ignore pattern file (blank lines and
// lines starting with '#' are skipped) and builds a Matcher seeded with
// DefaultIgnores. A missing file is not an error; it simply yields a
// Matcher with only the defaults.
func LoadFile(path string) (*Matcher, error) {
	patterns, err := readPatternLines(path)
	if err != nil {
		return nil, err
	}
	return NewWithDefaults(patterns)
}

func readPatternLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "unable to open ignore file")
	}
	defer file.Close()

	var patterns []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "unable to read ignore file")
	}

	return patterns, nil
}
