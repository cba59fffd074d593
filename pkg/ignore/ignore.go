// Package ignore implements the ignore-pattern predicate honored by the
// scanner: a baked-in default list of VCS control directories plus whatever
// additional patterns a repository's ignore file contributes. LoadFile reads
// that file; the TOML configuration it's paired with is loaded by
// pkg/config.
package ignore

import (
	pathpkg "path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
)

// DefaultIgnores is the baked-in set of patterns applied to every scan,
// regardless of what the repository's ignore file contains.
var DefaultIgnores = []string{
	".git/",
	".svn/",
	".hg/",
	".bzr/",
	"_darcs/",
}

// pattern represents a single parsed ignore pattern.
type pattern struct {
	negated       bool
	directoryOnly bool
	matchLeaf     bool
	glob          string
}

// newPattern validates and parses a single ignore pattern line.
func newPattern(raw string) (*pattern, error) {
	if raw == "" || raw == "!" {
		return nil, errors.New("empty pattern")
	} else if raw == "/" || raw == "!/" {
		return nil, errors.New("root pattern")
	} else if raw == "//" || raw == "!//" {
		return nil, errors.New("root directory pattern")
	}

	negated := false
	if raw[0] == '!' {
		negated = true
		raw = raw[1:]
	}

	absolute := false
	if raw[0] == '/' {
		absolute = true
		raw = raw[1:]
	}

	directoryOnly := false
	if raw[len(raw)-1] == '/' {
		directoryOnly = true
		raw = raw[:len(raw)-1]
	}

	containsSlash := strings.IndexByte(raw, '/') >= 0

	if _, err := doublestar.Match(raw, "a"); err != nil {
		return nil, errors.Wrap(err, "unable to validate pattern")
	}

	return &pattern{
		negated:       negated,
		directoryOnly: directoryOnly,
		matchLeaf:     !absolute && !containsSlash,
		glob:          raw,
	}, nil
}

// matches reports whether the pattern applies to path, and if so, whether
// the match is negated (an un-ignore rule).
func (p *pattern) matches(path string, directory bool) (matched, negated bool) {
	if p.directoryOnly && !directory {
		return false, false
	}

	if match, _ := doublestar.Match(p.glob, path); match {
		return true, p.negated
	}

	if p.matchLeaf && path != "" {
		if match, _ := doublestar.Match(p.glob, pathpkg.Base(path)); match {
			return true, p.negated
		}
	}

	return false, false
}

// Valid reports whether a user-provided pattern parses successfully.
func Valid(raw string) bool {
	_, err := newPattern(raw)
	return err == nil
}

// Matcher is a parsed, ordered collection of ignore patterns.
type Matcher struct {
	patterns []*pattern
}

// New parses a list of patterns (in priority order, later patterns take
// precedence) into a Matcher. The default VCS ignores are NOT included
// automatically; callers combine them explicitly via NewWithDefaults so that
// tests exercising a bare pattern set don't have to account for them.
func New(patterns []string) (*Matcher, error) {
	parsed := make([]*pattern, 0, len(patterns))
	for _, raw := range patterns {
		p, err := newPattern(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid ignore pattern %q", raw)
		}
		parsed = append(parsed, p)
	}
	return &Matcher{patterns: parsed}, nil
}

// NewWithDefaults parses patterns and prepends DefaultIgnores, matching the
// scanner's "baked-in default list plus a user-provided ignore file"
// contract.
func NewWithDefaults(patterns []string) (*Matcher, error) {
	combined := make([]string, 0, len(DefaultIgnores)+len(patterns))
	combined = append(combined, DefaultIgnores...)
	combined = append(combined, patterns...)
	return New(combined)
}

// Ignored determines whether path (directory indicates whether it names a
// directory) should be ignored, applying patterns in order so that a later,
// more specific rule can override an earlier one.
func (m *Matcher) Ignored(path string, directory bool) bool {
	ignored := false
	for _, p := range m.patterns {
		if matched, negated := p.matches(path, directory); matched {
			ignored = !negated
		}
	}
	return ignored
}
