// Package pathglob implements the glob matching used by user-facing path
// filters (verify --path, dedup --path, rm tracked). Patterns operate on
// the full relative path string, not on individual path components: a bare
// "*" matches across directory separators the same as "**" would in a
// conventional glob.
package pathglob

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Match reports whether path satisfies pattern, treating every run of "*"
// as able to cross path separators.
func Match(pattern, path string) (bool, error) {
	return doublestar.Match(widenStars(pattern), path)
}

// Valid reports whether pattern parses as a well-formed glob.
func Valid(pattern string) bool {
	_, err := doublestar.Match(widenStars(pattern), "")
	return err == nil
}

// widenStars rewrites every maximal run of one or more "*" characters to
// "**", so that a single "*" matches path separators the way "**" does in
// doublestar.
func widenStars(pattern string) string {
	var builder strings.Builder
	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '*' {
			builder.WriteRune(runes[i])
			continue
		}
		for i < len(runes) && runes[i] == '*' {
			i++
		}
		i--
		builder.WriteString("**")
	}
	return builder.String()
}
