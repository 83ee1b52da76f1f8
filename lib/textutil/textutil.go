package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeName prepares a unit name for comparison: upper-cased, trimmed,
// inner whitespace collapsed to a single space. Matching stays exact beyond
// that, there is no fuzzy matching.
func NormalizeName(name string) string {
	name = strings.ReplaceAll(name, "\u00a0", " ")
	name = strings.ToUpper(name)
	name = whitespaceRegex.ReplaceAllString(name, " ")
	return strings.Trim(name, " ")
}

func EqualNames(a, b string) bool {
	return NormalizeName(a) == NormalizeName(b)
}
