package dynamicfields

import (
	"regexp"
	"strings"
)

var (
	snakeWordBoundary = regexp.MustCompile(`(.)([A-Z][a-z]+)`)
	snakeLowerToUpper = regexp.MustCompile(`([a-z0-9])([A-Z])`)
)

// ToSnakeCase converts a camelCase field name to snake_case.
//
// The conversion is a two-pass substitution: first an underscore is
// inserted before any capitalized word preceded by another character,
// then before any uppercase letter that follows a lowercase letter or
// digit, and the result is lowercased. It is best-effort for names
// containing consecutive uppercase runs ("someHTTPCode" becomes
// "some_http_code") and is lossy with no inverse; it only affects query
// parameter matching, not stored data.
func ToSnakeCase(name string) string {
	s := snakeWordBoundary.ReplaceAllString(name, "${1}_${2}")
	s = snakeLowerToUpper.ReplaceAllString(s, "${1}_${2}")
	return strings.ToLower(s)
}
