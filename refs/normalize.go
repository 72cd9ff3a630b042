// Package refs finds template references in text and rewrites them into the
// logical names used as keys by the template path registry.
//
// Extraction is surface pattern matching over single-quoted string literals.
// A template name built at runtime (concatenation, variables, ternaries) is
// invisible to it; no attempt is made to parse the host language.
package refs

import "regexp"

var (
	// bundlePrefix matches the "@Name/" namespace shorthand at the start of a token.
	bundlePrefix = regexp.MustCompile(`^(@)([a-zA-Z\-_]+)(/)`)

	// trailingFile matches the last path segment when it is a plain file name
	// ending in the template extension.
	trailingFile = regexp.MustCompile(`(/)([a-zA-Z\-_.]+)(twig)$`)
)

// Normalize rewrites a raw reference token into the logical template name
// format used by the registry.
//
// Rules, applied in order:
//  1. "@Name/" at the start becomes "NameBundle:"
//  2. the trailing "/file.twig" segment becomes ":file.twig"
//
// Both rules are textual substitutions. A token matching neither is returned
// unchanged; Normalize never fails. Deciding whether the result is a known
// name is the caller's job.
//
// Thread-safety: Pure function, safe for concurrent calls.
func Normalize(raw string) string {
	name := bundlePrefix.ReplaceAllString(raw, "${2}Bundle:")
	return trailingFile.ReplaceAllString(name, ":${2}${3}")
}

// NormalizeAll normalizes every token, preserving order and duplicates.
func NormalizeAll(raw []string) []string {
	if len(raw) == 0 {
		return nil
	}
	names := make([]string, len(raw))
	for i, r := range raw {
		names[i] = Normalize(r)
	}
	return names
}
