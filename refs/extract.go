package refs

import "regexp"

// tokenPattern matches a single-quoted literal holding a template reference.
// The first submatch is the literal's content without quotes.
var tokenPattern = regexp.MustCompile(`'(@?[\w/.:]+\.twig)'`)

// Extract returns the raw reference tokens found in text, in order of
// occurrence. Duplicates are kept; de-duplication is left to the caller.
// Text without references yields a nil slice.
func Extract(text string) []string {
	matches := tokenPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		tokens = append(tokens, m[1])
	}
	return tokens
}
