package registry

import (
	"errors"
	"regexp"
	"strings"
)

// phpReturn finds the start of the exported array.
var phpReturn = regexp.MustCompile(`(?i)\breturn\s*(array\s*\(|\[)`)

// phpPair matches one `'key' => 'value'` element of a var_export'ed array.
// Either side may be single- or double-quoted; the value may be prefixed with
// `__DIR__ .` in which case it is relative to the artifact's directory.
var phpPair = regexp.MustCompile(
	`(?:'((?:[^'\\]|\\.)*)'|"((?:[^"\\]|\\.)*)")\s*=>\s*(__DIR__\s*\.\s*)?(?:'((?:[^'\\]|\\.)*)'|"((?:[^"\\]|\\.)*)")`,
)

var errNotPHPArray = errors.New("no returned array found")

// decodePHP extracts the string pairs of a generated `<?php return array(...);`
// file. It does not evaluate PHP; anything other than quoted keys mapped to
// quoted values is ignored.
func decodePHP(data []byte) (map[string]string, error) {
	src := string(data)
	loc := phpReturn.FindStringIndex(src)
	if loc == nil {
		return nil, errNotPHPArray
	}

	raw := make(map[string]string)
	for _, m := range phpPair.FindAllStringSubmatch(src[loc[1]:], -1) {
		key := unquotePHP(m[1], m[2])
		value := unquotePHP(m[4], m[5])
		if m[3] != "" {
			// __DIR__.'/x' is relative to the artifact; strip the leading
			// separator so Canonicalize joins it onto the base directory.
			value = strings.TrimPrefix(value, "/")
		}
		raw[key] = value
	}
	return raw, nil
}

// unquotePHP unescapes whichever of the single- or double-quoted captures
// matched. Only the escapes var_export produces are handled.
func unquotePHP(single, double string) string {
	if double != "" {
		return strings.NewReplacer(`\\`, `\`, `\"`, `"`, `\$`, `$`, `\n`, "\n", `\t`, "\t").Replace(double)
	}
	return strings.NewReplacer(`\\`, `\`, `\'`, `'`).Replace(single)
}
