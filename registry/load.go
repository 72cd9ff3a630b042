package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// DefaultArtifact is where the cache warmer writes the registry, relative to
// the project root.
const DefaultArtifact = "var/cache/dev/templates.php"

// ErrRegistryMissing is returned by Load when the registry artifact does not exist.
var ErrRegistryMissing = errors.New("template registry not found")

// Load reads the registry artifact at root/artifact and canonicalizes every
// path in it. The decoder is chosen by the artifact's extension: .php, .json,
// .yaml/.yml or .toml. An absolute artifact path is used as is.
//
// Entries whose file does not exist are kept with an empty path.
func Load(root, artifact string) (Registry, error) {
	if artifact == "" {
		artifact = DefaultArtifact
	}
	path := artifact
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, artifact)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Registry{}, fmt.Errorf("%w: %s", ErrRegistryMissing, path)
		}
		return Registry{}, fmt.Errorf("read registry: %w", err)
	}

	raw, err := Decode(path, data)
	if err != nil {
		return Registry{}, fmt.Errorf("decode registry %s: %w", path, err)
	}

	return Canonicalize(raw, filepath.Dir(path)), nil
}

// Decode parses registry data according to the extension of name.
func Decode(name string, data []byte) (map[string]string, error) {
	raw := make(map[string]string)

	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".php":
		return decodePHP(data)
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &raw); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported registry format %q", ext)
	}

	return raw, nil
}
