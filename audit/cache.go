package audit

// contentCache memoizes file contents so a template reached many times, or
// scanned both as a source and as a reached template, is read once per run.
// A run is single-threaded; a cache is never shared between runs.
type contentCache struct {
	reader Reader
	cache  map[string]string
}

// newContentCache wraps reader with a cache.
func newContentCache(reader Reader) *contentCache {
	return &contentCache{
		reader: reader,
		cache:  make(map[string]string, 256),
	}
}

// Read returns the cached content of path, reading it on a miss.
// Errors are not cached.
func (c *contentCache) Read(path string) (string, error) {
	if v, ok := c.cache[path]; ok {
		return v, nil
	}

	v, err := c.reader.Read(path)
	if err != nil {
		return "", err
	}
	c.cache[path] = v
	return v, nil
}
