package report

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
)

// WriteJSON serializes v as JSON to w.
//
// If compress is true, the output is gzip-compressed.
func WriteJSON(w io.Writer, v any, compress bool) error {
	if compress {
		return writeGzipJSON(w, v)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "") // disable indent (reduces size by > 2x)

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeGzipJSON writes gzip-compressed JSON to w.
func writeGzipJSON(w io.Writer, v any) error {
	gzWriter := gzip.NewWriter(w)

	enc := json.NewEncoder(gzWriter)
	enc.SetIndent("", "")

	if err := enc.Encode(v); err != nil {
		gzWriter.Close()
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	if err := gzWriter.Close(); err != nil {
		return fmt.Errorf("failed to close gzip writer: %w", err)
	}
	return nil
}
