// Package audit writes the per-page pipeline result to disk so a reviewer
// can inspect exactly what was decided for each page.
package audit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Writer persists page results as formatted JSON artifacts.
type Writer struct {
	dir string
}

// NewWriter creates a writer rooted at dir; the directory is created lazily
// on first write.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// WritePage writes the artifact for one page of a document. The file name is
// derived from the upload's base name and the 1-based page number; path
// separators in the client-supplied name are neutralized so artifacts never
// land outside the audit directory. Thai text is written readable: two-space
// indent, no HTML escaping.
func (w *Writer) WritePage(fileName string, page int, result any) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("audit: create directory: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("audit: encode result: %w", err)
	}

	base := filepath.Base(fileName)
	base = base[:len(base)-len(filepath.Ext(base))]
	path := filepath.Join(w.dir, fmt.Sprintf("%s_output_page_%d.json", base, page))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("audit: write artifact: %w", err)
	}
	return nil
}
