// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tsv reads and writes the standard two-column category table:
// a category_id/category_text header followed by one tab-separated row per
// category. Fields are written verbatim; tabs or newlines inside a category
// name are not escaped.
package tsv

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/taxonomy-tsv/pkg/types"
)

// Header is the first line of every standard TSV file, without its newline.
const Header = "category_id\tcategory_text"

// Write emits the header and one line per row to w.
func Write(w io.Writer, rows []types.Row) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(Header + "\n"); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(bw, "%s\t%s\n", r.ID, r.Text); err != nil {
			return fmt.Errorf("writing row %s: %w", r.ID, err)
		}
	}
	return bw.Flush()
}

// WriteFile writes rows to path, creating the parent directory if needed.
// An existing file is truncated.
func WriteFile(path string, rows []types.Row) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := Write(f, rows); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// Read parses a standard TSV. The first line is treated as the header and
// discarded. Blank lines, lines without a tab, and rows whose id or text is
// empty after trimming are dropped.
func Read(r io.Reader) ([]types.Row, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var rows []types.Row
	first := true
	for sc.Scan() {
		if first {
			first = false
			continue
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		id, text, ok := strings.Cut(line, "\t")
		if !ok {
			continue
		}
		id = strings.TrimSpace(id)
		text = strings.TrimSpace(text)
		if id == "" || text == "" {
			continue
		}
		rows = append(rows, types.Row{ID: id, Text: text})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading TSV: %w", err)
	}
	return rows, nil
}

// ReadFile opens path and parses it with Read.
func ReadFile(path string) ([]types.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	rows, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}
