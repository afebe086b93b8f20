// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/taxonomy-tsv/pkg/types"
)

// ExportEntry is one category in an export file.
type ExportEntry struct {
	Platform types.Platform `json:"platform" yaml:"platform"`
	ID       string         `json:"category_id" yaml:"category_id"`
	Text     string         `json:"category_text" yaml:"category_text"`
}

// Entries returns every indexed category in platform and file order.
// A non-empty platform restricts the result to that platform.
func (s *Store) Entries(ctx context.Context, platform types.Platform) ([]ExportEntry, error) {
	query := `SELECT platform, category_id, category_text FROM categories`
	var args []any
	if platform != "" {
		query += ` WHERE platform = ?`
		args = append(args, string(platform))
	}
	query += ` ORDER BY platform, position`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	defer rows.Close()

	entries := []ExportEntry{}
	for rows.Next() {
		var e ExportEntry
		var p string
		if err := rows.Scan(&p, &e.ID, &e.Text); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		e.Platform = types.Platform(p)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ExportYAML writes the index to <dir>/export.yaml and returns the path.
func (s *Store) ExportYAML(ctx context.Context, platform types.Platform) (string, error) {
	entries, err := s.Entries(ctx, platform)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, "export.yaml")
	data, err := yaml.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the index to <dir>/export.json and returns the path.
func (s *Store) ExportJSON(ctx context.Context, platform types.Platform) (string, error) {
	entries, err := s.Entries(ctx, platform)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, "export.json")
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}
