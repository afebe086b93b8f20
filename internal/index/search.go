// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/pdiddy/taxonomy-tsv/pkg/types"
)

// SearchOptions holds parameters for a category search.
type SearchOptions struct {
	// Text is free product text. Every word is matched independently.
	Text string

	// Platform restricts results to one platform. Empty searches all.
	Platform types.Platform

	// Limit caps the result count. Zero uses the store default.
	Limit int
}

// SearchResult is a category matched by a search, best match first.
type SearchResult struct {
	Platform types.Platform `json:"platform" yaml:"platform"`
	ID       string         `json:"category_id" yaml:"category_id"`
	Text     string         `json:"category_text" yaml:"category_text"`

	// Score is the negated FTS5 bm25 rank; higher is more relevant.
	Score float64 `json:"score" yaml:"score"`
}

// Search ranks categories against opts.Text with FTS5.
func (s *Store) Search(ctx context.Context, opts SearchOptions) ([]SearchResult, error) {
	match := matchExpr(opts.Text)
	if match == "" {
		return nil, errors.New("search text required")
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = s.limit
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT c.platform, c.category_id, c.category_text, categories_fts.rank
		FROM categories_fts
		JOIN categories c ON c.rowid = categories_fts.rowid
		WHERE categories_fts MATCH ?`)
	args = append(args, match)

	if opts.Platform != "" {
		qb.WriteString(` AND c.platform = ?`)
		args = append(args, string(opts.Platform))
	}

	qb.WriteString(` ORDER BY categories_fts.rank, c.platform, c.position LIMIT ?`)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("searching categories: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var (
			r        SearchResult
			platform string
			rank     float64
		)
		if err := rows.Scan(&platform, &r.ID, &r.Text, &rank); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		r.Platform = types.Platform(platform)
		r.Score = -rank
		results = append(results, r)
	}
	return results, rows.Err()
}

// matchExpr turns free text into an FTS5 expression that ORs every word as
// a quoted term, so punctuation in product titles never reaches the FTS5
// query parser.
func matchExpr(text string) string {
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	terms := make([]string, 0, len(words))
	for _, w := range words {
		terms = append(terms, `"`+w+`"`)
	}
	return strings.Join(terms, " OR ")
}
