// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index keeps converted category tables in a local SQLite database
// with an FTS5 index so categories can be searched by product text. Each
// platform's standard TSV is loaded as a unit; unchanged files are skipped
// on rebuild.
package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/taxonomy-tsv/internal/tsv"
	"github.com/pdiddy/taxonomy-tsv/pkg/types"
)

const (
	dbFile       = "categories.db"
	defaultLimit = 5
)

// Store manages the category index database.
type Store struct {
	db    *sql.DB
	dir   string
	limit int
	log   logrus.FieldLogger
}

// NewStore opens or creates dir/categories.db and its schema.
func NewStore(cfg types.IndexConfig, log logrus.FieldLogger) (*Store, error) {
	if cfg.Dir == "" {
		return nil, errors.New("index directory not configured")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	limit := cfg.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	s := &Store{db: db, dir: cfg.Dir, limit: limit, log: log}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS categories (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			platform TEXT NOT NULL,
			category_id TEXT NOT NULL,
			category_text TEXT NOT NULL,
			position INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_categories_platform ON categories(platform, position)`,
		`CREATE TABLE IF NOT EXISTS indexing_status (
			platform TEXT PRIMARY KEY,
			source_path TEXT NOT NULL,
			file_mod_time TEXT NOT NULL,
			row_count INTEGER NOT NULL,
			indexed_at TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='categories_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		return nil
	}

	ftsStatements := []string{
		`CREATE VIRTUAL TABLE categories_fts USING fts5(category_text, content=categories, content_rowid=rowid)`,
		`CREATE TRIGGER categories_ai AFTER INSERT ON categories BEGIN
			INSERT INTO categories_fts(rowid, category_text) VALUES (new.rowid, new.category_text);
		END`,
		`CREATE TRIGGER categories_ad AFTER DELETE ON categories BEGIN
			INSERT INTO categories_fts(categories_fts, rowid, category_text) VALUES('delete', old.rowid, old.category_text);
		END`,
		`CREATE TRIGGER categories_au AFTER UPDATE ON categories BEGIN
			INSERT INTO categories_fts(categories_fts, rowid, category_text) VALUES('delete', old.rowid, old.category_text);
			INSERT INTO categories_fts(rowid, category_text) VALUES (new.rowid, new.category_text);
		END`,
	}
	for _, stmt := range ftsStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	return nil
}

// Source is a standard TSV to load for a platform.
type Source struct {
	Platform types.Platform
	Path     string
}

// BuildSummary holds counts from an index build.
type BuildSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of platforms processed.
func (b BuildSummary) Total() int {
	return b.Indexed + b.Updated + b.Skipped + b.Failed
}

// Build loads each source into the index. A platform whose TSV has the same
// path and modification time as the last build is skipped. Per-source
// failures are reported to w and counted; only context cancellation aborts.
func (s *Store) Build(ctx context.Context, sources []Source, w io.Writer) (BuildSummary, error) {
	var summary BuildSummary

	for _, src := range sources {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		info, err := os.Stat(src.Path)
		if err != nil {
			fmt.Fprintf(w, "failed   %s: %v\n", src.Platform, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedPath, storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT source_path, file_mod_time FROM indexing_status WHERE platform = ?`, string(src.Platform),
		).Scan(&storedPath, &storedModTime)
		if err == nil && storedPath == src.Path && storedModTime == modTime {
			fmt.Fprintf(w, "skipped  %s\n", src.Platform)
			summary.Skipped++
			continue
		}
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			fmt.Fprintf(w, "failed   %s: %v\n", src.Platform, err)
			summary.Failed++
			continue
		}
		isUpdate := err == nil

		rows, err := tsv.ReadFile(src.Path)
		if err != nil {
			fmt.Fprintf(w, "failed   %s: %v\n", src.Platform, err)
			summary.Failed++
			continue
		}

		if err := s.load(ctx, src, rows, modTime); err != nil {
			fmt.Fprintf(w, "failed   %s: %v\n", src.Platform, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated  %s (%d categories)\n", src.Platform, len(rows))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexed  %s (%d categories)\n", src.Platform, len(rows))
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)
	return summary, nil
}

// load replaces every row of src.Platform inside one transaction.
func (s *Store) load(ctx context.Context, src Source, rows []types.Row, modTime string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE platform = ?`, string(src.Platform)); err != nil {
		return fmt.Errorf("deleting old categories: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO categories (platform, category_id, category_text, position) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range rows {
		if _, err := stmt.ExecContext(ctx, string(src.Platform), r.ID, r.Text, i); err != nil {
			return fmt.Errorf("inserting category %s: %w", r.ID, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO indexing_status (platform, source_path, file_mod_time, row_count, indexed_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(platform) DO UPDATE SET
			source_path=excluded.source_path, file_mod_time=excluded.file_mod_time,
			row_count=excluded.row_count, indexed_at=excluded.indexed_at`,
		string(src.Platform), src.Path, modTime, len(rows), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("updating indexing status: %w", err)
	}

	s.log.WithFields(logrus.Fields{"platform": src.Platform, "rows": len(rows)}).Debug("loaded categories")
	return tx.Commit()
}

// Delete removes a platform's categories and status. It returns the number
// of categories removed.
func (s *Store) Delete(ctx context.Context, platform types.Platform) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE platform = ?`, string(platform))
	if err != nil {
		return 0, fmt.Errorf("deleting categories: %w", err)
	}
	n, _ := res.RowsAffected()

	if _, err := tx.ExecContext(ctx, `DELETE FROM indexing_status WHERE platform = ?`, string(platform)); err != nil {
		return 0, fmt.Errorf("deleting indexing status: %w", err)
	}
	return n, tx.Commit()
}

// Status describes one indexed platform.
type Status struct {
	Platform  types.Platform `json:"platform" yaml:"platform"`
	Source    string         `json:"source" yaml:"source"`
	Rows      int            `json:"rows" yaml:"rows"`
	IndexedAt string         `json:"indexed_at" yaml:"indexed_at"`
}

// Statuses lists the indexed platforms ordered by name.
func (s *Store) Statuses(ctx context.Context) ([]Status, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT platform, source_path, row_count, indexed_at FROM indexing_status ORDER BY platform`)
	if err != nil {
		return nil, fmt.Errorf("querying indexing status: %w", err)
	}
	defer rows.Close()

	var out []Status
	for rows.Next() {
		var st Status
		var platform string
		if err := rows.Scan(&platform, &st.Source, &st.Rows, &st.IndexedAt); err != nil {
			return nil, fmt.Errorf("scanning status: %w", err)
		}
		st.Platform = types.Platform(platform)
		out = append(out, st)
	}
	return out, rows.Err()
}
