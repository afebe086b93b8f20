// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/taxonomy-tsv/internal/tsv"
	"github.com/pdiddy/taxonomy-tsv/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	tmpDir := t.TempDir()
	store, err := NewStore(types.IndexConfig{Dir: filepath.Join(tmpDir, "index")}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, tmpDir
}

func writeTSV(t *testing.T, dir, name string, rows []types.Row) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, tsv.WriteFile(path, rows))
	return path
}

func ozonRows() []types.Row {
	return []types.Row{
		{ID: "1", Text: "Electronics"},
		{ID: "2", Text: "Electronics > Phones"},
		{ID: "3", Text: "Electronics > Phones > Cases"},
		{ID: "4", Text: "Home > Kitchen"},
	}
}

func shopifyRows() []types.Row {
	return []types.Row{
		{ID: "gid://shopify/TaxonomyCategory/el", Text: "Electronics"},
		{ID: "gid://shopify/TaxonomyCategory/el-1", Text: "Electronics > Mobile Phones"},
	}
}

func build(t *testing.T, store *Store, sources ...Source) BuildSummary {
	t.Helper()
	var buf strings.Builder
	summary, err := store.Build(context.Background(), sources, &buf)
	require.NoError(t, err)
	return summary
}

// --- schema ---

func TestNewStoreCreatesSchema(t *testing.T) {
	store, tmpDir := testStore(t)

	for _, table := range []string{"categories", "categories_fts", "indexing_status"} {
		var count int
		err := store.db.QueryRow(
			`SELECT count(*) FROM sqlite_master WHERE type IN ('table','view') AND name = ?`, table,
		).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "table %s", table)
	}

	_, err := os.Stat(filepath.Join(tmpDir, "index", dbFile))
	assert.NoError(t, err)
}

func TestNewStore_Reopen(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := types.IndexConfig{Dir: filepath.Join(tmpDir, "index")}

	first, err := NewStore(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewStore(cfg, nil)
	require.NoError(t, err)
	assert.NoError(t, second.Close())
}

func TestNewStore_RequiresDir(t *testing.T) {
	_, err := NewStore(types.IndexConfig{}, nil)
	assert.Error(t, err)
}

// --- build ---

func TestBuild(t *testing.T) {
	store, tmpDir := testStore(t)
	ozon := writeTSV(t, tmpDir, "ozon.tsv", ozonRows())
	shopify := writeTSV(t, tmpDir, "categories_standard.tsv", shopifyRows())

	summary := build(t, store,
		Source{Platform: types.PlatformOzon, Path: ozon},
		Source{Platform: types.PlatformShopify, Path: shopify},
		Source{Platform: types.PlatformYandex, Path: filepath.Join(tmpDir, "missing.tsv")},
	)

	assert.Equal(t, 2, summary.Indexed)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 3, summary.Total())

	statuses, err := store.Statuses(context.Background())
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.Equal(t, types.PlatformOzon, statuses[0].Platform)
	assert.Equal(t, 4, statuses[0].Rows)
	assert.Equal(t, types.PlatformShopify, statuses[1].Platform)
	assert.Equal(t, 2, statuses[1].Rows)
}

func TestBuild_SkipsUnchanged(t *testing.T) {
	store, tmpDir := testStore(t)
	path := writeTSV(t, tmpDir, "ozon.tsv", ozonRows())
	src := Source{Platform: types.PlatformOzon, Path: path}

	first := build(t, store, src)
	assert.Equal(t, 1, first.Indexed)

	second := build(t, store, src)
	assert.Equal(t, 1, second.Skipped)
	assert.Zero(t, second.Indexed)
}

func TestBuild_UpdatesChanged(t *testing.T) {
	store, tmpDir := testStore(t)
	path := writeTSV(t, tmpDir, "ozon.tsv", ozonRows())
	src := Source{Platform: types.PlatformOzon, Path: path}
	build(t, store, src)

	writeTSV(t, tmpDir, "ozon.tsv", []types.Row{{ID: "9", Text: "Garden"}})
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))

	summary := build(t, store, src)
	assert.Equal(t, 1, summary.Updated)

	entries, err := store.Entries(context.Background(), types.PlatformOzon)
	require.NoError(t, err)
	assert.Equal(t, []ExportEntry{{Platform: types.PlatformOzon, ID: "9", Text: "Garden"}}, entries)
}

func TestBuild_Cancelled(t *testing.T) {
	store, tmpDir := testStore(t)
	path := writeTSV(t, tmpDir, "ozon.tsv", ozonRows())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf strings.Builder
	_, err := store.Build(ctx, []Source{{Platform: types.PlatformOzon, Path: path}}, &buf)
	assert.ErrorIs(t, err, context.Canceled)
}

// --- search ---

func TestSearch(t *testing.T) {
	store, tmpDir := testStore(t)
	build(t, store,
		Source{Platform: types.PlatformOzon, Path: writeTSV(t, tmpDir, "ozon.tsv", ozonRows())},
		Source{Platform: types.PlatformShopify, Path: writeTSV(t, tmpDir, "shopify.tsv", shopifyRows())},
	)

	tests := []struct {
		name    string
		opts    SearchOptions
		wantIDs []string
		wantLen int
	}{
		{
			name:    "platform filter",
			opts:    SearchOptions{Text: "kitchen", Platform: types.PlatformOzon},
			wantIDs: []string{"4"},
		},
		{
			name:    "case-insensitive across platforms",
			opts:    SearchOptions{Text: "PHONES"},
			wantLen: 3,
		},
		{
			name:    "limit caps results",
			opts:    SearchOptions{Text: "electronics", Limit: 2},
			wantLen: 2,
		},
		{
			name:    "punctuation is ignored",
			opts:    SearchOptions{Text: `"kitchen" & (sink) > *`, Platform: types.PlatformOzon},
			wantIDs: []string{"4"},
		},
		{
			name: "no match",
			opts: SearchOptions{Text: "submarine"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := store.Search(context.Background(), tt.opts)
			require.NoError(t, err)

			if tt.wantIDs != nil {
				ids := make([]string, len(results))
				for i, r := range results {
					ids[i] = r.ID
				}
				assert.Equal(t, tt.wantIDs, ids)
			}
			if tt.wantLen > 0 {
				assert.Len(t, results, tt.wantLen)
			}
			if tt.wantIDs == nil && tt.wantLen == 0 {
				assert.Empty(t, results)
			}
			for _, r := range results {
				if tt.opts.Platform != "" {
					assert.Equal(t, tt.opts.Platform, r.Platform)
				}
			}
		})
	}
}

func TestSearch_DefaultLimit(t *testing.T) {
	store, tmpDir := testStore(t)
	rows := make([]types.Row, 0, 10)
	for i := 0; i < 10; i++ {
		rows = append(rows, types.Row{ID: string(rune('a' + i)), Text: "Toys > Blocks"})
	}
	build(t, store, Source{Platform: types.PlatformYandex, Path: writeTSV(t, tmpDir, "yandex.tsv", rows)})

	results, err := store.Search(context.Background(), SearchOptions{Text: "blocks"})
	require.NoError(t, err)
	assert.Len(t, results, defaultLimit)
}

func TestSearch_EmptyText(t *testing.T) {
	store, _ := testStore(t)
	_, err := store.Search(context.Background(), SearchOptions{Text: " > & "})
	assert.Error(t, err)
}

func TestMatchExpr(t *testing.T) {
	assert.Equal(t, `"red" OR "shoes"`, matchExpr("red, shoes!"))
	assert.Equal(t, `"Дом" OR "и" OR "сад"`, matchExpr("Дом и сад"))
	assert.Equal(t, "", matchExpr("  >  "))
}

// --- delete ---

func TestDelete(t *testing.T) {
	store, tmpDir := testStore(t)
	build(t, store,
		Source{Platform: types.PlatformOzon, Path: writeTSV(t, tmpDir, "ozon.tsv", ozonRows())},
		Source{Platform: types.PlatformShopify, Path: writeTSV(t, tmpDir, "shopify.tsv", shopifyRows())},
	)

	n, err := store.Delete(context.Background(), types.PlatformOzon)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	results, err := store.Search(context.Background(), SearchOptions{Text: "electronics"})
	require.NoError(t, err)
	for _, r := range results {
		assert.Equal(t, types.PlatformShopify, r.Platform)
	}

	statuses, err := store.Statuses(context.Background())
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, types.PlatformShopify, statuses[0].Platform)
}

// --- export ---

func TestExport(t *testing.T) {
	store, tmpDir := testStore(t)
	build(t, store,
		Source{Platform: types.PlatformOzon, Path: writeTSV(t, tmpDir, "ozon.tsv", ozonRows())},
		Source{Platform: types.PlatformShopify, Path: writeTSV(t, tmpDir, "shopify.tsv", shopifyRows())},
	)
	ctx := context.Background()

	yamlPath, err := store.ExportYAML(ctx, "")
	require.NoError(t, err)
	data, err := os.ReadFile(yamlPath)
	require.NoError(t, err)
	var fromYAML []ExportEntry
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	require.Len(t, fromYAML, 6)
	assert.Equal(t, ExportEntry{Platform: types.PlatformOzon, ID: "1", Text: "Electronics"}, fromYAML[0])

	jsonPath, err := store.ExportJSON(ctx, types.PlatformShopify)
	require.NoError(t, err)
	data, err = os.ReadFile(jsonPath)
	require.NoError(t, err)
	var fromJSON []ExportEntry
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	assert.Len(t, fromJSON, 2)
	assert.Equal(t, filepath.Join(tmpDir, "index", "export.json"), jsonPath)
}
