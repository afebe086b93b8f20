// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tsv

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/taxonomy-tsv/pkg/types"
)

func TestWrite(t *testing.T) {
	tests := []struct {
		name string
		rows []types.Row
		want string
	}{
		{
			name: "header only for empty input",
			want: "category_id\tcategory_text\n",
		},
		{
			name: "rows in order",
			rows: []types.Row{
				{ID: "1", Text: "Electronics"},
				{ID: "2", Text: "Electronics > Phones"},
			},
			want: "category_id\tcategory_text\n1\tElectronics\n2\tElectronics > Phones\n",
		},
		{
			name: "tabs inside text are written verbatim",
			rows: []types.Row{{ID: "7", Text: "a\tb"}},
			want: "category_id\tcategory_text\n7\ta\tb\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, tt.rows))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestWriteFile_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "out.tsv")
	rows := []types.Row{{ID: "5", Text: "Toys"}}

	require.NoError(t, WriteFile(path, rows))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "category_id\tcategory_text\n5\tToys\n", string(data))
}

func TestWriteFile_Idempotent(t *testing.T) {
	dir := t.TempDir()
	rows := []types.Row{
		{ID: "gid://shopify/TaxonomyCategory/ap", Text: "Animals & Pet Supplies"},
		{ID: "gid://shopify/TaxonomyCategory/ap-1", Text: "Animals & Pet Supplies > Live Animals"},
	}

	first := filepath.Join(dir, "first.tsv")
	second := filepath.Join(dir, "second.tsv")
	require.NoError(t, WriteFile(first, rows))
	require.NoError(t, WriteFile(second, rows))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRead(t *testing.T) {
	input := strings.Join([]string{
		"category_id\tcategory_text",
		"1\tElectronics",
		"",
		"no tab on this line",
		"  2 \t Electronics > Phones  ",
		"3\t",
		"\tOrphan",
	}, "\n")

	rows, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []types.Row{
		{ID: "1", Text: "Electronics"},
		{ID: "2", Text: "Electronics > Phones"},
	}, rows)
}

func TestReadFile_RoundTripsWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ozon.tsv")
	rows := []types.Row{
		{ID: "17027495", Text: "Дом и сад"},
		{ID: "970895715", Text: "Дом и сад > Посуда"},
	}
	require.NoError(t, WriteFile(path, rows))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.tsv"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
