package repository

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conflictwatch/casemap/internal/domain"
)

const testHeader = "id,name,country,region,latitude,longitude,start_date,status," +
	"perpetrators,targeted_group,est_deaths,last_verified,sources,summary"

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCSVRepositoryLoad(t *testing.T) {
	t.Run("neither path exists", func(t *testing.T) {
		dir := t.TempDir()
		repo := NewCSVRepository(filepath.Join(dir, "data", "cases.csv"), filepath.Join(dir, "cases.csv"))

		_, err := repo.Load()
		require.ErrorIs(t, err, ErrNoDataSource)
		assert.Empty(t, repo.ActivePath())
	})

	t.Run("preferred wins over fallback", func(t *testing.T) {
		dir := t.TempDir()
		preferred := filepath.Join(dir, "preferred.csv")
		fallback := filepath.Join(dir, "fallback.csv")
		writeFile(t, preferred, testHeader+"\npref,,,,,,,,,,,,,\n")
		writeFile(t, fallback, testHeader+"\nfall,,,,,,,,,,,,,\n")

		repo := NewCSVRepository(preferred, fallback)
		table, err := repo.Load()
		require.NoError(t, err)
		require.Len(t, table.Rows, 1)
		assert.Equal(t, "pref", table.Rows[0]["id"])
		assert.Equal(t, preferred, repo.ActivePath())
	})

	t.Run("fallback used when preferred missing", func(t *testing.T) {
		dir := t.TempDir()
		fallback := filepath.Join(dir, "fallback.csv")
		writeFile(t, fallback, testHeader+"\nfall,,,,,,,,,,,,,\n")

		repo := NewCSVRepository(filepath.Join(dir, "missing.csv"), fallback)
		table, err := repo.Load()
		require.NoError(t, err)
		require.Len(t, table.Rows, 1)
		assert.Equal(t, "fall", table.Rows[0]["id"])
	})

	t.Run("parse failure names the path", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "broken.csv")
		writeFile(t, path, "id,name\n\"unterminated\n")

		repo := NewCSVRepository(path, "")
		_, err := repo.Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), path)
	})
}

func TestReadTable(t *testing.T) {
	t.Run("headers lowercased and trimmed", func(t *testing.T) {
		in := " ID , Name ,COUNTRY\n1,Alpha,X\n"
		table, err := ReadTable(strings.NewReader(in))
		require.NoError(t, err)
		assert.Equal(t, []string{"id", "name", "country"}, table.Columns)
		assert.Equal(t, "Alpha", table.Rows[0]["name"])
	})

	t.Run("byte order mark is stripped", func(t *testing.T) {
		in := "\ufeffid,name\n1,A\n"
		table, err := ReadTable(strings.NewReader(in))
		require.NoError(t, err)
		assert.Equal(t, []string{"id", "name"}, table.Columns)
	})

	t.Run("short rows pad with empty cells", func(t *testing.T) {
		in := "id,name,country\n1,Alpha\n"
		table, err := ReadTable(strings.NewReader(in))
		require.NoError(t, err)
		require.Len(t, table.Rows, 1)
		assert.Equal(t, "", table.Rows[0]["country"])
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := ReadTable(strings.NewReader(""))
		require.Error(t, err)
	})

	t.Run("header only", func(t *testing.T) {
		table, err := ReadTable(strings.NewReader("id,name\n"))
		require.NoError(t, err)
		assert.Empty(t, table.Rows)
	})
}

func TestWriteSample(t *testing.T) {
	dir := t.TempDir()
	preferred := filepath.Join(dir, "data", "cases.csv")
	repo := NewCSVRepository(preferred, "")

	require.NoError(t, repo.WriteSample())
	assert.Equal(t, preferred, repo.ActivePath())

	table, err := repo.Load()
	require.NoError(t, err)
	assert.Empty(t, domain.MissingColumns(table))

	cases := domain.Normalize(table)
	require.Len(t, cases, 2)
	assert.Equal(t, "EX-001", cases[0].ID)
	assert.NotNil(t, cases[0].EstDeaths)
	assert.Nil(t, cases[1].EstDeaths) // blank stays absent
	assert.Empty(t, domain.QualityIssues(cases))
}

func TestExportCSV(t *testing.T) {
	t.Run("schema columns, no derived columns", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, ExportCSV(&buf, nil))

		table, err := ReadTable(&buf)
		require.NoError(t, err)
		assert.Equal(t, domain.RequiredColumns, table.Columns)
	})

	t.Run("normalization is a fixed point across export and reload", func(t *testing.T) {
		in := testHeader + "\n" +
			"GC-1,Alpha,Aland,Africa,12.5,30.25,2021-06-15,ongoing,Militia A,Group B,4500,2025-01-10,https://a.example,Sum one\n" +
			"GC-2,Beta,Bland,Asia,,,bad-date,escalating,Px,Gy,,2025-02-02,,\n"
		first, err := ReadTable(strings.NewReader(in))
		require.NoError(t, err)
		cases := domain.Normalize(first)

		var buf bytes.Buffer
		require.NoError(t, ExportCSV(&buf, cases))

		second, err := ReadTable(&buf)
		require.NoError(t, err)
		again := domain.Normalize(second)

		assert.Equal(t, cases, again)
	})

	t.Run("absent values export as empty cells", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, ExportCSV(&buf, []domain.Case{{ID: "X"}}))
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "X,,,,,,,,,,,,,", lines[1])
	})
}
