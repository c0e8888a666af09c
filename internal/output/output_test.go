package output

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/omextract/internal/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var sampleRecords = []extract.Record{
	{Section: "Section Title 1", Subsection: "Subsection Title 1.1", Content: "Content of subsection 1.1."},
	{Section: "Section, with comma", Subsection: "", Content: "line one\nline \"two\"\n| A | B |\n| --- | --- |\n| 1 | 2 |"},
}

func TestEncodeCSV_HeaderAndRow(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeCSV(&buf, []extract.Record{{Section: "S1", Subsection: "Sub1.1", Content: "C1"}}))
	assert.Equal(t, "section,subsection,content\r\nS1,Sub1.1,C1\r\n", buf.String())
}

func TestEncodeCSV_Quoting(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeCSV(&buf, sampleRecords[1:]))

	want := "section,subsection,content\r\n" +
		"\"Section, with comma\",,\"line one\nline \"\"two\"\"\n| A | B |\n| --- | --- |\n| 1 | 2 |\"\r\n"
	assert.Equal(t, want, buf.String())
}

func TestEncodeCSV_NoRecords(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeCSV(&buf, nil))
	assert.Equal(t, "section,subsection,content\r\n", buf.String())
}

func TestDecodeCSV_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeCSV(&buf, sampleRecords))

	got, err := DecodeCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, sampleRecords, got)

	_, err = DecodeCSV(strings.NewReader("a,b,c\n"))
	assert.Error(t, err)
	_, err = DecodeCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestEncodeJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeJSON(&buf, sampleRecords))

	var got []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Subsection Title 1.1", got[0]["subsection"])
	assert.Equal(t, "", got[1]["subsection"])
	assert.Contains(t, buf.String(), "| A | B |")

	buf.Reset()
	require.NoError(t, EncodeJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestEncodeXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeXLSX(&buf, sampleRecords))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, []string{"Section Title 1", "Subsection Title 1.1", "Content of subsection 1.1."}, rows[1])
	assert.Equal(t, sampleRecords[1].Content, rows[2][2])
}

func TestEncodeHTML(t *testing.T) {
	records := append([]extract.Record{{Section: "<script>x</script>", Content: "plain <b>raw</b>"}}, sampleRecords...)

	var buf bytes.Buffer
	require.NoError(t, EncodeHTML(&buf, records))
	page := buf.String()

	assert.Contains(t, page, "<h1>&lt;script&gt;x&lt;/script&gt;</h1>")
	assert.NotContains(t, page, "<b>raw</b>")
	assert.Contains(t, page, "<h2>Subsection Title 1.1</h2>")
	assert.Contains(t, page, "<table>")
	assert.Contains(t, page, "<th>A</th>")
	assert.Contains(t, page, "<td>2</td>")
	assert.Equal(t, 3, strings.Count(page, "<section>"))
}

func TestMarkdownBlocks(t *testing.T) {
	got := markdownBlocks("p1\np2\n| A |\n| --- |\n| 1 |")
	assert.Equal(t, "p1\n\np2\n\n| A |\n| --- |\n| 1 |", got)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		err  bool
	}{
		{"", CSV, false},
		{"CSV", CSV, false},
		{" json ", JSON, false},
		{"xlsx", XLSX, false},
		{"htm", HTML, false},
		{"sqlite3", SQLite, false},
		{"db", SQLite, false},
		{"yaml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.err {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, CSV, FormatForPath("out.csv"))
	assert.Equal(t, JSON, FormatForPath("dir/out.JSON"))
	assert.Equal(t, SQLite, FormatForPath("out.db"))
	assert.Equal(t, CSV, FormatForPath("out"))
	assert.Equal(t, CSV, FormatForPath("out.txt"))
	assert.Equal(t, ".db", SQLite.Extension())
	assert.Equal(t, ".xlsx", XLSX.Extension())
}

func TestEncode_SQLiteNotStreamable(t *testing.T) {
	assert.ErrorIs(t, Encode(&bytes.Buffer{}, SQLite, sampleRecords), ErrNotStreamable)
	assert.ErrorIs(t, Encode(&bytes.Buffer{}, Format("nope"), sampleRecords), ErrUnknownFormat)
}

func TestWriter_WriteFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	w := NewWriter(nil)

	for _, f := range []Format{CSV, JSON, XLSX, HTML} {
		t.Run(string(f), func(t *testing.T) {
			path := filepath.Join(dir, "out"+f.Extension())
			require.NoError(t, w.WriteFile(ctx, path, f, sampleRecords))

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Greater(t, info.Size(), int64(0))
			assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
		})
	}

	csvData, err := os.ReadFile(filepath.Join(dir, "out.csv"))
	require.NoError(t, err)
	got, err := DecodeCSV(bytes.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, sampleRecords, got)
	assertNoTempFiles(t, dir)
}

func TestWriter_WriteSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "records.db")

	require.NoError(t, NewWriter(nil).WriteFile(ctx, path, SQLite, sampleRecords))
	got, err := ReadSQLite(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, sampleRecords, got)

	// Rewriting replaces the previous rows.
	require.NoError(t, NewWriter(nil).WriteFile(ctx, path, SQLite, sampleRecords[:1]))
	got, err = ReadSQLite(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, sampleRecords[:1], got)
}

func TestWriter_FailureLeavesDestinationUntouched(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	require.NoError(t, os.WriteFile(path, []byte("previous"), 0o644))

	err := NewWriter(nil).WriteFile(ctx, path, Format("bogus"), sampleRecords)
	require.Error(t, err)
	assert.True(t, IsWriteError(err))
	assert.ErrorIs(t, err, ErrUnknownFormat)

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "previous", string(data))
	assertNoTempFiles(t, dir)
}

func TestWriter_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no", "such", "dir", "out.csv")
	err := NewWriter(nil).WriteFile(context.Background(), path, CSV, sampleRecords)

	var we *WriteError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, path, we.Path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "leftover temp file %s", e.Name())
	}
}
