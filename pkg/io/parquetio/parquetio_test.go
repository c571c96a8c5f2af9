package parquetio

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdm0006/tabsplit/pkg/table"
)

func makeFrame(t testing.TB, rows int) *table.Frame {
	t.Helper()
	s := table.Schema{Columns: []table.ColumnSchema{
		{Name: "商品 ID", Type: table.KindString, Nullable: true},
		{Name: "價格", Type: table.KindFloat, Nullable: true},
		{Name: "數量", Type: table.KindInt, Nullable: true},
		{Name: "上架", Type: table.KindBool, Nullable: true},
	}}
	f := table.NewFrame(s)
	for i := 0; i < rows; i++ {
		var qty any = int64(i % 10)
		if i%4 == 3 {
			qty = nil
		}
		require.NoError(t, f.AppendRow([]any{"P" + string(rune('A'+i%26)), float64(i%100) + 0.5, qty, i%2 == 0}))
	}
	return f
}

func TestWriteThenRead(t *testing.T) {
	src := makeFrame(t, 8)
	var buf bytes.Buffer
	require.NoError(t, WriteAll(&buf, src))

	got, err := Read(bytes.NewReader(buf.Bytes()), ReaderOptions{})
	require.NoError(t, err)
	assert.Equal(t, src.Names(), got.Names())
	assert.Equal(t, 8, got.Rows())
	for c := 0; c < src.Cols(); c++ {
		assert.Equal(t, src.Column(c).Kind(), got.Column(c).Kind(), "column %d", c)
	}
	for r := 0; r < src.Rows(); r++ {
		assert.Equal(t, src.Record(r), got.Record(r), "row %d", r)
	}
	assert.True(t, got.Column(2).IsNull(3))
}

func TestReadOptions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAll(&buf, makeFrame(t, 5)))

	got, err := ReadBytes(buf.Bytes(), ReaderOptions{HeaderRows: 2, TextColumns: []string{"數量"}})
	require.NoError(t, err)
	assert.Equal(t, 3, got.Rows())
	assert.Equal(t, table.KindString, got.Schema().Columns[2].Type)
	assert.Equal(t, "2", got.CellString(0, 2))

	got, err = ReadBytes(buf.Bytes(), ReaderOptions{AllText: true})
	require.NoError(t, err)
	for _, cs := range got.Schema().Columns {
		assert.Equal(t, table.KindString, cs.Type)
	}
}

func TestFileRoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "1.parquet")
	fh, err := os.Create(p)
	require.NoError(t, err)
	require.NoError(t, WriteAll(fh, makeFrame(t, 3)))
	require.NoError(t, fh.Close())

	fh, err = os.Open(p)
	require.NoError(t, err)
	defer func() { _ = fh.Close() }()
	got, err := Read(fh, ReaderOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, got.Rows())
}

func TestDuplicateNames(t *testing.T) {
	s := table.Schema{Columns: []table.ColumnSchema{
		{Name: "a,b", Type: table.KindString}, {Name: "a_b", Type: table.KindString}, {Name: "", Type: table.KindString},
	}}
	assert.Equal(t, []string{"a_b", "a_b_2", "col_2"}, fieldNames(s))
}

func TestRejectsGarbage(t *testing.T) {
	_, err := ReadBytes([]byte("a,b\n1,2\n"), ReaderOptions{})
	assert.Error(t, err)
}
