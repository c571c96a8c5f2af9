package partition

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdm0006/tabsplit/pkg/table"
)

// keyed builds a frame with a key column and a row number column.
func keyed(t *testing.T, keys ...any) *table.Frame {
	t.Helper()
	f := table.NewFrame(table.Schema{Columns: []table.ColumnSchema{
		{Name: "key", Type: table.KindString, Nullable: true},
		{Name: "n", Type: table.KindInt},
	}})
	for i, k := range keys {
		require.NoError(t, f.AppendRow([]any{k, int64(i)}))
	}
	return f
}

func keysOf(c Chunk) string {
	s := ""
	for r := 0; r < c.Frame.Rows(); r++ {
		k := c.Frame.CellString(r, 0)
		if k == "" {
			k = "_"
		}
		s += k
	}
	return s
}

func rowsOf(c Chunk) []int64 {
	col := c.Frame.Column(1).(*table.IntColumn)
	out := make([]int64, col.Len())
	for i := range out {
		out[i], _ = col.Get(i)
	}
	return out
}

func TestPartitionModes(t *testing.T) {
	cases := []struct {
		name  string
		keys  []any
		bound int
		mode  Mode
		opts  []Option
		want  []string
	}{
		{"groups bound 1", []any{"A", "A", "B", "B", "B", "C"}, 1, ModeGroups, nil, []string{"AA", "BBB", "C"}},
		{"groups bound 2", []any{"A", "A", "B", "B", "B", "C"}, 2, ModeGroups, nil, []string{"AABBB", "C"}},
		{"groups interleaved keep row order", []any{"B", "A", "B", "C", "A"}, 2, ModeGroups, nil, []string{"BABA", "C"}},
		{"rows bound 4", []any{"A", "A", "B", "B", "B", "C"}, 4, ModeRows, nil, []string{"AA", "BBBC"}},
		{"rows oversized group alone", []any{"A", "B", "B", "B", "B", "B", "C"}, 3, ModeRows, nil, []string{"A", "BBBBB", "C"}},
		{"rows exact fit", []any{"A", "A", "B", "B"}, 4, ModeRows, nil, []string{"AABB"}},
		{"rows groups contiguous", []any{"B", "A", "B"}, 10, ModeRows, nil, []string{"BBA"}},
		{"rows sorted", []any{"B", "A", "B"}, 2, ModeRows, []Option{WithGroupOrder(OrderSorted)}, []string{"A", "BB"}},
		{"empty key is a group", []any{"A", nil, "A", ""}, 1, ModeGroups, nil, []string{"AA", "__"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := keyed(t, tc.keys...)
			chunks, details, err := Partition(f, "key", tc.bound, tc.mode, tc.opts...)
			require.NoError(t, err)
			require.Len(t, details, len(chunks))
			var got []string
			total := 0
			for i, c := range chunks {
				assert.Equal(t, i+1, c.Index)
				assert.Equal(t, c.Frame.Rows(), c.Rows)
				assert.Equal(t, []string{"key", "n"}, c.Frame.Names())
				got = append(got, keysOf(c))
				total += c.Rows
			}
			assert.Equal(t, tc.want, got)
			assert.Equal(t, f.Rows(), total)
		})
	}
}

func TestGroupModeKeepsSourceOrder(t *testing.T) {
	f := keyed(t, "B", "A", "B", "C", "A")
	chunks, _, err := Partition(f, "key", 2, ModeGroups)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 1, 2, 4}, rowsOf(chunks[0]))
	assert.Equal(t, 2, chunks[0].Groups)
	assert.Equal(t, 1, chunks[1].Groups)
}

func TestDetails(t *testing.T) {
	f := keyed(t, "A", "A", "B")
	_, details, err := Partition(f, "key", 5, ModeGroups)
	require.NoError(t, err)
	assert.Equal(t, []string{"contains 3 rows covering 2 distinct key"}, details)

	_, details, err = Partition(f, "key", 2, ModeRows)
	require.NoError(t, err)
	assert.Equal(t, []string{"contains 2 rows", "contains 1 rows"}, details)
}

func TestErrors(t *testing.T) {
	f := keyed(t, "A")
	_, _, err := Partition(f, "Foo", 1, ModeGroups)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingColumn))
	assert.Contains(t, err.Error(), "Foo")

	_, _, err = Partition(f, "key", 0, ModeRows)
	assert.ErrorIs(t, err, ErrInvalidBound)

	chunks, _, err := Partition(keyed(t), "key", 3, ModeGroups)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestSortedNumericKeys(t *testing.T) {
	f := keyed(t, "10", "9", "10", "", "100")
	chunks, _, err := Partition(f, "key", 1, ModeRows, WithGroupOrder(OrderSorted))
	require.NoError(t, err)
	var got []string
	for _, c := range chunks {
		got = append(got, c.Frame.CellString(0, 0))
	}
	assert.Equal(t, []string{"9", "10", "100", ""}, got)
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": ModeGroups, "Shopee": ModeGroups, "groups": ModeGroups, "yahoo": ModeRows, "ROWS": ModeRows} {
		got, err := ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseMode("bytes")
	assert.ErrorIs(t, err, ErrUnknownMode)
	assert.Equal(t, "商品 ID", ModeGroups.DefaultKey())
	assert.Equal(t, "賣場編號", ModeRows.DefaultKey())
}

func BenchmarkPartitionGroups(b *testing.B) {
	f := table.NewFrame(table.Schema{Columns: []table.ColumnSchema{{Name: "key", Type: table.KindString}}})
	for i := 0; i < 100000; i++ {
		_ = f.AppendRow([]any{"P" + strconv.Itoa(i/7)})
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := Partition(f, "key", 1000, ModeGroups); err != nil {
			b.Fatal(err)
		}
	}
}
