package impute

import (
	"context"
	"testing"

	"github.com/wdm0006/tabsplit/pkg/table"
)

func makeListing(t *testing.T) *table.Frame {
	s := table.Schema{Columns: []table.ColumnSchema{
		{Name: "商品 ID", Type: table.KindString, Nullable: true},
		{Name: "qty", Type: table.KindInt, Nullable: true},
	}}
	f := table.NewFrame(s)
	rows := [][]any{{nil, nil}, {"A", int64(1)}, {nil, nil}, {nil, int64(3)}, {"B", nil}}
	for _, r := range rows {
		if err := f.AppendRow(r); err != nil {
			t.Fatal(err)
		}
	}
	return f
}

func TestConstant(t *testing.T) {
	f := makeListing(t)
	out, err := (&Constant{Column: "qty", Value: "0"}).Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	col, _ := out.ColumnByName("qty")
	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) {
			t.Fatalf("fill_empty left null at row %d", i)
		}
	}
	if got := out.CellString(0, 1); got != "0" {
		t.Fatalf("row 0 = %q, want 0", got)
	}

	if _, err := (&Constant{Column: "qty", Value: "many"}).Apply(context.Background(), makeListing(t)); err == nil {
		t.Fatal("expected a parse error for a non-numeric fill value")
	}
}

func TestFillDown(t *testing.T) {
	f := makeListing(t)
	out, err := (&FillDown{Columns: []string{"商品 ID", "qty", "missing"}}).Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{{"", ""}, {"A", "1"}, {"A", "1"}, {"A", "3"}, {"B", "3"}}
	for r, w := range want {
		got := out.Record(r)
		if got[0] != w[0] || got[1] != w[1] {
			t.Fatalf("row %d = %v, want %v", r, got, w)
		}
	}
	col, _ := out.ColumnByName("商品 ID")
	if !col.IsNull(0) {
		t.Fatal("leading null should stay null")
	}
}
