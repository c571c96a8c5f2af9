package table

import (
	"testing"
)

func keyedFrame(t *testing.T) *Frame {
	t.Helper()
	s := Schema{Columns: []ColumnSchema{
		{Name: "id", Type: KindString, Nullable: true},
		{Name: "qty", Type: KindInt, Nullable: true},
		{Name: "price", Type: KindFloat, Nullable: true},
	}}
	f := NewFrame(s)
	rows := [][]any{
		{"A", 1, 9.5},
		{"A", 2, nil},
		{"B", nil, 3.25},
	}
	for _, r := range rows {
		if err := f.AppendRow(r); err != nil {
			t.Fatal(err)
		}
	}
	return f
}

func TestAppendRowAndFormat(t *testing.T) {
	f := keyedFrame(t)
	if f.Rows() != 3 || f.Cols() != 3 {
		t.Fatalf("got %dx%d frame", f.Rows(), f.Cols())
	}
	got := f.Record(1)
	want := []string{"A", "2", ""}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("record(1)[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if v := f.Values(2)[1]; v != nil {
		t.Fatalf("expected null qty, got %v", v)
	}
	if s := f.CellString(2, 2); s != "3.25" {
		t.Fatalf("price formatted as %q", s)
	}
}

func TestAppendRowRejectsBadValueAndStaysAligned(t *testing.T) {
	f := keyedFrame(t)
	if err := f.AppendRow([]any{"C", "not-a-number"}); err == nil {
		t.Fatal("expected coercion error")
	}
	for i := 0; i < f.Cols(); i++ {
		if f.Column(i).Len() != f.Rows() {
			t.Fatalf("column %d has %d rows, frame has %d", i, f.Column(i).Len(), f.Rows())
		}
	}
	if err := f.AppendRow([]any{"C", 1, 2.0, "extra"}); err == nil {
		t.Fatal("expected error for too many values")
	}
}

func TestTakeKeepsOrderAndCaption(t *testing.T) {
	f := keyedFrame(t)
	f.SetCaption([][]string{{"note", "", ""}})
	sub := f.Take([]int{2, 0})
	if sub.Rows() != 2 {
		t.Fatalf("expected 2 rows, got %d", sub.Rows())
	}
	if sub.CellString(0, 0) != "B" || sub.CellString(1, 0) != "A" {
		t.Fatalf("unexpected order: %v %v", sub.Record(0), sub.Record(1))
	}
	if len(sub.Caption()) != 1 || sub.Caption()[0][0] != "note" {
		t.Fatalf("caption not carried: %v", sub.Caption())
	}
	// the source must not be affected
	f.Caption()[0][0] = "changed"
	if sub.Caption()[0][0] != "note" {
		t.Fatal("caption shared by reference")
	}
}

func TestAppendFrames(t *testing.T) {
	dst := NewFrame(TextSchema([]string{"a", "b", "c"}))
	src := NewFrame(TextSchema([]string{"x", "y"}))
	_ = src.AppendRow([]any{"1", "2"})
	if err := dst.Append(src); err != nil {
		t.Fatal(err)
	}
	if dst.Rows() != 1 || dst.CellString(0, 1) != "2" || !dst.Column(2).IsNull(0) {
		t.Fatalf("unexpected append result: %v", dst.Record(0))
	}
	wide := NewFrame(TextSchema([]string{"a", "b", "c", "d"}))
	if err := dst.Append(wide); err == nil {
		t.Fatal("expected error appending a wider frame")
	}
}

func TestReplaceColumnAndWithout(t *testing.T) {
	f := keyedFrame(t)
	f.SetCaption([][]string{{"c0", "c1", "c2"}})
	txt := NewStringColumn("qty", 0)
	for i := 0; i < f.Rows(); i++ {
		txt.AppendValue(f.Values(i)[1])
	}
	if err := f.ReplaceColumn("qty", txt); err != nil {
		t.Fatal(err)
	}
	if f.Schema().Columns[1].Type != KindString {
		t.Fatalf("schema not updated: %v", f.Schema().Columns[1].Type)
	}
	out := f.Without("qty")
	if out.Cols() != 2 || out.ColumnIndex("price") != 1 || out.ColumnIndex("qty") != -1 {
		t.Fatalf("unexpected columns %v", out.Names())
	}
	if c := out.Caption()[0]; len(c) != 2 || c[1] != "c2" {
		t.Fatalf("caption not realigned: %v", c)
	}
}

func TestSetCell(t *testing.T) {
	f := keyedFrame(t)
	if err := f.SetCell(0, "qty", "7"); err != nil {
		t.Fatal(err)
	}
	if f.CellString(0, 1) != "7" {
		t.Fatalf("got %q", f.CellString(0, 1))
	}
	if err := f.SetCell(0, "qty", nil); err != nil {
		t.Fatal(err)
	}
	if !f.Column(1).IsNull(0) {
		t.Fatal("expected null after nil set")
	}
	if err := f.SetCell(0, "missing", 1); err == nil {
		t.Fatal("expected unknown column error")
	}
}
