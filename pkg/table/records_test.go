package table

import (
	"errors"
	"testing"
)

func TestInferKinds(t *testing.T) {
	rows := [][]string{
		{"1", "1.5", "true", "007", "x", "", "12345678901234567890"},
		{"2", "3", "FALSE", "8", "y", "", "1"},
		{" 3 ", "", "false", "9"},
	}
	got := InferKinds(rows, 7)
	want := []Kind{KindInt, KindFloat, KindBool, KindString, KindString, KindString, KindString}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("column %d: got %s want %s", i, got[i], want[i])
		}
	}
}

func TestRecordsBuild(t *testing.T) {
	rec := &Records{
		Names:   []string{"id", "qty"},
		Caption: [][]string{{"note", "note"}},
		Rows:    [][]string{{"A", " 1 "}, {"B"}, {"C", "3", " "}},
	}
	s := rec.Infer([]string{"qty"}, false)
	if s.Columns[1].Type != KindString {
		t.Fatalf("qty should be forced to text")
	}
	f, st, err := rec.Build(s, true, false)
	if err != nil {
		t.Fatal(err)
	}
	if st.Short != 1 || st.Long != 1 {
		t.Fatalf("unexpected stats %+v", st)
	}
	if f.Rows() != 3 || f.CellString(0, 1) != " 1 " || !f.Column(1).IsNull(1) {
		t.Fatalf("unexpected frame %v %v", f.Record(0), f.Record(1))
	}
	if len(f.Caption()) != 1 {
		t.Fatalf("caption not kept")
	}

	s = rec.Infer(nil, false)
	f, _, err = rec.Build(s, false, false)
	if err != nil {
		t.Fatal(err)
	}
	if s.Columns[1].Type != KindInt || f.CellString(0, 1) != "1" || f.Caption() != nil {
		t.Fatalf("unexpected inferred frame %v", f.Record(0))
	}

	if _, _, err := rec.Build(s, false, true); err == nil {
		t.Fatal("strict build should fail on short rows")
	}
}

func TestRecordsBuildRejectsValuesPastHeader(t *testing.T) {
	rec := &Records{
		Names: []string{"商品 ID", "name"},
		Rows:  [][]string{{"A", "x", "LOST"}, {"B", "y"}},
	}
	_, st, err := rec.Build(rec.Infer(nil, false), false, false)
	if !errors.Is(err, ErrLongRecord) {
		t.Fatalf("expected ErrLongRecord, got %v", err)
	}
	if st.Long != 1 {
		t.Fatalf("unexpected stats %+v", st)
	}
}
