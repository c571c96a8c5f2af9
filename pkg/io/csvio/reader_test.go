package csvio

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/text/encoding/traditionalchinese"

	"github.com/wdm0006/tabsplit/pkg/table"
)

const listing = "商品 ID,選項ID,價格,名稱\n" +
	"說明,說明,說明,說明\n" +
	"A1,007,10.5,紅\n" +
	"A1,008,11,藍\n" +
	"B2,1234567890123456789012,9,綠\n"

func TestInferAndRead(t *testing.T) {
	r, err := NewReader(strings.NewReader(listing), ReaderOptions{HeaderRows: 1, KeepCaption: true})
	if err != nil {
		t.Fatal(err)
	}
	schema, err := r.InferSchema()
	if err != nil {
		t.Fatal(err)
	}
	if len(schema.Columns) != 4 {
		t.Fatalf("expected 4 columns, got %d", len(schema.Columns))
	}
	want := []table.Kind{table.KindString, table.KindString, table.KindFloat, table.KindString}
	for i, k := range want {
		if schema.Columns[i].Type != k {
			t.Fatalf("column %d: expected %s, got %s", i, k, schema.Columns[i].Type)
		}
	}
	fr, err := r.ReadAll(schema)
	if err != nil {
		t.Fatal(err)
	}
	if fr.Rows() != 3 {
		t.Fatalf("expected 3 rows, got %d", fr.Rows())
	}
	if got := fr.CellString(0, 1); got != "007" {
		t.Fatalf("leading zeros lost: %q", got)
	}
	if got := len(fr.Caption()); got != 1 {
		t.Fatalf("expected 1 caption row, got %d", got)
	}
	if r.Encoding() != "utf-8" {
		t.Fatalf("unexpected encoding %q", r.Encoding())
	}
}

func TestHeaderRowsDropped(t *testing.T) {
	fr, err := Read(strings.NewReader(listing), ReaderOptions{HeaderRows: 2})
	if err != nil {
		t.Fatal(err)
	}
	if fr.Rows() != 2 || len(fr.Caption()) != 0 {
		t.Fatalf("rows=%d caption=%d", fr.Rows(), len(fr.Caption()))
	}
	if fr.CellString(0, 0) != "A1" {
		t.Fatalf("unexpected first row %v", fr.Record(0))
	}
}

func TestTextColumnsAndAllText(t *testing.T) {
	in := "id,qty\n1, 2 \n3,4\n"
	fr, err := Read(strings.NewReader(in), ReaderOptions{TextColumns: []string{"id"}})
	if err != nil {
		t.Fatal(err)
	}
	if fr.Schema().Columns[0].Type != table.KindString || fr.Schema().Columns[1].Type != table.KindInt {
		t.Fatalf("unexpected kinds %v", fr.Schema().Columns)
	}
	fr, err = Read(strings.NewReader(in), ReaderOptions{AllText: true})
	if err != nil {
		t.Fatal(err)
	}
	if got := fr.CellString(0, 1); got != " 2 " {
		t.Fatalf("raw text should be kept, got %q", got)
	}
}

func TestBig5Detection(t *testing.T) {
	var buf bytes.Buffer
	w := traditionalchinese.Big5.NewEncoder().Writer(&buf)
	rows := "賣場編號,商品名稱,數量\n"
	for i := 0; i < 40; i++ {
		rows += "店鋪甲,測試商品名稱很長的一段文字,1\n"
	}
	if _, err := w.Write([]byte(rows)); err != nil {
		t.Fatal(err)
	}
	fr, err := Read(&buf, ReaderOptions{Encoding: "big5"})
	if err != nil {
		t.Fatal(err)
	}
	if fr.Names()[0] != "賣場編號" {
		t.Fatalf("decode failed: %q", fr.Names()[0])
	}
	if fr.Rows() != 40 {
		t.Fatalf("expected 40 rows, got %d", fr.Rows())
	}
}

func TestSniffAndShortRecords(t *testing.T) {
	in := "\ufeffa;b;c\n1;2;3\n4;5\n"
	r, err := NewReader(strings.NewReader(in), ReaderOptions{})
	if err != nil {
		t.Fatal(err)
	}
	schema, err := r.InferSchema()
	if err != nil {
		t.Fatal(err)
	}
	if schema.Columns[0].Name != "a" || len(schema.Columns) != 3 {
		t.Fatalf("unexpected header %v", schema.Names())
	}
	fr, err := r.ReadAll(schema)
	if err != nil {
		t.Fatal(err)
	}
	if !fr.Column(2).IsNull(1) {
		t.Fatalf("short record should pad with null")
	}
	if r.Warnings() != "short_records=1" {
		t.Fatalf("unexpected warnings %q", r.Warnings())
	}

	r, _ = NewReader(strings.NewReader(in), ReaderOptions{Strict: true})
	schema, _ = r.InferSchema()
	if _, err := r.ReadAll(schema); err == nil {
		t.Fatal("strict mode should reject short records")
	}
}

func TestEmptyInput(t *testing.T) {
	if _, err := Read(strings.NewReader(""), ReaderOptions{}); err != ErrNoHeader {
		t.Fatalf("expected ErrNoHeader, got %v", err)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	fr, err := Read(strings.NewReader(listing), ReaderOptions{HeaderRows: 1, KeepCaption: true, AllText: true})
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := WriteAll(&out, fr, WriterOptions{}); err != nil {
		t.Fatal(err)
	}
	if out.String() != listing {
		t.Fatalf("round trip mismatch:\n%s", out.String())
	}

	out.Reset()
	if err := WriteAll(&out, fr, WriterOptions{BOM: true, Delimiter: '\t'}); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "\ufeff商品 ID\t選項ID") {
		t.Fatalf("unexpected output %q", out.String()[:20])
	}
}
