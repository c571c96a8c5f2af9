package parquetio

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	pw "github.com/xitongsys/parquet-go/writer"

	"github.com/wdm0006/tabsplit/pkg/table"
)

// fieldNames returns the parquet field name for every column. Tag
// separators are replaced and duplicate names get a numeric suffix.
func fieldNames(s table.Schema) []string {
	seen := make(map[string]bool, len(s.Columns))
	out := make([]string, len(s.Columns))
	for i, cs := range s.Columns {
		n := strings.NewReplacer(",", "_", "=", "_").Replace(strings.TrimSpace(cs.Name))
		if n == "" {
			n = "col_" + strconv.Itoa(i)
		}
		base := n
		for k := 2; seen[n]; k++ {
			n = base + "_" + strconv.Itoa(k)
		}
		seen[n] = true
		out[i] = n
	}
	return out
}

func parquetSchemaJSON(s table.Schema, names []string) string {
	// Build a minimal JSON schema for parquet-go JSONWriter
	type field struct {
		Tag string `json:"Tag"`
	}
	type schema struct {
		Tag    string  `json:"Tag"`
		Fields []field `json:"Fields"`
	}
	sc := schema{Tag: "name=schema, repetitiontype=REQUIRED"}
	for i, cs := range s.Columns {
		tag := "name=" + names[i] + ", repetitiontype=OPTIONAL, type="
		switch cs.Type {
		case table.KindFloat:
			tag += "DOUBLE"
		case table.KindInt:
			tag += "INT64"
		case table.KindBool:
			tag += "BOOLEAN"
		default:
			tag += "BYTE_ARRAY, convertedtype=UTF8"
		}
		sc.Fields = append(sc.Fields, field{Tag: tag})
	}
	b, _ := json.Marshal(sc)
	return string(b)
}

// WriteAll writes f's data rows to w. Caption rows have no place in a
// parquet file and are not written.
func WriteAll(w io.Writer, f *table.Frame) error {
	names := fieldNames(f.Schema())
	writer, err := pw.NewJSONWriterFromWriter(parquetSchemaJSON(f.Schema(), names), w, 4)
	if err != nil {
		return fmt.Errorf("parquet writer init: %w", err)
	}
	return writeRows(writer, f, names)
}

// writeRows feeds every row to the JSON writer as one JSON object.
func writeRows(writer *pw.JSONWriter, f *table.Frame, names []string) error {
	rec := make(map[string]any, f.Cols())
	for r := 0; r < f.Rows(); r++ {
		for c := 0; c < f.Cols(); c++ {
			col := f.Column(c)
			switch {
			case col.IsNull(r):
				rec[names[c]] = nil
			case col.Kind() == table.KindTime:
				rec[names[c]] = col.Format(r)
			default:
				rec[names[c]] = col.Value(r)
			}
		}
		line, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("parquet encode row %d: %w", r+1, err)
		}
		if err := writer.Write(string(line)); err != nil {
			return fmt.Errorf("parquet write row: %w", err)
		}
	}
	if err := writer.WriteStop(); err != nil {
		return fmt.Errorf("parquet finish: %w", err)
	}
	return nil
}
