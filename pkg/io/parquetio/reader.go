// Package parquetio moves frames in and out of flat parquet files.
package parquetio

import (
	"bytes"
	"fmt"
	"io"

	"github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/common"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"

	"github.com/wdm0006/tabsplit/pkg/table"
)

type ReaderOptions struct {
	// HeaderRows leading data rows are skipped, for parity with sources
	// that carry a header block.
	HeaderRows  int
	TextColumns []string
	AllText     bool
}

// Read loads a flat parquet file. Nested or repeated columns are rejected.
func Read(r io.Reader, opt ReaderOptions) (*table.Frame, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ReadBytes(data, opt)
}

func ReadBytes(data []byte, opt ReaderOptions) (*table.Frame, error) {
	if opt.HeaderRows < 0 {
		return nil, fmt.Errorf("parquet: negative header rows %d", opt.HeaderRows)
	}
	if !bytes.HasPrefix(data, []byte("PAR1")) {
		return nil, fmt.Errorf("parquet: missing magic header")
	}
	pf, err := buffer.NewBufferFile(data)
	if err != nil {
		return nil, err
	}
	pr, err := reader.NewParquetColumnReader(pf, 4)
	if err != nil {
		return nil, fmt.Errorf("parquet open: %w", err)
	}
	defer pr.ReadStop()

	sh := pr.SchemaHandler
	nrows := pr.GetNumRows()
	text := make(map[string]bool, len(opt.TextColumns))
	for _, n := range opt.TextColumns {
		text[n] = true
	}

	var (
		schema table.Schema
		values [][]any
	)
	for i, inPath := range sh.ValueColumns {
		path := common.StrToPath(sh.InPathToExPath[inPath])
		name := path[len(path)-1]
		if len(path) != 2 {
			return nil, fmt.Errorf("parquet: nested column %s is not supported", name)
		}
		el := sh.SchemaElements[sh.MapIndex[inPath]]
		kind := kindOf(el)
		if opt.AllText || text[name] {
			kind = table.KindString
		}
		schema.Columns = append(schema.Columns, table.ColumnSchema{Name: name, Type: kind, Nullable: true})

		var vals []any
		if nrows > 0 {
			vals, _, _, err = pr.ReadColumnByIndex(int64(i), nrows)
			if err != nil {
				return nil, fmt.Errorf("parquet read column %s: %w", name, err)
			}
		}
		if int64(len(vals)) != nrows {
			return nil, fmt.Errorf("parquet: column %s has %d values for %d rows (repeated field?)", name, len(vals), nrows)
		}
		values = append(values, vals)
	}

	f := table.NewFrame(schema)
	row := make([]any, len(values))
	for r := opt.HeaderRows; int64(r) < nrows; r++ {
		for c := range values {
			row[c] = plain(values[c][r])
		}
		if err := f.AppendRow(row); err != nil {
			return nil, fmt.Errorf("row %d: %w", r+1, err)
		}
	}
	return f, nil
}

func kindOf(el *parquet.SchemaElement) table.Kind {
	if el.Type == nil {
		return table.KindString
	}
	switch *el.Type {
	case parquet.Type_BOOLEAN:
		return table.KindBool
	case parquet.Type_INT32, parquet.Type_INT64:
		if el.ConvertedType != nil && *el.ConvertedType == parquet.ConvertedType_DECIMAL {
			return table.KindString
		}
		return table.KindInt
	case parquet.Type_FLOAT, parquet.Type_DOUBLE:
		return table.KindFloat
	default:
		return table.KindString
	}
}

// plain converts reader values into the types frames coerce from.
func plain(v any) any {
	switch t := v.(type) {
	case int32:
		return int64(t)
	case float32:
		return float64(t)
	case int64, float64, bool, string, nil:
		return t
	default:
		return fmt.Sprint(t)
	}
}
