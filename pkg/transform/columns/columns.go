// Package columns holds pipeline steps that change the shape or kind of
// whole columns rather than individual cells.
package columns

import (
	"context"

	"github.com/wdm0006/tabsplit/pkg/table"
)

// DefaultTextColumn is the option-ID identifier column that spreadsheet
// tools would otherwise turn into numbers.
const DefaultTextColumn = "選項ID"

// Drop removes the named columns. Absent names are ignored.
type Drop struct{ Columns []string }

func (t *Drop) Name() string { return "drop_columns" }

func (t *Drop) Apply(ctx context.Context, f *table.Frame) (*table.Frame, error) {
	if len(t.Columns) == 0 {
		return f, nil
	}
	return f.Without(t.Columns...), nil
}

// ForceText converts the named columns to text so identifiers keep their
// leading zeros and full precision when written back out.
type ForceText struct{ Columns []string }

func (t *ForceText) Name() string { return "force_text" }

func (t *ForceText) Apply(ctx context.Context, f *table.Frame) (*table.Frame, error) {
	for _, n := range t.Columns {
		col, ok := f.ColumnByName(n)
		if !ok || col.Kind() == table.KindString {
			continue
		}
		if err := f.ReplaceColumn(n, AsText(col)); err != nil {
			return f, err
		}
	}
	return f, nil
}

// AsText copies c into a string column, keeping nulls.
func AsText(c table.Column) *table.StringColumn {
	out := table.NewStringColumn(c.Name(), c.Len())
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			out.SetNull(i)
			continue
		}
		out.Set(i, c.Format(i))
	}
	return out
}
