package impute

import (
	"context"

	"github.com/wdm0006/tabsplit/pkg/table"
)

// Constant fills the null cells of one column. Value is parsed per the
// column's kind, so "0" fills an int column and "N/A" a text column.
type Constant struct {
	Column string
	Value  string
}

func (t *Constant) Name() string { return "fill_empty" }

func (t *Constant) Apply(ctx context.Context, f *table.Frame) (*table.Frame, error) {
	col, ok := f.ColumnByName(t.Column)
	if !ok {
		return f, nil
	}
	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) {
			if err := f.SetCell(i, t.Column, t.Value); err != nil {
				return f, err
			}
		}
	}
	return f, nil
}
