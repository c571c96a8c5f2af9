package impute

import (
	"context"

	"github.com/wdm0006/tabsplit/pkg/table"
)

// FillDown copies the last non-null value into the null cells below it.
// Exports that merge a product's cells over its variant rows read back
// with the key on the first row only; this restores it on every row.
type FillDown struct {
	Columns []string
}

func (t *FillDown) Name() string { return "fill_down" }

func (t *FillDown) Apply(ctx context.Context, f *table.Frame) (*table.Frame, error) {
	for _, name := range t.Columns {
		col, ok := f.ColumnByName(name)
		if !ok {
			continue
		}
		var last any
		for i := 0; i < col.Len(); i++ {
			if !col.IsNull(i) {
				last = col.Value(i)
				continue
			}
			if last == nil {
				continue
			}
			if err := f.SetCell(i, name, last); err != nil {
				return f, err
			}
		}
	}
	return f, nil
}
