package validate

import (
	"context"
	"fmt"

	"github.com/wdm0006/tabsplit/pkg/table"
)

// Required fails when any named column is missing or has an empty cell.
type Required struct {
	Columns []string
}

func (t *Required) Name() string { return "require_values" }

func (t *Required) Apply(ctx context.Context, f *table.Frame) (*table.Frame, error) {
	for _, name := range t.Columns {
		col, ok := f.ColumnByName(name)
		if !ok {
			return f, fmt.Errorf("missing column %s", name)
		}
		for i := 0; i < col.Len(); i++ {
			if col.IsNull(i) || col.Format(i) == "" {
				return f, fmt.Errorf("column %s is empty at row %d", name, i+1)
			}
		}
	}
	return f, nil
}
