package standardize

import (
	"context"

	"github.com/wdm0006/tabsplit/pkg/table"
	"github.com/wdm0006/tabsplit/pkg/transform/columns"
)

// MapValues rewrites cells of one column through a lookup table. Non-text
// columns are converted to text first so numeric codes can be mapped too.
type MapValues struct {
	Column string
	Map    map[string]string
}

func (t *MapValues) Name() string { return "map_values" }

func (t *MapValues) Apply(ctx context.Context, f *table.Frame) (*table.Frame, error) {
	col, ok := f.ColumnByName(t.Column)
	if !ok {
		return f, nil
	}
	c, ok := col.(*table.StringColumn)
	if !ok {
		c = columns.AsText(col)
		if err := f.ReplaceColumn(t.Column, c); err != nil {
			return f, err
		}
	}
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			continue
		}
		v, _ := c.Get(i)
		if nv, ok := t.Map[v]; ok {
			c.Set(i, nv)
		}
	}
	return f, nil
}
