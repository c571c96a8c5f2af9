package standardize

import (
	"context"
	"strings"

	"github.com/wdm0006/tabsplit/pkg/table"
)

// Trim strips surrounding whitespace from text cells. An empty Columns list
// trims every text column.
type Trim struct{ Columns []string }

func (t *Trim) Name() string { return "trim" }

func (t *Trim) Apply(ctx context.Context, f *table.Frame) (*table.Frame, error) {
	for _, c := range textColumns(f, t.Columns) {
		for i := 0; i < c.Len(); i++ {
			if c.IsNull(i) {
				continue
			}
			v, _ := c.Get(i)
			if s := strings.TrimSpace(v); s != v {
				c.Set(i, s)
			}
		}
	}
	return f, nil
}

// textColumns resolves names to the frame's string columns, skipping
// names that are absent or not text.
func textColumns(f *table.Frame, names []string) []*table.StringColumn {
	var out []*table.StringColumn
	if len(names) == 0 {
		for i := 0; i < f.Cols(); i++ {
			if c, ok := f.Column(i).(*table.StringColumn); ok {
				out = append(out, c)
			}
		}
		return out
	}
	for _, n := range names {
		col, ok := f.ColumnByName(n)
		if !ok {
			continue
		}
		if c, ok := col.(*table.StringColumn); ok {
			out = append(out, c)
		}
	}
	return out
}
