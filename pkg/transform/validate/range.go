package validate

import (
	"context"
	"fmt"

	"github.com/wdm0006/tabsplit/pkg/table"
)

// Range fails when a numeric cell of Column falls outside [Min, Max].
// Text columns are parsed; cells that are not numbers count as out of range.
type Range struct {
	Column string
	Min    *float64
	Max    *float64
}

func (t *Range) Name() string { return "validate_range" }

func (t *Range) Apply(ctx context.Context, f *table.Frame) (*table.Frame, error) {
	col, ok := f.ColumnByName(t.Column)
	if !ok {
		return f, nil
	}
	var bad int
	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) {
			continue
		}
		v, ok := number(col, i)
		if !ok || (t.Min != nil && v < *t.Min) || (t.Max != nil && v > *t.Max) {
			bad++
		}
	}
	if bad > 0 {
		return f, fmt.Errorf("column %s has %d out-of-range values", t.Column, bad)
	}
	return f, nil
}

func number(col table.Column, i int) (float64, bool) {
	switch c := col.(type) {
	case *table.FloatColumn:
		v, _ := c.Get(i)
		return v, true
	case *table.IntColumn:
		v, _ := c.Get(i)
		return float64(v), true
	}
	var v float64
	_, err := fmt.Sscan(col.Format(i), &v)
	return v, err == nil
}
