package validate

import (
	"context"
	"fmt"

	"github.com/wdm0006/tabsplit/pkg/table"
)

// InSet fails when a non-null cell of Column is outside Values. Cells are
// compared in their formatted text form.
type InSet struct {
	Column string
	Values map[string]struct{}
}

func NewInSet(col string, vals []string) *InSet {
	m := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		m[v] = struct{}{}
	}
	return &InSet{Column: col, Values: m}
}

func (t *InSet) Name() string { return "validate_in" }

func (t *InSet) Apply(ctx context.Context, f *table.Frame) (*table.Frame, error) {
	col, ok := f.ColumnByName(t.Column)
	if !ok {
		return f, nil
	}
	var bad int
	first := -1
	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) {
			continue
		}
		if _, ok := t.Values[col.Format(i)]; !ok {
			if first < 0 {
				first = i
			}
			bad++
		}
	}
	if bad > 0 {
		return f, fmt.Errorf("column %s has %d values outside allowed set (first at row %d: %q)", t.Column, bad, first+1, col.Format(first))
	}
	return f, nil
}
