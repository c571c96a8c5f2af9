package report

import (
	"fmt"
	"math"
	"sort"

	"github.com/wdm0006/tabsplit/pkg/table"
)

type NumStats struct {
	Count int
	Nulls int
	Min   float64
	Max   float64
	Sum   float64
}

type TextStats struct {
	Count int
	Nulls int
	Freqs map[string]int
}

type ColumnProfile struct {
	Name string
	Kind table.Kind
	Num  *NumStats
	Text *TextStats
}

// Collector accumulates per-column statistics over one or more frames of
// the same schema.
type Collector struct {
	cols  []ColumnProfile
	index map[string]int
	topK  int
}

func NewCollector(s table.Schema, topK int) *Collector {
	c := &Collector{index: make(map[string]int), topK: topK}
	c.cols = make([]ColumnProfile, len(s.Columns))
	for i, cs := range s.Columns {
		cp := ColumnProfile{Name: cs.Name, Kind: cs.Type}
		switch cs.Type {
		case table.KindFloat, table.KindInt:
			cp.Num = &NumStats{Min: math.Inf(1), Max: math.Inf(-1)}
		default:
			cp.Text = &TextStats{Freqs: make(map[string]int)}
		}
		c.cols[i] = cp
		c.index[cs.Name] = i
	}
	return c
}

func (c *Collector) ConsumeFrame(f *table.Frame) {
	for ci, cs := range f.Schema().Columns {
		idx, ok := c.index[cs.Name]
		if !ok {
			continue
		}
		cp := &c.cols[idx]
		col := f.Column(ci)
		for i := 0; i < col.Len(); i++ {
			switch {
			case cp.Num != nil:
				if col.IsNull(i) {
					cp.Num.Nulls++
					continue
				}
				v := number(col.Value(i))
				cp.Num.Count++
				cp.Num.Min = math.Min(cp.Num.Min, v)
				cp.Num.Max = math.Max(cp.Num.Max, v)
				cp.Num.Sum += v
			default:
				if col.IsNull(i) {
					cp.Text.Nulls++
					continue
				}
				cp.Text.Count++
				cp.Text.Freqs[col.Format(i)]++
			}
		}
	}
}

func number(v any) float64 {
	switch x := v.(type) {
	case int64:
		return float64(x)
	case float64:
		return x
	}
	return math.NaN()
}

func (c *Collector) Columns() []ColumnProfile { return c.cols }

// Lines renders one line per column, plus the topK most frequent values of
// text columns.
func (c *Collector) Lines() []string {
	var out []string
	for _, cp := range c.cols {
		head := fmt.Sprintf("column %s (%v): ", cp.Name, cp.Kind)
		if cp.Num != nil {
			mean := 0.0
			if cp.Num.Count > 0 {
				mean = cp.Num.Sum / float64(cp.Num.Count)
			} else {
				cp.Num.Min, cp.Num.Max = 0, 0
			}
			out = append(out, head+fmt.Sprintf("count=%d nulls=%d min=%.6g max=%.6g mean=%.6g",
				cp.Num.Count, cp.Num.Nulls, cp.Num.Min, cp.Num.Max, mean))
			continue
		}
		out = append(out, head+fmt.Sprintf("count=%d nulls=%d distinct=%d", cp.Text.Count, cp.Text.Nulls, len(cp.Text.Freqs)))
		for _, kv := range top(cp.Text.Freqs, c.topK) {
			out = append(out, fmt.Sprintf("  %q: %d", kv.k, kv.v))
		}
	}
	return out
}

type kv struct {
	k string
	v int
}

func top(freqs map[string]int, n int) []kv {
	if n <= 0 {
		return nil
	}
	arr := make([]kv, 0, len(freqs))
	for k, v := range freqs {
		arr = append(arr, kv{k, v})
	}
	sort.Slice(arr, func(i, j int) bool {
		if arr[i].v != arr[j].v {
			return arr[i].v > arr[j].v
		}
		return arr[i].k < arr[j].k
	})
	if n > len(arr) {
		n = len(arr)
	}
	return arr[:n]
}
