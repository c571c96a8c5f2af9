package table

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Schema describes the logical shape of a dataset.
type Schema struct {
	Columns []ColumnSchema
}

type ColumnSchema struct {
	Name     string
	Type     Kind
	Nullable bool
}

// Names returns the column names in order.
func (s Schema) Names() []string {
	out := make([]string, len(s.Columns))
	for i, cs := range s.Columns {
		out[i] = cs.Name
	}
	return out
}

// TextSchema builds a schema where every column is a nullable string.
func TextSchema(names []string) Schema {
	s := Schema{Columns: make([]ColumnSchema, len(names))}
	for i, n := range names {
		s.Columns[i] = ColumnSchema{Name: n, Type: KindString, Nullable: true}
	}
	return s
}

// Kind enumerates supported logical types.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindTime:
		return "time"
	default:
		return "invalid"
	}
}

// TimeLayout is used when formatting time cells as text.
const TimeLayout = "2006-01-02T15:04:05Z07:00"

// Column is a typed, nullable column abstraction.
type Column interface {
	Name() string
	Kind() Kind
	Len() int
	IsNull(i int) bool
	SetNull(i int)
	// Value returns the cell as a Go value, or nil when null.
	Value(i int) any
	// Format renders the cell as text; null cells render empty.
	Format(i int) string
	AppendNull()
	AppendValue(v any) error

	take(rows []int) Column
	drop()
}

// Series is the single implementation behind every column kind.
type Series[T any] struct {
	name  string
	kind  Kind
	data  []T
	nulls []bool
}

type (
	BoolColumn   = Series[bool]
	IntColumn    = Series[int64]
	FloatColumn  = Series[float64]
	StringColumn = Series[string]
	TimeColumn   = Series[time.Time]
)

func newSeries[T any](name string, kind Kind, n int) *Series[T] {
	return &Series[T]{name: name, kind: kind, data: make([]T, n), nulls: make([]bool, n)}
}

func NewBoolColumn(name string, n int) *BoolColumn     { return newSeries[bool](name, KindBool, n) }
func NewIntColumn(name string, n int) *IntColumn       { return newSeries[int64](name, KindInt, n) }
func NewFloatColumn(name string, n int) *FloatColumn   { return newSeries[float64](name, KindFloat, n) }
func NewStringColumn(name string, n int) *StringColumn { return newSeries[string](name, KindString, n) }
func NewTimeColumn(name string, n int) *TimeColumn     { return newSeries[time.Time](name, KindTime, n) }

func (c *Series[T]) Name() string        { return c.name }
func (c *Series[T]) Kind() Kind          { return c.kind }
func (c *Series[T]) Len() int            { return len(c.data) }
func (c *Series[T]) IsNull(i int) bool   { return c.nulls[i] }
func (c *Series[T]) SetNull(i int)       { c.nulls[i] = true }
func (c *Series[T]) Get(i int) (T, bool) { return c.data[i], !c.nulls[i] }
func (c *Series[T]) Set(i int, v T)      { c.data[i] = v; c.nulls[i] = false }
func (c *Series[T]) Append(v T)          { c.data = append(c.data, v); c.nulls = append(c.nulls, false) }

func (c *Series[T]) AppendNull() {
	var zero T
	c.data = append(c.data, zero)
	c.nulls = append(c.nulls, true)
}

func (c *Series[T]) Value(i int) any {
	if c.nulls[i] {
		return nil
	}
	return c.data[i]
}

func (c *Series[T]) Format(i int) string {
	if c.nulls[i] {
		return ""
	}
	return formatValue(c.data[i])
}

func (c *Series[T]) AppendValue(v any) error {
	x, err := coerce(c.kind, v)
	if err != nil {
		return fmt.Errorf("column %s: %w", c.name, err)
	}
	if x == nil {
		c.AppendNull()
		return nil
	}
	c.Append(x.(T))
	return nil
}

func (c *Series[T]) take(rows []int) Column {
	out := newSeries[T](c.name, c.kind, len(rows))
	for i, r := range rows {
		out.data[i] = c.data[r]
		out.nulls[i] = c.nulls[r]
	}
	return out
}

func formatValue(v any) string {
	switch t := v.(type) {
	case bool:
		return strconv.FormatBool(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case string:
		return t
	case time.Time:
		return t.Format(TimeLayout)
	default:
		return fmt.Sprint(t)
	}
}

// coerce converts v into the Go type backing kind. A nil result means null.
func coerce(kind Kind, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch kind {
	case KindBool:
		switch t := v.(type) {
		case bool:
			return t, nil
		case string:
			if strings.TrimSpace(t) == "" {
				return nil, nil
			}
			b, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(t)))
			if err != nil {
				return nil, fmt.Errorf("expects bool, got %q", t)
			}
			return b, nil
		}
	case KindInt:
		switch t := v.(type) {
		case int:
			return int64(t), nil
		case int64:
			return t, nil
		case float64:
			return int64(t), nil
		case string:
			if strings.TrimSpace(t) == "" {
				return nil, nil
			}
			x, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("expects int, got %q", t)
			}
			return x, nil
		}
	case KindFloat:
		switch t := v.(type) {
		case float32:
			return float64(t), nil
		case float64:
			return t, nil
		case int:
			return float64(t), nil
		case int64:
			return float64(t), nil
		case string:
			if strings.TrimSpace(t) == "" {
				return nil, nil
			}
			x, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
			if err != nil {
				return nil, fmt.Errorf("expects float64, got %q", t)
			}
			return x, nil
		}
	case KindString:
		switch t := v.(type) {
		case string:
			return t, nil
		case bool, int64, float64, time.Time:
			return formatValue(t), nil
		case int:
			return strconv.Itoa(t), nil
		}
	case KindTime:
		switch t := v.(type) {
		case time.Time:
			return t, nil
		case string:
			if strings.TrimSpace(t) == "" {
				return nil, nil
			}
			x, err := time.Parse(TimeLayout, strings.TrimSpace(t))
			if err != nil {
				return nil, fmt.Errorf("expects time, got %q", t)
			}
			return x, nil
		}
	default:
		return nil, fmt.Errorf("unknown column kind %d", kind)
	}
	return nil, fmt.Errorf("expects %s, got %T", kind, v)
}

func newColumn(cs ColumnSchema) Column {
	switch cs.Type {
	case KindBool:
		return NewBoolColumn(cs.Name, 0)
	case KindInt:
		return NewIntColumn(cs.Name, 0)
	case KindFloat:
		return NewFloatColumn(cs.Name, 0)
	case KindString:
		return NewStringColumn(cs.Name, 0)
	case KindTime:
		return NewTimeColumn(cs.Name, 0)
	default:
		panic("invalid column kind")
	}
}

// Frame is a columnar container for tabular data. Besides the column-name
// row a frame may carry caption rows: the raw header block that sat between
// the column names and the first data row of its source.
type Frame struct {
	schema  Schema
	cols    []Column
	index   map[string]int // name -> col index, first occurrence wins
	nrows   int
	caption [][]string
}

func NewFrame(s Schema) *Frame {
	f := &Frame{schema: s, cols: make([]Column, len(s.Columns)), index: make(map[string]int)}
	for i, cs := range s.Columns {
		f.cols[i] = newColumn(cs)
		if _, dup := f.index[cs.Name]; !dup {
			f.index[cs.Name] = i
		}
	}
	return f
}

func (f *Frame) Schema() Schema      { return f.schema }
func (f *Frame) Rows() int           { return f.nrows }
func (f *Frame) Cols() int           { return len(f.cols) }
func (f *Frame) Names() []string     { return f.schema.Names() }
func (f *Frame) Column(i int) Column { return f.cols[i] }

func (f *Frame) ColumnByName(name string) (Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.cols[i], true
}

// ColumnIndex returns the position of the named column or -1.
func (f *Frame) ColumnIndex(name string) int {
	if i, ok := f.index[name]; ok {
		return i
	}
	return -1
}

// Caption returns the header-block rows carried by the frame.
func (f *Frame) Caption() [][]string { return f.caption }

func (f *Frame) SetCaption(rows [][]string) {
	f.caption = make([][]string, len(rows))
	for i, r := range rows {
		f.caption[i] = append([]string(nil), r...)
	}
}

// AppendNullRow appends a row with all-null values.
func (f *Frame) AppendNullRow() {
	for _, c := range f.cols {
		c.AppendNull()
	}
	f.nrows++
}

// AppendRow appends one row of values aligned by position. Missing trailing
// values are null; extra values are an error.
func (f *Frame) AppendRow(values []any) error {
	if len(values) > len(f.cols) {
		return fmt.Errorf("row has %d values, frame has %d columns", len(values), len(f.cols))
	}
	for i, c := range f.cols {
		var v any
		if i < len(values) {
			v = values[i]
		}
		if err := c.AppendValue(v); err != nil {
			// keep columns aligned
			for _, done := range f.cols[:i] {
				done.drop()
			}
			return err
		}
	}
	f.nrows++
	return nil
}

func (c *Series[T]) drop() {
	c.data = c.data[:len(c.data)-1]
	c.nulls = c.nulls[:len(c.nulls)-1]
}

// SetCell sets a single cell value by name (row must exist).
func (f *Frame) SetCell(row int, name string, v any) error {
	i, ok := f.index[name]
	if !ok {
		return fmt.Errorf("unknown column: %s", name)
	}
	x, err := coerce(f.schema.Columns[i].Type, v)
	if err != nil {
		return fmt.Errorf("column %s: %w", name, err)
	}
	switch col := f.cols[i].(type) {
	case *BoolColumn:
		setOrNull(col, row, x)
	case *IntColumn:
		setOrNull(col, row, x)
	case *FloatColumn:
		setOrNull(col, row, x)
	case *StringColumn:
		setOrNull(col, row, x)
	case *TimeColumn:
		setOrNull(col, row, x)
	default:
		return fmt.Errorf("unknown column kind")
	}
	return nil
}

func setOrNull[T any](c *Series[T], row int, x any) {
	if x == nil {
		c.SetNull(row)
		return
	}
	c.Set(row, x.(T))
}

// CellString renders a single cell as text.
func (f *Frame) CellString(row, col int) string { return f.cols[col].Format(row) }

// Record renders one row as text, one field per column.
func (f *Frame) Record(row int) []string {
	out := make([]string, len(f.cols))
	for i, c := range f.cols {
		out[i] = c.Format(row)
	}
	return out
}

// Values returns one row as Go values (nil for null cells).
func (f *Frame) Values(row int) []any {
	out := make([]any, len(f.cols))
	for i, c := range f.cols {
		out[i] = c.Value(row)
	}
	return out
}

// Take builds a new frame holding the given rows, in the given order.
// The caption is shared by copy.
func (f *Frame) Take(rows []int) *Frame {
	out := &Frame{schema: f.schema, cols: make([]Column, len(f.cols)), index: f.index, nrows: len(rows)}
	for i, c := range f.cols {
		out.cols[i] = c.take(rows)
	}
	out.SetCaption(f.caption)
	return out
}

// Append copies every row of o onto f, aligning columns by position.
// o may have fewer columns than f; the rest are null.
func (f *Frame) Append(o *Frame) error {
	if o.Cols() > f.Cols() {
		return fmt.Errorf("cannot append %d columns onto %d", o.Cols(), f.Cols())
	}
	for r := 0; r < o.Rows(); r++ {
		if err := f.AppendRow(o.Values(r)); err != nil {
			return fmt.Errorf("row %d: %w", r, err)
		}
	}
	return nil
}

// ReplaceColumn swaps the named column for c, which must have the frame's
// row count. The schema follows c's kind.
func (f *Frame) ReplaceColumn(name string, c Column) error {
	i, ok := f.index[name]
	if !ok {
		return fmt.Errorf("unknown column: %s", name)
	}
	if c.Len() != f.nrows {
		return fmt.Errorf("column %s has %d rows, frame has %d", name, c.Len(), f.nrows)
	}
	cols := make([]ColumnSchema, len(f.schema.Columns))
	copy(cols, f.schema.Columns)
	cols[i].Type = c.Kind()
	f.schema = Schema{Columns: cols}
	f.cols[i] = c
	return nil
}

// Without returns a frame sharing f's columns minus the named ones.
func (f *Frame) Without(names ...string) *Frame {
	skip := make(map[string]bool, len(names))
	for _, n := range names {
		skip[n] = true
	}
	out := &Frame{index: make(map[string]int), nrows: f.nrows}
	var keep []int
	for i, cs := range f.schema.Columns {
		if skip[cs.Name] {
			continue
		}
		if _, dup := out.index[cs.Name]; !dup {
			out.index[cs.Name] = len(out.cols)
		}
		keep = append(keep, i)
		out.schema.Columns = append(out.schema.Columns, cs)
		out.cols = append(out.cols, f.cols[i])
	}
	// caption cells are positional, drop the same positions
	for _, row := range f.caption {
		kept := make([]string, 0, len(keep))
		for _, i := range keep {
			if i < len(row) {
				kept = append(kept, row[i])
			}
		}
		out.caption = append(out.caption, kept)
	}
	return out
}
