// Package partition cuts a frame into chunks without ever separating rows
// that share a key value.
package partition

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/wdm0006/tabsplit/pkg/table"
)

// Mode selects what the size bound counts.
type Mode int

const (
	// ModeGroups bounds each chunk by the number of distinct keys.
	ModeGroups Mode = iota
	// ModeRows bounds each chunk by its row count, packing whole groups.
	ModeRows
)

func (m Mode) String() string {
	if m == ModeRows {
		return "rows"
	}
	return "groups"
}

// ParseMode accepts the mode names and their marketplace aliases.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "groups", "group", "ids", "shopee":
		return ModeGroups, nil
	case "rows", "row", "yahoo":
		return ModeRows, nil
	}
	return ModeGroups, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// DefaultKey is the usual key column for a mode.
func (m Mode) DefaultKey() string {
	if m == ModeRows {
		return "賣場編號"
	}
	return "商品 ID"
}

// GroupOrder is the order groups are packed in row mode.
type GroupOrder int

const (
	OrderFirstAppearance GroupOrder = iota
	// OrderSorted packs groups by natural key order: numeric when every
	// key is a number, lexicographic otherwise. The empty key sorts last.
	OrderSorted
)

func ParseGroupOrder(s string) (GroupOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "first", "first-appearance", "appearance":
		return OrderFirstAppearance, nil
	case "sorted", "sort", "key":
		return OrderSorted, nil
	}
	return OrderFirstAppearance, fmt.Errorf("unknown group order %q", s)
}

type config struct {
	order GroupOrder
}

type Option func(*config)

func WithGroupOrder(o GroupOrder) Option { return func(c *config) { c.order = o } }

// Chunk is one partition of the source frame.
type Chunk struct {
	Index  int // 1-based
	Frame  *table.Frame
	Rows   int
	Groups int
}

// group is the rows of one key value, in source order.
type group struct {
	key  string
	rows []int
}

// Partition splits f by the values of key under bound. It returns the
// chunks in output order and one log detail per chunk. The source frame is
// not modified and no helper column is added to the chunks.
func Partition(f *table.Frame, key string, bound int, mode Mode, opts ...Option) ([]Chunk, []string, error) {
	col, ok := f.ColumnByName(key)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrMissingColumn, key)
	}
	if bound < 1 {
		return nil, nil, fmt.Errorf("%w: got %d", ErrInvalidBound, bound)
	}
	cfg := config{}
	for _, o := range opts {
		o(&cfg)
	}
	groups := groupRows(col)

	var chunks []Chunk
	var details []string
	switch mode {
	case ModeGroups:
		chunks = byGroups(f, col, groups, bound)
		for _, c := range chunks {
			details = append(details, fmt.Sprintf("contains %d rows covering %d distinct %s", c.Rows, c.Groups, key))
		}
	case ModeRows:
		if cfg.order == OrderSorted {
			sortGroups(groups)
		}
		chunks = byRows(f, groups, bound)
		for _, c := range chunks {
			details = append(details, fmt.Sprintf("contains %d rows", c.Rows))
		}
	default:
		return nil, nil, fmt.Errorf("%w: %d", ErrUnknownMode, mode)
	}
	return chunks, details, nil
}

// groupRows collects rows per formatted key value in first-appearance
// order. Null keys share the empty key.
func groupRows(col table.Column) []*group {
	index := make(map[string]int)
	var groups []*group
	for i := 0; i < col.Len(); i++ {
		k := col.Format(i)
		g, ok := index[k]
		if !ok {
			g = len(groups)
			index[k] = g
			groups = append(groups, &group{key: k})
		}
		groups[g].rows = append(groups[g].rows, i)
	}
	return groups
}

// byGroups gives every key a dense sequence number and assigns row i to
// chunk (seq-1)/bound, keeping source row order inside each chunk.
func byGroups(f *table.Frame, col table.Column, groups []*group, bound int) []Chunk {
	seq := make(map[string]int, len(groups))
	for i, g := range groups {
		seq[g.key] = i
	}
	n := (len(groups) + bound - 1) / bound
	rows := make([][]int, n)
	for i := 0; i < col.Len(); i++ {
		c := seq[col.Format(i)] / bound
		rows[c] = append(rows[c], i)
	}
	var out []Chunk
	for c, rr := range rows {
		if len(rr) == 0 {
			continue
		}
		ng := bound
		if rest := len(groups) - c*bound; rest < ng {
			ng = rest
		}
		out = append(out, Chunk{Index: len(out) + 1, Frame: f.Take(rr), Rows: len(rr), Groups: ng})
	}
	return out
}

// byRows packs whole groups greedily while the chunk stays within bound.
// A group larger than bound gets a chunk of its own.
func byRows(f *table.Frame, groups []*group, bound int) []Chunk {
	var out []Chunk
	var cur []int
	ng := 0
	flush := func() {
		if len(cur) == 0 {
			return
		}
		out = append(out, Chunk{Index: len(out) + 1, Frame: f.Take(cur), Rows: len(cur), Groups: ng})
		cur, ng = nil, 0
	}
	for _, g := range groups {
		if len(cur) > 0 && len(cur)+len(g.rows) > bound {
			flush()
		}
		cur = append(cur, g.rows...)
		ng++
	}
	flush()
	return out
}

func sortGroups(groups []*group) {
	numeric := true
	nums := make(map[string]float64, len(groups))
	for _, g := range groups {
		if g.key == "" {
			continue
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(g.key), 64)
		if err != nil {
			numeric = false
			break
		}
		nums[g.key] = x
	}
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i].key, groups[j].key
		if a == "" || b == "" {
			return b == "" && a != ""
		}
		if numeric {
			return nums[a] < nums[b]
		}
		return a < b
	})
}

// Frames returns the chunk frames in order, ready for a table.SliceSource.
func Frames(chunks []Chunk) []*table.Frame {
	out := make([]*table.Frame, len(chunks))
	for i, c := range chunks {
		out[i] = c.Frame
	}
	return out
}
