package table

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrLongRecord marks a data row carrying values past the last named column.
var ErrLongRecord = errors.New("record wider than header")

// Records is a source table as raw text: the column-name row, the caption
// rows below it and the data rows. Readers fill one and turn it into a
// Frame with Infer and Build.
type Records struct {
	Names   []string
	Caption [][]string
	Rows    [][]string
}

// RecordStats counts data rows whose width did not match the header.
type RecordStats struct {
	Short int
	Long  int
}

// Infer picks a kind per column. Columns named in text, or every column
// when allText is set, are kept as raw strings.
func (r *Records) Infer(text []string, allText bool) Schema {
	force := make(map[string]bool, len(text))
	for _, n := range text {
		force[n] = true
	}
	kinds := InferKinds(r.Rows, len(r.Names))
	s := Schema{Columns: make([]ColumnSchema, len(r.Names))}
	for i, n := range r.Names {
		k := kinds[i]
		if allText || force[n] {
			k = KindString
		}
		s.Columns[i] = ColumnSchema{Name: n, Type: k, Nullable: true}
	}
	return s
}

// Build converts the rows into a frame with schema s. Short rows pad with
// nulls, and strict turns them into an error. Blank cells past the last
// column are dropped; a long row with a value there is always an error.
// Cells of string columns are kept verbatim, others are trimmed before
// parsing.
func (r *Records) Build(s Schema, keepCaption, strict bool) (*Frame, RecordStats, error) {
	var st RecordStats
	f := NewFrame(s)
	if keepCaption {
		f.SetCaption(r.Caption)
	}
	width := len(s.Columns)
	vals := make([]any, width)
	for n, rec := range r.Rows {
		switch {
		case len(rec) < width:
			st.Short++
			if strict {
				return nil, st, fmt.Errorf("short record at row %d: need %d fields, got %d", n+1, width, len(rec))
			}
		case len(rec) > width:
			st.Long++
			if !blankCells(rec[width:]) {
				return nil, st, fmt.Errorf("%w at row %d: expected %d fields, saw %d", ErrLongRecord, n+1, width, len(rec))
			}
		}
		for i := range vals {
			vals[i] = nil
			if i >= len(rec) {
				continue
			}
			v := strings.ToValidUTF8(rec[i], "?")
			if s.Columns[i].Type != KindString {
				v = strings.TrimSpace(v)
			}
			if v != "" {
				vals[i] = v
			}
		}
		if err := f.AppendRow(vals); err != nil {
			return nil, st, fmt.Errorf("row %d: %w", n+1, err)
		}
	}
	return f, st, nil
}

func blankCells(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

var (
	intRe   = regexp.MustCompile(`^[-+]?[0-9]+$`)
	floatRe = regexp.MustCompile(`^[-+]?[0-9]*\.?[0-9]+([eE][-+]?[0-9]+)?$`)
)

// InferKinds picks the narrowest kind that parses every non-empty value of
// a column. Integers with leading zeros or more than 18 digits stay text
// so identifiers survive a round trip.
func InferKinds(rows [][]string, ncol int) []Kind {
	kinds := make([]Kind, ncol)
	for c := 0; c < ncol; c++ {
		seen, ints, floats, bools := 0, 0, 0, 0
		for _, row := range rows {
			if c >= len(row) {
				continue
			}
			v := strings.TrimSpace(row[c])
			if v == "" {
				continue
			}
			seen++
			switch {
			case intRe.MatchString(v) && !identifierLike(v):
				ints++
				floats++
			case floatRe.MatchString(v) && !identifierLike(v):
				floats++
			default:
				if lv := strings.ToLower(v); lv == "true" || lv == "false" {
					bools++
				}
			}
		}
		switch {
		case seen == 0:
			kinds[c] = KindString
		case ints == seen:
			kinds[c] = KindInt
		case floats == seen:
			kinds[c] = KindFloat
		case bools == seen:
			kinds[c] = KindBool
		default:
			kinds[c] = KindString
		}
	}
	return kinds
}

func identifierLike(v string) bool {
	digits := strings.TrimLeft(v, "+-")
	if len(digits) > 1 && digits[0] == '0' && digits[1] != '.' {
		return true
	}
	return intRe.MatchString(v) && len(digits) > 18
}
