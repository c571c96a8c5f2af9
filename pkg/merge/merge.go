// Package merge concatenates same-shaped tables under the header of the
// first one that loads, keeping spreadsheets and delimited text apart.
package merge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/wdm0006/tabsplit/pkg/io/tabular"
	"github.com/wdm0006/tabsplit/pkg/table"
)

// ErrShapeMismatch marks a source with more columns than the retained header.
var ErrShapeMismatch = errors.New("source has more columns than the header")

// DefaultHeaderRows is the caption depth of the marketplace export sheets.
const DefaultHeaderRows = 6

// Source is one named input file. A source whose bytes could not be
// fetched carries the error in Err and is recorded as a failure.
type Source struct {
	Name string
	Data []byte
	Err  error
}

// Outcome records what happened to one source.
type Outcome struct {
	Source string
	Format tabular.Format
	Family tabular.Family
	Rows   int
	Err    error
}

func (o Outcome) String() string {
	base := filepath.Base(o.Source)
	if o.Err != nil {
		if o.Format == tabular.FormatUnknown {
			return fmt.Sprintf("failed to read file %s: %v", base, o.Err)
		}
		return fmt.Sprintf("failed to read %s file %s: %v", o.Format, base, o.Err)
	}
	return fmt.Sprintf("merged %s file: %s (%d rows)", o.Format, base, o.Rows)
}

// Result holds one merged table per format family; a family with no
// successful source is nil.
type Result struct {
	Spreadsheet *table.Frame
	Text        *table.Frame
	// Template is the workbook the spreadsheet header came from, after
	// preprocessing. Writers copy its header formatting.
	Template []byte
	Outcomes []Outcome
}

// Succeeded counts sources that contributed rows (or at least a header).
func (r *Result) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err == nil {
			n++
		}
	}
	return n
}

// Rows is the number of data rows across both outputs.
func (r *Result) Rows() int {
	n := 0
	for _, f := range []*table.Frame{r.Spreadsheet, r.Text} {
		if f != nil {
			n += f.Rows()
		}
	}
	return n
}

// Empty reports whether no source merged.
func (r *Result) Empty() bool { return r.Spreadsheet == nil && r.Text == nil }

// Log renders one line per source outcome.
func (r *Result) Log() []string {
	out := make([]string, len(r.Outcomes))
	for i, o := range r.Outcomes {
		out[i] = o.String()
	}
	return out
}

// LoadFunc reads one source into a frame.
type LoadFunc func(name string, r io.Reader, opt tabular.Options) (*table.Frame, error)

// Merger combines sources in order. Failures are recorded per source and
// never stop the batch.
type Merger struct {
	// HeaderRows caption rows sit under each source's column-name row. The
	// first source of a family keeps them; later sources drop them.
	HeaderRows int
	// Preprocess, when set, rewrites a source before it is loaded.
	Preprocess func(name string, data []byte) ([]byte, error)
	// Load defaults to tabular.Load.
	Load     LoadFunc
	Encoding string
	Logger   *slog.Logger
	Progress func(done, total int)
}

// Merge runs the sources in order. Context cancellation is checked between
// sources.
func (m *Merger) Merge(ctx context.Context, sources []Source) (*Result, error) {
	if m.HeaderRows < 0 {
		return nil, fmt.Errorf("merge: negative header rows %d", m.HeaderRows)
	}
	load := m.Load
	if load == nil {
		load = tabular.Load
	}
	log := m.Logger
	if log == nil {
		log = slog.Default()
	}
	opt := tabular.Options{
		HeaderRows:       m.HeaderRows,
		AllText:          true,
		KeepCaption:      true,
		Encoding:         m.Encoding,
		FallbackEncoding: "utf-8",
	}

	res := &Result{}
	for i, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out := m.one(load, opt, src, res)
		res.Outcomes = append(res.Outcomes, out)
		if out.Err != nil {
			log.Warn("merge source failed", "source", src.Name, "err", out.Err)
		} else {
			log.Debug("merge source", "source", src.Name, "family", out.Family.String(), "rows", out.Rows)
		}
		if m.Progress != nil {
			m.Progress(i+1, len(sources))
		}
	}
	return res, nil
}

func (m *Merger) one(load LoadFunc, opt tabular.Options, src Source, res *Result) Outcome {
	format := tabular.FormatOf(src.Name)
	out := Outcome{Source: src.Name, Format: format, Family: format.Family()}
	if src.Err != nil {
		out.Err = src.Err
		return out
	}
	data := src.Data
	if m.Preprocess != nil {
		d, err := m.Preprocess(src.Name, data)
		if err != nil {
			out.Err = fmt.Errorf("preprocess: %w", err)
			return out
		}
		data = d
	}
	f, err := load(src.Name, bytes.NewReader(data), opt)
	if err != nil {
		out.Err = err
		return out
	}
	target := &res.Text
	if out.Family == tabular.FamilySpreadsheet {
		target = &res.Spreadsheet
	}
	out.Rows = f.Rows()
	if *target == nil {
		*target = f
		if out.Family == tabular.FamilySpreadsheet {
			res.Template = data
		}
		return out
	}
	if f.Cols() > (*target).Cols() {
		out.Err = fmt.Errorf("%w: %d > %d", ErrShapeMismatch, f.Cols(), (*target).Cols())
		out.Rows = 0
		return out
	}
	if err := (*target).Append(f); err != nil {
		out.Err = err
		out.Rows = 0
	}
	return out
}
