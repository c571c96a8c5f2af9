package csvio

import (
	"encoding/csv"
	"io"

	"github.com/wdm0006/tabsplit/pkg/table"
)

type WriterOptions struct {
	Delimiter rune // default ','
	// BOM prefixes the output with a UTF-8 byte order mark so spreadsheet
	// applications pick the right encoding.
	BOM bool
}

// StreamWriter writes the column-name row and caption rows once, then
// appends the rows of every frame handed to Write.
type StreamWriter struct {
	w           *csv.Writer
	out         io.Writer
	opt         WriterOptions
	wroteHeader bool
}

func NewStreamWriter(w io.Writer, opt WriterOptions) *StreamWriter {
	cw := csv.NewWriter(w)
	if opt.Delimiter != 0 {
		cw.Comma = opt.Delimiter
	}
	return &StreamWriter{w: cw, out: w, opt: opt}
}

func (s *StreamWriter) Write(fr *table.Frame) error {
	if !s.wroteHeader {
		if s.opt.BOM {
			if _, err := io.WriteString(s.out, "\ufeff"); err != nil {
				return err
			}
		}
		if err := s.w.Write(fr.Names()); err != nil {
			return err
		}
		for _, row := range fr.Caption() {
			if err := s.w.Write(fit(row, fr.Cols())); err != nil {
				return err
			}
		}
		s.wroteHeader = true
	}
	for r := 0; r < fr.Rows(); r++ {
		if err := s.w.Write(fr.Record(r)); err != nil {
			return err
		}
	}
	s.w.Flush()
	return s.w.Error()
}

func (s *StreamWriter) Close() error {
	s.w.Flush()
	return s.w.Error()
}

// WriteAll writes a Frame, header block included, to w.
func WriteAll(w io.Writer, f *table.Frame, opt WriterOptions) error {
	s := NewStreamWriter(w, opt)
	if err := s.Write(f); err != nil {
		return err
	}
	return s.Close()
}

// fit pads or cuts a caption row to the frame width.
func fit(row []string, n int) []string {
	if len(row) == n {
		return row
	}
	out := make([]string, n)
	copy(out, row)
	return out
}
