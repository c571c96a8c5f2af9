package xlsxio

import (
	"bytes"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/wdm0006/tabsplit/pkg/table"
)

// DefaultSheet is the sheet name new workbooks are written to.
const DefaultSheet = "Sheet1"

// numFmtText is the builtin "@" number format.
const numFmtText = 49

type WriterOptions struct {
	Sheet string
	// TextColumns get the text number format so spreadsheet applications
	// keep identifiers as typed.
	TextColumns []string
	// Template is a workbook whose header block (cell styles, row heights,
	// column widths) is copied onto the written header block.
	Template []byte
}

// WriteAll writes f as a single-sheet workbook: the column-name row, the
// caption rows, then the data rows.
func WriteAll(w io.Writer, f *table.Frame, opt WriterOptions) error {
	xf := excelize.NewFile()
	defer func() { _ = xf.Close() }()

	sheet := opt.Sheet
	if sheet == "" {
		sheet = DefaultSheet
	}
	if sheet != DefaultSheet {
		if err := xf.SetSheetName(DefaultSheet, sheet); err != nil {
			return err
		}
	}
	sw, err := xf.NewStreamWriter(sheet)
	if err != nil {
		return err
	}
	textStyle, err := xf.NewStyle(&excelize.Style{NumFmt: numFmtText})
	if err != nil {
		return err
	}
	var hf *headerFormat
	if len(opt.Template) > 0 {
		if hf, err = copyHeaderFormat(xf, opt.Template, 1+len(f.Caption()), f.Cols()); err != nil {
			return err
		}
		for c, w := range hf.widths {
			if err := sw.SetColWidth(c+1, c+1, w); err != nil {
				return err
			}
		}
	}
	text := make([]bool, f.Cols())
	for _, n := range opt.TextColumns {
		if i := f.ColumnIndex(n); i >= 0 {
			text[i] = true
		}
	}

	line := 1
	put := func(cells []any, opts ...excelize.RowOpts) error {
		cell, err := excelize.CoordinatesToCellName(1, line)
		if err != nil {
			return err
		}
		line++
		return sw.SetRow(cell, cells, opts...)
	}

	hdr := make([]any, f.Cols())
	for i, n := range f.Names() {
		hdr[i] = n
	}
	if err := put(hf.apply(0, hdr), hf.rowOpts(0)...); err != nil {
		return err
	}
	for k, row := range f.Caption() {
		cells := make([]any, f.Cols())
		for i := range cells {
			if i < len(row) && row[i] != "" {
				cells[i] = row[i]
			}
		}
		if err := put(hf.apply(k+1, cells), hf.rowOpts(k+1)...); err != nil {
			return err
		}
	}
	for r := 0; r < f.Rows(); r++ {
		cells := make([]any, f.Cols())
		for c := 0; c < f.Cols(); c++ {
			col := f.Column(c)
			var v any
			if !col.IsNull(r) {
				v = cellValue(col, r)
			}
			if text[c] {
				if v != nil {
					v = col.Format(r)
				}
				cells[c] = excelize.Cell{StyleID: textStyle, Value: v}
				continue
			}
			cells[c] = v
		}
		if err := put(cells); err != nil {
			return fmt.Errorf("row %d: %w", r+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	_, err = xf.WriteTo(w)
	return err
}

// cellValue keeps numbers and booleans typed; times are written as text.
func cellValue(col table.Column, r int) any {
	switch col.Kind() {
	case table.KindInt, table.KindFloat, table.KindBool:
		return col.Value(r)
	default:
		return col.Format(r)
	}
}

// headerFormat is the look of a template's header block, with styles
// already registered in the destination workbook.
type headerFormat struct {
	styles  [][]int
	heights []float64
	widths  []float64
}

// copyHeaderFormat reads the first rows rows of the template's sheet,
// starting at its first non-empty row, and registers their cell styles in
// dst.
func copyHeaderFormat(dst *excelize.File, tpl []byte, rows, cols int) (*headerFormat, error) {
	src, err := excelize.OpenReader(bytes.NewReader(tpl))
	if err != nil {
		return nil, fmt.Errorf("xlsx template: %w", err)
	}
	defer func() { _ = src.Close() }()
	sheet, err := pickSheet(src, "")
	if err != nil {
		return nil, err
	}
	all, err := src.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("xlsx template: %w", err)
	}
	top := 1
	for i, row := range all {
		if !blank(row) {
			top = i + 1
			break
		}
	}

	hf := &headerFormat{}
	for c := 1; c <= cols; c++ {
		name, err := excelize.ColumnNumberToName(c)
		if err != nil {
			return nil, err
		}
		w, err := src.GetColWidth(sheet, name)
		if err != nil {
			return nil, err
		}
		hf.widths = append(hf.widths, w)
	}
	for r := 0; r < rows; r++ {
		h, err := src.GetRowHeight(sheet, top+r)
		if err != nil {
			return nil, err
		}
		hf.heights = append(hf.heights, h)
		ids := make([]int, cols)
		for c := range ids {
			cell, err := excelize.CoordinatesToCellName(c+1, top+r)
			if err != nil {
				return nil, err
			}
			id, err := src.GetCellStyle(sheet, cell)
			if err != nil || id == 0 {
				continue
			}
			st, err := src.GetStyle(id)
			if err != nil {
				continue
			}
			if ids[c], err = dst.NewStyle(st); err != nil {
				return nil, fmt.Errorf("xlsx template style %s: %w", cell, err)
			}
		}
		hf.styles = append(hf.styles, ids)
	}
	return hf, nil
}

// apply wraps the cells of header row r in their template styles.
func (hf *headerFormat) apply(r int, cells []any) []any {
	if hf == nil || r >= len(hf.styles) {
		return cells
	}
	for c, id := range hf.styles[r] {
		if id != 0 && c < len(cells) {
			cells[c] = excelize.Cell{StyleID: id, Value: cells[c]}
		}
	}
	return cells
}

func (hf *headerFormat) rowOpts(r int) []excelize.RowOpts {
	if hf == nil || r >= len(hf.heights) {
		return nil
	}
	return []excelize.RowOpts{{Height: hf.heights[r]}}
}
