// Package xlsxio reads and writes single-sheet spreadsheet workbooks.
package xlsxio

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/wdm0006/tabsplit/pkg/table"
)

var (
	ErrNoSheet  = errors.New("xlsx: workbook has no sheets")
	ErrNoHeader = errors.New("xlsx: no header row")
)

type ReaderOptions struct {
	HeaderRows  int // caption rows between the column names and the data
	TextColumns []string
	AllText     bool
	KeepCaption bool
	Strict      bool
	// Sheet selects a sheet by name; empty means the active sheet.
	Sheet string
}

// Read loads one sheet of the workbook in r. Leading empty rows are skipped,
// the first non-empty row names the columns, the next HeaderRows rows are
// the caption and fully empty data rows are dropped. Cells are read as
// their raw stored values so identifiers are not reformatted.
func Read(r io.Reader, opt ReaderOptions) (*table.Frame, error) {
	if opt.HeaderRows < 0 {
		return nil, fmt.Errorf("xlsx: negative header rows %d", opt.HeaderRows)
	}
	xf, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer func() {
		_ = xf.Close()
	}()

	sheet, err := pickSheet(xf, opt.Sheet)
	if err != nil {
		return nil, err
	}
	iter, err := xf.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to open rows iterator for sheet %s: %w", sheet, err)
	}
	defer func() { _ = iter.Close() }()

	var rec table.Records
	first := true
	for iter.Next() {
		row, err := iter.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("failed to read row in sheet %s: %w", sheet, err)
		}
		switch {
		case first:
			if blank(row) {
				continue
			}
			rec.Names = row
			first = false
		case len(rec.Caption) < opt.HeaderRows:
			rec.Caption = append(rec.Caption, row)
		case !blank(row):
			rec.Rows = append(rec.Rows, row)
		}
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if first {
		return nil, ErrNoHeader
	}
	// trailing empty header cells come from formatting unless a data row
	// has a value under them
	width := 0
	for _, row := range rec.Rows {
		for i := len(row); i > width; i-- {
			if strings.TrimSpace(row[i-1]) != "" {
				width = i
				break
			}
		}
	}
	for len(rec.Names) > width && strings.TrimSpace(rec.Names[len(rec.Names)-1]) == "" {
		rec.Names = rec.Names[:len(rec.Names)-1]
	}
	for len(rec.Names) < width {
		rec.Names = append(rec.Names, "")
	}
	f, _, err := rec.Build(rec.Infer(opt.TextColumns, opt.AllText), opt.KeepCaption, opt.Strict)
	if err != nil {
		return nil, fmt.Errorf("xlsx %w", err)
	}
	return f, nil
}

func pickSheet(xf *excelize.File, name string) (string, error) {
	sheets := xf.GetSheetList()
	if len(sheets) == 0 {
		return "", ErrNoSheet
	}
	if name != "" {
		for _, s := range sheets {
			if s == name {
				return s, nil
			}
		}
		return "", fmt.Errorf("xlsx: sheet %q not found", name)
	}
	if active := xf.GetSheetName(xf.GetActiveSheetIndex()); active != "" {
		return active, nil
	}
	return sheets[0], nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
