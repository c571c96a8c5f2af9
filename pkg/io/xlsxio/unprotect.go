package xlsxio

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Unprotect returns a copy of the workbook with sheet protection removed
// from every sheet. Password-protected sheets are unlocked without a
// password check, as the desktop applications do for legacy protection.
func Unprotect(data []byte) ([]byte, error) {
	xf, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer func() { _ = xf.Close() }()
	for _, sheet := range xf.GetSheetList() {
		if err := xf.UnprotectSheet(sheet); err != nil {
			return nil, fmt.Errorf("unprotect sheet %s: %w", sheet, err)
		}
	}
	buf, err := xf.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
