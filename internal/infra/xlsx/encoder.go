package xlsx

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"survey-service/internal/app"
)

// Encoder renders export sheets into an xlsx workbook via excelize.
type Encoder struct{}

func NewEncoder() *Encoder {
	return &Encoder{}
}

// ContentType is the MIME type of the produced workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (e *Encoder) Encode(sheets []app.Sheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			// excelize starts with one default sheet; reuse it for the first tab
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return nil, fmt.Errorf("create sheet %q: %w", sheet.Name, err)
		}

		for r := range sheet.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				return nil, fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetSheetRow(sheet.Name, cell, &sheet.Rows[r]); err != nil {
				return nil, fmt.Errorf("write row %d of %q: %w", r+1, sheet.Name, err)
			}
		}
		for c, width := range sheet.ColWidths {
			col, err := excelize.ColumnNumberToName(c + 1)
			if err != nil {
				return nil, fmt.Errorf("column name: %w", err)
			}
			if err := f.SetColWidth(sheet.Name, col, col, width); err != nil {
				return nil, fmt.Errorf("set width of %s!%s: %w", sheet.Name, col, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
