package report

import (
	"fmt"

	"github.com/dgallion1/layoutcheck/internal/check"
	"github.com/xuri/excelize/v2"
)

// XLSXContentType is the media type of XLSX output.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	paramsSheet     = "Parameters"
	mismatchesSheet = "Mismatches"
)

// XLSX renders the outcome as a workbook with one row per parameter and,
// when the candidate does not conform, a second sheet of mismatches.
func XLSX(o *check.Outcome) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", paramsSheet); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}

	params := o.Candidate.Params()
	headers := []any{"Key", "Value", "Block", "Line", "x0", "y0", "x1", "y1"}
	if err := f.SetSheetRow(paramsSheet, "A1", &headers); err != nil {
		return nil, fmt.Errorf("xlsx header: %w", err)
	}
	for i, k := range params.Keys() {
		p := params[k]
		row := []any{k, p.Value, p.Position.Block, p.Position.Line, p.Coord.X0, p.Coord.Y0, p.Coord.X1, p.Coord.Y1}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(paramsSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("xlsx row %q: %w", k, err)
		}
	}
	_ = f.SetColWidth(paramsSheet, "A", "A", 20)
	_ = f.SetColWidth(paramsSheet, "B", "B", 48)

	if len(o.Result.Diagnostics) > 0 {
		if _, err := f.NewSheet(mismatchesSheet); err != nil {
			return nil, fmt.Errorf("xlsx sheet: %w", err)
		}
		_ = f.SetCellValue(mismatchesSheet, "A1", "Key")
		_ = f.SetCellValue(mismatchesSheet, "B1", "Reason")
		_ = f.SetCellValue(mismatchesSheet, "C1", "Detail")
		for i, d := range o.Result.Diagnostics {
			write := func(col int, v any) {
				cell, _ := excelize.CoordinatesToCellName(col, i+2)
				_ = f.SetCellValue(mismatchesSheet, cell, v)
			}
			write(1, d.Key)
			write(2, string(d.Reason))
			write(3, d.String())
		}
		_ = f.SetColWidth(mismatchesSheet, "C", "C", 80)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
