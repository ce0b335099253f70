package transfer

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ecgf-team/roster-api/internal/domain"
)

const sheetName = "부서원"

var columnWidths = []float64{20, 18, 18, 8, 8}

// EncodeXLSX renders the roster as a workbook with a styled, frozen header row.
func EncodeXLSX(ms []domain.Member) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for i, h := range Header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("set header %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("style header %s: %w", cell, err)
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheetName, col, col, columnWidths[i]); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	for r, m := range ms {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, err
		}
		values := []any{m.Name, string(m.PrimaryArchetype), string(m.SecondaryArchetype), m.Years, string(m.Level)}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", r+2, err)
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseXLSX reads candidates from the first sheet of a workbook laid out like EncodeXLSX.
func ParseXLSX(data []byte) ([]domain.Candidate, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &domain.FormatError{Format: string(FormatXLSX), Reason: "엑셀 파일을 열 수 없습니다.", Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &domain.FormatError{Format: string(FormatXLSX), Reason: "시트가 없습니다."}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &domain.FormatError{Format: string(FormatXLSX), Reason: "시트를 읽을 수 없습니다.", Err: err}
	}
	// GetRows trims trailing empty cells, so an absent secondary would shorten the row.
	if len(rows) > 0 {
		width := len(rows[0])
		for i := 1; i < len(rows); i++ {
			for len(rows[i]) > 0 && len(rows[i]) < width {
				rows[i] = append(rows[i], "")
			}
		}
	}
	return readTable(string(FormatXLSX), rows)
}
