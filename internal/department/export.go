package department

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const summarySheetName = "Department Summary"

// GenerateSummaryWorkbook renders the summary rows into a single-sheet
// xlsx workbook with a styled header and a named table.
func GenerateSummaryWorkbook(rows []SummaryRow) (*bytes.Buffer, error) {
	file := excelize.NewFile()
	defer file.Close()

	if _, err := file.NewSheet(summarySheetName); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	if err := setupSummarySheet(file, len(rows)); err != nil {
		return nil, err
	}

	for i, row := range rows {
		rowData := []interface{}{
			row.Code,
			row.NameTH,
			row.NameEN,
			row.TotalEmployees,
			row.ActiveEmployees,
			row.InactiveEmployees,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := file.SetSheetRow(summarySheetName, cell, &rowData); err != nil {
			return nil, fmt.Errorf("failed to set row %d: %w", i+2, err)
		}
	}

	file.SetActiveSheet(0)
	if sheetIndex, _ := file.GetSheetIndex("Sheet1"); sheetIndex != -1 {
		if err := file.DeleteSheet("Sheet1"); err != nil {
			return nil, fmt.Errorf("failed to delete default sheet: %w", err)
		}
	}

	buffer, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buffer, nil
}

func setupSummarySheet(file *excelize.File, rowCount int) error {
	headerStyle, err := file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Vertical: "center", Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	headers := []string{"Code", "Name (TH)", "Name (EN)", "Total", "Active", "Inactive"}
	if err = file.SetRowHeight(summarySheetName, 1, 20); err != nil {
		return fmt.Errorf("failed to set header height: %w", err)
	}
	if err = file.SetSheetRow(summarySheetName, "A1", &headers); err != nil {
		return fmt.Errorf("failed to set headers: %w", err)
	}
	if err = file.SetCellStyle(summarySheetName, "A1", "F1", headerStyle); err != nil {
		return fmt.Errorf("failed to style headers: %w", err)
	}

	widths := map[string]float64{"A": 14, "B": 36, "C": 36, "D": 10, "E": 10, "F": 10}
	for col, width := range widths {
		if err = file.SetColWidth(summarySheetName, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	// excelize rejects single-row table ranges, so an empty summary
	// still spans the header plus one blank row.
	lastRow := rowCount + 1
	if lastRow < 2 {
		lastRow = 2
	}
	if err = file.AddTable(summarySheetName, &excelize.Table{
		Range:     fmt.Sprintf("A1:F%d", lastRow),
		Name:      "department_summary",
		StyleName: "TableStyleMedium9",
	}); err != nil {
		return fmt.Errorf("failed to add table: %w", err)
	}
	return nil
}
