package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/dts-gxu/JobTracker/internal/models"
	"github.com/dts-gxu/JobTracker/internal/store"
)

// SheetName is the single worksheet holding the records.
const SheetName = "Applications"

var headers = []string{
	"Company", "Position", "Apply Date", "Status", "Salary Range",
	"Location", "Channel", "Referrer", "Interview Time", "Notes", "Created",
}

var columnWidths = []float64{15, 20, 12, 10, 12, 12, 10, 10, 16, 30, 12}

// Workbook renders the applications into a single-sheet XLSX workbook:
// styled header row, one row per record, then a summary block two rows below
// the last data row. Callers are expected to refuse an empty set before
// getting here.
func Workbook(apps []models.Application, stats *store.Stats) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(SheetName, cell, cell, headerStyle); err != nil {
			return nil, err
		}
	}

	for rowIdx := range apps {
		row := rowIdx + 2
		for col, v := range dataRow(&apps[rowIdx]) {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return nil, err
			}
		}
	}

	for i, w := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(SheetName, col, col, w); err != nil {
			return nil, err
		}
	}

	// summary block: header=1, data ends at len+1, one blank row between
	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("summary style: %w", err)
	}

	summaryRow := len(apps) + 3
	titleCell := fmt.Sprintf("A%d", summaryRow)
	if err := f.SetCellValue(SheetName, titleCell, "Statistics"); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(SheetName, titleCell, titleCell, boldStyle); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(SheetName, fmt.Sprintf("A%d", summaryRow+1),
		fmt.Sprintf("Total applications: %d", stats.Total)); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(SheetName, fmt.Sprintf("A%d", summaryRow+2),
		fmt.Sprintf("Offers: %d", stats.ByStatus[models.StatusOffer])); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}

// Filename builds the download name, unique to the second.
func Filename(username string, now time.Time) string {
	return fmt.Sprintf("%s_applications_%s.xlsx", username, now.Format("20060102_150405"))
}

func dataRow(a *models.Application) []interface{} {
	return []interface{}{
		a.CompanyName,
		a.PositionName,
		a.ApplyDate.Format(models.DateLayout),
		a.Status.Display(),
		a.SalaryRange(),
		a.WorkLocation,
		a.ApplyChannel.Display(),
		a.Referrer,
		a.InterviewDisplay(),
		a.Notes,
		a.CreatedAt.Format(models.DateLayout),
	}
}
