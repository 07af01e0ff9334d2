package shift

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"jget.app/jget/desk/core"
	web "jget.app/jget/web/common"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Export renders the visible student table and the finance summary as an
// xlsx workbook.
func (ep *Endpoint) Export(c *gin.Context) {
	rec, ok := ep.shift(c)
	if !ok {
		return
	}

	view, err := rec.Snapshot()
	if err != nil {
		respondError(c, err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Students"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"No", "Full name", "Type"}
	headers = append(headers, view.Dates...)
	headers = append(headers, "Visits", "Cost", "Paid", "Balance")
	if err := writeRow(f, sheet, 1, toAny(headers)); err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}

	rowNo := 2
	for _, row := range view.Students {
		if row.Hidden {
			continue
		}
		values := []any{row.No, row.FullName, row.AttendanceType}
		for _, date := range view.Dates {
			values = append(values, exportMark(row.Attendance[date]))
		}
		values = append(values, row.AttendanceCount(), row.Cost(), row.TotalPaid, row.Balance())
		if err := writeRow(f, sheet, rowNo, values); err != nil {
			c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
			return
		}
		rowNo++
	}

	// Summary footer with locale-formatted money, matching the on-screen
	// figures.
	footer := [][]any{
		{"Income", core.FormatAmount(view.Summary.Income)},
		{"Expense", core.FormatAmount(view.Summary.Expense)},
		{"Balance", core.FormatAmount(view.Summary.Balance)},
	}
	rowNo++
	for _, line := range footer {
		if err := writeRow(f, sheet, rowNo, line); err != nil {
			c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
			return
		}
		rowNo++
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="shift_%d_students.xlsx"`, view.ShiftID))
	c.Header("Content-Type", xlsxContentType)
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
	}
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func exportMark(status core.AttendanceStatus) string {
	switch status {
	case core.Present:
		return "+"
	case core.Excused:
		return "o"
	default:
		return ""
	}
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
