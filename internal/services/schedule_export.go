package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"brewery_backend/internal/scheduling"
)

const scheduleSheet = "Schedule"

// writeWeekWorkbook renders the week grid as one sheet: an employee column
// followed by Monday..Sunday, one row per roster employee.
func writeWeekWorkbook(w io.Writer, view *WeekView) error {
	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", scheduleSheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	cellStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
	})
	if err != nil {
		return fmt.Errorf("creating cell style: %w", err)
	}

	start, err := scheduling.ParseDate(view.WeekStart)
	if err != nil {
		return err
	}
	headers := []string{"Employee"}
	for i, d := range scheduling.WeekDates(start) {
		headers = append(headers, fmt.Sprintf("%s %s", scheduling.DayNames[i][:3], scheduling.FormatDisplayDate(scheduling.FormatDate(d))))
	}
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(scheduleSheet, cell, h); err != nil {
			return fmt.Errorf("setting header: %w", err)
		}
		if err := f.SetCellStyle(scheduleSheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("setting header style: %w", err)
		}
	}
	if err := f.SetColWidth(scheduleSheet, "A", "A", 22); err != nil {
		return fmt.Errorf("setting column width: %w", err)
	}
	if err := f.SetColWidth(scheduleSheet, "B", "H", 26); err != nil {
		return fmt.Errorf("setting column width: %w", err)
	}

	for i, row := range view.Rows {
		rowNum := i + 2
		values := []string{row.Employee.Name}
		for _, code := range view.Days {
			shifts := row.Days[code]
			scheduling.SortShifts(shifts)
			labels := make([]string, 0, len(shifts))
			for _, sh := range shifts {
				labels = append(labels, scheduling.ShiftLabel(sh))
			}
			values = append(values, strings.Join(labels, "\n"))
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(scheduleSheet, cell, v); err != nil {
				return fmt.Errorf("setting cell value: %w", err)
			}
			if err := f.SetCellStyle(scheduleSheet, cell, cell, cellStyle); err != nil {
				return fmt.Errorf("setting cell style: %w", err)
			}
		}
	}

	if len(view.Unscheduled) > 0 {
		rowNum := len(view.Rows) + 3
		if err := f.SetCellValue(scheduleSheet, fmt.Sprintf("A%d", rowNum), "Not scheduled"); err != nil {
			return fmt.Errorf("setting cell value: %w", err)
		}
		if err := f.SetCellValue(scheduleSheet, fmt.Sprintf("B%d", rowNum), strings.Join(view.Unscheduled, ", ")); err != nil {
			return fmt.Errorf("setting cell value: %w", err)
		}
	}

	if err := f.SetPanes(scheduleSheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      1,
		YSplit:      1,
		TopLeftCell: "B2",
		ActivePane:  "bottomRight",
	}); err != nil {
		return fmt.Errorf("freezing panes: %w", err)
	}

	return f.Write(w)
}
