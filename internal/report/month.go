// Package report exports a month's occupancy as an xlsx workbook.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"barberbook/internal/calendar"
)

const (
	gridSheet     = "Calendario"
	bookingsSheet = "Reservas"
)

var gridHeader = []any{"Semana", "Lun", "Mar", "Mié", "Jue", "Vie", "Sáb", "Dom"}

var bookingsHeader = []any{"Fecha", "Día", "Hora"}

// WriteMonth writes view as a workbook with two sheets: the calendar grid,
// one row per week, and the list of occupied slots.
func WriteMonth(w io.Writer, view calendar.View) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", gridSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(bookingsSheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", bookingsSheet, err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := writeRow(f, gridSheet, 1, gridHeader); err != nil {
		return err
	}
	_ = f.SetCellStyle(gridSheet, "A1", "H1", bold)

	for i, week := range view.Weeks {
		row := make([]any, 0, 8)
		row = append(row, i+1)
		for _, c := range week {
			row = append(row, cellText(c))
		}
		if err := writeRow(f, gridSheet, i+2, row); err != nil {
			return err
		}
	}

	if err := writeRow(f, bookingsSheet, 1, bookingsHeader); err != nil {
		return err
	}
	_ = f.SetCellStyle(bookingsSheet, "A1", "C1", bold)

	r := 2
	for _, d := range view.Days() {
		for _, t := range d.Occupied {
			if err := writeRow(f, bookingsSheet, r, []any{d.Date.String(), calendar.WeekdayNames[d.Date.Weekday()], t.String()}); err != nil {
				return err
			}
			r++
		}
	}

	_ = f.SetColWidth(gridSheet, "B", "H", 14)
	return f.Write(w)
}

func cellText(c calendar.DayCell) string {
	if c.Empty {
		return ""
	}
	if c.Status == calendar.StatusClosed {
		return fmt.Sprintf("%d · cerrado", c.Date.Day)
	}
	return fmt.Sprintf("%d · %d/%d libres", c.Date.Day, len(c.Available), len(c.Slots))
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for i, val := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, val); err != nil {
			return err
		}
	}
	return nil
}
