package calendar

import (
	"fmt"
	"time"

	"barberbook/internal/model"
)

// MonthNames in Spanish (es-CL), lower case as the locale prints them.
var MonthNames = map[time.Month]string{
	time.January:   "enero",
	time.February:  "febrero",
	time.March:     "marzo",
	time.April:     "abril",
	time.May:       "mayo",
	time.June:      "junio",
	time.July:      "julio",
	time.August:    "agosto",
	time.September: "septiembre",
	time.October:   "octubre",
	time.November:  "noviembre",
	time.December:  "diciembre",
}

// WeekdayNames in Spanish (es-CL).
var WeekdayNames = map[time.Weekday]string{
	time.Sunday:    "domingo",
	time.Monday:    "lunes",
	time.Tuesday:   "martes",
	time.Wednesday: "miércoles",
	time.Thursday:  "jueves",
	time.Friday:    "viernes",
	time.Saturday:  "sábado",
}

var weekdayShort = map[time.Weekday]string{
	time.Sunday:    "DOM",
	time.Monday:    "LUN",
	time.Tuesday:   "MAR",
	time.Wednesday: "MIÉ",
	time.Thursday:  "JUE",
	time.Friday:    "VIE",
	time.Saturday:  "SÁB",
}

// FormatLongDate renders "sábado, 14 de junio de 2025".
func FormatLongDate(d model.Date) string {
	return fmt.Sprintf("%s, %d de %s de %d", WeekdayNames[d.Weekday()], d.Day, MonthNames[d.Month], d.Year)
}

// ShortWeekday renders the day header label, e.g. "SÁB".
func ShortWeekday(d model.Date) string {
	return weekdayShort[d.Weekday()]
}
