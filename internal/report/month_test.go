package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"barberbook/internal/availability"
	"barberbook/internal/calendar"
	"barberbook/internal/model"
	"barberbook/internal/schedule"
)

func TestWriteMonth(t *testing.T) {
	sat := model.Date{Year: 2025, Month: time.June, Day: 14}
	avail := availability.Map{sat: {model.At(15), model.At(16)}}
	view := calendar.BuildMonth(calendar.Month{Year: 2025, Month: time.June}, avail, schedule.DefaultPolicy())

	var buf bytes.Buffer
	require.NoError(t, WriteMonth(&buf, view))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Calendario", "Reservas"}, f.GetSheetList())

	rows, err := f.GetRows("Calendario")
	require.NoError(t, err)
	require.Len(t, rows, 1+len(view.Weeks))
	assert.Equal(t, []string{"Semana", "Lun", "Mar", "Mié", "Jue", "Vie", "Sáb", "Dom"}, rows[0])

	// June 14th is the Saturday of the third row of weeks.
	saturday, err := f.GetCellValue("Calendario", "G4")
	require.NoError(t, err)
	assert.Equal(t, "14 · 5/7 libres", saturday)

	sunday, err := f.GetCellValue("Calendario", "H4")
	require.NoError(t, err)
	assert.Equal(t, "15 · cerrado", sunday)

	bookings, err := f.GetRows("Reservas")
	require.NoError(t, err)
	require.Len(t, bookings, 3)
	assert.Equal(t, []string{"2025-06-14", "sábado", "15:00"}, bookings[1])
	assert.Equal(t, []string{"2025-06-14", "sábado", "16:00"}, bookings[2])
}
