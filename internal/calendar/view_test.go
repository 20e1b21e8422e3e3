package calendar

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barberbook/internal/availability"
	"barberbook/internal/model"
	"barberbook/internal/schedule"
)

func day(y int, m time.Month, d int) model.Date {
	return model.Date{Year: y, Month: m, Day: d}
}

func TestBuildMonth_SaturdayWithBookings(t *testing.T) {
	avail := availability.Map{
		day(2025, time.June, 14): {model.At(15), model.At(16)},
	}

	view := BuildMonth(Month{Year: 2025, Month: time.June}, avail, schedule.DefaultPolicy())

	cell, ok := view.Day(day(2025, time.June, 14))
	require.True(t, ok)
	assert.Equal(t, time.Saturday, cell.Date.Weekday())
	assert.Equal(t, StatusPartial, cell.Status)
	assert.Len(t, cell.Slots, 7)
	assert.Equal(t, []model.TimeOfDay{model.At(11), model.At(12), model.At(13), model.At(14), model.At(17)}, cell.Available)
	assert.Equal(t, []model.TimeOfDay{model.At(15), model.At(16)}, cell.Occupied)
	assert.Equal(t, "SÁB", cell.Label)
}

func TestBuildMonth_GridLayout(t *testing.T) {
	// June 2025 starts on a Sunday: six placeholders, then the 1st in the
	// last column.
	view := BuildMonth(Month{Year: 2025, Month: time.June}, nil, schedule.DefaultPolicy())

	require.Len(t, view.Weeks, 6)
	for i := 0; i < 6; i++ {
		assert.True(t, view.Weeks[0][i].Empty, "col %d", i)
	}
	assert.Equal(t, day(2025, time.June, 1), view.Weeks[0][6].Date)
	assert.Equal(t, day(2025, time.June, 2), view.Weeks[1][0].Date)
	assert.Equal(t, day(2025, time.June, 30), view.Weeks[5][0].Date)
	for i := 1; i < 7; i++ {
		assert.True(t, view.Weeks[5][i].Empty, "col %d", i)
	}
	assert.Len(t, view.Days(), 30)
	assert.Equal(t, "junio de 2025", view.Title)

	for _, w := range view.Weeks {
		for col, c := range w {
			if c.Empty {
				continue
			}
			assert.Equal(t, col, mondayIndex(c.Date.Weekday()))
		}
	}
}

func TestBuildMonth_MonthStartingOnMonday(t *testing.T) {
	// September 2025 starts on a Monday and ends on a Tuesday.
	view := BuildMonth(Month{Year: 2025, Month: time.September}, nil, schedule.DefaultPolicy())

	require.Len(t, view.Weeks, 5)
	assert.Equal(t, day(2025, time.September, 1), view.Weeks[0][0].Date)
	assert.False(t, view.Weeks[0][0].Empty)
	assert.Equal(t, day(2025, time.September, 30), view.Weeks[4][1].Date)
	assert.True(t, view.Weeks[4][2].Empty)
}

func TestBuildDay_Statuses(t *testing.T) {
	policy := schedule.DefaultPolicy()
	monday := day(2025, time.June, 16)
	full := make([]model.TimeOfDay, 0, 6)
	for h := 15; h < 21; h++ {
		full = append(full, model.At(h))
	}

	tests := []struct {
		name   string
		date   model.Date
		avail  availability.Map
		status Status
		free   int
	}{
		{"sunday closed", day(2025, time.June, 15), nil, StatusClosed, 0},
		{"sunday closed even with bookings", day(2025, time.June, 15), availability.Map{day(2025, time.June, 15): {model.At(15)}}, StatusClosed, 0},
		{"weekday free", monday, nil, StatusFree, 6},
		{"weekday partial", monday, availability.Map{monday: {model.At(20)}}, StatusPartial, 5},
		{"weekday full", monday, availability.Map{monday: full}, StatusFull, 0},
		{"booking outside hours ignored", monday, availability.Map{monday: {model.At(10)}}, StatusFree, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cell := BuildDay(tt.date, tt.avail, policy)
			assert.Equal(t, tt.status, cell.Status)
			assert.Len(t, cell.Available, tt.free)
		})
	}
}

func TestBuildMonth_IsStateless(t *testing.T) {
	m := Month{Year: 2025, Month: time.June}
	policy := schedule.DefaultPolicy()
	avail := availability.Map{day(2025, time.June, 16): {model.At(15)}}

	first := BuildMonth(m, avail, policy)
	second := BuildMonth(m, avail, policy)
	assert.Equal(t, first, second)

	refreshed := BuildMonth(m, availability.Map{}, policy)
	cell, _ := refreshed.Day(day(2025, time.June, 16))
	assert.Equal(t, StatusFree, cell.Status)
}

func TestMonthNavigation(t *testing.T) {
	dec := Month{Year: 2025, Month: time.December}
	assert.Equal(t, Month{Year: 2026, Month: time.January}, dec.Next())
	assert.Equal(t, Month{Year: 2025, Month: time.November}, dec.Prev())
	assert.Equal(t, Month{Year: 2024, Month: time.December}, dec.Add(-12))
	assert.Equal(t, 31, dec.Days())
	assert.Equal(t, 29, Month{Year: 2024, Month: time.February}.Days())
	assert.True(t, dec.Contains(day(2025, time.December, 31)))
	assert.False(t, dec.Contains(day(2026, time.January, 1)))
	assert.Equal(t, "2025-12", dec.String())

	_, err := NewMonth(2025, 13)
	assert.Error(t, err)
}

func TestFormatLongDate(t *testing.T) {
	assert.Equal(t, "sábado, 14 de junio de 2025", FormatLongDate(day(2025, time.June, 14)))
	assert.Equal(t, "miércoles, 1 de enero de 2025", FormatLongDate(day(2025, time.January, 1)))
}

func TestDayCellJSON(t *testing.T) {
	data, err := json.Marshal(WeekRow{{Empty: true}})
	require.NoError(t, err)
	assert.Contains(t, string(data), `{"empty":true}`)
}
