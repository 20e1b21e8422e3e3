package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barberbook/internal/model"
)

func TestDefaultPolicy_EveryDayOfAYear(t *testing.T) {
	p := DefaultPolicy()
	start := model.Date{Year: 2025, Month: time.January, Day: 1}

	for i := 0; i < 365; i++ {
		d := start.AddDays(i)
		ds := p.ScheduleFor(d)
		slots := ds.Slots()

		switch wd := d.Weekday(); {
		case wd >= time.Monday && wd <= time.Friday:
			require.True(t, ds.IsOpen, d.String())
			require.Len(t, slots, 6, d.String())
			assert.Equal(t, model.At(15), slots[0])
			assert.Equal(t, model.At(20), slots[5])
		case wd == time.Saturday:
			require.True(t, ds.IsOpen, d.String())
			require.Len(t, slots, 7, d.String())
			assert.Equal(t, model.At(11), slots[0])
			assert.Equal(t, model.At(17), slots[6])
		default:
			assert.False(t, ds.IsOpen, d.String())
			assert.Empty(t, slots, d.String())
		}
		assert.Equal(t, len(slots), ds.SlotCount())
	}
}

func TestDaySchedule_Contains(t *testing.T) {
	ds := Open(11, 18)

	assert.True(t, ds.Contains(model.At(11)))
	assert.True(t, ds.Contains(model.At(17)))
	assert.False(t, ds.Contains(model.At(18)))
	assert.False(t, ds.Contains(model.At(10)))
	assert.False(t, ds.Contains(model.TimeOfDay{Hour: 12, Minute: 30}))
	assert.False(t, Closed.Contains(model.At(12)))
}

func TestNewPolicy(t *testing.T) {
	p, err := NewPolicy(map[time.Weekday]DaySchedule{
		time.Monday: Open(9, 13),
	})
	require.NoError(t, err)

	monday := model.Date{Year: 2025, Month: time.June, Day: 16}
	assert.Equal(t, Open(9, 13), p.ScheduleFor(monday))
	assert.Equal(t, Closed, p.ScheduleFor(monday.AddDays(1)))
	assert.True(t, p.IsBookable(model.BookingSlot{Date: monday, Time: model.At(12)}))
	assert.False(t, p.IsBookable(model.BookingSlot{Date: monday, Time: model.At(13)}))

	_, err = NewPolicy(map[time.Weekday]DaySchedule{time.Monday: Open(20, 10)})
	assert.Error(t, err)

	_, err = NewPolicy(map[time.Weekday]DaySchedule{time.Monday: Open(10, 25)})
	assert.Error(t, err)
}

func TestDaySchedule_InvertedHoursHaveNoSlots(t *testing.T) {
	d := Open(18, 11)
	require.Error(t, d.Validate())
	assert.NotPanics(t, func() { assert.Empty(t, d.Slots()) })
	assert.Zero(t, d.SlotCount())
}
