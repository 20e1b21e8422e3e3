package calendar

import (
	"time"

	"barberbook/internal/availability"
	"barberbook/internal/model"
	"barberbook/internal/schedule"
)

// Status summarizes a day cell.
type Status string

const (
	StatusClosed  Status = "closed"
	StatusFull    Status = "full"
	StatusPartial Status = "partial"
	StatusFree    Status = "free"
)

// SchedulePolicy maps a date to its service hours.
type SchedulePolicy interface {
	ScheduleFor(d model.Date) schedule.DaySchedule
}

// SlotView is one slot badge of a day.
type SlotView struct {
	Time      model.TimeOfDay `json:"time"`
	Available bool            `json:"available"`
}

// DayCell is one cell of the grid. Placeholder cells have Empty set and
// nothing else.
type DayCell struct {
	Empty     bool                 `json:"empty,omitempty"`
	Date      model.Date           `json:"date,omitzero"`
	Label     string               `json:"label,omitempty"`
	Schedule  schedule.DaySchedule `json:"schedule,omitzero"`
	Status    Status               `json:"status,omitempty"`
	Slots     []SlotView           `json:"slots,omitempty"`
	Available []model.TimeOfDay    `json:"available,omitempty"`
	Occupied  []model.TimeOfDay    `json:"occupied,omitempty"`
}

// WeekRow is Monday..Sunday.
type WeekRow [7]DayCell

// View is the render model of one month.
type View struct {
	Month Month     `json:"month"`
	Title string    `json:"title"`
	Weeks []WeekRow `json:"weeks"`
}

// Days returns the non-empty cells in date order.
func (v View) Days() []DayCell {
	var days []DayCell
	for _, w := range v.Weeks {
		for _, c := range w {
			if !c.Empty {
				days = append(days, c)
			}
		}
	}
	return days
}

// Day returns the cell of d, if it belongs to the view.
func (v View) Day(d model.Date) (DayCell, bool) {
	for _, c := range v.Days() {
		if c.Date == d {
			return c, true
		}
	}
	return DayCell{}, false
}

// BuildMonth lays the month out in Monday-first rows. It is stateless and
// must be called again whenever the month or the availability changes.
func BuildMonth(m Month, avail availability.Map, policy SchedulePolicy) View {
	view := View{Month: m, Title: m.Title()}

	var week WeekRow
	col := mondayIndex(m.First().Weekday())
	for i := 0; i < col; i++ {
		week[i] = DayCell{Empty: true}
	}

	for day := 1; day <= m.Days(); day++ {
		d := model.Date{Year: m.Year, Month: m.Month, Day: day}
		week[col] = BuildDay(d, avail, policy)
		col++
		if col == 7 {
			view.Weeks = append(view.Weeks, week)
			week = WeekRow{}
			col = 0
		}
	}

	if col > 0 {
		for ; col < 7; col++ {
			week[col] = DayCell{Empty: true}
		}
		view.Weeks = append(view.Weeks, week)
	}
	return view
}

// BuildDay computes one cell; status depends only on the schedule and the
// occupied times.
func BuildDay(d model.Date, avail availability.Map, policy SchedulePolicy) DayCell {
	ds := policy.ScheduleFor(d)
	cell := DayCell{
		Date:     d,
		Label:    ShortWeekday(d),
		Schedule: ds,
	}
	if !ds.IsOpen {
		cell.Status = StatusClosed
		return cell
	}

	for _, t := range ds.Slots() {
		taken := avail.IsOccupied(model.BookingSlot{Date: d, Time: t})
		cell.Slots = append(cell.Slots, SlotView{Time: t, Available: !taken})
		if taken {
			cell.Occupied = append(cell.Occupied, t)
		} else {
			cell.Available = append(cell.Available, t)
		}
	}

	switch {
	case len(cell.Available) == 0:
		cell.Status = StatusFull
	case len(cell.Occupied) > 0:
		cell.Status = StatusPartial
	default:
		cell.Status = StatusFree
	}
	return cell
}

// mondayIndex maps Sunday=0 to the trailing column 6.
func mondayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}
