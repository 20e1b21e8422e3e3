// Package schedule maps a calendar day to the shop's opening hours.
package schedule

import (
	"fmt"
	"time"

	"barberbook/internal/model"
)

// SlotMinutes is the booking grid: whole hours.
const SlotMinutes = 60

// DaySchedule holds the service hours of one day. EndHour is exclusive.
type DaySchedule struct {
	IsOpen    bool `json:"is_open"`
	StartHour int  `json:"start_hour"`
	EndHour   int  `json:"end_hour"`
}

// Closed is the schedule of a day without service.
var Closed = DaySchedule{}

// Open builds an open day serving [start, end).
func Open(start, end int) DaySchedule {
	return DaySchedule{IsOpen: true, StartHour: start, EndHour: end}
}

// Slots lists the slot start times in order.
func (d DaySchedule) Slots() []model.TimeOfDay {
	if !d.IsOpen {
		return nil
	}
	slots := make([]model.TimeOfDay, 0, d.SlotCount())
	for h := d.StartHour; h < d.EndHour; h++ {
		slots = append(slots, model.At(h))
	}
	return slots
}

// SlotCount is len(Slots()) without allocating.
func (d DaySchedule) SlotCount() int {
	if !d.IsOpen || d.EndHour <= d.StartHour {
		return 0
	}
	return d.EndHour - d.StartHour
}

// Contains reports whether t is one of the day's slot starts.
func (d DaySchedule) Contains(t model.TimeOfDay) bool {
	return d.IsOpen && t.Minute == 0 && t.Hour >= d.StartHour && t.Hour < d.EndHour
}

// Validate checks hour bounds of an open day.
func (d DaySchedule) Validate() error {
	if !d.IsOpen {
		return nil
	}
	if d.StartHour < 0 || d.EndHour > 24 {
		return fmt.Errorf("hours %d-%d outside 0-24", d.StartHour, d.EndHour)
	}
	if d.StartHour >= d.EndHour {
		return fmt.Errorf("start hour %d must be before end hour %d", d.StartHour, d.EndHour)
	}
	return nil
}

// Policy is a weekly schedule. It has no holidays and no per-date overrides.
type Policy struct {
	week [7]DaySchedule
}

// DefaultPolicy: Mon-Fri 15-21, Sat 11-18, Sun closed.
func DefaultPolicy() *Policy {
	p := &Policy{}
	for wd := time.Monday; wd <= time.Friday; wd++ {
		p.week[wd] = Open(15, 21)
	}
	p.week[time.Saturday] = Open(11, 18)
	p.week[time.Sunday] = Closed
	return p
}

// NewPolicy builds a policy from per-weekday hours. Missing weekdays are
// closed.
func NewPolicy(week map[time.Weekday]DaySchedule) (*Policy, error) {
	p := &Policy{}
	for wd, ds := range week {
		if wd < time.Sunday || wd > time.Saturday {
			return nil, fmt.Errorf("invalid weekday %d", wd)
		}
		if err := ds.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", wd, err)
		}
		p.week[wd] = ds
	}
	return p, nil
}

// ScheduleFor is a pure function of the date's weekday.
func (p *Policy) ScheduleFor(d model.Date) DaySchedule {
	return p.week[d.Weekday()]
}

// Weekday returns the hours configured for wd.
func (p *Policy) Weekday(wd time.Weekday) DaySchedule {
	return p.week[wd]
}

// IsBookable reports whether the slot falls inside service hours.
func (p *Policy) IsBookable(slot model.BookingSlot) bool {
	return p.ScheduleFor(slot.Date).Contains(slot.Time)
}
