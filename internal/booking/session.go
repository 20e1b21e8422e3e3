// Package booking holds the visitor's booking session and submits
// bookings to the remote store.
package booking

import (
	"errors"
	"time"

	"barberbook/internal/availability"
	"barberbook/internal/calendar"
	"barberbook/internal/model"
	"barberbook/internal/storeapi"
)

// Session is everything one visitor has on screen. It is a plain value:
// Reduce returns a new one instead of mutating.
type Session struct {
	ID           string             `json:"id"`
	Month        calendar.Month     `json:"month"`
	SelectedDay  model.Date         `json:"selected_day,omitzero"`
	Selection    *model.BookingSlot `json:"selection,omitempty"`
	Availability availability.Map   `json:"availability"`
	LoadSeq      uint64             `json:"load_seq"`
	Loading      bool               `json:"loading"`
	Submitting   bool               `json:"submitting"`
	Unreachable  bool               `json:"unreachable"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// NewSession starts on month with a load pending under sequence 1.
func NewSession(id string, month calendar.Month) Session {
	return Session{
		ID:           id,
		Month:        month,
		Availability: availability.Map{},
		LoadSeq:      1,
		Loading:      true,
		UpdatedAt:    time.Now(),
	}
}

// Event is an input to Reduce.
type Event interface {
	event()
}

// MonthChanged moves the displayed month by Delta. A zero delta reloads the
// current month. Either way a new load is pending afterwards.
type MonthChanged struct{ Delta int }

// DaySelected opens a day's slot list.
type DaySelected struct{ Date model.Date }

// SlotSelected picks a slot.
type SlotSelected struct{ Slot model.BookingSlot }

// Deselected clears the selection.
type Deselected struct{}

// SubmitStarted marks the session busy while a submission is in flight.
type SubmitStarted struct{}

// Submitted reports the outcome of a submission. Availability, when not
// nil, is the refreshed map fetched after success.
type Submitted struct {
	Err          error
	Availability availability.Map
}

// LoadCompleted delivers the outcome of the load tagged Seq.
type LoadCompleted struct {
	Seq uint64
	Map availability.Map
	Err error
}

func (MonthChanged) event()  {}
func (DaySelected) event()   {}
func (SlotSelected) event()  {}
func (Deselected) event()    {}
func (SubmitStarted) event() {}
func (Submitted) event()     {}
func (LoadCompleted) event() {}

// Reduce applies ev to s. On error the returned session equals s.
func Reduce(policy calendar.SchedulePolicy, s Session, ev Event) (Session, error) {
	next := s
	switch ev := ev.(type) {
	case MonthChanged:
		next.Month = s.Month.Add(ev.Delta)
		next.LoadSeq++
		next.Loading = true

	case DaySelected:
		if s.Submitting {
			return s, ErrSubmitInProgress
		}
		if !s.Month.Contains(ev.Date) {
			return s, ErrOutsideMonth
		}
		if !policy.ScheduleFor(ev.Date).IsOpen {
			return s, ErrDayClosed
		}
		next.SelectedDay = ev.Date
		if s.Selection != nil && s.Selection.Date != ev.Date {
			next.Selection = nil
		}

	case SlotSelected:
		if s.Submitting {
			return s, ErrSubmitInProgress
		}
		if !s.Month.Contains(ev.Slot.Date) {
			return s, ErrOutsideMonth
		}
		if !bookable(policy, s.Availability, ev.Slot) {
			return s, ErrSlotUnavailable
		}
		slot := ev.Slot
		next.SelectedDay = slot.Date
		next.Selection = &slot

	case Deselected:
		if s.Submitting {
			return s, ErrSubmitInProgress
		}
		next.Selection = nil
		next.SelectedDay = model.Date{}

	case SubmitStarted:
		if s.Submitting {
			return s, ErrSubmitInProgress
		}
		if s.Selection == nil {
			return s, ErrNothingSelected
		}
		next.Submitting = true

	case Submitted:
		next.Submitting = false
		if ev.Err == nil {
			next.Selection = nil
			next.SelectedDay = model.Date{}
		}
		if ev.Availability != nil {
			// Loads started before the booking carry older data.
			next.Availability = ev.Availability
			next.LoadSeq++
			next.Loading = false
			next.Unreachable = false
		}

	case LoadCompleted:
		if ev.Seq != s.LoadSeq {
			// A newer load was requested after this one started.
			return s, nil
		}
		next.Loading = false
		next.Unreachable = ev.Err != nil && storeapi.IsConnectivity(ev.Err)
		next.Availability = ev.Map
		if next.Availability == nil {
			next.Availability = availability.Map{}
		}
		if s.Selection != nil && !bookable(policy, next.Availability, *s.Selection) {
			next.Selection = nil
		}

	default:
		return s, errors.New("unknown event")
	}

	next.UpdatedAt = time.Now()
	return next, nil
}

func bookable(policy calendar.SchedulePolicy, avail availability.Map, slot model.BookingSlot) bool {
	return policy.ScheduleFor(slot.Date).Contains(slot.Time) && !avail.IsOccupied(slot)
}
