package model

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeOfDay is an hour:minute pair on the booking grid.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// At returns the whole-hour TimeOfDay h:00.
func At(h int) TimeOfDay {
	return TimeOfDay{Hour: h}
}

// ParseTimeOfDay accepts "H:MM" and "HH:MM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	hs, ms, ok := strings.Cut(s, ":")
	if !ok || hs == "" || len(ms) != 2 {
		return TimeOfDay{}, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	h, err := strconv.Atoi(hs)
	if err != nil || h < 0 || h > 23 {
		return TimeOfDay{}, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(ms)
	if err != nil || m < 0 || m > 59 {
		return TimeOfDay{}, fmt.Errorf("invalid minute in %q", s)
	}
	return TimeOfDay{Hour: h, Minute: m}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.Minutes() < other.Minutes()
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	parsed, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// BookingSlot is a single bookable window on a given date.
type BookingSlot struct {
	Date Date      `json:"date"`
	Time TimeOfDay `json:"time"`
}

func (s BookingSlot) String() string {
	return s.Date.String() + " " + s.Time.String()
}

// Booking is the outbound request handed to the remote store and to the
// messaging link. It is not retained after submission.
type Booking struct {
	Slot          BookingSlot
	Service       string
	CustomerName  string
	CustomerPhone string
}
