package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"barberbook/internal/model"
	"barberbook/internal/schedule"
)

// DayConfig is one weekday of schedule.yaml.
type DayConfig struct {
	Open  bool   `yaml:"open"`
	Start string `yaml:"start,omitempty"` // "15:00"
	End   string `yaml:"end,omitempty"`   // "21:00"
}

// ScheduleConfig is the root of schedule.yaml. Weekdays missing from the
// file are closed.
type ScheduleConfig struct {
	Weekdays map[string]DayConfig `yaml:"weekdays"`
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// LoadSchedule reads and validates the weekly schedule file.
func LoadSchedule(path string) (*schedule.Policy, error) {
	if path == "" {
		path = "configs/schedule.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schedule config: %w", err)
	}

	var cfg ScheduleConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse schedule config: %w", err)
	}

	policy, err := cfg.Policy()
	if err != nil {
		return nil, fmt.Errorf("validate schedule config: %w", err)
	}
	return policy, nil
}

// Policy converts the file into a schedule policy.
func (c *ScheduleConfig) Policy() (*schedule.Policy, error) {
	if len(c.Weekdays) == 0 {
		return nil, fmt.Errorf("no weekdays configured")
	}

	week := make(map[time.Weekday]schedule.DaySchedule, len(c.Weekdays))
	for name, day := range c.Weekdays {
		wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", name)
		}
		ds, err := day.toSchedule()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		week[wd] = ds
	}
	return schedule.NewPolicy(week)
}

func (d DayConfig) toSchedule() (schedule.DaySchedule, error) {
	if !d.Open {
		return schedule.Closed, nil
	}
	start, err := wholeHour(d.Start)
	if err != nil {
		return schedule.DaySchedule{}, fmt.Errorf("start: %w", err)
	}
	// "24:00" closes at midnight.
	end := 24
	if d.End != "24:00" {
		if end, err = wholeHour(d.End); err != nil {
			return schedule.DaySchedule{}, fmt.Errorf("end: %w", err)
		}
	}
	return schedule.Open(start, end), nil
}

func wholeHour(s string) (int, error) {
	t, err := model.ParseTimeOfDay(s)
	if err != nil {
		return 0, err
	}
	if t.Minute != 0 {
		return 0, fmt.Errorf("%q is not on the %d-minute grid", s, schedule.SlotMinutes)
	}
	return t.Hour, nil
}
