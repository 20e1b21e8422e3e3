// Package availability turns the loosely typed reservations payload of the
// remote store into a canonical day -> occupied slots map.
package availability

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"barberbook/internal/model"
)

// Map holds the occupied times per date. Only dates with at least one
// occupied time are present; times are sorted and unique.
type Map map[model.Date][]model.TimeOfDay

// Occupied returns the occupied times of d (nil when free).
func (m Map) Occupied(d model.Date) []model.TimeOfDay {
	return m[d]
}

// IsOccupied reports whether the slot is already booked.
func (m Map) IsOccupied(slot model.BookingSlot) bool {
	for _, t := range m[slot.Date] {
		if t == slot.Time {
			return true
		}
	}
	return false
}

// Dates returns the keys in calendar order.
func (m Map) Dates() []model.Date {
	dates := make([]model.Date, 0, len(m))
	for d := range m {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// Clone returns a deep copy.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	for d, times := range m {
		out[d] = append([]model.TimeOfDay(nil), times...)
	}
	return out
}

// Raw renders the map back into the payload shape served by the store.
func (m Map) Raw() map[string]any {
	raw := make(map[string]any, len(m))
	for d, times := range m {
		vals := make([]any, len(times))
		for i, t := range times {
			vals[i] = t.String()
		}
		raw[d.String()] = vals
	}
	return raw
}

// ParseError describes one discarded entry of the payload.
type ParseError struct {
	Key    string
	Value  any
	Reason string
}

func (e *ParseError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("availability entry %q value %v: %s", e.Key, e.Value, e.Reason)
	}
	return fmt.Sprintf("availability entry %q: %s", e.Key, e.Reason)
}

// Options configures Normalize.
type Options struct {
	Heuristics Heuristics
	// Location is the business's local clock. Nil means time.Local.
	Location *time.Location
}

// Result is the outcome of Normalize: the canonical map plus the entries
// that had to be dropped.
type Result struct {
	Map      Map
	Warnings []*ParseError
}

// Normalize never fails: malformed entries are dropped and reported as
// warnings while the rest of the payload is kept.
func Normalize(raw map[string]any, opts Options) Result {
	h := opts.Heuristics.WithDefaults()
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	res := Result{Map: Map{}}
	sets := make(map[model.Date]map[model.TimeOfDay]struct{})

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, rawKey := range keys {
		date, perr := normalizeKey(rawKey, h, loc)
		if perr != nil {
			res.Warnings = append(res.Warnings, perr)
			continue
		}

		values, ok := raw[rawKey].([]any)
		if !ok {
			res.Warnings = append(res.Warnings, &ParseError{Key: rawKey, Reason: "times are not a list"})
			continue
		}

		for _, v := range values {
			t, perr := normalizeTime(rawKey, v, h, loc)
			if perr != nil {
				res.Warnings = append(res.Warnings, perr)
				continue
			}
			if sets[date] == nil {
				sets[date] = make(map[model.TimeOfDay]struct{})
			}
			sets[date][t] = struct{}{}
		}
	}

	for d, set := range sets {
		times := make([]model.TimeOfDay, 0, len(set))
		for t := range set {
			times = append(times, t)
		}
		sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
		res.Map[d] = times
	}
	return res
}

func normalizeKey(rawKey string, h Heuristics, loc *time.Location) (model.Date, *ParseError) {
	key := strings.TrimSpace(rawKey)

	switch enc := h.ClassifyKey(key); enc {
	case EncodingJSDate, EncodingISOInstant:
		dec, ok := decodeFull(key, enc, loc)
		if !ok {
			return model.Date{}, &ParseError{Key: rawKey, Reason: "unparseable " + enc.String() + " key"}
		}
		key = model.DateOf(dec.local(loc)).String()
	case EncodingUnrecognized:
		return model.Date{}, &ParseError{Key: rawKey, Reason: "empty key"}
	}

	year, ok := model.LeadingYear(key)
	if !ok {
		return model.Date{}, &ParseError{Key: rawKey, Reason: "no leading year"}
	}
	if year < h.MinYear || year > h.MaxYear {
		return model.Date{}, &ParseError{
			Key:    rawKey,
			Reason: fmt.Sprintf("year %d outside [%d, %d]", year, h.MinYear, h.MaxYear),
		}
	}

	date, err := model.ParseDate(key)
	if err != nil {
		return model.Date{}, &ParseError{Key: rawKey, Reason: "not a calendar date"}
	}
	return date, nil
}

func normalizeTime(rawKey string, v any, h Heuristics, loc *time.Location) (model.TimeOfDay, *ParseError) {
	s, ok := v.(string)
	if !ok {
		return model.TimeOfDay{}, &ParseError{Key: rawKey, Value: v, Reason: "time is not a string"}
	}
	s = strings.TrimSpace(s)

	switch enc := h.ClassifyTime(s); enc {
	case EncodingJSDate, EncodingISOInstant:
		dec, ok := decodeFull(s, enc, loc)
		if !ok {
			return model.TimeOfDay{}, &ParseError{Key: rawKey, Value: v, Reason: "unparseable " + enc.String() + " time"}
		}
		t := dec.local(loc)
		return model.TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
	case EncodingPlainTime:
		t, err := model.ParseTimeOfDay(s)
		if err != nil {
			return model.TimeOfDay{}, &ParseError{Key: rawKey, Value: v, Reason: "not HH:MM"}
		}
		return t, nil
	default:
		return model.TimeOfDay{}, &ParseError{Key: rawKey, Value: v, Reason: "empty time"}
	}
}
