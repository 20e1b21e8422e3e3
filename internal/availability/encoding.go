package availability

import (
	"strings"
	"time"
)

// Encoding tags the representation a raw date or time string was found in.
type Encoding int

const (
	EncodingUnrecognized Encoding = iota
	EncodingPlainDate             // 2025-06-14
	EncodingPlainTime             // 15:00
	EncodingJSDate                // Sat Jun 14 2025 00:00:00 GMT-0400 (...)
	EncodingISOInstant            // 2025-06-14T04:00:00.000Z
)

func (e Encoding) String() string {
	switch e {
	case EncodingPlainDate:
		return "plain_date"
	case EncodingPlainTime:
		return "plain_time"
	case EncodingJSDate:
		return "js_date"
	case EncodingISOInstant:
		return "iso_instant"
	default:
		return "unrecognized"
	}
}

// Heuristics decides when a string is a full date/time rather than a plain
// token. The markers come from the spreadsheet export; they are not
// exhaustive, so they are configurable.
type Heuristics struct {
	MaxPlainKeyLength int
	DateMarkers       []string
	TimeMarkers       []string
	MinYear           int
	MaxYear           int
}

// DefaultHeuristics mirrors the export format seen in production sheets.
func DefaultHeuristics() Heuristics {
	return Heuristics{
		MaxPlainKeyLength: 15,
		DateMarkers:       []string{"GMT", "Chile"},
		TimeMarkers:       []string{"GMT", "1899"},
		MinYear:           2020,
		MaxYear:           2030,
	}
}

// WithDefaults fills every unset field from DefaultHeuristics.
func (h Heuristics) WithDefaults() Heuristics {
	d := DefaultHeuristics()
	if h.MaxPlainKeyLength <= 0 {
		h.MaxPlainKeyLength = d.MaxPlainKeyLength
	}
	if h.DateMarkers == nil {
		h.DateMarkers = d.DateMarkers
	}
	if h.TimeMarkers == nil {
		h.TimeMarkers = d.TimeMarkers
	}
	if h.MinYear == 0 {
		h.MinYear = d.MinYear
	}
	if h.MaxYear == 0 {
		h.MaxYear = d.MaxYear
	}
	return h
}

// ClassifyKey tags a trimmed date key.
func (h Heuristics) ClassifyKey(s string) Encoding {
	if s == "" {
		return EncodingUnrecognized
	}
	if looksISO(s) {
		return EncodingISOInstant
	}
	if containsAny(s, h.DateMarkers) || len(s) > h.MaxPlainKeyLength {
		return EncodingJSDate
	}
	return EncodingPlainDate
}

// ClassifyTime tags a trimmed time value.
func (h Heuristics) ClassifyTime(s string) Encoding {
	if s == "" {
		return EncodingUnrecognized
	}
	if looksISO(s) {
		return EncodingISOInstant
	}
	if containsAny(s, h.TimeMarkers) {
		return EncodingJSDate
	}
	return EncodingPlainTime
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if m != "" && strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// looksISO matches "YYYY-MM-DDT..." without validating the rest.
func looksISO(s string) bool {
	if len(s) < 11 || s[10] != 'T' {
		return false
	}
	for i, c := range s[:10] {
		if i == 4 || i == 7 {
			if c != '-' {
				return false
			}
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

var jsDateLayouts = []string{
	"Mon Jan 02 2006 15:04:05 GMT-0700",
	"Mon Jan 2 2006 15:04:05 GMT-0700",
	"Mon Jan 02 2006 15:04:05",
	"Mon Jan 02 2006",
}

// Spreadsheet-style wall clock, as exported by sheets and SQL dumps.
var spacedLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

var instantLayouts = []string{
	time.RFC1123,
	time.RFC1123Z,
}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// decoded is a parsed full date/time. Wall-clock values already carry the
// store's local rendering; instants still need converting.
type decoded struct {
	t         time.Time
	wallClock bool
}

func (d decoded) local(loc *time.Location) time.Time {
	if d.wallClock || loc == nil {
		return d.t
	}
	return d.t.In(loc)
}

// decodeFull parses a JavaScript Date string or an ISO timestamp.
func decodeFull(s string, enc Encoding, loc *time.Location) (decoded, bool) {
	if loc == nil {
		loc = time.Local
	}
	switch enc {
	case EncodingISOInstant:
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return decoded{t: t}, true
		}
		for _, layout := range isoLayouts[1:] {
			if t, err := time.ParseInLocation(layout, s, loc); err == nil {
				return decoded{t: t, wallClock: true}, true
			}
		}
	case EncodingJSDate:
		s = stripZoneName(s)
		for _, layout := range jsDateLayouts {
			if t, err := time.ParseInLocation(layout, s, loc); err == nil {
				return decoded{t: t, wallClock: true}, true
			}
		}
		for _, layout := range spacedLayouts {
			if t, err := time.ParseInLocation(layout, s, loc); err == nil {
				return decoded{t: t, wallClock: true}, true
			}
		}
		for _, layout := range instantLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return decoded{t: t}, true
			}
		}
	}
	return decoded{}, false
}

// stripZoneName drops the trailing "(hora estándar de Chile)" part.
func stripZoneName(s string) string {
	if i := strings.Index(s, " ("); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
