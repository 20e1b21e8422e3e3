package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barberbook/internal/model"
)

var clt = time.FixedZone("CLT", -4*3600)

func opts() Options {
	return Options{Heuristics: DefaultHeuristics(), Location: clt}
}

func date(s string) model.Date {
	d, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func times(ss ...string) []model.TimeOfDay {
	out := make([]model.TimeOfDay, len(ss))
	for i, s := range ss {
		t, err := model.ParseTimeOfDay(s)
		if err != nil {
			panic(err)
		}
		out[i] = t
	}
	return out
}

func TestNormalize_PlainKeysAreIdentity(t *testing.T) {
	raw := map[string]any{
		"2025-06-14": []any{"15:00", "16:00"},
		"2026-01-05": []any{"17:00"},
	}

	res := Normalize(raw, opts())

	assert.Empty(t, res.Warnings)
	assert.Equal(t, Map{
		date("2025-06-14"): times("15:00", "16:00"),
		date("2026-01-05"): times("17:00"),
	}, res.Map)
	for d := range res.Map {
		_, ok := raw[d.String()]
		assert.True(t, ok, "key %s should be unchanged", d)
	}
}

func TestNormalize_FullDateTimeKeys(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{"js date string", "Sat Jun 14 2025 00:00:00 GMT-0400 (hora estándar de Chile)", "2025-06-14"},
		{"js date string without zone name", "Mon Jun 16 2025 00:00:00 GMT-0400", "2025-06-16"},
		{"iso instant converted to local", "2025-06-14T04:00:00.000Z", "2025-06-14"},
		{"iso instant late utc is previous local day", "2025-06-15T02:00:00Z", "2025-06-14"},
		{"utc string", "Sat, 14 Jun 2025 12:00:00 GMT", "2025-06-14"},
		{"spaced wall clock with seconds", "2025-06-14 00:00:00", "2025-06-14"},
		{"spaced wall clock", "2025-06-14 15:00", "2025-06-14"},
		{"padded key", "  2025-06-14  ", "2025-06-14"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Normalize(map[string]any{tt.key: []any{"15:00"}}, opts())
			require.Empty(t, res.Warnings)
			require.Len(t, res.Map, 1)
			assert.Contains(t, res.Map, date(tt.want))
		})
	}
}

func TestNormalize_RejectsYearsOutsideBounds(t *testing.T) {
	raw := map[string]any{
		"2019-12-31": []any{"15:00"},
		"2031-01-01": []any{"15:00"},
		"1899-12-30": []any{"15:00"},
		"Sat Dec 30 1899 00:00:00 GMT-0442 (hora de verano de Chile)": []any{"15:00"},
		"2020-01-01": []any{"15:00"},
		"2030-12-31": []any{"15:00"},
	}

	res := Normalize(raw, opts())

	assert.Len(t, res.Map, 2)
	assert.Contains(t, res.Map, date("2020-01-01"))
	assert.Contains(t, res.Map, date("2030-12-31"))
	assert.Len(t, res.Warnings, 4)
}

func TestNormalize_InvalidCalendarDateIsDropped(t *testing.T) {
	raw := map[string]any{
		"2025-13-01": []any{"15:00"},
		"2025-02-30": []any{"15:00"},
		"not a date": []any{"15:00"},
		"2025-06-14": []any{"15:00"},
	}

	var res Result
	require.NotPanics(t, func() { res = Normalize(raw, opts()) })

	assert.Equal(t, Map{date("2025-06-14"): times("15:00")}, res.Map)
	require.Len(t, res.Warnings, 3)
	keys := []string{res.Warnings[0].Key, res.Warnings[1].Key, res.Warnings[2].Key}
	assert.ElementsMatch(t, []string{"2025-13-01", "2025-02-30", "not a date"}, keys)
}

func TestNormalize_TimeValues(t *testing.T) {
	raw := map[string]any{
		"2025-06-14": []any{
			"Sat Dec 30 1899 15:00:00 GMT-0442 (hora de verano de Chile)",
			"1899-12-30T20:00:00.000Z",
			" 11:00 ",
			"9:00",
			15,
			nil,
			"",
			"soon",
			"11:00",
		},
	}

	res := Normalize(raw, opts())

	assert.Equal(t, times("09:00", "11:00", "15:00", "16:00"), res.Map[date("2025-06-14")])
	assert.Len(t, res.Warnings, 4)
}

func TestNormalize_DateWithoutSurvivingTimesIsAbsent(t *testing.T) {
	raw := map[string]any{
		"2025-06-14": []any{42, true},
		"2025-06-15": []any{},
		"2025-06-16": "15:00",
	}

	res := Normalize(raw, opts())

	assert.Empty(t, res.Map)
	assert.Len(t, res.Warnings, 3)
}

func TestNormalize_MergesKeysForSameDay(t *testing.T) {
	raw := map[string]any{
		"2025-06-14": []any{"16:00"},
		"Sat Jun 14 2025 00:00:00 GMT-0400 (hora estándar de Chile)": []any{"15:00", "16:00"},
	}

	res := Normalize(raw, opts())

	assert.Equal(t, Map{date("2025-06-14"): times("15:00", "16:00")}, res.Map)
}

func TestNormalize_Idempotent(t *testing.T) {
	raw := map[string]any{
		"Sat Jun 14 2025 00:00:00 GMT-0400 (hora estándar de Chile)": []any{"16:00", "15:00"},
		"2025-06-20": []any{"Sat Dec 30 1899 18:00:00 GMT-0442", "18:00"},
	}

	first := Normalize(raw, opts())
	second := Normalize(first.Map.Raw(), opts())

	assert.Empty(t, second.Warnings)
	assert.Equal(t, first.Map, second.Map)
}

func TestNormalize_CustomHeuristics(t *testing.T) {
	h := DefaultHeuristics()
	h.DateMarkers = []string{"UTC"}
	h.MaxPlainKeyLength = 60

	key := "Sat Jun 14 2025 00:00:00 GMT-0400 (Chile)"
	res := Normalize(map[string]any{key: []any{"15:00"}}, Options{Heuristics: h, Location: clt})

	// Neither a marker nor too long: treated as a plain key and rejected.
	assert.Empty(t, res.Map)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, key, res.Warnings[0].Key)
}

func TestHeuristics_Classify(t *testing.T) {
	h := DefaultHeuristics()

	assert.Equal(t, EncodingPlainDate, h.ClassifyKey("2025-06-14"))
	assert.Equal(t, EncodingJSDate, h.ClassifyKey("Sat Jun 14 2025 GMT"))
	assert.Equal(t, EncodingJSDate, h.ClassifyKey("a very long key indeed"))
	assert.Equal(t, EncodingISOInstant, h.ClassifyKey("2025-06-14T04:00:00Z"))
	assert.Equal(t, EncodingUnrecognized, h.ClassifyKey(""))

	assert.Equal(t, EncodingPlainTime, h.ClassifyTime("15:00"))
	assert.Equal(t, EncodingJSDate, h.ClassifyTime("Sat Dec 30 1899 15:00:00"))
	assert.Equal(t, EncodingISOInstant, h.ClassifyTime("1899-12-30T19:00:00Z"))
}

func TestMapHelpers(t *testing.T) {
	m := Map{
		date("2025-06-20"): times("15:00"),
		date("2025-06-14"): times("11:00", "15:00"),
	}

	assert.Equal(t, []model.Date{date("2025-06-14"), date("2025-06-20")}, m.Dates())
	assert.True(t, m.IsOccupied(model.BookingSlot{Date: date("2025-06-14"), Time: model.At(11)}))
	assert.False(t, m.IsOccupied(model.BookingSlot{Date: date("2025-06-14"), Time: model.At(12)}))
	assert.Nil(t, m.Occupied(date("2025-06-15")))

	c := m.Clone()
	c[date("2025-06-14")][0] = model.At(12)
	assert.Equal(t, model.At(11), m[date("2025-06-14")][0])
}
