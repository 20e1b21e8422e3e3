package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{"2025-06-14", Date{2025, time.June, 14}, false},
		{" 2025-06-14 ", Date{2025, time.June, 14}, false},
		{"2024-02-29", Date{2024, time.February, 29}, false},
		{"2025-13-01", Date{}, true},
		{"2025-02-30", Date{}, true},
		{"14.06.2025", Date{}, true},
		{"", Date{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.String(), got.String())
		})
	}
}

func TestDateWeekdayIgnoresZone(t *testing.T) {
	d := Date{2025, time.June, 14}
	assert.Equal(t, time.Saturday, d.Weekday())

	santiago := time.FixedZone("CLT", -4*3600)
	assert.Equal(t, d, DateOf(d.Time(santiago)))
}

func TestDateArithmetic(t *testing.T) {
	d := Date{2025, time.June, 30}
	assert.Equal(t, Date{2025, time.July, 1}, d.AddDays(1))
	assert.True(t, d.Before(d.AddDays(1)))
	assert.False(t, d.Before(d))
	assert.Equal(t, Date{2025, time.March, 1}, NewDate(2025, time.February, 29))
}

func TestLeadingYear(t *testing.T) {
	y, ok := LeadingYear("1899-12-30")
	assert.True(t, ok)
	assert.Equal(t, 1899, y)

	_, ok = LeadingYear("Sat Jun 14")
	assert.False(t, ok)
}

func TestParseTimeOfDay(t *testing.T) {
	got, err := ParseTimeOfDay("9:00")
	require.NoError(t, err)
	assert.Equal(t, "09:00", got.String())

	got, err = ParseTimeOfDay(" 15:30 ")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{15, 30}, got)

	for _, bad := range []string{"", "15", "25:00", "10:60", "10:5", "ab:cd"} {
		_, err := ParseTimeOfDay(bad)
		assert.Error(t, err, bad)
	}
}

func TestDateAsJSONMapKey(t *testing.T) {
	m := map[Date][]TimeOfDay{
		{2025, time.June, 14}: {At(15), At(16)},
	}
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"2025-06-14":["15:00","16:00"]}`, string(data))

	var back map[Date][]TimeOfDay
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, m, back)
}
