package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-jalali-picker/internal/calendar"
	"github.com/tartampluch/go-jalali-picker/internal/config"
)

func TestParseJalaliText(t *testing.T) {
	c := newCal()

	tests := []struct {
		input    string
		expected time.Time
		ok       bool
	}{
		{"1403/10/15", gd(2025, 1, 4), true},
		{"1403-10-15", gd(2025, 1, 4), true},
		{" 1403.1.1 ", gd(2024, 3, 20), true},
		{"۱۴۰۳/۱۰/۱۵", gd(2025, 1, 4), true},
		{"1403//10//15", gd(2025, 1, 4), true},
		{"1403/13/01", time.Time{}, false},
		{"1402/12/30", time.Time{}, false},
		{"1403/12/30", gd(2025, 3, 20), true},
		{"03/10/15", time.Time{}, false},
		{"1403/10", time.Time{}, false},
		{"", time.Time{}, false},
		{"hello", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := c.ParseJalaliText(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseJalaliTextWithTime(t *testing.T) {
	c := newCal()

	got, ok := c.ParseJalaliTextWithTime("1403/10/15 14:30", config.TimeFormatHM)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 1, 4, 14, 30, 0, 0, time.UTC), got)

	got, ok = c.ParseJalaliTextWithTime("1403/10/15 14:30:45", config.TimeFormatHM)
	require.True(t, ok)
	assert.Zero(t, got.Second(), "HH:mm drops seconds")

	got, ok = c.ParseJalaliTextWithTime("1403/10/15 14:30:45", config.TimeFormatHMS)
	require.True(t, ok)
	assert.Equal(t, 45, got.Second())

	got, ok = c.ParseJalaliTextWithTime("1403/10/15", config.TimeFormatHM)
	require.True(t, ok)
	assert.Equal(t, 12, got.Hour(), "date-only text lands on noon")

	_, ok = c.ParseJalaliTextWithTime("1403/10/15 25:00", config.TimeFormatHM)
	assert.False(t, ok)
	_, ok = c.ParseJalaliTextWithTime("1403/10/15 10:00 extra", config.TimeFormatHM)
	assert.False(t, ok)
}

func TestParseRangeText(t *testing.T) {
	c := newCal()

	r, ok := c.ParseRangeText("1403/10/20 – 1403/10/15")
	require.True(t, ok)
	assert.Equal(t, calendar.DateRange{Start: gd(2025, 1, 4), End: gd(2025, 1, 9)}, r)

	r, ok = c.ParseRangeText("1403/10/15")
	require.True(t, ok)
	assert.Equal(t, calendar.DateRange{Start: gd(2025, 1, 4)}, r)

	_, ok = c.ParseRangeText("1403/10/15 - 1403/13/01")
	assert.False(t, ok)

	_, ok = c.ParseRangeText("nothing here")
	assert.False(t, ok)
}

func TestFormatRangeAndTime(t *testing.T) {
	c := newCal()
	a, b := gd(2025, 1, 4), gd(2025, 1, 9)

	assert.Equal(t, "1403/10/15 – 1403/10/20", c.FormatRange(calendar.DateRange{Start: a, End: b}))
	assert.Equal(t, "1403/10/15", c.FormatRange(calendar.DateRange{Start: a}))
	assert.Empty(t, c.FormatRange(calendar.DateRange{}))
	assert.Equal(t, "1403/10/15 12:00", c.FormatWithTime(a, config.TimeFormatHM))
}

func TestNormalizeDigits(t *testing.T) {
	assert.Equal(t, "1403/10/15", calendar.NormalizeDigits("۱۴۰۳/۱۰/۱۵"))
	assert.Equal(t, "0123", calendar.NormalizeDigits("٠١٢٣"))
}

func TestParseDateList(t *testing.T) {
	c := newCal()

	days, ok := c.ParseDateList("1403/10/15, 1403/10/20")
	require.True(t, ok)
	assert.Equal(t, []time.Time{gd(2025, 1, 4), gd(2025, 1, 9)}, days)

	_, ok = c.ParseDateList("1403/10/15, 1403/02/32")
	assert.False(t, ok)
	_, ok = c.ParseDateList(", ,")
	assert.False(t, ok)
}
