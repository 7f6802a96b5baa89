package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-jalali-picker/internal/calendar"
	"github.com/tartampluch/go-jalali-picker/internal/jalali"
)

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func newCal() *calendar.Calendar {
	return calendar.New(jalali.NewCivil(time.UTC))
}

func jd(t *testing.T, c *calendar.Calendar, y, m, d int) time.Time {
	t.Helper()
	out, err := c.FromJalaliParts(jalali.Parts{Year: y, Month: m, Day: d})
	require.NoError(t, err)
	return out
}

func gd(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

// -----------------------------------------------------------------------------
// Test Cases
// -----------------------------------------------------------------------------

func TestCompareDays_IgnoresTimeOfDay(t *testing.T) {
	morning := time.Date(2025, 1, 4, 0, 0, 1, 0, time.UTC)
	night := time.Date(2025, 1, 4, 23, 59, 59, 0, time.UTC)
	next := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)

	assert.Zero(t, calendar.CompareDays(morning, night))
	assert.True(t, calendar.IsSameDay(night, morning))
	assert.Equal(t, -1, calendar.CompareDays(night, next))
	assert.Equal(t, 1, calendar.CompareDays(next, morning))
}

func TestCompareDays_AddDays(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	tehran, err := time.LoadLocation("Asia/Tehran")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	tests := []struct {
		name string
		at   time.Time
	}{
		{"Midday UTC", time.Date(2025, 1, 4, 12, 0, 0, 0, time.UTC)},
		{"Month end", time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC)},
		{"Year end", time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)},
		{"Leap day", time.Date(2024, 2, 28, 18, 0, 0, 0, time.UTC)},
		{"Before spring forward", time.Date(2025, 3, 8, 2, 30, 0, 0, newYork)},
		{"Spring forward night", time.Date(2025, 3, 8, 23, 30, 0, 0, newYork)},
		{"Spring forward day", time.Date(2025, 3, 9, 3, 30, 0, 0, newYork)},
		{"Fall back ambiguous hour", time.Date(2025, 11, 2, 1, 30, 0, 0, newYork)},
		{"Before fall back", time.Date(2025, 11, 1, 23, 59, 0, 0, newYork)},
		{"Jalali year end", time.Date(2025, 3, 20, 22, 0, 0, 0, tehran)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			same := calendar.AddDays(tt.at, 0)
			next := calendar.AddDays(tt.at, 1)
			prev := calendar.AddDays(tt.at, -1)

			assert.Equal(t, 0, calendar.CompareDays(tt.at, same))
			assert.True(t, calendar.IsSameDay(tt.at, same))
			assert.Negative(t, calendar.CompareDays(tt.at, next))
			assert.Positive(t, calendar.CompareDays(tt.at, prev))
			assert.Equal(t, 1, calendar.DaysBetween(tt.at, next))
		})
	}
}

func TestIsWithinRange_Boundaries(t *testing.T) {
	lo := gd(2025, 1, 1)
	hi := gd(2025, 1, 31)

	tests := []struct {
		name     string
		day      time.Time
		min, max time.Time
		expected bool
	}{
		{"On min", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), lo, hi, true},
		{"On max late", time.Date(2025, 1, 31, 23, 0, 0, 0, time.UTC), lo, hi, true},
		{"Before min", gd(2024, 12, 31), lo, hi, false},
		{"After max", gd(2025, 2, 1), lo, hi, false},
		{"Unbounded", gd(1990, 1, 1), time.Time{}, time.Time{}, true},
		{"Only max", gd(2030, 1, 1), time.Time{}, hi, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, calendar.IsWithinRange(tt.day, tt.min, tt.max))
		})
	}
}

func TestClampToRange(t *testing.T) {
	lo, hi := gd(2025, 1, 1), gd(2025, 1, 31)
	assert.Equal(t, lo, calendar.ClampToRange(gd(2024, 6, 1), lo, hi))
	assert.Equal(t, hi, calendar.ClampToRange(gd(2026, 6, 1), lo, hi))
	assert.Equal(t, gd(2025, 1, 9), calendar.ClampToRange(gd(2025, 1, 9), lo, hi))
}

func TestAddMonths_YearCarry(t *testing.T) {
	tests := []struct {
		name     string
		ref      calendar.MonthRef
		delta    int
		expected calendar.MonthRef
	}{
		{"Forward within year", calendar.MonthRef{Year: 1403, Month: 1}, 5, calendar.MonthRef{Year: 1403, Month: 6}},
		{"Forward across year", calendar.MonthRef{Year: 1403, Month: 12}, 1, calendar.MonthRef{Year: 1404, Month: 1}},
		{"Backward across year", calendar.MonthRef{Year: 1403, Month: 1}, -1, calendar.MonthRef{Year: 1402, Month: 12}},
		{"Backward many years", calendar.MonthRef{Year: 1403, Month: 3}, -27, calendar.MonthRef{Year: 1400, Month: 12}},
		{"Zero delta", calendar.MonthRef{Year: 1403, Month: 7}, 0, calendar.MonthRef{Year: 1403, Month: 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, calendar.AddMonths(tt.ref, tt.delta))
		})
	}
}

func TestMonthLength(t *testing.T) {
	c := newCal()

	tests := []struct {
		jy, jm   int
		expected int
	}{
		{1403, 1, 31},
		{1403, 6, 31},
		{1403, 7, 30},
		{1403, 12, 30}, // leap
		{1402, 12, 29},
		{1404, 12, 29},
	}

	for _, tt := range tests {
		got, err := c.MonthLength(tt.jy, tt.jm)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, got, "%d/%d", tt.jy, tt.jm)
	}
}

func TestMonthLength_Invalid(t *testing.T) {
	_, err := newCal().MonthLength(1403, 13)
	require.Error(t, err)
	assert.ErrorIs(t, err, jalali.ErrInvalidDate)
}

func TestAddJalaliMonths_ClampsDay(t *testing.T) {
	c := newCal()

	tests := []struct {
		name     string
		from     jalali.Parts
		delta    int
		expected jalali.Parts
	}{
		{"31 into 30-day month", jalali.Parts{Year: 1403, Month: 6, Day: 31}, 1, jalali.Parts{Year: 1403, Month: 7, Day: 30}},
		{"Leap Esfand to common", jalali.Parts{Year: 1403, Month: 12, Day: 30}, 12, jalali.Parts{Year: 1404, Month: 12, Day: 29}},
		{"Backward into Esfand", jalali.Parts{Year: 1403, Month: 1, Day: 31}, -1, jalali.Parts{Year: 1402, Month: 12, Day: 29}},
		{"No clamp needed", jalali.Parts{Year: 1403, Month: 2, Day: 15}, 3, jalali.Parts{Year: 1403, Month: 5, Day: 15}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.AddJalaliMonths(jd(t, c, tt.from.Year, tt.from.Month, tt.from.Day), tt.delta)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, c.ToJalaliParts(got))
		})
	}
}

func TestDaysBetween(t *testing.T) {
	c := newCal()
	start := jd(t, c, 1403, 1, 1)
	end := jd(t, c, 1404, 1, 1)

	assert.Equal(t, 366, calendar.DaysBetween(start, end))
	assert.Equal(t, -366, calendar.DaysBetween(end, start))
	assert.Equal(t, start, calendar.AddDays(end, -366))
}

func TestSpans_IntersectLimits(t *testing.T) {
	c := newCal()

	start, end, err := c.YearSpan(1403)
	require.NoError(t, err)
	assert.Equal(t, gd(2024, 3, 20), start)
	assert.Equal(t, gd(2025, 3, 21), end)

	mStart, mEnd, err := c.MonthSpan(calendar.MonthRef{Year: 1403, Month: 10})
	require.NoError(t, err)

	// End of the span is exclusive.
	assert.False(t, calendar.IntersectsLimits(mStart, mEnd, mEnd, time.Time{}))
	assert.True(t, calendar.IntersectsLimits(mStart, mEnd, calendar.AddDays(mEnd, -1), time.Time{}))
	assert.True(t, calendar.IntersectsLimits(mStart, mEnd, time.Time{}, mStart))
	assert.False(t, calendar.IntersectsLimits(mStart, mEnd, time.Time{}, calendar.AddDays(mStart, -1)))
	assert.True(t, calendar.IntersectsLimits(mStart, mEnd, time.Time{}, time.Time{}))
}

func TestFormat(t *testing.T) {
	c := newCal()
	assert.Equal(t, "1403/10/15", c.Format(gd(2025, 1, 4)))
	assert.Equal(t, "1403-01-01", calendar.FormatJalaliParts(jalali.Parts{Year: 1403, Month: 1, Day: 1}, "-"))
	assert.Equal(t, calendar.MonthRef{Year: 1403, Month: 10}, c.Month(gd(2025, 1, 4)))
}

type fixedClock struct{ now time.Time }

func (f fixedClock) Now() time.Time { return f.now }

func TestToday_IsMidnight(t *testing.T) {
	now := time.Date(2025, 1, 4, 17, 45, 3, 9, time.UTC)
	assert.Equal(t, time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC), calendar.Today(fixedClock{now: now}))
}
