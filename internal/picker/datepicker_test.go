package picker_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-jalali-picker/internal/calendar"
	"github.com/tartampluch/go-jalali-picker/internal/config"
	"github.com/tartampluch/go-jalali-picker/internal/jalali"
	"github.com/tartampluch/go-jalali-picker/internal/picker"
	"github.com/tartampluch/go-jalali-picker/internal/timeofday"
)

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

// MockClock controls "today" for deterministic testing.
type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

// 2025-01-04 is 1403/10/15.
var fixedNow = time.Date(2025, 1, 4, 9, 30, 0, 0, time.UTC)

func newCal() *calendar.Calendar {
	return calendar.New(jalali.NewCivil(time.UTC))
}

func noon(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func baseOpts() picker.Options {
	return picker.Options{
		WeekStart: calendar.DefaultWeekStart,
		Clock:     MockClock{CurrentTime: fixedNow},
	}
}

func newSingle(t *testing.T, opts picker.Options, initial time.Time) (*picker.DatePicker, *[]calendar.Selection) {
	t.Helper()
	var changes []calendar.Selection
	p := picker.NewDatePicker(newCal(), opts, calendar.Single(initial))
	p.OnChange = func(s calendar.Selection) { changes = append(changes, s) }
	return p, &changes
}

// -----------------------------------------------------------------------------
// Test Cases
// -----------------------------------------------------------------------------

func TestDatePicker_InitialView(t *testing.T) {
	p, _ := newSingle(t, baseOpts(), time.Time{})

	assert.Equal(t, calendar.MonthRef{Year: 1403, Month: 10}, p.Navigator().View(), "empty value opens on today")
	assert.Empty(t, p.Text())
	assert.False(t, p.IsOpen())

	p2, _ := newSingle(t, baseOpts(), noon(2024, 3, 20))
	assert.Equal(t, calendar.MonthRef{Year: 1403, Month: 1}, p2.Navigator().View())
	assert.Equal(t, "1403/01/01", p2.Text())
}

func TestDatePicker_SelectDayClosesPopover(t *testing.T) {
	p, changes := newSingle(t, baseOpts(), time.Time{})
	var openEvents []bool
	p.OnOpenChange = func(o bool) { openEvents = append(openEvents, o) }

	p.Open()
	require.True(t, p.IsOpen())

	ok := p.SelectDay(time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)

	require.Len(t, *changes, 1)
	got, _ := (*changes)[0].Single()
	assert.Equal(t, noon(2025, 1, 9), got, "days are stored at local noon")
	assert.Equal(t, "1403/10/20", p.Text())
	assert.False(t, p.IsOpen())
	assert.Equal(t, []bool{true, false}, openEvents)
}

func TestDatePicker_SelectOutOfBoundsIsRejected(t *testing.T) {
	opts := baseOpts()
	opts.Min = noon(2025, 1, 1)
	opts.Max = noon(2025, 1, 31)
	p, changes := newSingle(t, opts, noon(2025, 1, 10))

	assert.False(t, p.SelectDay(noon(2025, 2, 1)))
	assert.Empty(t, *changes)
	got, _ := p.Value().Single()
	assert.Equal(t, noon(2025, 1, 10), got)
}

func TestDatePicker_MultipleToggles(t *testing.T) {
	p := picker.NewDatePicker(newCal(), baseOpts(), calendar.Multiple())
	p.Open()

	p.SelectDay(noon(2025, 1, 9))
	p.SelectDay(noon(2025, 1, 4))
	assert.True(t, p.IsOpen(), "multiple selection keeps the popover open")
	assert.Equal(t, "1403/10/15, 1403/10/20", p.Text())

	p.SelectDay(noon(2025, 1, 9))
	assert.Equal(t, []time.Time{noon(2025, 1, 4)}, p.Value().Days())
}

func TestDatePicker_CommitText(t *testing.T) {
	opts := baseOpts()
	opts.Max = noon(2025, 12, 31)

	tests := []struct {
		name      string
		initial   time.Time
		draft     string
		ok        bool
		wantValue time.Time
		wantText  string
	}{
		{"Valid", time.Time{}, "1403/10/20", true, noon(2025, 1, 9), "1403/10/20"},
		{"Persian digits", time.Time{}, "۱۴۰۳/۱۰/۲۰", true, noon(2025, 1, 9), "1403/10/20"},
		{"Invalid reverts to value", noon(2025, 1, 4), "1403/13/01", false, noon(2025, 1, 4), "1403/10/15"},
		{"Invalid without value keeps text", time.Time{}, "garbage", false, time.Time{}, "garbage"},
		{"Out of bounds reverts", noon(2025, 1, 4), "1410/01/01", false, noon(2025, 1, 4), "1403/10/15"},
		{"Empty clears", noon(2025, 1, 4), "   ", true, time.Time{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newSingle(t, opts, tt.initial)
			p.SetDraft(tt.draft)
			assert.Equal(t, picker.Editing, p.Mode())

			assert.Equal(t, tt.ok, p.CommitText())
			assert.Equal(t, picker.Idle, p.Mode())

			got, _ := p.Value().Single()
			assert.Equal(t, tt.wantValue, got)
			assert.Equal(t, tt.wantText, p.Text())
		})
	}
}

func TestDatePicker_SetValueKeepsDraft(t *testing.T) {
	p, _ := newSingle(t, baseOpts(), noon(2025, 1, 4))

	p.BeginEdit()
	p.SetDraft("1403/1")
	p.SetValue(calendar.Single(noon(2025, 1, 9)))

	assert.Equal(t, "1403/1", p.Text(), "draft survives an external update")

	p.CancelEdit()
	assert.Equal(t, "1403/10/20", p.Text())
}

func TestDatePicker_Keyboard(t *testing.T) {
	p, changes := newSingle(t, baseOpts(), noon(2025, 1, 4))

	assert.False(t, p.HandleKey(picker.KeyRight), "closed calendar ignores keys")

	assert.True(t, p.HandleInputKey(picker.KeyDown))
	require.True(t, p.IsOpen())

	p.HandleKey(picker.KeyRight)
	p.HandleKey(picker.KeyDown)
	assert.Equal(t, noon(2025, 1, 12), p.Navigator().Focused())

	// Crossing into Bahman moves the view.
	for range 3 {
		p.HandleKey(picker.KeyDown)
	}
	assert.Equal(t, calendar.MonthRef{Year: 1403, Month: 11}, p.Navigator().View())

	p.HandleKey(picker.KeyPageUp)
	assert.Equal(t, calendar.MonthRef{Year: 1403, Month: 10}, p.Navigator().View())

	assert.True(t, p.HandleKey(picker.KeyEnter))
	require.Len(t, *changes, 1)
	assert.False(t, p.IsOpen())
}

func TestDatePicker_EscapeClosesFromAnyPanel(t *testing.T) {
	p, _ := newSingle(t, baseOpts(), time.Time{})
	p.Open()
	p.Navigator().TogglePanel()

	assert.False(t, p.HandleKey(picker.KeyLeft), "arrows only work on the day panel")
	assert.True(t, p.HandleKey(picker.KeyEscape))
	assert.False(t, p.IsOpen())
	assert.Equal(t, picker.PanelDays, p.Navigator().Panel())
}

func TestDatePicker_ControlledOpen(t *testing.T) {
	opts := baseOpts()
	opts.ControlledOpen = true
	p, _ := newSingle(t, opts, time.Time{})

	var requested []bool
	p.OnOpenChange = func(o bool) { requested = append(requested, o) }

	p.Open()
	assert.Equal(t, []bool{true}, requested)
	assert.False(t, p.IsOpen(), "owner decides")

	p.SetOpen(true)
	assert.True(t, p.IsOpen())
}

func TestDatePicker_InlineAndDisabled(t *testing.T) {
	inline := baseOpts()
	inline.Inline = true
	p, _ := newSingle(t, inline, time.Time{})
	assert.True(t, p.IsOpen())
	p.SelectDay(noon(2025, 1, 5))
	assert.True(t, p.IsOpen(), "inline never closes")

	disabled := baseOpts()
	disabled.Disabled = true
	d, changes := newSingle(t, disabled, time.Time{})
	d.Open()
	assert.False(t, d.IsOpen())
	assert.False(t, d.SelectDay(noon(2025, 1, 5)))
	assert.Empty(t, *changes)

	states, err := d.DayStates()
	require.NoError(t, err)
	for _, s := range states {
		assert.True(t, s.Disabled)
	}
}

func TestDatePicker_DayStates(t *testing.T) {
	opts := baseOpts()
	opts.Min = noon(2025, 1, 2)
	opts.IsHoliday = func(p jalali.Parts) bool { return p.Month == 10 && p.Day == 20 }
	p, _ := newSingle(t, opts, noon(2025, 1, 9))

	states, err := p.DayStates()
	require.NoError(t, err)
	require.Len(t, states, config.GridCells)

	find := func(d time.Time) picker.DayState {
		for _, s := range states {
			if calendar.IsSameDay(s.Cell.Gregorian, d) {
				return s
			}
		}
		t.Fatalf("day %v not in grid", d)
		return picker.DayState{}
	}

	assert.True(t, find(noon(2025, 1, 4)).Today)
	assert.True(t, find(noon(2025, 1, 9)).Selected)
	assert.True(t, find(noon(2025, 1, 9)).Focused)
	assert.True(t, find(noon(2025, 1, 9)).Holiday)
	assert.True(t, find(noon(2025, 1, 1)).Disabled)
	assert.False(t, find(noon(2025, 1, 2)).Disabled)
	assert.True(t, find(noon(2025, 1, 20)).Outside, "1403/10/31 does not exist, 2025-01-20 is in Bahman")
}

func TestDatePicker_WithTime(t *testing.T) {
	opts := baseOpts()
	opts.TimeFormat = config.TimeFormatHM
	p, changes := newSingle(t, opts, time.Date(2025, 1, 4, 14, 30, 0, 0, time.UTC))

	assert.Equal(t, "1403/10/15 14:30", p.Text())
	assert.Equal(t, timeofday.TimeOfDay{Hour: 14, Minute: 30}, p.Time())

	p.StepTime(timeofday.Hour, 1, 10)
	got, _ := p.Value().Single()
	assert.Equal(t, time.Date(2025, 1, 4, 0, 30, 0, 0, time.UTC), got, "hour wraps without changing the day")

	assert.True(t, p.SetTimeField(timeofday.Minute, "99"))
	assert.Equal(t, 59, p.Time().Minute)

	p.SelectDay(noon(2025, 1, 9))
	got, _ = p.Value().Single()
	assert.Equal(t, time.Date(2025, 1, 9, 0, 59, 0, 0, time.UTC), got, "picked days keep the time")

	p.SetDraft("1403/10/16 08:05")
	require.True(t, p.CommitText())
	got, _ = p.Value().Single()
	assert.Equal(t, time.Date(2025, 1, 5, 8, 5, 0, 0, time.UTC), got)
	assert.Len(t, *changes, 4)
}

func TestDatePicker_SelectTodayAndClear(t *testing.T) {
	p, _ := newSingle(t, baseOpts(), time.Time{})
	require.True(t, p.SelectToday())
	got, _ := p.Value().Single()
	assert.Equal(t, noon(2025, 1, 4), got)

	p.Clear()
	assert.True(t, p.Value().IsEmpty())
	assert.Empty(t, p.Text())
}
