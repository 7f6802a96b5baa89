// Package picker holds the headless state machines behind the date and
// range pickers: view month, keyboard focus, year/month panels, selection
// policy and text editing. Widgets render a picker and forward input to it.
//
// Pickers are not safe for concurrent use; drive them from the UI thread.
package picker

import (
	"fmt"
	"time"

	"github.com/tartampluch/go-jalali-picker/internal/calendar"
	"github.com/tartampluch/go-jalali-picker/internal/config"
	"github.com/tartampluch/go-jalali-picker/internal/jalali"
)

// Panel is the content shown below the calendar header.
type Panel int

const (
	PanelDays Panel = iota
	PanelYears
	PanelMonths
)

func (p Panel) String() string {
	switch p {
	case PanelYears:
		return "years"
	case PanelMonths:
		return "months"
	}
	return "days"
}

// Key is a keyboard command understood by the calendar.
type Key int

const (
	KeyLeft Key = iota
	KeyRight
	KeyUp
	KeyDown
	KeyPageUp
	KeyPageDown
	KeyEnter
	KeyEscape
)

// Options configures a picker.
type Options struct {
	// Min and Max bound the selectable days inclusively; zero is unbounded.
	Min, Max time.Time

	// WeekStart is the first grid column. Note the zero value is Sunday;
	// Iranian calendars use calendar.DefaultWeekStart.
	WeekStart time.Weekday

	// Inline pickers are always open and have no popover.
	Inline bool

	// ControlledOpen leaves the open state to the owner, which is told about
	// requests through OnOpenChange and answers with SetOpen.
	ControlledOpen bool

	Disabled bool

	// MonthLabels (12 entries) and Weekdays (7 entries, in grid order) are
	// injected display strings. Missing or short lists fall back to numbers.
	MonthLabels []string
	Weekdays    []string

	// TimeFormat enables the time component: "HH:mm" or "HH:mm:ss".
	TimeFormat string

	// IsHoliday marks extra days in DayStates.
	IsHoliday func(jalali.Parts) bool

	Clock calendar.Clock
}

func (o Options) clock() calendar.Clock {
	if o.Clock == nil {
		return calendar.RealClock{}
	}
	return o.Clock
}

// WithTime reports whether the picker edits a time of day too.
func (o Options) WithTime() bool {
	return o.TimeFormat == config.TimeFormatHM || o.TimeFormat == config.TimeFormatHMS
}

// navPolicy captures the small differences between single and range navigation.
type navPolicy struct {
	// focusFollowsInView moves the focus with month paging only when it was
	// inside the visible month; otherwise it jumps to day 1.
	focusFollowsInView bool
	// keepDayOnMonthSelect keeps the focused day number when a month is
	// picked from the month panel.
	keepDayOnMonthSelect bool
}

// Navigator tracks the visible month, the keyboard focus and the header panels.
type Navigator struct {
	cal    *calendar.Calendar
	opts   *Options
	policy navPolicy

	view          calendar.MonthRef
	focused       time.Time
	panel         Panel
	yearPageStart int
	pendingYear   int
}

func newNavigator(cal *calendar.Calendar, opts *Options, policy navPolicy, anchor time.Time) *Navigator {
	n := &Navigator{cal: cal, opts: opts, policy: policy}
	n.Reset(anchor)
	return n
}

func yearPageOf(jy int) int {
	return jy - jy%config.YearPageSize
}

// Reset points the view and the focus at anchor (today when zero) and
// returns to the day panel.
func (n *Navigator) Reset(anchor time.Time) {
	if anchor.IsZero() {
		anchor = calendar.Today(n.opts.clock())
	}
	n.view = n.cal.Month(anchor)
	n.focused = anchor
	n.panel = PanelDays
	n.pendingYear = n.view.Year
	n.yearPageStart = yearPageOf(n.view.Year)
}

// View returns the visible month.
func (n *Navigator) View() calendar.MonthRef { return n.view }

// Focused returns the keyboard-focused day.
func (n *Navigator) Focused() time.Time { return n.focused }

// Panel returns the active panel.
func (n *Navigator) Panel() Panel { return n.panel }

// PendingYear is the year picked in the year panel, shown in the header.
func (n *Navigator) PendingYear() int { return n.pendingYear }

// SetFocus moves the keyboard focus; the view follows across month boundaries.
func (n *Navigator) SetFocus(day time.Time) {
	n.focused = day
	if m := n.cal.Month(day); m != n.view {
		n.view = m
	}
}

// MoveFocus shifts the focus by days.
func (n *Navigator) MoveFocus(days int) {
	n.SetFocus(calendar.AddDays(n.focused, days))
}

// NavigateMonth pages the view by delta months and carries the focus along.
func (n *Navigator) NavigateMonth(delta int) error {
	first, err := n.cal.FirstOfMonth(n.view)
	if err != nil {
		return err
	}
	nextFirst, err := n.cal.AddJalaliMonths(first, delta)
	if err != nil {
		return err
	}

	inView := n.cal.Month(n.focused) == n.view
	n.view = n.cal.Month(nextFirst)

	if n.policy.focusFollowsInView && !inView {
		n.focused = nextFirst
		return nil
	}
	moved, err := n.cal.AddJalaliMonths(n.focused, delta)
	if err != nil {
		return err
	}
	n.focused = moved
	return nil
}

// TogglePanel switches between the day grid and the year panel.
func (n *Navigator) TogglePanel() {
	if n.panel != PanelDays {
		n.panel = PanelDays
		return
	}
	n.panel = PanelYears
	n.pendingYear = n.view.Year
	n.yearPageStart = yearPageOf(n.view.Year)
}

// PageYears moves the year panel by delta pages of twelve years.
func (n *Navigator) PageYears(delta int) {
	n.yearPageStart += delta * config.YearPageSize
}

// Prev pages back: one month on the day panel, twelve years otherwise.
func (n *Navigator) Prev() error {
	if n.panel == PanelDays {
		return n.NavigateMonth(-1)
	}
	n.PageYears(-1)
	return nil
}

// Next pages forward: one month on the day panel, twelve years otherwise.
func (n *Navigator) Next() error {
	if n.panel == PanelDays {
		return n.NavigateMonth(1)
	}
	n.PageYears(1)
	return nil
}

// YearPage lists the twelve years of the current year panel page.
func (n *Navigator) YearPage() []int {
	out := make([]int, config.YearPageSize)
	for i := range out {
		out[i] = n.yearPageStart + i
	}
	return out
}

// YearDisabled reports whether no day of jy is selectable.
func (n *Navigator) YearDisabled(jy int) bool {
	start, end, err := n.cal.YearSpan(jy)
	if err != nil {
		return true
	}
	return !calendar.IntersectsLimits(start, end, n.opts.Min, n.opts.Max)
}

// MonthDisabled reports whether no day of month jm in the pending year is selectable.
func (n *Navigator) MonthDisabled(jm int) bool {
	start, end, err := n.cal.MonthSpan(calendar.MonthRef{Year: n.pendingYear, Month: jm})
	if err != nil {
		return true
	}
	return !calendar.IntersectsLimits(start, end, n.opts.Min, n.opts.Max)
}

// SelectYear picks a year and opens the month panel.
func (n *Navigator) SelectYear(jy int) bool {
	if n.YearDisabled(jy) {
		return false
	}
	n.pendingYear = jy
	n.panel = PanelMonths
	return true
}

// SelectMonth shows month jm of the pending year and returns to the day panel.
func (n *Navigator) SelectMonth(jm int) bool {
	if n.MonthDisabled(jm) {
		return false
	}
	ref := calendar.MonthRef{Year: n.pendingYear, Month: jm}

	focus, err := n.cal.FirstOfMonth(ref)
	if err != nil {
		return false
	}
	if n.policy.keepDayOnMonthSelect {
		day := n.cal.ToJalaliParts(n.focused).Day
		if t, err := n.cal.FromJalaliParts(jalali.Parts{Year: ref.Year, Month: ref.Month, Day: day}); err == nil {
			focus = t
		}
	}

	n.view = ref
	n.focused = focus
	n.panel = PanelDays
	return true
}

// Grid builds the visible month.
func (n *Navigator) Grid() (calendar.Grid, error) {
	return n.cal.BuildMonthGrid(n.view.Year, n.view.Month, n.opts.WeekStart)
}

// MonthLabel renders the header for the visible month.
func (n *Navigator) MonthLabel() string {
	return MonthLabel(n.view, n.opts.MonthLabels)
}

// MonthLabel renders "<label> <year>" with injected labels, or "year / month".
func MonthLabel(ref calendar.MonthRef, labels []string) string {
	if len(labels) == config.MonthsPerYear {
		return fmt.Sprintf(config.FormatMonthLabel, labels[ref.Month-1], ref.Year)
	}
	return fmt.Sprintf(config.FormatMonthFallback, ref.Year, ref.Month)
}

// WeekdayLabels returns the column headers.
func (n *Navigator) WeekdayLabels() []string {
	if len(n.opts.Weekdays) == config.DaysPerWeek {
		return n.opts.Weekdays
	}
	return config.DefaultWeekdayHeaders
}

// moveKey applies a navigation key on the day panel. It reports whether the
// key was a navigation key.
func (n *Navigator) moveKey(k Key) (bool, error) {
	switch k {
	case KeyLeft:
		n.MoveFocus(-1)
	case KeyRight:
		n.MoveFocus(1)
	case KeyUp:
		n.MoveFocus(-config.DaysPerWeek)
	case KeyDown:
		n.MoveFocus(config.DaysPerWeek)
	case KeyPageUp:
		return true, n.NavigateMonth(-1)
	case KeyPageDown:
		return true, n.NavigateMonth(1)
	default:
		return false, nil
	}
	return true, nil
}
