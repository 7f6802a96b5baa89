package picker

import (
	"log/slog"
	"strings"
	"time"

	"github.com/tartampluch/go-jalali-picker/internal/calendar"
	"github.com/tartampluch/go-jalali-picker/internal/config"
	"github.com/tartampluch/go-jalali-picker/internal/timeofday"
)

// DatePicker selects one day, or a set of days when built with a
// calendar.Multiple selection.
type DatePicker struct {
	cal  *calendar.Calendar
	opts Options
	nav  *Navigator
	log  *slog.Logger

	value    calendar.Selection
	multiple bool
	open     bool
	input    textState
	tod      timeofday.TimeOfDay

	// OnChange receives every committed selection.
	OnChange func(calendar.Selection)
	// OnOpenChange receives every open or close request.
	OnOpenChange func(bool)
}

// NewDatePicker starts with initial. Its kind (single or multiple) is kept
// for the picker's lifetime; a range selection is not accepted and starts empty.
func NewDatePicker(cal *calendar.Calendar, opts Options, initial calendar.Selection) *DatePicker {
	p := &DatePicker{
		cal:      cal,
		opts:     opts,
		multiple: initial.Kind() == calendar.KindMultiple,
		log:      slog.With(config.LogKeyComponent, config.CompPicker),
	}
	p.nav = newNavigator(cal, &p.opts, navPolicy{focusFollowsInView: true, keepDayOnMonthSelect: true}, time.Time{})
	p.SetValue(initial)
	return p
}

// Navigator exposes view and panel state to the renderer.
func (p *DatePicker) Navigator() *Navigator { return p.nav }

// Options returns the picker configuration.
func (p *DatePicker) Options() Options { return p.opts }

// Value returns the committed selection.
func (p *DatePicker) Value() calendar.Selection { return p.value }

func (p *DatePicker) empty() calendar.Selection {
	if p.multiple {
		return calendar.Multiple()
	}
	return calendar.Single(time.Time{})
}

func (p *DatePicker) coerce(sel calendar.Selection) calendar.Selection {
	switch {
	case p.multiple && sel.Kind() == calendar.KindMultiple:
		return sel
	case !p.multiple && sel.Kind() == calendar.KindSingle:
		return sel
	}
	return p.empty()
}

// SetValue replaces the selection from the outside. While the user is
// editing the input, the draft text and the view are left alone.
func (p *DatePicker) SetValue(sel calendar.Selection) {
	p.value = p.coerce(sel)
	anchor, ok := p.value.Anchor()
	if ok && p.opts.WithTime() {
		p.tod = timeofday.Of(anchor)
	}
	p.input.sync(p.format())
	if p.input.mode == Editing {
		return
	}
	p.nav.Reset(anchor)
}

func (p *DatePicker) format() string {
	if p.multiple {
		days := p.value.Days()
		parts := make([]string, len(days))
		for i, d := range days {
			parts[i] = p.cal.Format(d)
		}
		return strings.Join(parts, config.MultiSepText)
	}
	t, ok := p.value.Single()
	if !ok {
		return ""
	}
	if p.opts.WithTime() {
		return p.cal.FormatWithTime(t, p.opts.TimeFormat)
	}
	return p.cal.Format(t)
}

func (p *DatePicker) commit(sel calendar.Selection) {
	p.value = sel
	p.input.sync(p.format())

	p.log.Debug(config.MsgSelectionChange,
		config.LogKeyKind, sel.Kind().String(),
		config.LogKeyText, p.input.text)

	if p.OnChange != nil {
		p.OnChange(sel)
	}
}

// Text is what the input shows: the draft while editing, else the value.
func (p *DatePicker) Text() string { return p.input.current() }

// Mode reports whether the input is being edited.
func (p *DatePicker) Mode() EditMode { return p.input.mode }

// BeginEdit switches the input to Editing, seeded with the current text.
func (p *DatePicker) BeginEdit() { p.input.begin() }

// SetDraft records typed text.
func (p *DatePicker) SetDraft(text string) { p.input.setDraft(text) }

// CancelEdit drops the draft.
func (p *DatePicker) CancelEdit() { p.input.end() }

// CommitText parses the draft (or the current text when idle). Empty text
// clears the selection. Unparseable or out-of-bounds text keeps the value
// and reverts the input; with nothing selected the typed text stays visible.
func (p *DatePicker) CommitText() bool {
	var raw string
	if p.input.mode == Editing {
		raw = p.input.end()
	} else {
		raw = p.input.text
	}
	if p.opts.Disabled {
		return false
	}

	text := strings.TrimSpace(raw)
	if text == "" {
		p.commit(p.empty())
		return true
	}

	sel, ok := p.parse(text)
	if !ok {
		p.log.Debug(config.MsgParseRejected, config.LogKeyText, text)
		if p.value.IsEmpty() {
			p.input.sync(text)
		} else {
			p.input.sync(p.format())
		}
		return false
	}

	if t, ok := sel.Single(); ok && p.opts.WithTime() {
		p.tod = timeofday.Of(t)
	}
	p.commit(sel)
	anchor, _ := sel.Anchor()
	p.nav.Reset(anchor)
	return true
}

func (p *DatePicker) parse(text string) (calendar.Selection, bool) {
	if p.multiple {
		days, ok := p.cal.ParseDateList(text)
		if !ok {
			return calendar.Selection{}, false
		}
		for _, d := range days {
			if !validDay(d, &p.opts) {
				return calendar.Selection{}, false
			}
		}
		return calendar.Multiple(days...), true
	}

	var (
		t  time.Time
		ok bool
	)
	if p.opts.WithTime() {
		t, ok = p.cal.ParseJalaliTextWithTime(text, p.opts.TimeFormat)
	} else {
		t, ok = p.cal.ParseJalaliText(text)
	}
	if !ok || !validDay(t, &p.opts) {
		return calendar.Selection{}, false
	}
	return calendar.Single(t), true
}

// IsOpen reports whether the calendar is shown. Inline pickers always are.
func (p *DatePicker) IsOpen() bool {
	return p.opts.Inline || p.open
}

func (p *DatePicker) requestOpen(next bool) {
	if p.OnOpenChange != nil {
		p.OnOpenChange(next)
	}
	if p.opts.Inline || p.opts.ControlledOpen {
		return
	}
	p.open = next
}

// SetOpen is how an owner of a controlled picker applies the open state.
func (p *DatePicker) SetOpen(open bool) {
	p.open = open
}

// Open shows the calendar on the selected day, or the focused day.
func (p *DatePicker) Open() {
	if p.opts.Disabled {
		return
	}
	anchor, ok := p.value.Anchor()
	if !ok {
		anchor = p.nav.Focused()
	}
	p.requestOpen(true)
	p.nav.Reset(anchor)
}

// Close hides the calendar and returns to the day panel.
func (p *DatePicker) Close() {
	p.requestOpen(false)
	p.nav.panel = PanelDays
}

// dayValue is the instant stored for a picked day: local noon, or the
// current time of day when the time component is on.
func (p *DatePicker) dayValue(day time.Time) time.Time {
	if p.opts.WithTime() {
		return timeofday.Apply(day, p.tod)
	}
	if t, err := p.cal.FromJalaliParts(p.cal.ToJalaliParts(day)); err == nil {
		return t
	}
	return day
}

// SelectDay picks a day. A single picker closes its popover; a multiple
// picker toggles the day. Days outside the bounds are refused.
func (p *DatePicker) SelectDay(day time.Time) bool {
	if !validDay(day, &p.opts) {
		p.log.Debug(config.MsgSelectRejected, config.LogKeyDate, p.cal.Format(day))
		return false
	}
	v := p.dayValue(day)
	p.nav.SetFocus(v)

	if p.multiple {
		p.commit(p.value.Toggle(v))
		return true
	}
	p.commit(calendar.Single(v))
	if !p.opts.Inline {
		p.Close()
	}
	return true
}

// SelectToday picks the clock's current day.
func (p *DatePicker) SelectToday() bool {
	return p.SelectDay(calendar.Today(p.opts.clock()))
}

// Clear empties the selection.
func (p *DatePicker) Clear() {
	if p.opts.Disabled {
		return
	}
	p.commit(p.empty())
}

// HandleKey applies a calendar keyboard command and reports whether it was used.
// Only Escape works outside the day panel.
func (p *DatePicker) HandleKey(k Key) bool {
	if !p.IsOpen() || p.opts.Disabled {
		return false
	}
	if k == KeyEscape {
		p.Close()
		return true
	}
	if p.nav.Panel() != PanelDays {
		return false
	}
	if k == KeyEnter {
		return p.SelectDay(p.nav.Focused())
	}
	used, err := p.nav.moveKey(k)
	if err != nil {
		p.log.Debug(config.MsgNavRejected, config.LogKeyError, err)
	}
	return used
}

// HandleInputKey applies a key pressed in the text input: Down opens,
// Escape closes, Enter commits the text.
func (p *DatePicker) HandleInputKey(k Key) bool {
	if p.opts.Disabled {
		return false
	}
	switch k {
	case KeyDown:
		p.Open()
		return true
	case KeyEscape:
		if p.IsOpen() {
			p.Close()
			return true
		}
	case KeyEnter:
		p.CommitText()
		return true
	}
	return false
}

// DayStates returns the render flags of the visible grid.
func (p *DatePicker) DayStates() ([]DayState, error) {
	states, err := baseStates(p.nav, &p.opts)
	if err != nil {
		return nil, err
	}
	for i := range states {
		states[i].Selected = p.value.Contains(states[i].Cell.Gregorian)
	}
	return states, nil
}

// Time returns the time of day applied to picked days.
func (p *DatePicker) Time() timeofday.TimeOfDay { return p.tod }

// SetTime changes the time of day and re-applies it to the selection.
func (p *DatePicker) SetTime(tod timeofday.TimeOfDay) {
	if p.opts.Disabled || !p.opts.WithTime() {
		return
	}
	p.tod = tod
	if p.value.IsEmpty() {
		return
	}
	p.commit(p.value.Map(func(t time.Time) time.Time { return timeofday.Apply(t, tod) }))
}

// StepTime moves one field with wraparound, as the stepper buttons do.
func (p *DatePicker) StepTime(f timeofday.Field, delta, step int) {
	p.SetTime(p.tod.Stepped(f, delta, step))
}

// SetTimeField applies a typed value for one field, saturating out-of-range input.
func (p *DatePicker) SetTimeField(f timeofday.Field, text string) bool {
	tod, ok := timeofday.ParseField(text, f, p.tod)
	if !ok {
		return false
	}
	p.SetTime(tod)
	return true
}
