package picker

import (
	"log/slog"
	"strings"
	"time"

	"github.com/tartampluch/go-jalali-picker/internal/calendar"
	"github.com/tartampluch/go-jalali-picker/internal/config"
)

// Field is one of the range picker's inputs.
type Field int

const (
	FieldStart Field = iota
	FieldEnd
)

func (f Field) String() string {
	if f == FieldEnd {
		return "end"
	}
	return "start"
}

// RangePicker selects a date range with two clicks. It offers separate
// start/end inputs as well as a single combined input.
type RangePicker struct {
	cal  *calendar.Calendar
	opts Options
	nav  *Navigator
	log  *slog.Logger

	sel    calendar.RangeSelector
	active Field
	hover  time.Time
	open   bool

	start, end, combined textState

	// OnChange receives every committed range.
	OnChange func(calendar.DateRange)
	// OnOpenChange receives every open or close request.
	OnOpenChange func(bool)
}

// NewRangePicker starts with initial, normalized.
func NewRangePicker(cal *calendar.Calendar, opts Options, initial calendar.DateRange) *RangePicker {
	p := &RangePicker{
		cal:  cal,
		opts: opts,
		sel:  calendar.RangeSelector{Min: opts.Min, Max: opts.Max},
		log:  slog.With(config.LogKeyComponent, config.CompPicker),
	}
	p.nav = newNavigator(cal, &p.opts, navPolicy{}, time.Time{})
	p.SetValue(initial)
	return p
}

// Navigator exposes view and panel state to the renderer.
func (p *RangePicker) Navigator() *Navigator { return p.nav }

// Options returns the picker configuration.
func (p *RangePicker) Options() Options { return p.opts }

// Value returns the committed range.
func (p *RangePicker) Value() calendar.DateRange { return p.sel.Range }

// State returns the selection progress.
func (p *RangePicker) State() calendar.RangeState { return p.sel.State() }

// ActiveField is the input the next click fills.
func (p *RangePicker) ActiveField() Field { return p.active }

func (p *RangePicker) anchor() time.Time {
	if !p.sel.Range.Start.IsZero() {
		return p.sel.Range.Start
	}
	return p.sel.Range.End
}

func (p *RangePicker) syncText() {
	r := p.sel.Range
	p.start.sync(p.formatDay(r.Start))
	p.end.sync(p.formatDay(r.End))

	s, e := p.formatDay(r.Start), p.formatDay(r.End)
	switch {
	case s == "" && e == "":
		p.combined.sync("")
	case e == "":
		p.combined.sync(s + config.RangeSepText)
	default:
		p.combined.sync(s + config.RangeSepText + e)
	}
}

func (p *RangePicker) formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return p.cal.Format(t)
}

// SetValue replaces the range from the outside.
func (p *RangePicker) SetValue(r calendar.DateRange) {
	p.sel.Range = calendar.NormalizeRange(r)
	p.syncText()
	p.nav.Reset(p.anchor())
}

func (p *RangePicker) commit(r calendar.DateRange) {
	p.sel.Range = r
	p.syncText()

	p.log.Debug(config.MsgSelectionChange,
		config.LogKeyKind, calendar.KindRange.String(),
		config.LogKeyText, p.combined.text)

	if p.OnChange != nil {
		p.OnChange(r)
	}
}

// IsOpen reports whether the calendar is shown. Inline pickers always are.
func (p *RangePicker) IsOpen() bool {
	return p.opts.Inline || p.open
}

func (p *RangePicker) requestOpen(next bool) {
	if p.OnOpenChange != nil {
		p.OnOpenChange(next)
	}
	if p.opts.Inline || p.opts.ControlledOpen {
		return
	}
	p.open = next
}

// SetOpen is how an owner of a controlled picker applies the open state.
func (p *RangePicker) SetOpen(open bool) {
	p.open = open
}

// Open shows the calendar for field, on that field's day when set.
func (p *RangePicker) Open(field Field) {
	if p.opts.Disabled {
		return
	}
	p.active = field

	anchor := p.sel.Range.Start
	if field == FieldEnd && !p.sel.Range.End.IsZero() {
		anchor = p.sel.Range.End
	}
	if anchor.IsZero() {
		anchor = p.anchor()
	}
	p.requestOpen(true)
	p.nav.Reset(anchor)
}

// Close hides the calendar, clears the hover and returns to the day panel.
func (p *RangePicker) Close() {
	p.requestOpen(false)
	p.hover = time.Time{}
	p.nav.panel = PanelDays
}

// SelectDay feeds one click to the range state machine. Starting a range
// moves the focus to the end input; completing it closes the popover.
func (p *RangePicker) SelectDay(day time.Time) bool {
	if p.opts.Disabled {
		return false
	}
	if t, err := p.cal.FromJalaliParts(p.cal.ToJalaliParts(day)); err == nil {
		day = t
	}
	if !p.sel.Select(day) {
		p.log.Debug(config.MsgSelectRejected, config.LogKeyDate, p.cal.Format(day))
		return false
	}
	p.nav.SetFocus(day)
	p.commit(p.sel.Range)

	if p.sel.State() == calendar.RangeStartOnly {
		p.active = FieldEnd
		return true
	}
	p.hover = time.Time{}
	if !p.opts.Inline {
		p.Close()
	}
	return true
}

// Hover records the day under the pointer for the preview.
func (p *RangePicker) Hover(day time.Time) { p.hover = day }

// ClearHover drops the preview.
func (p *RangePicker) ClearHover() { p.hover = time.Time{} }

// Clear empties the range.
func (p *RangePicker) Clear() {
	if p.opts.Disabled {
		return
	}
	p.active = FieldStart
	p.commit(calendar.DateRange{})
}

func (p *RangePicker) input(f Field) *textState {
	if f == FieldEnd {
		return &p.end
	}
	return &p.start
}

// Text returns what field's input shows.
func (p *RangePicker) Text(f Field) string { return p.input(f).current() }

// RangeText returns what the combined input shows.
func (p *RangePicker) RangeText() string { return p.combined.current() }

// SetDraft records text typed into field's input.
func (p *RangePicker) SetDraft(f Field, text string) { p.input(f).setDraft(text) }

// SetRangeDraft records text typed into the combined input.
func (p *RangePicker) SetRangeDraft(text string) { p.combined.setDraft(text) }

// Editing reports whether field's input holds a draft.
func (p *RangePicker) Editing(f Field) bool { return p.input(f).mode == Editing }

// CancelEdit drops the drafts of every input.
func (p *RangePicker) CancelEdit() {
	p.start.end()
	p.end.end()
	p.combined.end()
}

func takeText(s *textState) string {
	if s.mode == Editing {
		return strings.TrimSpace(s.end())
	}
	return strings.TrimSpace(s.text)
}

// CommitFieldText parses field's input into that end. Empty text clears the
// end; invalid or out-of-bounds text is ignored and the input reverts.
func (p *RangePicker) CommitFieldText(f Field) bool {
	text := takeText(p.input(f))
	if p.opts.Disabled {
		p.syncText()
		return false
	}

	var day time.Time
	if text != "" {
		t, ok := p.cal.ParseJalaliText(text)
		if !ok || !validDay(t, &p.opts) {
			p.log.Debug(config.MsgParseRejected, config.LogKeyText, text)
			p.syncText()
			return false
		}
		day = t
	}

	next := p.sel.Range
	if f == FieldEnd {
		next.End = day
	} else {
		next.Start = day
	}
	p.commit(calendar.NormalizeRange(next))
	return true
}

// CommitRangeText parses up to two dates from the combined input. Empty text
// clears the range.
func (p *RangePicker) CommitRangeText() bool {
	text := takeText(&p.combined)
	if p.opts.Disabled {
		p.syncText()
		return false
	}
	if text == "" {
		p.commit(calendar.DateRange{})
		return true
	}

	r, ok := p.cal.ParseRangeText(text)
	if !ok || !validDay(r.Start, &p.opts) || (!r.End.IsZero() && !validDay(r.End, &p.opts)) {
		p.log.Debug(config.MsgParseRejected, config.LogKeyText, text)
		p.syncText()
		return false
	}
	p.commit(r)
	p.nav.Reset(p.anchor())
	return true
}

// HandleKey applies a calendar keyboard command and reports whether it was used.
func (p *RangePicker) HandleKey(k Key) bool {
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

// Preview returns the range to highlight: the hover preview while only the
// start is set, else the committed range.
func (p *RangePicker) Preview() (calendar.DateRange, bool) {
	return p.sel.Preview(p.hover)
}

// DayStates returns the render flags of the visible grid, hover preview included.
func (p *RangePicker) DayStates() ([]DayState, error) {
	states, err := baseStates(p.nav, &p.opts)
	if err != nil {
		return nil, err
	}

	r := p.sel.Range
	shown, previewing := p.Preview()

	for i := range states {
		d := states[i].Cell.Gregorian
		if !r.Start.IsZero() && calendar.IsSameDay(d, r.Start) {
			states[i].RangeStart = true
		}
		if !r.End.IsZero() && calendar.IsSameDay(d, r.End) {
			states[i].RangeEnd = true
		}
		switch {
		case states[i].RangeStart || states[i].RangeEnd:
		case (r.IsComplete() || previewing) && calendar.IsBetweenInclusive(d, shown.Start, shown.End):
			states[i].InRange = true
		}
		states[i].Selected = states[i].RangeStart || states[i].RangeEnd
	}
	return states, nil
}
